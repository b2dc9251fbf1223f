//----------------------------------------------------------------------
// This file is part of uavnetsim.
// Copyright (C) 2022 Bernd Fix >Y<
//
// uavnetsim is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// uavnetsim is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

// Package node is the drone itself: it composes mobility, energy, phy,
// mac and routing into one simulated network participant, running its
// traffic generator, transmit dispatcher and receive handler as
// long-lived scheduler processes.
package node

import (
	"math/rand"

	"uavnetsim/config"
	"uavnetsim/core"
	"uavnetsim/energy"
	"uavnetsim/engine"
	"uavnetsim/mac"
	"uavnetsim/metrics"
	"uavnetsim/mobility"
	"uavnetsim/phy"
	"uavnetsim/routing"
	"uavnetsim/world"
)

// Node is one simulated drone. It is built by the orchestrator (package
// sim), which owns the shared Registry, Channel, Medium, metrics
// collector and packet-ID counter every node draws on.
type Node struct {
	ID    core.NodeID
	cfg   *config.Config
	sched *engine.Scheduler

	Registry *world.Registry
	Channel  *world.Channel
	Medium   *phy.Medium
	Tracker  *energy.Tracker
	Router   *routing.Router
	Mobility *mobility.Controller

	mac     mac.Variant
	metrics *metrics.Collector
	emit    core.Listener
	rng     *rand.Rand

	nextPacketID func() uint64
	destination  func(self core.NodeID) core.NodeID

	queue    []*core.Packet
	doorbell *engine.Event
	deliver  phy.Deliver

	asleep bool
}

// New builds a node but does not start its processes; call Start once
// the simulator has bound every node's deliver callback via SetDeliver.
func New(
	cfg *config.Config,
	id core.NodeID,
	sched *engine.Scheduler,
	reg *world.Registry,
	ch *world.Channel,
	med *phy.Medium,
	mc *metrics.Collector,
	emit core.Listener,
	rng *rand.Rand,
	nextPacketID func() uint64,
	destination func(self core.NodeID) core.NodeID,
	initialMobility mobility.Model,
) *Node {
	n := &Node{
		ID:           id,
		cfg:          cfg,
		sched:        sched,
		Registry:     reg,
		Channel:      ch,
		Medium:       med,
		Tracker:      energy.NewTracker(cfg),
		metrics:      mc,
		emit:         emit,
		rng:          rng,
		nextPacketID: nextPacketID,
		destination:  destination,
		doorbell:     engine.NewEvent(),
	}

	onCollision := func() {
		mc.Collision()
		emit.Notify(&core.Event{Type: core.EvCollision, Node: id})
	}
	switch cfg.MACVariant {
	case "pure_aloha":
		n.mac = mac.NewPureAloha(cfg, sched, ch, med, n.Tracker, onCollision)
	default:
		n.mac = mac.NewCsmaCa(cfg, sched, ch, med, n.Tracker, onCollision)
	}

	n.Router = routing.New(cfg, id, sched, &transport{n: n}, emit, nextPacketID)
	n.Mobility = mobility.NewController(sched, reg, id, rng, initialMobility)
	return n
}

// Deliver is the callback phy hands to mac; the simulator wires it to
// look up the receiving node and call its Receive method, so it cannot
// be supplied until every node exists. SetDeliver must be called once,
// before Start.
func (n *Node) SetDeliver(d phy.Deliver) { n.deliver = d }

// Start spawns every long-lived process this node runs: routing's
// beacon/sweep/dedup loops, the energy monitor, the traffic generator
// and the transmit dispatcher.
func (n *Node) Start() {
	n.sched.Spawn(0, n.Router.BeaconLoop)
	n.sched.Spawn(0, n.Router.RouteSweepLoop)
	n.sched.Spawn(0, n.Router.DedupResetLoop)
	n.sched.Spawn(0, func() {
		(&energy.Monitor{
			Sched:   n.sched,
			Tracker: n.Tracker,
			Speed:   func() float64 { return n.Registry.Speed(n.ID) },
			OnSleep: n.onSleep,
		}).Run()
	})
	n.sched.Spawn(0, n.generatorLoop)
	n.sched.Spawn(0, n.dispatchLoop)
}

func (n *Node) onSleep() {
	n.asleep = true
	n.emit.Notify(&core.Event{Type: core.EvNodeSleep, Node: n.ID})
}

// transport adapts a Node to routing.Transport, counting every control
// packet it hands to mac.
type transport struct{ n *Node }

func (t *transport) Broadcast(pkt *core.Packet) {
	if pkt.Kind != core.KindData {
		t.n.metrics.ControlSent()
	}
	t.n.mac.SendBroadcast(t.n.sched, t.n.ID, pkt, t.n.deliver)
}

func (t *transport) Unicast(nextHop core.NodeID, pkt *core.Packet) {
	if pkt.Kind != core.KindData {
		t.n.metrics.ControlSent()
	}
	t.n.mac.SendUnicast(t.n.sched, t.n.ID, nextHop, pkt, t.n.deliver, t.n.onLinkBreak)
}

func (n *Node) onLinkBreak(b mac.LinkBreak) {
	if b.Packet.Kind == core.KindData {
		n.metrics.Dropped(metrics.DropRetry)
		n.emit.Notify(&core.Event{Type: core.EvRetryDrop, Node: n.ID, Ref: b.NextHop})
	}
	n.Router.ReportLinkBreak(b.NextHop, b.Packet)
}
