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

// Package sim wires world, node, metrics and config together into a
// runnable scenario: it owns the single scheduler, the shared registry
// and channel, and every node, and drives virtual time forward.
package sim

import (
	"math/rand"

	"github.com/prometheus/client_golang/prometheus"

	"uavnetsim/config"
	"uavnetsim/core"
	"uavnetsim/engine"
	"uavnetsim/metrics"
	"uavnetsim/mobility"
	"uavnetsim/node"
	"uavnetsim/phy"
	"uavnetsim/world"
)

// Simulator is one complete, runnable scenario.
type Simulator struct {
	cfg   *config.Config
	sched *engine.Scheduler

	Registry *world.Registry
	Channel  *world.Channel
	Medium   *phy.Medium
	Metrics  *metrics.Collector

	Nodes []*node.Node

	nextPacketID uint64
	emit         core.Listener
}

// New builds every node of cfg's scenario, places them via the
// configured mobility variant, and wires their mutual delivery path.
// Only each node's mobility process is spawned here; call Start to
// spawn the other node processes, then Run to drive the scenario.
func New(cfg *config.Config, reg prometheus.Registerer, emit core.Listener) *Simulator {
	sched := engine.NewScheduler()
	box := world.Box{Length: cfg.MapLength, Width: cfg.MapWidth, Height: cfg.MapHeight}
	registry := world.NewRegistry(cfg.NumberOfDrones, box)
	channel := world.NewChannel(cfg)
	topRNG := rand.New(rand.NewSource(cfg.Seed))
	medium := phy.NewMedium(channel, registry, rand.New(rand.NewSource(cfg.Seed+1)))
	mc := metrics.New(reg)

	s := &Simulator{
		cfg:      cfg,
		sched:    sched,
		Registry: registry,
		Channel:  channel,
		Medium:   medium,
		Metrics:  mc,
		emit:     emit,
	}

	destination := func(self core.NodeID) core.NodeID {
		n := cfg.NumberOfDrones
		if n < 2 {
			return core.None
		}
		d := core.NodeID(topRNG.Intn(n - 1))
		if d >= self {
			d++
		}
		return d
	}

	s.Nodes = make([]*node.Node, cfg.NumberOfDrones)
	for i := 0; i < cfg.NumberOfDrones; i++ {
		id := core.NodeID(i)
		nodeRNG := rand.New(rand.NewSource(cfg.Seed + 1000 + int64(i)))
		s.Nodes[i] = node.New(cfg, id, sched, registry, channel, medium, mc, emit, nodeRNG,
			s.nextID, destination, s.initialMobility(id, nodeRNG))
	}

	deliver := func(receiver core.NodeID, pkt *core.Packet, ok bool) {
		s.Nodes[receiver].Receive(pkt, ok)
	}
	for _, n := range s.Nodes {
		n.SetDeliver(deliver)
	}
	return s
}

func (s *Simulator) nextID() uint64 {
	s.nextPacketID++
	return s.nextPacketID
}

// initialMobility builds the mobility model for id per cfg's configured
// variant, consistent with MobilityVariant's closed set.
func (s *Simulator) initialMobility(id core.NodeID, rng *rand.Rand) mobility.Model {
	return s.mobilityFor(s.cfg.MobilityVariant, id, rng)
}

func (s *Simulator) mobilityFor(variant string, id core.NodeID, rng *rand.Rand) mobility.Model {
	switch variant {
	case "leader_follower":
		if id == 0 {
			return mobility.RandomWaypoint3D{Speed: s.cfg.DefaultSpeed}
		}
		return mobility.LeaderFollower{
			Leader: core.NodeID(0),
			Offset: world.Position{X: float64(id) * 20, Y: 0, Z: 0},
			Speed:  s.cfg.DefaultSpeed,
		}
	case "gauss_markov":
		return &mobility.GaussMarkov3D{MeanSpeed: s.cfg.DefaultSpeed, Alpha: 0.75}
	default:
		return mobility.RandomWaypoint3D{Speed: s.cfg.DefaultSpeed}
	}
}

// Start spawns every node's long-lived processes. Call once, before Run.
func (s *Simulator) Start() {
	for _, n := range s.Nodes {
		n.Start()
	}
}

// Run drives the scenario forward to until (virtual time since start).
func (s *Simulator) Run(until engine.Time) {
	s.sched.Run(until)
}

// Scheduler exposes the scenario's scheduler, e.g. for InjectExternal
// commands from the visualizer.
func (s *Simulator) Scheduler() *engine.Scheduler { return s.sched }

// SwapFormation replaces every node's mobility model with variant,
// mid-run, at the scheduler's current instant.
func (s *Simulator) SwapFormation(variant string) {
	for _, n := range s.Nodes {
		model := s.mobilityFor(variant, n.ID, rand.New(rand.NewSource(s.cfg.Seed+2000+int64(n.ID))))
		n.Mobility.Swap(model)
	}
	s.emit.Notify(&core.Event{Type: core.EvFormationChange, Node: core.None, Val: variant})
}
