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

package node

import (
	"uavnetsim/core"
	"uavnetsim/engine"
	"uavnetsim/metrics"
)

// generatorLoop emits one data packet at a time, Poisson-spaced at the
// configured per-node rate, to a random in-swarm destination. It idles
// (neither drawing nor enqueueing) while the node is asleep.
func (n *Node) generatorLoop() {
	if n.cfg.PacketGenerationRate <= 0 {
		return
	}
	meanInterval := 1.0 / n.cfg.PacketGenerationRate // seconds
	for {
		interval := n.rng.ExpFloat64() * meanInterval
		n.sched.After(engine.Duration(interval * float64(engine.Second)))
		if n.asleep {
			continue
		}
		dst := n.destination(n.ID)
		if dst == n.ID || !dst.Valid() {
			continue
		}
		pkt := core.NewDataPacket(n.nextPacketID(), n.ID, dst, n.sched.Now(), n.cfg.AveragePayloadLength)
		n.metrics.Generated()
		n.enqueue(pkt)
	}
}

// enqueue appends pkt to the bounded transmit queue, dropping it on
// overflow, and wakes the dispatcher.
func (n *Node) enqueue(pkt *core.Packet) {
	if len(n.queue) >= n.cfg.MaxQueueSize {
		n.metrics.Dropped(metrics.DropQueue)
		n.emit.Notify(&core.Event{Type: core.EvQueueDrop, Node: n.ID})
		return
	}
	n.queue = append(n.queue, pkt)
	n.sched.Fire(n.doorbell)
}

// dispatchLoop pops one packet at a time and hands it to the transmit
// path, resolving or requesting a route as needed. It processes the
// queue strictly in order: a packet's transmission (including MAC
// retry/backoff) completes before the next one is attempted. It idles
// while the node is asleep.
func (n *Node) dispatchLoop() {
	for {
		for len(n.queue) == 0 || n.asleep {
			n.sched.Wait(n.doorbell)
		}
		pkt := n.queue[0]
		n.queue = n.queue[1:]
		n.transmit(pkt)
	}
}

// transmit resolves pkt's next hop and either sends it now or buffers
// it behind a fresh route discovery.
func (n *Node) transmit(pkt *core.Packet) {
	if pkt.TTL <= 0 {
		n.metrics.Dropped(metrics.DropTTL)
		n.emit.Notify(&core.Event{Type: core.EvTTLDrop, Node: n.ID})
		return
	}
	if nextHop, ok := n.Router.ResolveNextHop(pkt.Dst); ok {
		pkt.NextHop = nextHop
		pkt.Retries = 0
		n.mac.SendUnicast(n.sched, n.ID, nextHop, pkt, n.deliver, n.onLinkBreak)
		return
	}
	n.Router.RequestRoute(pkt.Dst, pkt)
}
