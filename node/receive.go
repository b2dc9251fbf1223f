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
	"uavnetsim/metrics"
)

// Receive is this node's entire inbound path, invoked by the network's
// shared deliver closure once per frame addressed to or overheard by
// this node. ok reports whether the frame survived the channel.
func (n *Node) Receive(pkt *core.Packet, ok bool) {
	if !ok {
		n.metrics.Dropped(metrics.DropChannel)
		n.emit.Notify(&core.Event{Type: core.EvChannelDrop, Node: n.ID, Ref: pkt.LastHop})
		return
	}

	// Receive-side bookkeeping (neighbor/route state, ACKs) runs even
	// while asleep; only generatorLoop and dispatchLoop idle (see
	// node/traffic.go). Beacons, ACKs, routing control packets and
	// buffered packets drained by routing are still transmitted.
	switch pkt.Kind {
	case core.KindHello:
		n.Router.HandleHello(pkt.LastHop)

	case core.KindRREQ:
		n.Router.HandleHello(pkt.LastHop) // any frame overheard counts as a beacon
		n.Router.HandleRREQ(pkt.LastHop, pkt.RREQ)

	case core.KindRREP:
		n.Router.HandleHello(pkt.LastHop)
		n.sendAck(pkt.LastHop, pkt.ID) // RREP is unicast at the MAC layer and expects one
		n.Router.HandleRREP(pkt.LastHop, pkt.RREP)

	case core.KindRERR:
		n.Router.HandleHello(pkt.LastHop)
		n.Router.HandleRERR(pkt.LastHop, pkt.RERR)

	case core.KindACK:
		n.mac.NotifyAck(pkt.ACK.AckedID)

	case core.KindData:
		n.Router.HandleHello(pkt.LastHop)
		n.receiveData(pkt)
	}
}

func (n *Node) receiveData(pkt *core.Packet) {
	n.sendAck(pkt.LastHop, pkt.ID)

	if pkt.Dst == n.ID {
		n.metrics.Delivered(n.sched.Now(), pkt.Created, pkt.PayloadBits)
		n.emit.Notify(&core.Event{Type: core.EvDelivered, Node: n.ID, Ref: pkt.Src})
		return
	}

	pkt.TTL--
	if pkt.TTL <= 0 {
		n.metrics.Dropped(metrics.DropTTL)
		n.emit.Notify(&core.Event{Type: core.EvTTLDrop, Node: n.ID})
		return
	}
	n.enqueue(pkt)
}

// sendAck replies to a successfully received unicast frame. Real 802.11
// answers within a SIFS with no contention; this model reproduces that
// by handing the ACK straight to the medium, bypassing MAC contention.
func (n *Node) sendAck(to core.NodeID, ackedID uint64) {
	ack := &core.Packet{
		ID:      n.nextPacketID(),
		Kind:    core.KindACK,
		Src:     n.ID,
		Dst:     to,
		Created: n.sched.Now(),
		TTL:     1,
		NextHop: to,
		LastHop: n.ID,
		ACK:     &core.ACKPayload{AckedID: ackedID},
	}
	n.Medium.Unicast(n.sched, n.ID, to, ack, n.deliver)
}
