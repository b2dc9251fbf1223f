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

// Package mac arbitrates access to the shared channel. The closed
// variant set is CsmaCa and PureAloha; both hand a frame to phy once
// they have the channel token and both await an acknowledgment and
// retry unicast frames; CsmaCa additionally senses the channel and
// manages backoff and contention-window state.
package mac

import (
	"math/rand"

	"uavnetsim/core"
	"uavnetsim/energy"
	"uavnetsim/engine"
	"uavnetsim/phy"
	"uavnetsim/world"
)

// State is a node's current MAC activity, surfaced to the energy model.
type State int

const (
	StateIdle State = iota
	StateSense
	StateBackoff
	StateTx
	StateAwaitAck
)

// LinkBreak reports that transmission to NextHop failed permanently
// (retry budget exhausted), carrying the packet that triggered it so
// routing can invalidate entries and emit a RERR.
type LinkBreak struct {
	NextHop core.NodeID
	Packet  *core.Packet
}

// Variant is the common contention-and-transmit operation every MAC
// protocol in the closed variant set implements.
type Variant interface {
	// SendUnicast attempts delivery to nextHop, including ACK/retry
	// handling where the variant defines one. deliver is invoked by phy
	// for the receiver's benefit; onBreak fires once if the frame is
	// ultimately undeliverable.
	SendUnicast(s *engine.Scheduler, self, nextHop core.NodeID, pkt *core.Packet, deliver phy.Deliver, onBreak func(LinkBreak))
	// SendBroadcast transmits a one-hop broadcast frame with no ACK or
	// retry (beacons, RREQ, RERR).
	SendBroadcast(s *engine.Scheduler, self core.NodeID, pkt *core.Packet, deliver phy.Deliver)
	// NotifyAck must be called by the node's receive path when an ACK
	// packet for ackedID arrives, to resume a blocked AwaitAck sender.
	NotifyAck(ackedID uint64)
}

// shared holds the fields every MAC variant needs: the physical medium,
// energy accounting hook, RNG, and collision counter.
type shared struct {
	Channel    *world.Channel
	Medium     *phy.Medium
	Tracker    *energy.Tracker
	RNG        *rand.Rand
	OnCollision func()
}

func (sh *shared) setState(s State) {
	if sh.Tracker == nil {
		return
	}
	switch s {
	case StateTx:
		sh.Tracker.SetState(energy.Tx)
	case StateAwaitAck:
		sh.Tracker.SetState(energy.Rx)
	default:
		sh.Tracker.SetState(energy.Idle)
	}
}

// acquireToken grabs sh.Channel.Token, reporting a collision if another
// holder had it at the moment of the call (i.e. this acquisition had to
// queue).
func (sh *shared) acquireToken(s *engine.Scheduler) {
	contended := sh.Channel.Token.Held()
	s.Acquire(sh.Channel.Token)
	if contended && sh.OnCollision != nil {
		sh.OnCollision()
	}
}
