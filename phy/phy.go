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

// Package phy delivers packets between nodes: it schedules delivery
// events after propagation and transmission delay, and applies the
// channel's loss model. Delivery failure is silent here; reliability
// is the MAC's job via ACKs.
package phy

import (
	"math/rand"

	"uavnetsim/core"
	"uavnetsim/engine"
	"uavnetsim/world"
)

// BitRate is the link's nominal payload bit rate, used to turn a
// packet's payload length into an airtime duration.
const BitRate = 1e6 // bits/s

// PropagationDelay returns the time light takes to cross d metres.
func PropagationDelay(d float64) engine.Duration {
	seconds := d / world.SpeedOfLight
	return engine.Duration(seconds * float64(engine.Second))
}

// TransmissionTime returns the airtime a frame of payloadBits occupies
// the channel for.
func TransmissionTime(payloadBits int) engine.Duration {
	if payloadBits <= 0 {
		return 0
	}
	seconds := float64(payloadBits) / BitRate
	return engine.Duration(seconds * float64(engine.Second))
}

// Medium delivers frames across the shared channel. The channel's
// single exclusive token (held by MAC for the whole frame) means at
// most one MAC-contended transmission is in flight (ACKs are handed to
// the medium without the token); interference power is always passed
// as zero here, and capture and half-duplex effects are left to MAC.
type Medium struct {
	Channel  *world.Channel
	Registry *world.Registry
	RNG      *rand.Rand
}

// NewMedium builds a medium over ch and reg, drawing loss decisions
// from rng.
func NewMedium(ch *world.Channel, reg *world.Registry, rng *rand.Rand) *Medium {
	return &Medium{Channel: ch, Registry: reg, RNG: rng}
}

// Deliver is invoked once per intended receiver, after the computed
// delay, with ok reporting whether the frame survived the channel.
type Deliver func(receiver core.NodeID, pkt *core.Packet, ok bool)

// Broadcast schedules a delivery event for every node within range of
// sender's current position (sender itself excluded).
func (m *Medium) Broadcast(s *engine.Scheduler, sender core.NodeID, pkt *core.Packet, deliver Deliver) {
	pos := m.Registry.Position(sender)
	txTime := TransmissionTime(pkt.PayloadBits)

	for i := 0; i < m.Registry.Count(); i++ {
		recv := core.NodeID(i)
		if recv == sender {
			continue
		}
		d := pos.Distance(m.Registry.Position(recv))
		if !m.Channel.InRange(d) {
			continue
		}
		delay := PropagationDelay(d) + txTime
		ok := !m.Channel.Lossy(m.RNG, d, 0)
		s.Spawn(delay, func() {
			deliver(recv, pkt, ok)
		})
	}
}

// Unicast schedules a single targeted delivery event to nextHop.
func (m *Medium) Unicast(s *engine.Scheduler, sender, nextHop core.NodeID, pkt *core.Packet, deliver Deliver) {
	d := m.Registry.Position(sender).Distance(m.Registry.Position(nextHop))
	delay := PropagationDelay(d) + TransmissionTime(pkt.PayloadBits)
	ok := !m.Channel.Lossy(m.RNG, d, 0)
	s.Spawn(delay, func() {
		deliver(nextHop, pkt, ok)
	})
}
