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

package mac

import (
	"uavnetsim/config"
	"uavnetsim/core"
	"uavnetsim/energy"
	"uavnetsim/engine"
	"uavnetsim/phy"
	"uavnetsim/world"
)

// PureAloha transmits as soon as a frame is ready, with no carrier
// sense and no backoff: every acquisition of the channel token that
// finds it already held is reported as a collision instead of silently
// queuing behind contention.
type PureAloha struct {
	shared
	cfg        *config.Config
	sched      *engine.Scheduler
	ackWaiters map[uint64]*engine.Event
}

// NewPureAloha builds a PureAloha MAC instance.
func NewPureAloha(cfg *config.Config, sched *engine.Scheduler, ch *world.Channel, med *phy.Medium, tr *energy.Tracker, onCollision func()) *PureAloha {
	return &PureAloha{
		shared:     shared{Channel: ch, Medium: med, Tracker: tr, RNG: med.RNG, OnCollision: onCollision},
		cfg:        cfg,
		sched:      sched,
		ackWaiters: make(map[uint64]*engine.Event),
	}
}

func (m *PureAloha) ackTimeout(pkt *core.Packet) engine.Duration {
	return phy.TransmissionTime(pkt.PayloadBits) + engine.Duration(m.cfg.AckTimeoutExtra)*engine.Microsecond
}

func (m *PureAloha) SendBroadcast(s *engine.Scheduler, self core.NodeID, pkt *core.Packet, deliver phy.Deliver) {
	m.acquireToken(s)
	m.setState(StateTx)
	pkt.LastHop = self
	m.Medium.Broadcast(s, self, pkt, deliver)
	s.After(phy.TransmissionTime(pkt.PayloadBits))
	s.Release(m.Channel.Token)
	m.setState(StateIdle)
}

func (m *PureAloha) SendUnicast(s *engine.Scheduler, self, nextHop core.NodeID, pkt *core.Packet, deliver phy.Deliver, onBreak func(LinkBreak)) {
	for {
		m.acquireToken(s)
		m.setState(StateTx)

		ackEv := engine.NewEvent()
		m.ackWaiters[pkt.ID] = ackEv
		pkt.LastHop = self
		m.Medium.Unicast(s, self, nextHop, pkt, deliver)
		s.After(phy.TransmissionTime(pkt.PayloadBits))
		s.Release(m.Channel.Token)

		m.setState(StateAwaitAck)
		never := engine.NewEvent()
		branch := s.Select(ackEv, never, m.ackTimeout(pkt))
		delete(m.ackWaiters, pkt.ID)
		m.setState(StateIdle)

		if branch == engine.BranchA {
			pkt.Retries = 0
			return
		}

		pkt.Retries++
		if pkt.Retries > m.cfg.MaxRetransmissionAttempt {
			if onBreak != nil {
				onBreak(LinkBreak{NextHop: nextHop, Packet: pkt})
			}
			return
		}
	}
}

func (m *PureAloha) NotifyAck(ackedID uint64) {
	if ev, ok := m.ackWaiters[ackedID]; ok {
		m.sched.Fire(ev)
	}
}
