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

// CsmaCa implements the carrier-sense multiple access with collision
// avoidance state machine: IDLE -> SENSE -> BACKOFF -> TX -> AWAIT_ACK
// -> {IDLE | RETRY}.
type CsmaCa struct {
	shared
	cfg   *config.Config
	sched *engine.Scheduler
	cw    int // current contention window, reset to CWMin on success

	ackWaiters map[uint64]*engine.Event
}

// NewCsmaCa builds a CSMA/CA MAC instance bound to ch/med/tr, driven by
// sched (the simulation's one scheduler, shared by every node).
func NewCsmaCa(cfg *config.Config, sched *engine.Scheduler, ch *world.Channel, med *phy.Medium, tr *energy.Tracker, onCollision func()) *CsmaCa {
	return &CsmaCa{
		shared:     shared{Channel: ch, Medium: med, Tracker: tr, RNG: med.RNG, OnCollision: onCollision},
		cfg:        cfg,
		sched:      sched,
		cw:         cfg.CWMin,
		ackWaiters: make(map[uint64]*engine.Event),
	}
}

func (m *CsmaCa) slot() engine.Duration  { return engine.Duration(m.cfg.SlotDuration) * engine.Microsecond }
func (m *CsmaCa) sifs() engine.Duration  { return engine.Duration(m.cfg.SIFSDuration) * engine.Microsecond }
func (m *CsmaCa) difs() engine.Duration  { return engine.Duration(m.cfg.DIFSDuration) * engine.Microsecond }

// senseIdleForDIFS blocks, in whole-slot polling steps, until the
// channel has been observed idle for a full DIFS window.
func (m *CsmaCa) senseIdleForDIFS(s *engine.Scheduler) {
	difsSlots := int(m.difs() / m.slot())
	if difsSlots < 1 {
		difsSlots = 1
	}
	idle := 0
	for idle < difsSlots {
		if m.Channel.Token.Held() {
			idle = 0
		} else {
			idle++
		}
		s.After(m.slot())
	}
}

// backoff counts down a uniform [0, cw] number of slots, freezing and
// re-sensing DIFS whenever the channel is busy at a slot boundary.
func (m *CsmaCa) backoff(s *engine.Scheduler) {
	remaining := m.RNG.Intn(m.cw + 1)
	for remaining > 0 {
		if m.Channel.Token.Held() {
			m.senseIdleForDIFS(s)
			continue
		}
		s.After(m.slot())
		remaining--
	}
}

func (m *CsmaCa) ackTimeout(pkt *core.Packet) engine.Duration {
	return phy.TransmissionTime(pkt.PayloadBits) + m.sifs() + engine.Duration(m.cfg.AckTimeoutExtra)*engine.Microsecond
}

// contend runs carrier-sense, backoff and token acquisition, common to
// every frame this MAC sends.
func (m *CsmaCa) contend(s *engine.Scheduler) {
	m.setState(StateSense)
	m.senseIdleForDIFS(s)
	m.setState(StateBackoff)
	m.backoff(s)
	m.acquireToken(s)
}

func (m *CsmaCa) SendBroadcast(s *engine.Scheduler, self core.NodeID, pkt *core.Packet, deliver phy.Deliver) {
	m.contend(s)
	m.setState(StateTx)
	pkt.LastHop = self
	m.Medium.Broadcast(s, self, pkt, deliver)
	s.After(phy.TransmissionTime(pkt.PayloadBits))
	s.Release(m.Channel.Token)
	m.setState(StateIdle)
}

func (m *CsmaCa) SendUnicast(s *engine.Scheduler, self, nextHop core.NodeID, pkt *core.Packet, deliver phy.Deliver, onBreak func(LinkBreak)) {
	for {
		m.contend(s)
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
			m.cw = m.cfg.CWMin
			pkt.Retries = 0
			return
		}

		pkt.Retries++
		if m.cw*2+1 <= m.cfg.CWMax {
			m.cw = m.cw*2 + 1
		} else {
			m.cw = m.cfg.CWMax
		}
		if pkt.Retries > m.cfg.MaxRetransmissionAttempt {
			if onBreak != nil {
				onBreak(LinkBreak{NextHop: nextHop, Packet: pkt})
			}
			return
		}
	}
}

// NotifyAck resumes the sender blocked in AWAIT_ACK for ackedID, if
// any. The sender itself deletes its waiter-map entry once Select
// resumes; a late or duplicate ACK for an id no longer waited on is
// simply ignored.
func (m *CsmaCa) NotifyAck(ackedID uint64) {
	if ev, ok := m.ackWaiters[ackedID]; ok {
		m.sched.Fire(ev)
	}
}
