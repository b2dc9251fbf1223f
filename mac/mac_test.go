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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uavnetsim/config"
	"uavnetsim/core"
	"uavnetsim/energy"
	"uavnetsim/engine"
	"uavnetsim/phy"
	"uavnetsim/world"
)

func setupTwoNodes(t *testing.T, cfg *config.Config) (*engine.Scheduler, *world.Channel, *phy.Medium, *world.Registry) {
	t.Helper()
	s := engine.NewScheduler()
	box := world.Box{Length: 100, Width: 100, Height: 50}
	reg := world.NewRegistry(2, box)
	reg.SetPosition(0, world.Position{})
	reg.SetPosition(1, world.Position{X: 10})
	ch := world.NewChannel(cfg)
	rng := rand.New(rand.NewSource(42))
	med := phy.NewMedium(ch, reg, rng)
	return s, ch, med, reg
}

func TestCsmaCaUnicastSucceedsWithImmediateAck(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataLossProbability = 0
	s, ch, med, _ := setupTwoNodes(t, cfg)
	tr := energy.NewTracker(cfg)
	m := NewCsmaCa(cfg, s, ch, med, tr, nil)

	pkt := core.NewDataPacket(1, core.NodeID(0), core.NodeID(1), 0, 1000)
	var broke bool
	var delivered bool

	s.Spawn(0, func() {
		m.SendUnicast(s, core.NodeID(0), core.NodeID(1), pkt, func(recv core.NodeID, p *core.Packet, ok bool) {
			delivered = ok
			if ok {
				// the ACK arrives as its own event at the same instant, as node.sendAck's does
				s.Spawn(0, func() { m.NotifyAck(p.ID) })
			}
		}, func(LinkBreak) { broke = true })
	})
	s.Run(10 * engine.Second)

	assert.True(t, delivered)
	assert.False(t, broke)
	assert.Equal(t, cfg.CWMin, m.cw)
}

func TestCsmaCaRetryExhaustionReportsLinkBreak(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataLossProbability = 1.0 // force every delivery to fail
	s, ch, med, _ := setupTwoNodes(t, cfg)
	tr := energy.NewTracker(cfg)
	m := NewCsmaCa(cfg, s, ch, med, tr, nil)

	pkt := core.NewDataPacket(1, core.NodeID(0), core.NodeID(1), 0, 1000)
	var brk LinkBreak
	var broke bool

	s.Spawn(0, func() {
		m.SendUnicast(s, core.NodeID(0), core.NodeID(1), pkt, func(core.NodeID, *core.Packet, bool) {}, func(lb LinkBreak) {
			broke = true
			brk = lb
		})
	})
	s.Run(60 * engine.Second)

	require.True(t, broke)
	assert.Equal(t, cfg.MaxRetransmissionAttempt+1, pkt.Retries)
	assert.Equal(t, core.NodeID(1), brk.NextHop)
}

func TestTokenReleasedAfterTwoSimultaneousSenders(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataLossProbability = 0
	s, ch, med, _ := setupTwoNodes(t, cfg)
	tr0 := energy.NewTracker(cfg)
	tr1 := energy.NewTracker(cfg)
	m0 := NewCsmaCa(cfg, s, ch, med, tr0, nil)
	m1 := NewCsmaCa(cfg, s, ch, med, tr1, nil)

	wrap := func(m *CsmaCa, self, dst core.NodeID, id uint64) func() {
		return func() {
			pkt := core.NewDataPacket(id, self, dst, 0, 500)
			m.SendUnicast(s, self, dst, pkt, func(core.NodeID, *core.Packet, bool) {}, func(LinkBreak) {})
		}
	}

	s.Spawn(0, wrap(m0, core.NodeID(0), core.NodeID(1), 1))
	s.Spawn(0, wrap(m1, core.NodeID(1), core.NodeID(0), 2))
	s.Run(30 * engine.Second)

	assert.False(t, ch.Token.Held(), "token must be released by end of run")
}
