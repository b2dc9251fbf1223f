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

package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uavnetsim/config"
	"uavnetsim/core"
	"uavnetsim/engine"
)

type fakeTransport struct {
	broadcasts []*core.Packet
	unicasts   []*core.Packet
}

func (f *fakeTransport) Broadcast(pkt *core.Packet) { f.broadcasts = append(f.broadcasts, pkt) }
func (f *fakeTransport) Unicast(_ core.NodeID, pkt *core.Packet) {
	f.unicasts = append(f.unicasts, pkt)
}

func newTestRouter(cfg *config.Config, self core.NodeID, s *engine.Scheduler) (*Router, *fakeTransport) {
	tr := &fakeTransport{}
	var id uint64
	r := New(cfg, self, s, tr, nil, func() uint64 { id++; return id })
	return r, tr
}

func TestRouteTableFreshnessRule(t *testing.T) {
	now := engine.Time(0)
	tbl := NewTable()
	require.True(t, tbl.Offer(core.NodeID(5), core.NodeID(1), 3, 2, now, 3*engine.Second))
	// lower seq must not replace
	assert.False(t, tbl.Offer(core.NodeID(5), core.NodeID(2), 2, 1, now, 3*engine.Second))
	// equal seq, higher hop count must not replace
	assert.False(t, tbl.Offer(core.NodeID(5), core.NodeID(2), 3, 5, now, 3*engine.Second))
	// equal seq, lower hop count replaces
	assert.True(t, tbl.Offer(core.NodeID(5), core.NodeID(2), 3, 1, now, 3*engine.Second))
	// strictly higher seq always replaces
	assert.True(t, tbl.Offer(core.NodeID(5), core.NodeID(3), 4, 9, now, 3*engine.Second))
}

func TestRouteEntryExpiresAndIsNotUsable(t *testing.T) {
	tbl := NewTable()
	tbl.Offer(core.NodeID(1), core.NodeID(2), 1, 1, engine.Time(0), 1*engine.Second)
	_, valid := tbl.Lookup(core.NodeID(1), engine.Time(0))
	assert.True(t, valid)
	_, valid = tbl.Lookup(core.NodeID(1), engine.Time(2*int64(engine.Second)))
	assert.False(t, valid)
}

func TestDedupSuppressesRepeatedRREQ(t *testing.T) {
	d := NewDedup(16)
	assert.False(t, d.SeenOrMark(core.NodeID(1), 42))
	assert.True(t, d.SeenOrMark(core.NodeID(1), 42))
	assert.False(t, d.SeenOrMark(core.NodeID(1), 43))
	assert.False(t, d.SeenOrMark(core.NodeID(2), 42))
}

func TestOwnSequenceNumberIsMonotonic(t *testing.T) {
	s := engine.NewScheduler()
	cfg := config.DefaultConfig()
	r, _ := newTestRouter(cfg, core.NodeID(0), s)

	r.RequestRoute(core.NodeID(9), core.NewDataPacket(1, 0, 9, 0, 100))
	first := r.OwnSeq()
	r.HandleRREQ(core.NodeID(2), &core.RREQPayload{Originator: core.NodeID(3), Destination: core.NodeID(0), BroadcastID: 1, OriginSeq: 1, HopCount: 0})
	// replying as destination bumps our own seq again
	second := r.OwnSeq()
	assert.Greater(t, second, first)
}

func TestRREQDuplicateIsForwardedAtMostOnce(t *testing.T) {
	s := engine.NewScheduler()
	cfg := config.DefaultConfig()
	r, tr := newTestRouter(cfg, core.NodeID(5), s)

	req := &core.RREQPayload{Originator: core.NodeID(1), Destination: core.NodeID(9), BroadcastID: 7, OriginSeq: 1, HopCount: 0}
	r.HandleRREQ(core.NodeID(2), req)
	r.HandleRREQ(core.NodeID(3), req) // duplicate, must be dropped silently
	assert.Len(t, tr.broadcasts, 1)
}

func TestRREPDrainsBufferToTransmitPath(t *testing.T) {
	s := engine.NewScheduler()
	cfg := config.DefaultConfig()
	r, tr := newTestRouter(cfg, core.NodeID(0), s)

	pkt := core.NewDataPacket(1, core.NodeID(0), core.NodeID(9), 0, 100)
	r.RequestRoute(core.NodeID(9), pkt)
	require.Len(t, tr.broadcasts, 1)

	r.HandleRREP(core.NodeID(2), &core.RREPPayload{Destination: core.NodeID(9), DestSeq: 1, Originator: core.NodeID(0), HopCount: 1})
	require.Len(t, tr.unicasts, 1)
	assert.Equal(t, pkt, tr.unicasts[0])
}

func TestLinkBreakInvalidatesAndEmitsRERR(t *testing.T) {
	s := engine.NewScheduler()
	cfg := config.DefaultConfig()
	r, tr := newTestRouter(cfg, core.NodeID(0), s)

	r.Table.Offer(core.NodeID(9), core.NodeID(4), 1, 1, s.Now(), 3*engine.Second)
	r.ReportLinkBreak(core.NodeID(4), core.NewDataPacket(1, 0, 9, 0, 100))

	_, valid := r.Table.Lookup(core.NodeID(9), s.Now())
	assert.False(t, valid)
	require.Len(t, tr.broadcasts, 1)
	assert.Equal(t, core.KindRERR, tr.broadcasts[0].Kind)
}

func TestNeighborExpiresAfterTimeout(t *testing.T) {
	n := NewNeighborTable()
	n.Heard(core.NodeID(1), engine.Time(0), 1*engine.Second)
	assert.True(t, n.Present(core.NodeID(1), engine.Time(0)))
	assert.False(t, n.Present(core.NodeID(1), engine.Time(int64(2*engine.Second))))
}
