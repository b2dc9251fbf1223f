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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uavnetsim/config"
	"uavnetsim/core"
	"uavnetsim/engine"
	"uavnetsim/metrics"
	"uavnetsim/phy"
	"uavnetsim/world"
)

// staticModel keeps a node's registry entry wherever the test placed it;
// it never loops, so it never mutates position again.
type staticModel struct{}

func (staticModel) Run(_ *engine.Scheduler, _ *world.Registry, _ core.NodeID, _ *rand.Rand, _ *bool) {
}

func newTestPair(t *testing.T, cfg *config.Config) (n0, n1 *Node, mc *metrics.Collector, sched *engine.Scheduler) {
	t.Helper()
	sched = engine.NewScheduler()
	reg := world.NewRegistry(2, world.Box{Length: 1000, Width: 1000, Height: 200})
	reg.SetPosition(core.NodeID(0), world.Position{X: 0, Y: 0, Z: 0})
	reg.SetPosition(core.NodeID(1), world.Position{X: 10, Y: 0, Z: 0})
	ch := world.NewChannel(cfg)
	med := phy.NewMedium(ch, reg, rand.New(rand.NewSource(1)))
	mc = metrics.New(nil)

	var nextID uint64
	idGen := func() uint64 { nextID++; return nextID }
	noDest := func(core.NodeID) core.NodeID { return core.None }

	n0 = New(cfg, core.NodeID(0), sched, reg, ch, med, mc, nil, rand.New(rand.NewSource(2)), idGen, noDest, staticModel{})
	n1 = New(cfg, core.NodeID(1), sched, reg, ch, med, mc, nil, rand.New(rand.NewSource(3)), idGen, noDest, staticModel{})

	nodes := map[core.NodeID]*Node{0: n0, 1: n1}
	deliver := func(receiver core.NodeID, pkt *core.Packet, ok bool) {
		nodes[receiver].Receive(pkt, ok)
	}
	n0.SetDeliver(deliver)
	n1.SetDeliver(deliver)
	return n0, n1, mc, sched
}

func TestDataPacketIsDeliveredAfterRouteDiscovery(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PacketGenerationRate = 0
	cfg.DataLossProbability = 0
	n0, n1, mc, sched := newTestPair(t, cfg)
	n0.Start()
	n1.Start()

	pkt := core.NewDataPacket(9001, core.NodeID(0), core.NodeID(1), sched.Now(), 800)
	n0.enqueue(pkt)

	sched.Run(engine.Time(5 * int64(engine.Second)))

	snap := mc.Snapshot()
	assert.Equal(t, 1, snap.Delivered)
	require.Len(t, snap.Latency, 1)
}

func TestQueueOverflowIsDroppedAndCounted(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PacketGenerationRate = 0
	cfg.MaxQueueSize = 1
	n0, _, mc, sched := newTestPair(t, cfg)

	n0.enqueue(core.NewDataPacket(1, core.NodeID(0), core.NodeID(1), sched.Now(), 800))
	n0.enqueue(core.NewDataPacket(2, core.NodeID(0), core.NodeID(1), sched.Now(), 800))

	snap := mc.Snapshot()
	assert.Equal(t, 1, snap.Dropped[metrics.DropQueue])
}

func TestTTLExhaustionDropsForwardedPacket(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PacketGenerationRate = 0
	n0, n1, mc, sched := newTestPair(t, cfg)
	n0.Start()
	n1.Start()

	pkt := core.NewDataPacket(1, core.NodeID(0), core.NodeID(1), sched.Now(), 800)
	pkt.TTL = 1
	pkt.Dst = core.NodeID(99) // never resolvable, forces n1 to try forwarding
	pkt.NextHop = core.NodeID(1)
	pkt.LastHop = core.NodeID(0)
	n1.receiveData(pkt)

	snap := mc.Snapshot()
	assert.Equal(t, 1, snap.Dropped[metrics.DropTTL])
	_ = sched
}

func TestAsleepNodeStillProcessesInboundBookkeeping(t *testing.T) {
	cfg := config.DefaultConfig()
	n0, _, mc, sched := newTestPair(t, cfg)
	n0.asleep = true

	pkt := core.NewHelloPacket(1, core.NodeID(1), sched.Now())
	pkt.LastHop = core.NodeID(1) // normally stamped by mac
	n0.Receive(pkt, true)

	assert.True(t, n0.Router.Neighbors.Present(core.NodeID(1), sched.Now()))
	_ = mc
}
