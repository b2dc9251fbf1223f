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

package phy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uavnetsim/config"
	"uavnetsim/core"
	"uavnetsim/engine"
	"uavnetsim/world"
)

func TestBroadcastReachesInRangeNotOutOfRange(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataLossProbability = 0
	box := world.Box{Length: 1e7, Width: 1e7, Height: 1000}
	reg := world.NewRegistry(3, box)
	reg.SetPosition(0, world.Position{X: 0, Y: 0, Z: 0})
	reg.SetPosition(1, world.Position{X: 50, Y: 0, Z: 0})   // near
	reg.SetPosition(2, world.Position{X: 5e6, Y: 0, Z: 0})  // far, out of range (default range ~1.6e6 m)

	ch := world.NewChannel(cfg)
	rng := rand.New(rand.NewSource(1))
	med := NewMedium(ch, reg, rng)

	s := engine.NewScheduler()
	delivered := map[core.NodeID]bool{}
	pkt := core.NewHelloPacket(1, core.NodeID(0), 0)

	s.Spawn(0, func() {
		med.Broadcast(s, core.NodeID(0), pkt, func(recv core.NodeID, p *core.Packet, ok bool) {
			delivered[recv] = ok
		})
	})
	s.Run(1 * engine.Second)

	ok, present := delivered[core.NodeID(1)]
	require.True(t, present)
	assert.True(t, ok)
	_, present = delivered[core.NodeID(2)]
	assert.False(t, present, "out-of-range node must never receive a delivery event")
}

func TestUnicastDelayIncludesPropagationAndTransmission(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataLossProbability = 0
	box := world.Box{Length: 1000, Width: 1000, Height: 200}
	reg := world.NewRegistry(2, box)
	reg.SetPosition(0, world.Position{X: 0, Y: 0, Z: 0})
	reg.SetPosition(1, world.Position{X: 100, Y: 0, Z: 0})

	ch := world.NewChannel(cfg)
	rng := rand.New(rand.NewSource(1))
	med := NewMedium(ch, reg, rng)
	s := engine.NewScheduler()

	var arrival engine.Time
	pkt := core.NewDataPacket(1, core.NodeID(0), core.NodeID(1), 0, 8000)

	s.Spawn(0, func() {
		med.Unicast(s, core.NodeID(0), core.NodeID(1), pkt, func(recv core.NodeID, p *core.Packet, ok bool) {
			arrival = s.Now()
		})
	})
	s.Run(1 * engine.Second)

	expected := PropagationDelay(100) + TransmissionTime(8000)
	assert.Equal(t, engine.Time(expected), arrival)
}
