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

package mobility

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"uavnetsim/core"
	"uavnetsim/engine"
	"uavnetsim/world"
)

func TestRandomWaypointStaysInsideBox(t *testing.T) {
	s := engine.NewScheduler()
	box := world.Box{Length: 200, Width: 200, Height: 50}
	reg := world.NewRegistry(1, box)
	rng := rand.New(rand.NewSource(7))

	NewController(s, reg, core.NodeID(0), rng, RandomWaypoint3D{Speed: 15})
	s.Run(5 * engine.Second)

	p := reg.Position(0)
	assert.True(t, box.Contains(p))
}

func TestLeaderFollowerConvergesTowardOffsetTarget(t *testing.T) {
	s := engine.NewScheduler()
	box := world.Box{Length: 1000, Width: 1000, Height: 200}
	reg := world.NewRegistry(2, box)
	reg.SetPosition(0, world.Position{X: 500, Y: 500, Z: 100}) // leader, stationary
	reg.SetPosition(1, world.Position{X: 0, Y: 0, Z: 0})        // follower start

	rng := rand.New(rand.NewSource(3))
	follower := LeaderFollower{Leader: core.NodeID(0), Offset: world.Position{X: 10, Y: 0, Z: 0}, Speed: 20}
	NewController(s, reg, core.NodeID(1), rng, follower)

	before := reg.Position(1).Distance(follower.TargetPosition(reg))
	s.Run(30 * engine.Second)
	after := reg.Position(1).Distance(follower.TargetPosition(reg))

	assert.Less(t, after, before)
}

func TestGaussMarkovStaysInsideBox(t *testing.T) {
	s := engine.NewScheduler()
	box := world.Box{Length: 300, Width: 300, Height: 100}
	reg := world.NewRegistry(1, box)
	reg.SetPosition(0, world.Position{X: 150, Y: 150, Z: 50})
	rng := rand.New(rand.NewSource(11))

	NewController(s, reg, core.NodeID(0), rng, &GaussMarkov3D{MeanSpeed: 15, Alpha: 0.75})
	s.Run(10 * engine.Second)

	assert.True(t, box.Contains(reg.Position(0)))
}

func TestSwapStopsOldModelImmediately(t *testing.T) {
	s := engine.NewScheduler()
	box := world.Box{Length: 500, Width: 500, Height: 100}
	reg := world.NewRegistry(1, box)
	rng := rand.New(rand.NewSource(5))

	ctrl := NewController(s, reg, core.NodeID(0), rng, RandomWaypoint3D{Speed: 10})
	s.Run(1 * engine.Second)

	ctrl.Swap(LeaderFollower{Leader: core.NodeID(0), Offset: world.Position{}, Speed: 0})
	before := reg.Position(0)
	s.Run(2 * engine.Second)
	after := reg.Position(0)

	assert.Equal(t, before, after, "zero-speed leader-follower targeting self must not move after swap")
}
