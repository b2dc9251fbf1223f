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

	"uavnetsim/core"
	"uavnetsim/engine"
	"uavnetsim/world"
)

// LeaderFollower tracks a leader node by id plus a fixed 3D offset,
// per spec's identifier-indexed rather than pointer-graph design note.
// The leader itself is never dereferenced directly: its position is
// looked up in the registry on every tick.
type LeaderFollower struct {
	Leader core.NodeID
	Offset world.Position
	Speed  float64
}

// TargetPosition returns the point this follower is currently steering
// toward, exposed for convergence observation (formation scenarios).
func (m LeaderFollower) TargetPosition(reg *world.Registry) world.Position {
	return reg.Position(m.Leader).Add(m.Offset)
}

func (m LeaderFollower) Run(s *engine.Scheduler, reg *world.Registry, id core.NodeID, rng *rand.Rand, active *bool) {
	reg.SetSpeed(id, m.Speed)
	for *active {
		dt := stepDelay(rng)
		step := m.Speed * float64(dt) / float64(engine.Second)
		target := m.TargetPosition(reg)
		reg.SetPosition(id, moveToward(reg.Position(id), target, step))
		s.After(dt)
	}
}
