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

// RandomWaypoint3D picks a uniform random point in the box, travels
// toward it at Speed, pauses a uniform 0-1s interval on arrival, and
// repeats.
type RandomWaypoint3D struct {
	Speed float64
}

// arrivalEpsilon is the distance below which a node is considered to
// have reached its waypoint, avoiding infinite overshoot oscillation
// from discretized steps.
const arrivalEpsilon = 0.5

func (m RandomWaypoint3D) Run(s *engine.Scheduler, reg *world.Registry, id core.NodeID, rng *rand.Rand, active *bool) {
	box := reg.Box()
	reg.SetSpeed(id, m.Speed)

	for *active {
		target := world.Position{
			X: rng.Float64() * box.Length,
			Y: rng.Float64() * box.Width,
			Z: rng.Float64() * box.Height,
		}

		for *active {
			pos := reg.Position(id)
			if pos.Distance(target) <= arrivalEpsilon {
				break
			}
			dt := stepDelay(rng)
			step := m.Speed * float64(dt) / float64(engine.Second)
			reg.SetPosition(id, moveToward(pos, target, step))
			s.After(dt)
		}
		if !*active {
			return
		}

		pause := engine.Duration(rng.Float64() * float64(engine.Second))
		s.After(pause)
	}
}

// moveToward returns from shifted toward to by at most step metres.
func moveToward(from, to world.Position, step float64) world.Position {
	d := to.Sub(from)
	dist := from.Distance(to)
	if dist <= step || dist == 0 {
		return to
	}
	return from.Add(d.Scale(step / dist))
}
