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
	"math"

	"math/rand"

	"uavnetsim/core"
	"uavnetsim/engine"
	"uavnetsim/world"
)

// GaussMarkov3D blends each velocity component with a mean value and a
// Gaussian random term, memory-weighted by Alpha in [0,1]: 0 is pure
// random walk, 1 is constant-velocity. Velocity components are
// reflected off the bounding box rather than clipped, so the node keeps
// moving instead of sticking to a wall.
type GaussMarkov3D struct {
	MeanSpeed float64
	Alpha     float64

	vel world.Position // internal memory, zero value is a valid start
}

func (m *GaussMarkov3D) Run(s *engine.Scheduler, reg *world.Registry, id core.NodeID, rng *rand.Rand, active *bool) {
	mean := world.Position{X: m.MeanSpeed, Y: 0, Z: 0}
	m.vel = mean
	box := reg.Box()

	for *active {
		dt := stepDelay(rng)
		tStep := float64(dt) / float64(engine.Second)

		memTerm := math.Sqrt(1 - m.Alpha*m.Alpha)
		m.vel = world.Position{
			X: m.Alpha*m.vel.X + (1-m.Alpha)*mean.X + memTerm*rng.NormFloat64()*m.MeanSpeed*0.3,
			Y: m.Alpha*m.vel.Y + (1-m.Alpha)*mean.Y + memTerm*rng.NormFloat64()*m.MeanSpeed*0.3,
			Z: m.Alpha*m.vel.Z + (1-m.Alpha)*mean.Z + memTerm*rng.NormFloat64()*m.MeanSpeed*0.1,
		}

		pos := reg.Position(id)
		next := pos.Add(m.vel.Scale(tStep))

		if next.X < 0 || next.X > box.Length {
			m.vel.X = -m.vel.X
		}
		if next.Y < 0 || next.Y > box.Width {
			m.vel.Y = -m.vel.Y
		}
		if next.Z < 0 || next.Z > box.Height {
			m.vel.Z = -m.vel.Z
		}

		reg.SetPosition(id, box.Clip(next))
		reg.SetSpeed(id, math.Sqrt(m.vel.X*m.vel.X+m.vel.Y*m.vel.Y+m.vel.Z*m.vel.Z))
		s.After(dt)
	}
}
