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

// Package world holds the shared physical substrate every node moves
// and transmits through: the bounding box, node positions, and the
// wireless channel's path-loss and exclusive-access model.
package world

import "math"

// Position is a point in the 3D scenario volume.
type Position struct {
	X, Y, Z float64
}

// Sub subtracts o from p, component-wise.
func (p Position) Sub(o Position) Position {
	return Position{p.X - o.X, p.Y - o.Y, p.Z - o.Z}
}

// Add adds o to p, component-wise.
func (p Position) Add(o Position) Position {
	return Position{p.X + o.X, p.Y + o.Y, p.Z + o.Z}
}

// Scale multiplies every component of p by k.
func (p Position) Scale(k float64) Position {
	return Position{p.X * k, p.Y * k, p.Z * k}
}

// Distance2 returns the squared Euclidean distance between p and o,
// avoiding a sqrt where only ordering matters.
func (p Position) Distance2(o Position) float64 {
	d := p.Sub(o)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

// Distance returns the Euclidean distance between p and o.
func (p Position) Distance(o Position) float64 {
	return math.Sqrt(p.Distance2(o))
}

// Box is the 3D bounding volume every node's position is clipped to.
type Box struct {
	Length, Width, Height float64
}

// Clip pins p's coordinates into [0, Length]x[0, Width]x[0, Height].
func (b Box) Clip(p Position) Position {
	return Position{
		X: clamp(p.X, 0, b.Length),
		Y: clamp(p.Y, 0, b.Width),
		Z: clamp(p.Z, 0, b.Height),
	}
}

// Contains reports whether p lies within b (inclusive).
func (b Box) Contains(p Position) bool {
	return p.X >= 0 && p.X <= b.Length &&
		p.Y >= 0 && p.Y <= b.Width &&
		p.Z >= 0 && p.Z <= b.Height
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
