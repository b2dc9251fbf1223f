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

package world

import "uavnetsim/core"

// Registry is the authoritative table of node positions. Every node
// writes its own entry (mobility is the sole author of its node's
// coordinate, per the mid-run-swap invariant); every other component
// reads through this registry rather than holding its own copy.
type Registry struct {
	box   Box
	pos   []Position
	speed []float64
}

// NewRegistry allocates a registry for n nodes inside box, all placed
// at the origin until mobility positions them.
func NewRegistry(n int, box Box) *Registry {
	return &Registry{
		box:   box,
		pos:   make([]Position, n),
		speed: make([]float64, n),
	}
}

// Box returns the scenario's bounding volume.
func (r *Registry) Box() Box { return r.box }

// Count returns the number of registered nodes.
func (r *Registry) Count() int { return len(r.pos) }

// Position returns id's last-known position.
func (r *Registry) Position(id core.NodeID) Position { return r.pos[id] }

// SetPosition records id's new position, clipped to the bounding box.
func (r *Registry) SetPosition(id core.NodeID, p Position) {
	r.pos[id] = r.box.Clip(p)
}

// Speed returns id's current scalar speed.
func (r *Registry) Speed(id core.NodeID) float64 { return r.speed[id] }

// SetSpeed records id's current scalar speed.
func (r *Registry) SetSpeed(id core.NodeID, s float64) { r.speed[id] = s }

// Neighbors returns every node other than id within radius of id's
// current position, per the channel's geometric range approximation.
func (r *Registry) Neighbors(id core.NodeID, ch *Channel) []core.NodeID {
	var out []core.NodeID
	p := r.pos[id]
	for i := range r.pos {
		if core.NodeID(i) == id {
			continue
		}
		if ch.InRange(p.Distance(r.pos[i])) {
			out = append(out, core.NodeID(i))
		}
	}
	return out
}
