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
	"uavnetsim/core"
	"uavnetsim/engine"
)

// NeighborTable records the absolute expiry of every one-hop peer heard
// from recently. An entry past its expiry is logically absent whether
// or not it has been swept yet.
type NeighborTable struct {
	expiry map[core.NodeID]engine.Time
}

// NewNeighborTable returns an empty neighbor table.
func NewNeighborTable() *NeighborTable {
	return &NeighborTable{expiry: make(map[core.NodeID]engine.Time)}
}

// Heard records that peer was heard from at now, valid until now+ttl.
func (n *NeighborTable) Heard(peer core.NodeID, now engine.Time, ttl engine.Duration) {
	n.expiry[peer] = now.Add(ttl)
}

// Present reports whether peer is a currently-valid neighbor.
func (n *NeighborTable) Present(peer core.NodeID, now engine.Time) bool {
	exp, ok := n.expiry[peer]
	return ok && now <= exp
}

// Sweep purges every neighbor whose entry has expired as of now,
// returning the peers removed.
func (n *NeighborTable) Sweep(now engine.Time) []core.NodeID {
	var removed []core.NodeID
	for peer, exp := range n.expiry {
		if now > exp {
			delete(n.expiry, peer)
			removed = append(removed, peer)
		}
	}
	return removed
}

// List returns every currently-valid neighbor.
func (n *NeighborTable) List(now engine.Time) []core.NodeID {
	var out []core.NodeID
	for peer, exp := range n.expiry {
		if now <= exp {
			out = append(out, peer)
		}
	}
	return out
}
