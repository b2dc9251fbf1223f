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

// Package routing implements AODV-style on-demand route discovery:
// neighbor beaconing, RREQ/RREP flooding with duplicate suppression,
// route-table freshness, and RERR propagation on link breaks.
package routing

import (
	"uavnetsim/core"
	"uavnetsim/engine"
)

// Entry is one destination's routing-table row.
type Entry struct {
	NextHop  core.NodeID
	HopCount int
	DestSeq  uint32
	Expiry   engine.Time
}

// Valid reports whether e may still be used for forwarding at now.
func (e *Entry) Valid(now engine.Time) bool { return e != nil && now < e.Expiry }

// Table is the destination-indexed routing table of one node.
type Table struct {
	entries map[core.NodeID]*Entry
}

// NewTable returns an empty routing table.
func NewTable() *Table {
	return &Table{entries: make(map[core.NodeID]*Entry)}
}

// Lookup returns the entry for dest and whether it is currently valid.
func (t *Table) Lookup(dest core.NodeID, now engine.Time) (*Entry, bool) {
	e, ok := t.entries[dest]
	if !ok {
		return nil, false
	}
	return e, e.Valid(now)
}

// fresher reports whether a route with (seq, hops) is an acceptable
// replacement for the current entry at dest, per the standard AODV
// freshness rule: strictly higher sequence number wins outright; an
// equal sequence number wins only with a strictly smaller hop count.
func fresher(existing *Entry, seq uint32, hops int) bool {
	if existing == nil {
		return true
	}
	if seq > existing.DestSeq {
		return true
	}
	return seq == existing.DestSeq && hops < existing.HopCount
}

// Offer installs or refreshes the entry for dest if (seq, hops) is
// fresher than what is already there, extending expiry to now+ttl. It
// reports whether the table changed.
func (t *Table) Offer(dest, nextHop core.NodeID, seq uint32, hops int, now engine.Time, ttl engine.Duration) bool {
	existing := t.entries[dest]
	if !fresher(existing, seq, hops) {
		return false
	}
	t.entries[dest] = &Entry{NextHop: nextHop, HopCount: hops, DestSeq: seq, Expiry: now.Add(ttl)}
	return true
}

// Touch extends dest's expiry to now+ttl without otherwise changing the
// entry, used when an entry is used for forwarding ("active route").
func (t *Table) Touch(dest core.NodeID, now engine.Time, ttl engine.Duration) {
	if e, ok := t.entries[dest]; ok {
		e.Expiry = now.Add(ttl)
	}
}

// Invalidate removes dest's entry, if present, and reports whether it
// was there to remove.
func (t *Table) Invalidate(dest core.NodeID) bool {
	if _, ok := t.entries[dest]; ok {
		delete(t.entries, dest)
		return true
	}
	return false
}

// InvalidateByNextHop removes every entry whose next hop is h and
// returns their (destination, last known sequence) pairs, for RERR.
func (t *Table) InvalidateByNextHop(h core.NodeID) []core.UnreachableEntry {
	var out []core.UnreachableEntry
	for dest, e := range t.entries {
		if e.NextHop == h {
			out = append(out, core.UnreachableEntry{Dest: dest, Seq: e.DestSeq})
			delete(t.entries, dest)
		}
	}
	return out
}

// Sweep purges every entry that has expired as of now, returning the
// destinations removed.
func (t *Table) Sweep(now engine.Time) []core.NodeID {
	var removed []core.NodeID
	for dest, e := range t.entries {
		if !e.Valid(now) {
			delete(t.entries, dest)
			removed = append(removed, dest)
		}
	}
	return removed
}
