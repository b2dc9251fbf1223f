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
	"encoding/binary"

	"github.com/bfix/gospel/data"

	"uavnetsim/core"
)

// rreqDedupWindow is the refresh period of the suppression filter: a
// (originator, broadcast_id) pair is remembered for at most this long
// of virtual time before the filter is rebuilt empty.
const rreqDedupWindow = 2 * 1000000 // 2s in microseconds, avoids importing engine for one constant

// Dedup suppresses re-forwarding of RREQs a node has already seen,
// keyed by (originator, broadcast_id), backed by a salted bloom filter
// that is periodically rebuilt to bound both its false-positive rate
// and how long a pair is remembered.
type Dedup struct {
	capacity   int
	generation uint32
	filter     *data.SaltedBloomFilter
}

// NewDedup sizes the filter for roughly capacity in-flight RREQs
// (typically the node count) at a 0.1% target false-positive rate.
func NewDedup(capacity int) *Dedup {
	if capacity < 8 {
		capacity = 8
	}
	d := &Dedup{capacity: capacity}
	d.reset()
	return d
}

func (d *Dedup) reset() {
	d.generation++
	d.filter = data.NewSaltedBloomFilter(d.generation, d.capacity, 1e-3)
}

func dedupKey(originator core.NodeID, broadcastID uint32) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint32(b[0:4], uint32(originator))
	binary.BigEndian.PutUint32(b[4:8], broadcastID)
	return b
}

// SeenOrMark reports whether (originator, broadcastID) was already
// observed in the current window; if not, it marks it seen and returns
// false.
func (d *Dedup) SeenOrMark(originator core.NodeID, broadcastID uint32) bool {
	k := dedupKey(originator, broadcastID)
	if d.filter.Contains(k) {
		return true
	}
	d.filter.Add(k)
	return false
}
