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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"uavnetsim/engine"
)

func TestSnapshotComputesPDR(t *testing.T) {
	c := New(prometheus.NewRegistry())
	c.Generated()
	c.Generated()
	c.Delivered(engine.Time(100), engine.Time(0), 800)

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Generated)
	assert.Equal(t, 1, snap.Delivered)
	assert.InDelta(t, 0.5, snap.PDR, 1e-9)
}

func TestDroppedTalliesByCause(t *testing.T) {
	c := New(nil)
	c.Dropped(DropQueue)
	c.Dropped(DropQueue)
	c.Dropped(DropTTL)

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Dropped[DropQueue])
	assert.Equal(t, 1, snap.Dropped[DropTTL])
}

func TestThroughputIsZeroForZeroElapsed(t *testing.T) {
	snap := Snapshot{DeliveredPayloadBits: 8000}
	assert.Equal(t, 0.0, snap.Throughput(0))
}

func TestThroughputDividesBitsByElapsedSeconds(t *testing.T) {
	snap := Snapshot{DeliveredPayloadBits: 8000}
	got := snap.Throughput(2 * engine.Second)
	assert.InDelta(t, 4000, got, 1e-9)
}
