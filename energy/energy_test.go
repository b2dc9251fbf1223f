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

package energy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uavnetsim/config"
	"uavnetsim/engine"
)

func TestFlightPowerIsUShaped(t *testing.T) {
	low := FlightPower(5)
	mid := FlightPower(15)
	high := FlightPower(40)
	assert.Less(t, mid, low, "power near hover-ish low speed should exceed the curve's minimum region")
	assert.Less(t, mid, high, "power at high speed should exceed the minimum region")
}

func TestTrackerTicksDownAndSleepsAtZero(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.InitialEnergy = 1 // exhaust almost immediately
	tr := NewTracker(cfg)
	tr.SetState(Tx)
	slept := tr.Tick(10)
	require.True(t, slept)
	assert.True(t, tr.Asleep())
	assert.Equal(t, 0.0, tr.Residual())
}

func TestTrackerNeverGoesNegativeResidual(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.InitialEnergy = 0.05
	tr := NewTracker(cfg)
	tr.Tick(20)
	assert.GreaterOrEqual(t, tr.Residual(), 0.0)
}

func TestMonitorStopsAfterSleep(t *testing.T) {
	s := engine.NewScheduler()
	cfg := config.DefaultConfig()
	cfg.InitialEnergy = 1
	tr := NewTracker(cfg)
	slept := false

	mon := &Monitor{
		Sched:   s,
		Tracker: tr,
		Speed:   func() float64 { return 10 },
		OnSleep: func() { slept = true },
	}
	s.Spawn(0, mon.Run)
	s.Run(10 * engine.Second)

	assert.True(t, slept)
	assert.True(t, tr.Asleep())
}
