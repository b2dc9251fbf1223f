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

package experiment

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uavnetsim/config"
	"uavnetsim/engine"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.NumberOfDrones = 5
	cfg.MapLength, cfg.MapWidth, cfg.MapHeight = 150, 150, 30
	cfg.SimTime = 5
	cfg.PacketGenerationRate = 2
	return cfg
}

func TestSpeedSweepWritesOneRowPerSpeedWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := SpeedSweep(smallConfig(), []float64{0, 10, 20}, 5, &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Speed,Latency", lines[0])
}

func TestRateSweepWritesOneRowPerRateWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := RateSweep(smallConfig(), []float64{1, 5}, &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Rate,PDR,Energy,Throughput", lines[0])
}

func TestTransitionRunSamplesEverySecond(t *testing.T) {
	var buf bytes.Buffer
	err := TransitionRun(smallConfig(), "gauss_markov", 3*engine.Second, &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// header + one row per second from t=0 through t=3 inclusive
	require.Len(t, lines, 5)
	assert.Equal(t, "Time,PDR,Overhead", lines[0])
}

func TestOutputPathIncludesExperimentNameAndIsUnique(t *testing.T) {
	a := OutputPath("E1")
	b := OutputPath("E1")
	assert.True(t, strings.HasPrefix(a, "E1-"))
	assert.NotEqual(t, a, b)
}
