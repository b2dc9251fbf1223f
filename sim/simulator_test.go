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

package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uavnetsim/config"
	"uavnetsim/core"
	"uavnetsim/engine"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.NumberOfDrones = 4
	cfg.MapLength, cfg.MapWidth, cfg.MapHeight = 200, 200, 50
	cfg.DefaultSpeed = 5
	cfg.PacketGenerationRate = 1
	cfg.SimTime = 20
	return cfg
}

func TestSimulatorGeneratesAndRuns(t *testing.T) {
	cfg := smallConfig()
	s := New(cfg, nil, nil)
	require.Len(t, s.Nodes, 4)
	s.Start()
	s.Run(engine.Time(int64(cfg.SimTime) * int64(engine.Second)))

	snap := s.Metrics.Snapshot()
	assert.GreaterOrEqual(t, snap.Generated, 1)
}

func TestSwapFormationEmitsEvent(t *testing.T) {
	cfg := smallConfig()
	var events []int
	emit := core.Listener(func(ev *core.Event) { events = append(events, ev.Type) })
	s := New(cfg, nil, emit)
	s.Start()
	s.Run(engine.Time(1 * int64(engine.Second)))
	s.SwapFormation("gauss_markov")

	found := false
	for _, ev := range events {
		if ev == core.EvFormationChange {
			found = true
		}
	}
	assert.True(t, found)
}
