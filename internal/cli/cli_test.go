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

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandRegistersEverySubcommand(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["run"])
	assert.True(t, names["experiment"])
	assert.True(t, names["render"])
	assert.True(t, names["version"])
}

func TestExperimentRejectsUnknownKind(t *testing.T) {
	expKind = "e9"
	v.Set("number_of_drones", 3)
	v.Set("sim_time", 1)
	err := runExperiment(experimentCmd, nil)
	assert.ErrorContains(t, err, "unknown experiment kind")
}

func TestSetVersionInfoOverridesDefaults(t *testing.T) {
	SetVersionInfo("1.2.3", "abcdef", "2026-01-01")
	assert.Equal(t, "1.2.3", Version)
	assert.Equal(t, "abcdef", Commit)
	assert.Equal(t, "2026-01-01", Date)
}
