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

package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadAppliesDefaultsOnEmptyViper(t *testing.T) {
	v := viper.New()
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesFromSetValues(t *testing.T) {
	v := viper.New()
	v.Set("number_of_drones", 50)
	v.Set("mac_variant", "pure_aloha")
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.NumberOfDrones)
	assert.Equal(t, "pure_aloha", cfg.MACVariant)
}

func TestValidateRejectsBadMACVariant(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MACVariant = "tdma"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsInvertedContentionWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CWMin = 100
	cfg.CWMax = 10
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveDroneCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumberOfDrones = 0
	assert.Error(t, cfg.Validate())
}
