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
	"fmt"

	"github.com/spf13/viper"
)

// bindDefaults registers DefaultConfig's values with v so that an empty
// or partial config file still produces a fully populated Config.
func bindDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("seed", d.Seed)

	v.SetDefault("sim_time", d.SimTime)
	v.SetDefault("number_of_drones", d.NumberOfDrones)
	v.SetDefault("map_length", d.MapLength)
	v.SetDefault("map_width", d.MapWidth)
	v.SetDefault("map_height", d.MapHeight)
	v.SetDefault("default_speed", d.DefaultSpeed)

	v.SetDefault("packet_generation_rate", d.PacketGenerationRate)
	v.SetDefault("average_payload_length", d.AveragePayloadLength)
	v.SetDefault("max_queue_size", d.MaxQueueSize)
	v.SetDefault("max_ttl", d.MaxTTL)
	v.SetDefault("packet_lifetime", d.PacketLifetime)

	v.SetDefault("initial_energy", d.InitialEnergy)
	v.SetDefault("power_tx", d.PowerTx)
	v.SetDefault("power_rx", d.PowerRx)
	v.SetDefault("power_idle", d.PowerIdle)
	v.SetDefault("power_sleep", d.PowerSleep)

	v.SetDefault("data_loss_probability", d.DataLossProbability)
	v.SetDefault("snr_threshold", d.SNRThreshold)
	v.SetDefault("carrier_frequency", d.CarrierFrequency)
	v.SetDefault("transmitting_power", d.TransmittingPower)
	v.SetDefault("unify_loss", d.UnifyLoss)

	v.SetDefault("slot_duration", d.SlotDuration)
	v.SetDefault("sifs_duration", d.SIFSDuration)
	v.SetDefault("difs_duration", d.DIFSDuration)
	v.SetDefault("ack_timeout_extra", d.AckTimeoutExtra)
	v.SetDefault("cw_min", d.CWMin)
	v.SetDefault("cw_max", d.CWMax)
	v.SetDefault("max_retransmission_attempt", d.MaxRetransmissionAttempt)
	v.SetDefault("mac_variant", d.MACVariant)

	v.SetDefault("hello_interval", d.HelloInterval)
	v.SetDefault("neighbor_timeout", d.NeighborTimeout)
	v.SetDefault("active_route_timeout", d.ActiveRouteTimeout)

	v.SetDefault("mobility_variant", d.MobilityVariant)
}

// Load reads a Config out of v (already fed by file/flags/env by the
// caller) layered on top of DefaultConfig, then validates it.
func Load(v *viper.Viper) (*Config, error) {
	bindDefaults(v, DefaultConfig())

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
