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

import "fmt"

// Validate checks the configuration for internally-inconsistent or
// out-of-range values. A failure here is a configuration failure: the
// caller is expected to log it and exit, never to run with a patched-up
// guess.
func (c *Config) Validate() error {
	if c.NumberOfDrones <= 0 {
		return fmt.Errorf("number_of_drones must be positive, got %d", c.NumberOfDrones)
	}
	if c.SimTime <= 0 {
		return fmt.Errorf("sim_time must be positive, got %d", c.SimTime)
	}
	if c.MapLength <= 0 || c.MapWidth <= 0 || c.MapHeight <= 0 {
		return fmt.Errorf("map dimensions must be positive, got %gx%gx%g", c.MapLength, c.MapWidth, c.MapHeight)
	}
	if c.DefaultSpeed <= 0 {
		return fmt.Errorf("default_speed must be positive, got %g", c.DefaultSpeed)
	}

	if c.PacketGenerationRate < 0 {
		return fmt.Errorf("packet_generation_rate must not be negative, got %g", c.PacketGenerationRate)
	}
	if c.MaxQueueSize <= 0 {
		return fmt.Errorf("max_queue_size must be positive, got %d", c.MaxQueueSize)
	}
	if c.MaxTTL <= 0 {
		return fmt.Errorf("max_ttl must be positive, got %d", c.MaxTTL)
	}

	if c.InitialEnergy <= 0 {
		return fmt.Errorf("initial_energy must be positive, got %g", c.InitialEnergy)
	}
	if c.PowerTx < 0 || c.PowerRx < 0 || c.PowerIdle < 0 || c.PowerSleep < 0 {
		return fmt.Errorf("comm-state power draws must not be negative")
	}

	if c.DataLossProbability < 0 || c.DataLossProbability > 1 {
		return fmt.Errorf("data_loss_probability must be in [0,1], got %g", c.DataLossProbability)
	}
	if c.CarrierFrequency <= 0 {
		return fmt.Errorf("carrier_frequency must be positive, got %g", c.CarrierFrequency)
	}

	if c.CWMin <= 0 || c.CWMax < c.CWMin {
		return fmt.Errorf("require 0 < cw_min <= cw_max, got cw_min=%d cw_max=%d", c.CWMin, c.CWMax)
	}
	if c.MaxRetransmissionAttempt < 0 {
		return fmt.Errorf("max_retransmission_attempt must not be negative, got %d", c.MaxRetransmissionAttempt)
	}
	switch c.MACVariant {
	case "csma_ca", "pure_aloha":
	default:
		return fmt.Errorf("invalid mac_variant: %s (must be csma_ca or pure_aloha)", c.MACVariant)
	}

	if c.HelloInterval <= 0 {
		return fmt.Errorf("hello_interval must be positive, got %d", c.HelloInterval)
	}
	if c.NeighborTimeout <= 0 {
		return fmt.Errorf("neighbor_timeout must be positive, got %d", c.NeighborTimeout)
	}
	if c.ActiveRouteTimeout <= 0 {
		return fmt.Errorf("active_route_timeout must be positive, got %d", c.ActiveRouteTimeout)
	}

	switch c.MobilityVariant {
	case "random_waypoint", "leader_follower", "gauss_markov":
	default:
		return fmt.Errorf("invalid mobility_variant: %s", c.MobilityVariant)
	}

	return nil
}
