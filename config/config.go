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

// Package config defines the flat set of simulation parameters and how
// they are loaded (defaults, file, environment, flags) and validated.
package config

// Config holds every tunable of a simulation run. It is intentionally
// flat: every run is fully described by one of these, and one of these
// is fully described by one YAML/JSON file plus flag/env overrides.
type Config struct {
	Seed int64 `mapstructure:"seed"`

	// Scenario size
	SimTime          int     `mapstructure:"sim_time"` // seconds of virtual time
	NumberOfDrones   int     `mapstructure:"number_of_drones"`
	MapLength        float64 `mapstructure:"map_length"`
	MapWidth         float64 `mapstructure:"map_width"`
	MapHeight        float64 `mapstructure:"map_height"`
	DefaultSpeed     float64 `mapstructure:"default_speed"`

	// Traffic
	PacketGenerationRate float64 `mapstructure:"packet_generation_rate"` // packets/s per node
	AveragePayloadLength int     `mapstructure:"average_payload_length"` // bits
	MaxQueueSize         int     `mapstructure:"max_queue_size"`
	MaxTTL               int     `mapstructure:"max_ttl"`
	PacketLifetime       int     `mapstructure:"packet_lifetime"` // seconds

	// Energy
	InitialEnergy float64 `mapstructure:"initial_energy"` // joules
	PowerTx       float64 `mapstructure:"power_tx"`       // watts
	PowerRx       float64 `mapstructure:"power_rx"`
	PowerIdle     float64 `mapstructure:"power_idle"`
	PowerSleep    float64 `mapstructure:"power_sleep"`

	// Channel / PHY
	DataLossProbability float64 `mapstructure:"data_loss_probability"`
	SNRThreshold        float64 `mapstructure:"snr_threshold"` // dB
	CarrierFrequency    float64 `mapstructure:"carrier_frequency"`
	TransmittingPower   float64 `mapstructure:"transmitting_power"`
	UnifyLoss           bool    `mapstructure:"unify_loss"`

	// MAC (CSMA/CA)
	SlotDuration            int `mapstructure:"slot_duration"` // microseconds
	SIFSDuration            int `mapstructure:"sifs_duration"`
	DIFSDuration            int `mapstructure:"difs_duration"`
	AckTimeoutExtra         int `mapstructure:"ack_timeout_extra"`
	CWMin                   int `mapstructure:"cw_min"`
	CWMax                   int `mapstructure:"cw_max"`
	MaxRetransmissionAttempt int `mapstructure:"max_retransmission_attempt"`
	MACVariant              string `mapstructure:"mac_variant"` // "csma_ca" or "pure_aloha"

	// Routing. All three are microseconds, like the MAC timings above,
	// so that NeighborTimeout can carry the spec's fractional-second
	// default without a unit that can't express it.
	HelloInterval      int `mapstructure:"hello_interval"`
	NeighborTimeout    int `mapstructure:"neighbor_timeout"`
	ActiveRouteTimeout int `mapstructure:"active_route_timeout"`

	// Mobility
	MobilityVariant string `mapstructure:"mobility_variant"` // "random_waypoint", "leader_follower", "gauss_markov"
}

// DefaultConfig returns the parameter set spec.md's scenarios assume
// when a field is left unset by the caller's file/flags/env layer.
func DefaultConfig() *Config {
	return &Config{
		Seed: 1,

		SimTime:        300,
		NumberOfDrones: 30,
		MapLength:      1000,
		MapWidth:       1000,
		MapHeight:      200,
		DefaultSpeed:   15,

		PacketGenerationRate: 2,
		AveragePayloadLength: 8192,
		MaxQueueSize:         200,
		MaxTTL:               11,
		PacketLifetime:       10,

		InitialEnergy: 20000,
		PowerTx:       1.5,
		PowerRx:       1.0,
		PowerIdle:     0.1,
		PowerSleep:    0.001,

		DataLossProbability: 0.05,
		SNRThreshold:        6,
		CarrierFrequency:    2.4e9,
		TransmittingPower:   0.1,
		UnifyLoss:           false,

		SlotDuration:             20,
		SIFSDuration:             10,
		DIFSDuration:             30,
		AckTimeoutExtra:          50,
		CWMin:                    31,
		CWMax:                    1023,
		MaxRetransmissionAttempt: 5,
		MACVariant:               "csma_ca",

		HelloInterval:      1_000_000,
		NeighborTimeout:    2_500_000,
		ActiveRouteTimeout: 3_000_000,

		MobilityVariant: "random_waypoint",
	}
}
