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

// Package energy tracks each node's residual energy and the rotary-wing
// flight and communication power draws that deplete it.
package energy

import (
	"math"

	"uavnetsim/config"
)

// CommState is the communication activity a node is in at any instant;
// it determines which comm-power term applies on the next accounting
// tick.
type CommState int

const (
	Idle CommState = iota
	Tx
	Rx
	Sleep
)

func (s CommState) String() string {
	switch s {
	case Tx:
		return "TX"
	case Rx:
		return "RX"
	case Sleep:
		return "SLEEP"
	default:
		return "IDLE"
	}
}

// Rotary-wing flight power model coefficients (blade profile drag,
// induced power at hover, rotor tip speed, mean induced velocity at
// hover, fuselage drag ratio, air density, solidity, disc area). These
// reproduce the textbook U-shaped power-over-speed curve for
// helicopter-type rotorcraft; the exact values are not load-bearing for
// protocol correctness, only the curve's shape.
const (
	bladeProfilePower  = 80.0
	inducedPowerHover  = 90.0
	rotorTipSpeed      = 120.0
	meanInducedVel     = 4.03
	fuselageDragRatio  = 0.6
	airDensity         = 1.225
	rotorSolidity      = 0.05
	rotorDiscArea      = 0.503
)

// FlightPower returns the power in watts needed to fly at horizontal
// speed v (m/s), following a rotary-wing blade+induced+parasite model.
// It is high at hover (the induced term dominates there), falls to its
// minimum at a low, non-zero speed (about 10 m/s with these constants)
// and rises again at high speed: a U-shaped curve.
func FlightPower(v float64) float64 {
	blade := bladeProfilePower * (1 + 3*v*v/(rotorTipSpeed*rotorTipSpeed))

	v2 := v * v
	v4 := v2 * v2
	inner := math.Sqrt(1+v4/(4*math.Pow(meanInducedVel, 4))) - v2/(2*meanInducedVel*meanInducedVel)
	induced := inducedPowerHover * math.Sqrt(math.Max(inner, 0))

	parasite := 0.5 * fuselageDragRatio * airDensity * rotorSolidity * rotorDiscArea * v2 * v

	return blade + induced + parasite
}

// CommPower returns the communication-state power draw in watts for cfg.
func CommPower(cfg *config.Config, s CommState) float64 {
	switch s {
	case Tx:
		return cfg.PowerTx
	case Rx:
		return cfg.PowerRx
	case Sleep:
		return cfg.PowerSleep
	default:
		return cfg.PowerIdle
	}
}

// accountingIntervalSeconds is the virtual-time period, in seconds, over which energy is
// integrated, matching the 100 ms deduction cadence.
const accountingIntervalSeconds = 0.1

// Tracker holds one node's residual energy and current comm state.
type Tracker struct {
	cfg      *config.Config
	residual float64
	state    CommState
}

// NewTracker starts a tracker at the configured initial energy, idle.
func NewTracker(cfg *config.Config) *Tracker {
	return &Tracker{cfg: cfg, residual: cfg.InitialEnergy, state: Idle}
}

// Residual returns the current residual energy in joules.
func (t *Tracker) Residual() float64 { return t.residual }

// Asleep reports whether the node has exhausted its energy.
func (t *Tracker) Asleep() bool { return t.state == Sleep }

// SetState records the node's current communication activity, read by
// the next accounting tick.
func (t *Tracker) SetState(s CommState) {
	if t.state == Sleep {
		return
	}
	t.state = s
}

// State returns the current communication activity.
func (t *Tracker) State() CommState { return t.state }

// Tick deducts one accounting interval's worth of energy at the given
// flight speed and transitions to Sleep if energy is exhausted. It
// returns true the instant the node transitions to sleep (false on
// every other call, including later calls after sleep has begun).
func (t *Tracker) Tick(speed float64) (justSlept bool) {
	if t.state == Sleep {
		return false
	}
	draw := (FlightPower(speed) + CommPower(t.cfg, t.state)) * accountingIntervalSeconds
	t.residual -= draw
	if t.residual <= 0 {
		t.residual = 0
		t.state = Sleep
		return true
	}
	return false
}
