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

package world

import (
	"math"
	"math/rand"

	"uavnetsim/config"
	"uavnetsim/engine"
)

// SpeedOfLight in m/s, used by the log-distance path-loss model.
const SpeedOfLight = 299792458.0

// pathLossExponent is alpha in (c / (4*pi*f*d))^alpha.
const pathLossExponent = 2.0

// Channel is the shared wireless medium: it computes path loss and SINR
// and owns the exclusive-access token MAC instances contend for. There
// is no sub-channel concept, so one Channel holds exactly one token.
type Channel struct {
	cfg   *config.Config
	Token *engine.Token
}

// NewChannel builds the channel described by cfg.
func NewChannel(cfg *config.Config) *Channel {
	return &Channel{cfg: cfg, Token: engine.NewToken()}
}

// gain returns the unitless path-loss attenuation factor at distance d
// (metres) for the channel's carrier frequency: (c / (4*pi*f*d))^alpha.
// A zero or negative distance is treated as co-located (gain 1).
func (c *Channel) gain(d float64) float64 {
	if d <= 0 {
		return 1
	}
	ratio := SpeedOfLight / (4 * math.Pi * c.cfg.CarrierFrequency * d)
	return math.Pow(ratio, pathLossExponent)
}

// ReceivedPower returns the received power in watts of a transmission
// sent at the channel's configured transmitting power across distance d.
func (c *Channel) ReceivedPower(d float64) float64 {
	return c.cfg.TransmittingPower * c.gain(d)
}

// SINR returns the signal-to-interference-plus-noise ratio in dB for a
// signal received at rxPower watts, given the summed power (watts) of
// every simultaneous interferer.
func SINR(rxPower, interferencePower float64) float64 {
	if interferencePower <= 0 {
		// No interference: compare against the channel's own noise floor
		// is out of scope here, so an astronomically high but finite SINR
		// stands in for "essentially interference-free".
		interferencePower = 1e-18
	}
	return 10 * math.Log10(rxPower/interferencePower)
}

// InRange reports whether a receiver at distance d from the transmitter
// falls within range, using SINR at zero interference as a geometric
// approximation of receiver range.
func (c *Channel) InRange(d float64) bool {
	rx := c.ReceivedPower(d)
	return SINR(rx, 0) >= c.cfg.SNRThreshold
}

// Lossy decides, for one attempted delivery across distance d with the
// given summed interference power, whether the frame is lost.
//
// Outside SINR range the frame is always lost. Inside range, the
// original coarse model (cfg.UnifyLoss false) samples the Bernoulli
// data_loss_probability trial independently of SINR. The unified model
// (cfg.UnifyLoss true) instead draws the combined probability
// 1 - P(SINR > threshold) * (1 - p_loss) from a single rng draw; since
// this channel has no fading term, P(SINR > threshold) is 0 or 1 given
// d and interferencePower, so the two models coincide numerically and
// differ only in how many rng values they consume — which is the
// point: determinism under a fixed seed must hold within each mode,
// not across a mode switch.
func (c *Channel) Lossy(rng *rand.Rand, d, interferencePower float64) bool {
	inRange := SINR(c.ReceivedPower(d), interferencePower) >= c.cfg.SNRThreshold
	if !inRange {
		if c.cfg.UnifyLoss {
			_ = rng.Float64() // unified mode consumes one rng value per attempt, in range or not
		}
		return true
	}
	return rng.Float64() < c.cfg.DataLossProbability
}
