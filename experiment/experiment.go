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

// Package experiment drives the engine headlessly across a parameter
// sweep and emits one CSV per canonical experiment (E1 speed sweep,
// E2 packet-rate sweep, E3 formation-transition time series). Each run
// is tagged with a fresh UUID so concurrent or repeated sweeps never
// collide on their output path.
package experiment

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"uavnetsim/config"
	"uavnetsim/engine"
	"uavnetsim/metrics"
	"uavnetsim/sim"
)

// RunID returns a fresh identifier for tagging one sweep's output files.
func RunID() string { return uuid.NewString() }

// SpeedSweep runs E1: for each speed in speeds, builds a scenario with
// nodes nodeCount and that DefaultSpeed, runs it for the configured
// SimTime, and writes one Speed,Latency row — latency averaged over
// every packet delivered during the run.
func SpeedSweep(base *config.Config, speeds []float64, nodeCount int, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"Speed", "Latency"}); err != nil {
		return err
	}
	for _, speed := range speeds {
		cfg := *base
		cfg.NumberOfDrones = nodeCount
		cfg.DefaultSpeed = speed

		s := sim.New(&cfg, nil, nil)
		s.Start()
		s.Run(simTime(&cfg))

		snap := s.Metrics.Snapshot()
		row := []string{
			strconv.FormatFloat(speed, 'f', -1, 64),
			strconv.FormatFloat(averageLatencySeconds(snap.Latency), 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// RateSweep runs E2: for each packet generation rate, builds a static
// (non-mobile) scenario, runs it, and writes one
// Rate,PDR,Energy,Throughput row.
func RateSweep(base *config.Config, rates []float64, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"Rate", "PDR", "Energy", "Throughput"}); err != nil {
		return err
	}
	for _, rate := range rates {
		cfg := *base
		cfg.PacketGenerationRate = rate
		cfg.DefaultSpeed = 0 // static topology, per S5

		s := sim.New(&cfg, nil, nil)
		s.Start()
		s.Run(simTime(&cfg))

		snap := s.Metrics.Snapshot()
		energy := averageEnergyConsumed(&cfg, s)
		row := []string{
			strconv.FormatFloat(rate, 'f', -1, 64),
			strconv.FormatFloat(snap.PDR, 'f', 6, 64),
			strconv.FormatFloat(energy, 'f', 6, 64),
			strconv.FormatFloat(snap.Throughput(simTime(&cfg)), 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// TransitionRun runs E3: builds a scenario, swaps its mobility
// formation to variant at t=300s, runs to horizon, and writes one
// Time,PDR,Overhead row every 1s of virtual time.
func TransitionRun(base *config.Config, variant string, horizon engine.Duration, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"Time", "PDR", "Overhead"}); err != nil {
		return err
	}

	cfg := *base
	s := sim.New(&cfg, nil, nil)
	s.Start()

	const (
		sample     = engine.Second
		transition = 300 * engine.Second
	)
	var lastControl int
	for elapsed := engine.Duration(0); elapsed <= horizon; elapsed += sample {
		if elapsed == transition {
			s.SwapFormation(variant)
		}
		s.Run(s.Scheduler().Now().Add(sample))

		snap := s.Metrics.Snapshot()
		overhead := snap.ControlSent - lastControl
		lastControl = snap.ControlSent

		row := []string{
			strconv.FormatFloat(float64(elapsed)/float64(engine.Second), 'f', 0, 64),
			strconv.FormatFloat(snap.PDR, 'f', 6, 64),
			strconv.Itoa(overhead),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func simTime(cfg *config.Config) engine.Time {
	return engine.Time(int64(cfg.SimTime) * int64(engine.Second))
}

func averageLatencySeconds(samples []metrics.LatencySample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var total engine.Duration
	for _, s := range samples {
		total += s.Latency
	}
	return float64(total) / float64(len(samples)) / float64(engine.Second)
}

// averageEnergyConsumed returns the mean joules drawn, per node, from
// the configured starting reserve down to each node's residual energy
// at the end of the run.
func averageEnergyConsumed(cfg *config.Config, s *sim.Simulator) float64 {
	if len(s.Nodes) == 0 {
		return 0
	}
	var total float64
	for _, n := range s.Nodes {
		total += cfg.InitialEnergy - n.Tracker.Residual()
	}
	return total / float64(len(s.Nodes))
}

// OutputPath returns a collision-free filename for one sweep's output,
// tagged with a fresh run identifier.
func OutputPath(experimentName string) string {
	return fmt.Sprintf("%s-%s.csv", experimentName, RunID())
}
