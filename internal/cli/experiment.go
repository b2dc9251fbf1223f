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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"uavnetsim/config"
	"uavnetsim/engine"
	"uavnetsim/experiment"
	"uavnetsim/internal/obs"
)

var (
	expKind   string
	expOutDir string
)

var experimentCmd = &cobra.Command{
	Use:   "experiment",
	Short: "Run a canonical parameter sweep and emit a CSV",
	Long: `Experiment drives one of the three canonical sweeps (speed,
packet-rate, or formation-transition) and writes its CSV to --out-dir,
tagged with a fresh run identifier so repeated sweeps never collide.`,
	RunE: runExperiment,
}

func init() {
	rootCmd.AddCommand(experimentCmd)

	experimentCmd.Flags().StringVar(&expKind, "kind", "e1", "which experiment to run: e1, e2, or e3")
	experimentCmd.Flags().StringVar(&expOutDir, "out-dir", ".", "directory to write the output CSV to")
}

func runExperiment(_ *cobra.Command, _ []string) error {
	if err := obs.Initialize(obs.Config{Level: v.GetString("logging.level"), Format: v.GetString("logging.format")}); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer obs.Sync()

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		obs.Fatal("invalid configuration", zap.Error(err))
	}

	var path string
	var run func(*os.File) error

	switch expKind {
	case "e1":
		path = expOutDir + "/" + experiment.OutputPath("E1")
		run = func(f *os.File) error {
			return experiment.SpeedSweep(cfg, []float64{0, 10, 20, 30, 40, 50}, 25, f)
		}
	case "e2":
		path = expOutDir + "/" + experiment.OutputPath("E2")
		run = func(f *os.File) error {
			return experiment.RateSweep(cfg, []float64{1, 5, 10, 20, 50}, f)
		}
	case "e3":
		path = expOutDir + "/" + experiment.OutputPath("E3")
		run = func(f *os.File) error {
			return experiment.TransitionRun(cfg, cfg.MobilityVariant, 600*engine.Second, f)
		}
	default:
		return fmt.Errorf("unknown experiment kind %q (want e1, e2, or e3)", expKind)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	obs.Logger.Info("running experiment", zap.String("kind", expKind), zap.String("path", path))
	if err := run(f); err != nil {
		return fmt.Errorf("running experiment %s: %w", expKind, err)
	}
	fmt.Println(path)
	return nil
}
