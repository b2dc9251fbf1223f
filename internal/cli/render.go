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
	"uavnetsim/internal/obs"
	"uavnetsim/sim"
	"uavnetsim/topology"
)

var renderOut string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Run a scenario and render its final topology to SVG",
	Long: `Render runs a scenario to completion exactly like run, then
draws the final node placement and one-hop neighbor edges to
--out as a static SVG — the non-interactive half of the topology
viewer.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderOut, "out", "topology.svg", "path to write the rendered SVG to")
}

func runRender(_ *cobra.Command, _ []string) error {
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

	s := sim.New(cfg, nil, nil)
	s.Start()
	s.Run(engine.Time(int64(cfg.SimTime) * int64(engine.Second)))

	f, err := os.Create(renderOut)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	topology.Render(f, s)
	obs.Logger.Info("rendered topology", zap.String("path", renderOut))
	fmt.Println(renderOut)
	return nil
}
