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
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"uavnetsim/config"
	"uavnetsim/core"
	"uavnetsim/engine"
	"uavnetsim/internal/obs"
	"uavnetsim/sim"
	"uavnetsim/topology"
	"uavnetsim/visualizer"
)

var (
	dryRun       bool
	listenAddr   string
	topologyOut  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single scenario headlessly",
	Long: `Run drives one scenario to completion in virtual time and
prints its final metrics. With --listen it also serves a live
WebSocket snapshot feed and a Prometheus /metrics endpoint for the
duration of the run.`,
	RunE: runScenario,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate configuration without running the scenario")
	runCmd.Flags().StringVar(&listenAddr, "listen", "", "address to serve the visualizer and /metrics on, e.g. :8080")
	runCmd.Flags().StringVar(&topologyOut, "topology-out", "", "write a final-placement SVG to this path when the run completes")
}

func runScenario(_ *cobra.Command, _ []string) error {
	if err := obs.Initialize(obs.Config{Level: v.GetString("logging.level"), Format: v.GetString("logging.format")}); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer obs.Sync()

	if path := v.ConfigFileUsed(); path != "" {
		obs.Logger.Info("using config file", zap.String("path", path))
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		obs.Fatal("invalid configuration", zap.Error(err))
	}

	if dryRun {
		fmt.Printf("configuration is valid\n  drones:  %d\n  mac:     %s\n  mobility: %s\n  sim_time: %ds\n",
			cfg.NumberOfDrones, cfg.MACVariant, cfg.MobilityVariant, cfg.SimTime)
		return nil
	}

	reg := prometheus.NewRegistry()
	s := sim.New(cfg, reg, eventLogger())

	var stop chan struct{}
	if listenAddr != "" {
		stop = make(chan struct{})
		vis := visualizer.NewServer(s, 200*time.Millisecond)
		mux := http.NewServeMux()
		mux.Handle("/ws", vis)
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go vis.Run(stop)
		go func() {
			obs.Logger.Info("serving visualizer and metrics", zap.String("addr", listenAddr))
			if err := http.ListenAndServe(listenAddr, mux); err != nil {
				obs.Logger.Error("visualizer http server stopped", zap.Error(err))
			}
		}()
		defer close(stop)
	}

	s.Start()
	until := engine.Time(int64(cfg.SimTime) * int64(engine.Second))
	s.Run(until)

	snap := s.Metrics.Snapshot()
	fmt.Printf("generated=%d delivered=%d pdr=%.4f collisions=%d control_sent=%d\n",
		snap.Generated, snap.Delivered, snap.PDR, snap.Collisions, snap.ControlSent)
	for cause, n := range snap.Dropped {
		fmt.Printf("  dropped[%s]=%d\n", cause, n)
	}

	if topologyOut != "" {
		if err := writeTopology(s, topologyOut); err != nil {
			return fmt.Errorf("writing topology: %w", err)
		}
	}
	return nil
}

func writeTopology(s *sim.Simulator, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	topology.Render(f, s)
	return nil
}

// eventLogger adapts the engine's event stream to obs's structured
// logger, at debug level: a full run can emit tens of thousands of
// these, too noisy for info.
func eventLogger() core.Listener {
	return func(ev *core.Event) {
		obs.Logger.Debug("sim event",
			zap.Int("type", ev.Type),
			zap.Int("node", int(ev.Node)),
			zap.Int("ref", int(ev.Ref)))
	}
}
