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

// Package visualizer exposes a read-only WebSocket feed of a running
// scenario's node positions, residual energy and metrics, plus a
// "trigger formation change now" command, both synchronized with the
// simulator's virtual-time timeline via Scheduler.InjectExternal.
package visualizer

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"uavnetsim/engine"
	"uavnetsim/sim"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NodeSnapshot is one node's externally-visible state at a snapshot instant.
type NodeSnapshot struct {
	ID        int     `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Residual  float64 `json:"residual_energy"`
	Asleep    bool    `json:"asleep"`
	Neighbors []int   `json:"neighbors"`
}

// Snapshot is the full state broadcast to every connected client.
type Snapshot struct {
	Time        int64          `json:"time_us"`
	Nodes       []NodeSnapshot `json:"nodes"`
	Generated   int            `json:"generated"`
	Delivered   int            `json:"delivered"`
	PDR         float64        `json:"pdr"`
	Collisions  int            `json:"collisions"`
	ControlSent int            `json:"control_sent"`
}

// Command is a client-issued control message. Kind "swap_formation"
// carries the requested mobility variant in Variant.
type Command struct {
	Kind    string `json:"kind"`
	Variant string `json:"variant"`
}

// Server streams periodic Snapshots to every connected client and
// relays "swap_formation" commands into the simulator's timeline.
type Server struct {
	sim      *sim.Simulator
	interval time.Duration

	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

// NewServer builds a visualizer over s, broadcasting a snapshot every
// interval of wall-clock time (the server runs outside virtual time:
// it observes the simulator, it does not drive it).
func NewServer(s *sim.Simulator, interval time.Duration) *Server {
	return &Server{sim: s, interval: interval, clients: make(map[*websocket.Conn]bool)}
}

func (srv *Server) snapshot() Snapshot {
	reg := srv.sim.Registry
	now := srv.sim.Scheduler().Now()
	out := Snapshot{Time: int64(now)}
	for _, n := range srv.sim.Nodes {
		p := reg.Position(n.ID)
		peers := n.Router.Neighbors.List(now)
		neighbors := make([]int, len(peers))
		for i, peer := range peers {
			neighbors[i] = int(peer)
		}
		out.Nodes = append(out.Nodes, NodeSnapshot{
			ID:        int(n.ID),
			X:         p.X,
			Y:         p.Y,
			Z:         p.Z,
			Residual:  n.Tracker.Residual(),
			Asleep:    n.Tracker.Asleep(),
			Neighbors: neighbors,
		})
	}
	m := srv.sim.Metrics.Snapshot()
	out.Generated = m.Generated
	out.Delivered = m.Delivered
	out.PDR = m.PDR
	out.Collisions = m.Collisions
	out.ControlSent = m.ControlSent
	return out
}

// Broadcast pushes snap to every connected client, dropping any client
// whose write fails.
func (srv *Server) broadcast(snap Snapshot) {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	for conn := range srv.clients {
		if err := conn.WriteJSON(snap); err != nil {
			go srv.drop(conn)
		}
	}
}

func (srv *Server) drop(conn *websocket.Conn) {
	srv.mu.Lock()
	delete(srv.clients, conn)
	srv.mu.Unlock()
	conn.Close()
}

// Run periodically broadcasts a snapshot until stop is closed. Each
// snapshot is taken on the simulator's dispatch loop via InjectExternal.
func (srv *Server) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(srv.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			done := make(chan Snapshot, 1)
			srv.sim.Scheduler().InjectExternal(func(*engine.Scheduler) {
				done <- srv.snapshot()
			})
			select {
			case snap := <-done:
				srv.broadcast(snap)
			case <-stop:
				return
			}
		case <-stop:
			return
		}
	}
}

// ServeHTTP upgrades the connection and relays inbound commands.
func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	srv.mu.Lock()
	srv.clients[conn] = true
	srv.mu.Unlock()

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			srv.drop(conn)
			return
		}
		if cmd.Kind == "swap_formation" {
			variant := cmd.Variant
			srv.sim.Scheduler().InjectExternal(func(*engine.Scheduler) {
				srv.sim.SwapFormation(variant)
			})
		}
	}
}
