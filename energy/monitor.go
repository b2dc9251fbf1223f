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

package energy

import "uavnetsim/engine"

const accountingInterval = 100 * engine.Millisecond

// Monitor is the long-lived per-node process that deducts energy every
// 100 ms of virtual time and announces the transition to sleep.
type Monitor struct {
	Sched   *engine.Scheduler
	Tracker *Tracker
	Speed   func() float64 // current flight speed, read from mobility/registry
	OnSleep func()
}

// Run is the monitor's entire lifetime: it suspends at After(100ms),
// ticks the tracker, and exits for good once the node has gone to
// sleep. Spawn it once per node at simulator start.
func (m *Monitor) Run() {
	for {
		m.Sched.After(accountingInterval)
		if m.Tracker.Asleep() {
			return
		}
		if m.Tracker.Tick(m.Speed()) {
			if m.OnSleep != nil {
				m.OnSleep()
			}
			return
		}
	}
}
