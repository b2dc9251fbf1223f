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

// Package engine implements the discrete-event scheduler that drives the
// simulation: a monotonic virtual clock in microseconds, suspension
// primitives (after/event/select/token) and a single dispatch loop that
// guarantees the whole simulation is, from the timeline's perspective,
// single-threaded and deterministic.
package engine

import "fmt"

// Time is a virtual timestamp in microseconds since the start of a run.
type Time int64

// Duration is a virtual time span in microseconds.
type Duration int64

const (
	Microsecond Duration = 1
	Millisecond          = 1000 * Microsecond
	Second               = 1000 * Millisecond
)

// Add returns t advanced by d.
func (t Time) Add(d Duration) Time {
	return t + Time(d)
}

// Before reports whether t is strictly earlier than u.
func (t Time) Before(u Time) bool {
	return t < u
}

// After reports whether t is strictly later than u.
func (t Time) After(u Time) bool {
	return t > u
}

func (t Time) String() string {
	return fmt.Sprintf("%dus", int64(t))
}

func (d Duration) String() string {
	return fmt.Sprintf("%dus", int64(d))
}
