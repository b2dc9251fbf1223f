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

// Package mobility produces each node's sequence of position updates.
// The closed variant set is RandomWaypoint3D, LeaderFollower and
// GaussMarkov3D; every variant runs as one long-lived scheduler process
// per node and may be swapped out mid-run.
package mobility

import (
	"math/rand"

	"uavnetsim/core"
	"uavnetsim/engine"
	"uavnetsim/world"
)

// minStepDelay and maxStepDelay bound the inter-step virtual-time delay
// every variant must respect.
const (
	minStepDelay = 10 * engine.Millisecond
	maxStepDelay = 100 * engine.Millisecond
)

func stepDelay(rng *rand.Rand) engine.Duration {
	span := int64(maxStepDelay - minStepDelay)
	return minStepDelay + engine.Duration(rng.Int63n(span+1))
}

// Model is one mobility variant's per-node driver. Run must check
// *active before every position write and return as soon as it reads
// false, so that a mid-run swap can hand authorship to a new model
// cleanly.
type Model interface {
	Run(s *engine.Scheduler, reg *world.Registry, id core.NodeID, rng *rand.Rand, active *bool)
}

// Controller owns the currently-active mobility model for one node and
// lets the simulator swap it at any virtual-time instant.
type Controller struct {
	sched  *engine.Scheduler
	reg    *world.Registry
	id     core.NodeID
	rng    *rand.Rand
	active *bool
}

// NewController starts node id running under the given initial model.
func NewController(s *engine.Scheduler, reg *world.Registry, id core.NodeID, rng *rand.Rand, initial Model) *Controller {
	c := &Controller{sched: s, reg: reg, id: id, rng: rng}
	c.start(initial)
	return c
}

func (c *Controller) start(m Model) {
	active := true
	c.active = &active
	c.sched.Spawn(0, func() {
		m.Run(c.sched, c.reg, c.id, c.rng, &active)
	})
}

// Swap retires the current model (its next loop iteration observes
// *active == false and returns) and starts next as the node's sole
// coordinate author from now on.
func (c *Controller) Swap(next Model) {
	*c.active = false
	c.start(next)
}
