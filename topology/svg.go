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

// Package topology renders a scenario's final node placement and
// one-hop neighbor edges as a static SVG, for inspection after a run
// completes.
package topology

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"uavnetsim/sim"
)

// margin keeps node circles and labels from being clipped at the
// drawing's edge.
const margin = 20.0

// Render draws s's current node placement and every node's current
// neighbor-table edges to w as an SVG document.
func Render(w io.Writer, s *sim.Simulator) {
	box := s.Registry.Box()
	width := int(box.Length + 2*margin)
	height := int(box.Width + 2*margin)

	canvas := svg.New(w)
	canvas.Start(width, height)
	defer canvas.End()

	canvas.Rect(0, 0, width, height, "fill:white")

	drawEdges(canvas, s)
	drawNodes(canvas, s)
}

func xlate(v float64) int { return int(v + margin) }

func drawEdges(canvas *svg.SVG, s *sim.Simulator) {
	now := s.Scheduler().Now()
	for _, n := range s.Nodes {
		from := s.Registry.Position(n.ID)
		for _, peer := range n.Router.Neighbors.List(now) {
			to := s.Registry.Position(peer)
			canvas.Line(xlate(from.X), xlate(from.Y), xlate(to.X), xlate(to.Y),
				"stroke:#a0a0a0;stroke-width:1")
		}
	}
}

func drawNodes(canvas *svg.SVG, s *sim.Simulator) {
	for _, n := range s.Nodes {
		p := s.Registry.Position(n.ID)
		fill := "#2e7dd7"
		if n.Tracker.Asleep() {
			fill = "#999999"
		}
		canvas.Circle(xlate(p.X), xlate(p.Y), 6, fmt.Sprintf("fill:%s;stroke:black;stroke-width:1", fill))
		canvas.Text(xlate(p.X)+8, xlate(p.Y)+4, fmt.Sprintf("%d", int(n.ID)), "text-anchor:start;font-size:10px")
	}
}
