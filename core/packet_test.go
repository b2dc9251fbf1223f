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

package core

import (
	"testing"

	"uavnetsim/engine"
)

func TestNewDataPacketDefaults(t *testing.T) {
	p := NewDataPacket(1, NodeID(0), NodeID(3), engine.Time(0), 8192)
	if p.Kind != KindData {
		t.Fatalf("expected KindData, got %v", p.Kind)
	}
	if p.TTL != DefaultTTL {
		t.Fatalf("expected TTL %d, got %d", DefaultTTL, p.TTL)
	}
	if p.NextHop.Valid() {
		t.Fatalf("fresh packet must have no next hop assigned")
	}
}

func TestNewHelloPacketIsOneHop(t *testing.T) {
	p := NewHelloPacket(2, NodeID(1), engine.Time(0))
	if p.TTL != 1 {
		t.Fatalf("hello packets must carry TTL 1, got %d", p.TTL)
	}
	if p.Kind.String() != "HELLO" {
		t.Fatalf("unexpected kind string %q", p.Kind.String())
	}
}

func TestNodeIDNoneIsInvalid(t *testing.T) {
	if None.Valid() {
		t.Fatal("None must not be a valid node id")
	}
	if NodeID(5).String() != "#5" {
		t.Fatalf("unexpected string form: %s", NodeID(5).String())
	}
}
