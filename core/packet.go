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

import "uavnetsim/engine"

// PacketKind distinguishes the data and control-plane packet variants.
type PacketKind int

const (
	KindData PacketKind = iota
	KindHello
	KindRREQ
	KindRREP
	KindRERR
	KindACK
)

func (k PacketKind) String() string {
	switch k {
	case KindData:
		return "DATA"
	case KindHello:
		return "HELLO"
	case KindRREQ:
		return "RREQ"
	case KindRREP:
		return "RREP"
	case KindRERR:
		return "RERR"
	case KindACK:
		return "ACK"
	default:
		return "UNKNOWN"
	}
}

// DefaultTTL is the hop budget a freshly created packet starts with.
const DefaultTTL = 11

// Packet is the common envelope for every packet variant travelling
// through the network. Fields above the variant-specific payload are
// immutable once the packet is created; NextHop, LastHop, Retries and
// TTL are mutated as the packet is forwarded hop by hop.
type Packet struct {
	ID      uint64     // globally unique, ascending
	Kind    PacketKind
	Src     NodeID
	Dst     NodeID
	Created engine.Time

	TTL     int // Data and RREQ: decremented on every forward, dropped at 0; RREP/RERR are rebuilt per hop with a fresh TTL
	NextHop NodeID
	LastHop NodeID // one-hop transmitter of the frame currently in flight, set by mac
	Retries int // per-node transmission-attempt counter, reset on each new hop

	PayloadBits int // Data packets only; 0 for pure control traffic

	// Variant-specific payload. Exactly one is populated according to Kind.
	RREQ *RREQPayload
	RREP *RREPPayload
	RERR *RERRPayload
	ACK  *ACKPayload
}

// NewDataPacket builds a Data packet with the default TTL.
func NewDataPacket(id uint64, src, dst NodeID, created engine.Time, payloadBits int) *Packet {
	return &Packet{
		ID:          id,
		Kind:        KindData,
		Src:         src,
		Dst:         dst,
		Created:     created,
		TTL:         DefaultTTL,
		NextHop:     None,
		LastHop:     None,
		PayloadBits: payloadBits,
	}
}

// NewHelloPacket builds a one-hop, non-forwarded beacon.
func NewHelloPacket(id uint64, src NodeID, created engine.Time) *Packet {
	return &Packet{
		ID:      id,
		Kind:    KindHello,
		Src:     src,
		Dst:     None,
		Created: created,
		TTL:     1,
		NextHop: None,
		LastHop: None,
	}
}

// RREQPayload carries AODV route-request fields.
type RREQPayload struct {
	Originator  NodeID
	Destination NodeID
	BroadcastID uint32 // monotonic per originator
	OriginSeq   uint32
	DestSeq     uint32 // last known, 0 if unknown
	HopCount    int
}

// RREPPayload carries AODV route-reply fields, unicast on the reverse path.
type RREPPayload struct {
	Destination NodeID
	DestSeq     uint32
	Originator  NodeID
	HopCount    int
}

// UnreachableEntry names one destination invalidated by a link break,
// paired with its last known sequence number.
type UnreachableEntry struct {
	Dest NodeID
	Seq  uint32
}

// RERRPayload carries the set of destinations that became unreachable.
type RERRPayload struct {
	Unreachable []UnreachableEntry
}

// ACKPayload acknowledges a single one-hop transmission.
type ACKPayload struct {
	AckedID uint64
}
