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

package routing

import (
	"uavnetsim/config"
	"uavnetsim/core"
	"uavnetsim/engine"
)

// Transport is how a Router actually puts a control packet on the air;
// the node wires this to its MAC instance.
type Transport interface {
	Broadcast(pkt *core.Packet)
	Unicast(nextHop core.NodeID, pkt *core.Packet)
}

// Router is one node's AODV-style control plane: neighbor discovery,
// route discovery, and the routing table itself.
type Router struct {
	cfg   *config.Config
	self  core.NodeID
	sched *engine.Scheduler
	tr    Transport
	emit  core.Listener

	seq    uint32 // this node's own originated sequence number
	rreqID uint32 // this node's own broadcast-id counter

	Neighbors *NeighborTable
	Table     *Table
	dedup     *Dedup
	buffer    map[core.NodeID][]*core.Packet

	nextPacketID func() uint64
}

// New builds a router for self, bound to tr for actually transmitting,
// reporting events through emit (which may be nil).
func New(cfg *config.Config, self core.NodeID, sched *engine.Scheduler, tr Transport, emit core.Listener, nextPacketID func() uint64) *Router {
	return &Router{
		cfg:          cfg,
		self:         self,
		sched:        sched,
		tr:           tr,
		emit:         emit,
		Neighbors:    NewNeighborTable(),
		Table:        NewTable(),
		dedup:        NewDedup(cfg.NumberOfDrones),
		buffer:       make(map[core.NodeID][]*core.Packet),
		nextPacketID: nextPacketID,
	}
}

// helloInterval, neighborTimeout and activeRouteTimeout are configured in
// microseconds (engine.Duration's native unit), so neighborTimeout can
// carry a fractional-second value such as 2.5s.
func (r *Router) helloInterval() engine.Duration {
	return engine.Duration(r.cfg.HelloInterval)
}
func (r *Router) neighborTimeout() engine.Duration {
	return engine.Duration(r.cfg.NeighborTimeout)
}
func (r *Router) activeRouteTimeout() engine.Duration {
	return engine.Duration(r.cfg.ActiveRouteTimeout)
}

func (r *Router) notify(typ int, ref core.NodeID, val any) {
	r.emit.Notify(&core.Event{Type: typ, Node: r.self, Ref: ref, Val: val})
}

// BeaconLoop broadcasts a Hello every hello_interval, forever. Spawn it
// once at node start.
func (r *Router) BeaconLoop() {
	for {
		r.sched.After(r.helloInterval())
		pkt := core.NewHelloPacket(r.nextPacketID(), r.self, r.sched.Now())
		r.tr.Broadcast(pkt)
	}
}

// RouteSweepLoop purges expired routing and neighbor entries every
// second of virtual time, forever. Spawn it once at node start.
func (r *Router) RouteSweepLoop() {
	for {
		r.sched.After(1 * engine.Second)
		now := r.sched.Now()
		for _, dest := range r.Table.Sweep(now) {
			r.notify(core.EvRouteInvalidated, dest, nil)
		}
		for _, peer := range r.Neighbors.Sweep(now) {
			r.notify(core.EvNeighborExpired, peer, nil)
		}
	}
}

// DedupResetLoop rebuilds the RREQ suppression filter every window,
// bounding both its false-positive growth and the suppression memory
// to the specified window. Spawn it once at node start.
func (r *Router) DedupResetLoop() {
	for {
		r.sched.After(engine.Duration(rreqDedupWindow))
		r.dedup.reset()
	}
}

// HandleHello processes a one-hop beacon from sender.
func (r *Router) HandleHello(sender core.NodeID) {
	r.Neighbors.Heard(sender, r.sched.Now(), r.neighborTimeout())
}

// RequestRoute starts route discovery for dest if no valid route
// exists yet, and enqueues pkt to be drained once one arrives. If a
// valid route already exists the caller should use it directly instead
// of calling this.
func (r *Router) RequestRoute(dest core.NodeID, pkt *core.Packet) {
	_, already := r.buffer[dest]
	r.buffer[dest] = append(r.buffer[dest], pkt)
	if already {
		return // discovery already in flight for this destination
	}

	r.rreqID++
	r.seq++
	req := &core.Packet{
		ID:      r.nextPacketID(),
		Kind:    core.KindRREQ,
		Src:     r.self,
		Dst:     core.None,
		Created: r.sched.Now(),
		TTL:     r.cfg.MaxTTL,
		RREQ: &core.RREQPayload{
			Originator:  r.self,
			Destination: dest,
			BroadcastID: r.rreqID,
			OriginSeq:   r.seq,
			HopCount:    0,
		},
	}
	r.dedup.SeenOrMark(r.self, r.rreqID) // never re-forward our own RREQ
	r.tr.Broadcast(req)
	r.notify(core.EvRouteRequest, dest, req)
}

// HandleRREQ processes an RREQ received from sender (the one-hop
// relay, not necessarily the originator).
func (r *Router) HandleRREQ(sender core.NodeID, req *core.RREQPayload) {
	if r.dedup.SeenOrMark(req.Originator, req.BroadcastID) {
		return
	}

	now := r.sched.Now()
	if r.Table.Offer(req.Originator, sender, req.OriginSeq, req.HopCount+1, now, r.activeRouteTimeout()) {
		r.notify(core.EvRouteDiscovered, req.Originator, nil)
	}

	if req.Destination == r.self {
		r.replyAsDestination(req)
		return
	}
	if e, ok := r.Table.Lookup(req.Destination, now); ok && e.DestSeq >= req.DestSeq {
		r.replyAsIntermediate(req, e)
		return
	}

	ttl := r.cfg.MaxTTL - (req.HopCount + 1)
	if ttl <= 0 {
		return // hop budget of the flood exhausted
	}
	fwd := &core.Packet{
		ID:      r.nextPacketID(),
		Kind:    core.KindRREQ,
		Src:     r.self,
		Dst:     core.None,
		Created: now,
		TTL:     ttl,
		RREQ: &core.RREQPayload{
			Originator:  req.Originator,
			Destination: req.Destination,
			BroadcastID: req.BroadcastID,
			OriginSeq:   req.OriginSeq,
			DestSeq:     req.DestSeq,
			HopCount:    req.HopCount + 1,
		},
	}
	r.tr.Broadcast(fwd)
}

func (r *Router) replyAsDestination(req *core.RREQPayload) {
	r.seq++
	rrep := &core.Packet{
		ID:      r.nextPacketID(),
		Kind:    core.KindRREP,
		Src:     r.self,
		Dst:     req.Originator,
		Created: r.sched.Now(),
		TTL:     r.cfg.MaxTTL,
		RREP: &core.RREPPayload{
			Destination: r.self,
			DestSeq:     r.seq,
			Originator:  req.Originator,
			HopCount:    0,
		},
	}
	r.sendReverse(req.Originator, rrep)
	r.notify(core.EvRouteReply, req.Originator, rrep)
}

func (r *Router) replyAsIntermediate(req *core.RREQPayload, e *Entry) {
	rrep := &core.Packet{
		ID:      r.nextPacketID(),
		Kind:    core.KindRREP,
		Src:     r.self,
		Dst:     req.Originator,
		Created: r.sched.Now(),
		TTL:     r.cfg.MaxTTL,
		RREP: &core.RREPPayload{
			Destination: req.Destination,
			DestSeq:     e.DestSeq,
			Originator:  req.Originator,
			HopCount:    e.HopCount,
		},
	}
	r.sendReverse(req.Originator, rrep)
	r.notify(core.EvRouteReply, req.Originator, rrep)
}

// sendReverse unicasts pkt toward originator along the reverse route
// just installed by the RREQ that is being answered.
func (r *Router) sendReverse(originator core.NodeID, pkt *core.Packet) {
	now := r.sched.Now()
	e, ok := r.Table.Lookup(originator, now)
	if !ok {
		return // reverse route vanished; the RREQ flood will eventually retry
	}
	r.tr.Unicast(e.NextHop, pkt)
}

// HandleRREP processes an RREP received from sender.
func (r *Router) HandleRREP(sender core.NodeID, rrep *core.RREPPayload) {
	now := r.sched.Now()
	if r.Table.Offer(rrep.Destination, sender, rrep.DestSeq, rrep.HopCount+1, now, r.activeRouteTimeout()) {
		r.notify(core.EvRouteDiscovered, rrep.Destination, nil)
	}

	if rrep.Originator == r.self {
		r.drainBuffer(rrep.Destination)
		return
	}

	fwd := &core.Packet{
		ID:      r.nextPacketID(),
		Kind:    core.KindRREP,
		Src:     r.self,
		Dst:     rrep.Originator,
		Created: now,
		TTL:     r.cfg.MaxTTL,
		RREP: &core.RREPPayload{
			Destination: rrep.Destination,
			DestSeq:     rrep.DestSeq,
			Originator:  rrep.Originator,
			HopCount:    rrep.HopCount + 1,
		},
	}
	r.sendReverse(rrep.Originator, fwd)
}

// drainBuffer unicasts every packet buffered for dest through the
// Transport to the next hop of the forward route that now exists.
func (r *Router) drainBuffer(dest core.NodeID) {
	pkts := r.buffer[dest]
	delete(r.buffer, dest)
	now := r.sched.Now()
	e, ok := r.Table.Lookup(dest, now)
	if !ok {
		// route expired between reply and drain: re-buffer behind a new discovery
		for _, pkt := range pkts {
			r.RequestRoute(dest, pkt)
		}
		return
	}
	for _, pkt := range pkts {
		pkt.NextHop = e.NextHop
		r.tr.Unicast(e.NextHop, pkt)
	}
}

// ReportLinkBreak is called by MAC when retry exhaustion proves nextHop
// unreachable for pkt. It invalidates every route via that hop and
// broadcasts a RERR listing them.
func (r *Router) ReportLinkBreak(nextHop core.NodeID, pkt *core.Packet) {
	unreachable := r.Table.InvalidateByNextHop(nextHop)
	for _, u := range unreachable {
		r.notify(core.EvRouteInvalidated, u.Dest, nil)
	}
	if len(unreachable) == 0 {
		return
	}
	rerr := &core.Packet{
		ID:      r.nextPacketID(),
		Kind:    core.KindRERR,
		Src:     r.self,
		Dst:     core.None,
		Created: r.sched.Now(),
		TTL:     1,
		RERR:    &core.RERRPayload{Unreachable: unreachable},
	}
	r.tr.Broadcast(rerr)
	r.notify(core.EvRouteError, core.None, rerr)
}

// HandleRERR processes a RERR received from sender: invalidates every
// matching local entry and re-broadcasts if anything was invalidated,
// so the error propagates upstream of sender.
func (r *Router) HandleRERR(sender core.NodeID, rerr *core.RERRPayload) {
	var invalidated []core.UnreachableEntry
	for _, u := range rerr.Unreachable {
		if e, ok := r.Table.Lookup(u.Dest, r.sched.Now()); ok && e.NextHop == sender {
			r.Table.Invalidate(u.Dest)
			invalidated = append(invalidated, u)
			r.notify(core.EvRouteInvalidated, u.Dest, nil)
		}
	}
	if len(invalidated) == 0 {
		return
	}
	fwd := &core.Packet{
		ID:      r.nextPacketID(),
		Kind:    core.KindRERR,
		Src:     r.self,
		Dst:     core.None,
		Created: r.sched.Now(),
		TTL:     1,
		RERR:    &core.RERRPayload{Unreachable: invalidated},
	}
	r.tr.Broadcast(fwd)
	r.notify(core.EvRouteError, core.None, fwd)
}

// ResolveNextHop returns the next hop toward dest if a valid route
// exists, touching (refreshing) the entry as an active route.
func (r *Router) ResolveNextHop(dest core.NodeID) (core.NodeID, bool) {
	now := r.sched.Now()
	e, ok := r.Table.Lookup(dest, now)
	if !ok {
		return core.None, false
	}
	r.Table.Touch(dest, now, r.activeRouteTimeout())
	return e.NextHop, true
}

// OwnSeq returns this node's most recently originated sequence number,
// exposed for testing sequence-number monotonicity.
func (r *Router) OwnSeq() uint32 { return r.seq }
