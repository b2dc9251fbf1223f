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

package engine

import (
	"container/heap"
	"sync"
)

//----------------------------------------------------------------------
// The scheduler hands exactly one goroutine the baton at a time: the
// dispatch loop pops the earliest waiter, advances the clock to its
// instant and sends on its channel, then blocks until that goroutine
// either suspends again (After/Wait/Acquire/Select) or terminates. No
// other goroutine touches scheduler state while the baton is out, so
// none of the cooperative primitives below need a lock of their own -
// only the externally-reachable injection queue does.
//----------------------------------------------------------------------

// waiter is a single pending resumption, ordered by (at, seq) so that
// events scheduled for the same instant resume in FIFO scheduling order.
type waiter struct {
	at    Time
	seq   uint64
	ch    chan struct{} // buffered(1); dispatcher sends, process receives
	group *selectGroup  // non-nil only for a Select's three branches
}

type waiterHeap []*waiter

func (h waiterHeap) Len() int { return len(h) }
func (h waiterHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h waiterHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *waiterHeap) Push(x any)   { *h = append(*h, x.(*waiter)) }
func (h *waiterHeap) Pop() any {
	old := *h
	n := len(old)
	w := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return w
}

// selectGroup lets exactly one of a Select's branches claim the wakeup;
// the rest are discarded without ever touching their channel.
type selectGroup struct {
	mu       sync.Mutex
	resolved bool
}

func (g *selectGroup) claim() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.resolved {
		return false
	}
	g.resolved = true
	return true
}

// Scheduler is the single-threaded cooperative virtual-time engine.
type Scheduler struct {
	now Time
	pq  waiterHeap
	seq uint64
	back chan struct{} // suspending/terminating process signals the dispatcher here

	extMu sync.Mutex
	extQ  []func(*Scheduler)
}

// NewScheduler creates an idle scheduler at virtual time 0.
func NewScheduler() *Scheduler {
	return &Scheduler{
		pq:   make(waiterHeap, 0, 256),
		back: make(chan struct{}),
	}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() Time { return s.now }

// Pending reports how many waiters are still scheduled (diagnostic use).
func (s *Scheduler) Pending() int { return len(s.pq) }

func (s *Scheduler) nextSeq() uint64 {
	s.seq++
	return s.seq
}

func (s *Scheduler) schedule(at Time, group *selectGroup) *waiter {
	w := &waiter{at: at, seq: s.nextSeq(), ch: make(chan struct{}, 1), group: group}
	heap.Push(&s.pq, w)
	return w
}

// Spawn starts fn as a new cooperative process. fn does not begin running
// until the dispatch loop reaches now+delay; Spawn itself never blocks.
func (s *Scheduler) Spawn(delay Duration, fn func()) {
	w := s.schedule(s.now.Add(delay), nil)
	go func() {
		<-w.ch
		fn()
		s.back <- struct{}{}
	}()
}

// After suspends the calling process until now+dt. This is a suspension
// point: everything before it and everything after it (up to the next
// suspension point) executes atomically from the timeline's perspective.
func (s *Scheduler) After(dt Duration) {
	w := s.schedule(s.now.Add(dt), nil)
	s.back <- struct{}{}
	<-w.ch
}

// InjectExternal queues fn to run on the dispatch loop at the next
// opportunity, synchronized with the cooperative timeline. Safe to call
// from any goroutine - this is the only thread-safe entry point into an
// otherwise single-threaded engine, used by the visualizer's "trigger
// formation change now" command and similar external control.
func (s *Scheduler) InjectExternal(fn func(*Scheduler)) {
	s.extMu.Lock()
	s.extQ = append(s.extQ, fn)
	s.extMu.Unlock()
}

func (s *Scheduler) drainExternal() {
	s.extMu.Lock()
	q := s.extQ
	s.extQ = nil
	s.extMu.Unlock()
	for _, fn := range q {
		fn(s)
	}
}

// Run drives the dispatch loop until no waiter remains at or before
// "until", then advances the clock to "until" and returns.
func (s *Scheduler) Run(until Time) {
	s.drainExternal()
	for len(s.pq) > 0 {
		top := s.pq[0]
		if top.at > until {
			break
		}
		w := heap.Pop(&s.pq).(*waiter)
		if w.group != nil && !w.group.claim() {
			// losing branch of a resolved Select: discard silently
			continue
		}
		s.now = w.at
		w.ch <- struct{}{}
		<-s.back
		s.drainExternal()
	}
	if s.now < until {
		s.now = until
	}
}
