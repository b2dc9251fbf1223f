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

import "container/heap"

// Event is a manually-triggerable one-shot wakeup. A process suspends on
// it with Wait; Fire resumes every current waiter (in the order they
// called Wait) and leaves the event ready to be reused.
type Event struct {
	waiters []*waiter
}

// NewEvent creates an event with no pending waiters.
func NewEvent() *Event {
	return &Event{}
}

// Wait suspends the calling process until the next Fire on ev.
func (s *Scheduler) Wait(ev *Event) {
	w := &waiter{at: s.now, seq: s.nextSeq(), ch: make(chan struct{}, 1)}
	ev.waiters = append(ev.waiters, w)
	s.back <- struct{}{}
	<-w.ch
}

// Fire resumes every process currently waiting on ev. It does not itself
// suspend the caller.
func (s *Scheduler) Fire(ev *Event) {
	pending := ev.waiters
	ev.waiters = nil
	for _, w := range pending {
		w.at = s.now
		heap.Push(&s.pq, w)
	}
}

// Select-branch results.
const (
	BranchA = iota
	BranchB
	BranchTimeout
)

// Select resumes on whichever of {Wait(a), Wait(b), After(timeout)} fires
// first. The other two branches are observably discarded: the scheduler
// never resumes them and their pending wakeups are dropped on dispatch.
func (s *Scheduler) Select(a, b *Event, timeout Duration) int {
	group := &selectGroup{}
	wa := &waiter{at: s.now, seq: s.nextSeq(), ch: make(chan struct{}, 1), group: group}
	wb := &waiter{at: s.now, seq: s.nextSeq(), ch: make(chan struct{}, 1), group: group}
	wt := &waiter{at: s.now.Add(timeout), seq: s.nextSeq(), ch: make(chan struct{}, 1), group: group}
	a.waiters = append(a.waiters, wa)
	b.waiters = append(b.waiters, wb)
	heap.Push(&s.pq, wt)

	s.back <- struct{}{}
	select {
	case <-wa.ch:
		return BranchA
	case <-wb.ch:
		return BranchB
	case <-wt.ch:
		return BranchTimeout
	}
}
