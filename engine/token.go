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

// Token is an exclusive binary resource: one channel sub-band, held by at
// most one MAC transmission at a time. Acquirers queue in FIFO order.
type Token struct {
	held    bool
	waiters []*waiter
}

// NewToken returns a free token.
func NewToken() *Token {
	return &Token{}
}

// Held reports whether the token is currently held by anyone.
func (t *Token) Held() bool { return t.held }

// Acquire blocks the calling process until it holds tok exclusively.
func (s *Scheduler) Acquire(tok *Token) {
	if !tok.held {
		tok.held = true
		return
	}
	w := &waiter{at: s.now, seq: s.nextSeq(), ch: make(chan struct{}, 1)}
	tok.waiters = append(tok.waiters, w)
	s.back <- struct{}{}
	<-w.ch
}

// Release gives up tok. If another process is queued for it, the token
// passes directly to the next in FIFO order without ever being observed
// free.
func (s *Scheduler) Release(tok *Token) {
	if len(tok.waiters) == 0 {
		tok.held = false
		return
	}
	w := tok.waiters[0]
	tok.waiters = tok.waiters[1:]
	w.at = s.now
	heap.Push(&s.pq, w)
}
