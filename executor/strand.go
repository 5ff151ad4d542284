/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package executor

import (
	"sync"
	"time"
)

// strand is a FIFO queue of tasks drained one at a time by re-submitting
// its drain loop to the shared pool whenever it has work and isn't
// already running. This keeps strand count decoupled from goroutine
// count: an idle strand holds no goroutine at all.
type strand struct {
	pool *pool

	mu      sync.Mutex
	queue   []Task
	running bool
	closed  bool
}

func newStrand(p *pool) *strand {
	return &strand{pool: p}
}

func (s *strand) Post(task Task) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.queue = append(s.queue, task)
	start := !s.running
	if start {
		s.running = true
	}
	s.mu.Unlock()

	if start {
		s.pool.Go(s.drain)
	}
}

func (s *strand) Dispatch(task Task) {
	s.Post(task)
}

func (s *strand) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.running = false
			s.mu.Unlock()
			return
		}

		task := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		task()
	}
}

func (s *strand) Timer(fn Task) WakeTimer {
	return newWakeTimer(s, fn)
}

func (s *strand) Close() {
	s.mu.Lock()
	s.closed = true
	s.queue = nil
	s.mu.Unlock()
}

// wakeTimer implements the async-condition-variable substitute of
// spec.md §9: a single reusable, cancelable timer whose fire is always
// delivered back onto the owning strand rather than running on the
// timer's own internal goroutine.
type wakeTimer struct {
	s  *strand
	fn Task
	mu sync.Mutex
	t  *time.Timer
}

func newWakeTimer(s *strand, fn Task) *wakeTimer {
	return &wakeTimer{s: s, fn: fn}
}

func (w *wakeTimer) Reset(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.t != nil {
		w.t.Stop()
	}

	w.t = time.AfterFunc(d, func() {
		w.s.Post(w.fn)
	})
}

func (w *wakeTimer) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.t != nil {
		w.t.Stop()
	}
}
