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

// Package executor provides the strand/pool facade every connection,
// connector and the messenger dispatch work through: a Strand is a
// single-goroutine, FIFO-serializing queue of closures bound to one
// connection, and a Pool is the shared worker pool that actually runs
// those closures so a slow handler on one connection cannot starve the
// goroutines backing another.
package executor

import (
	"context"
	"time"
)

// Task is one unit of work submitted to a Strand.
type Task func()

// Strand serializes every Task submitted to it: two tasks posted from
// different goroutines never run concurrently with each other, and they
// run in the order they were posted (I2 in the connection data model).
type Strand interface {
	// Post enqueues task to run on this strand. Post never waits for the
	// task itself; the strand's queue is unbounded, and Post can block only
	// while handing the strand's drain loop to a pool whose job queue is
	// full. Post is a no-op once the strand has been Closed.
	Post(task Task)

	// Dispatch behaves exactly like Post: it is kept as a distinct method
	// so call sites can document intent (re-entering the strand from a
	// running task); it has no synchronous fast path.
	Dispatch(task Task)

	// Timer arms a cancelable, rearmable wake timer bound to this strand:
	// when it fires, fn is posted to the strand exactly like Post. This is
	// the async condition-variable substitute described in spec.md §9:
	// rearming to a past/zero duration wakes immediately, rearming to a
	// very large duration approximates "never".
	Timer(fn Task) WakeTimer

	// Close stops accepting new tasks and discards the tasks still queued.
	// It returns at once: a task already running finishes on its own, and
	// Close does not wait for it.
	Close()
}

// WakeTimer is a single reusable timer whose fire callback is always
// delivered back onto the strand that created it.
type WakeTimer interface {
	// Reset rearms the timer to fire after d. Reset may be called from any
	// goroutine; firing is still serialized onto the owning strand.
	Reset(d time.Duration)

	// Stop prevents a pending fire from being posted. Safe to call even if
	// the timer already fired or was never armed.
	Stop()
}

// Pool is the shared worker pool backing every Strand created through it.
// A Pool has a fixed number of workers; strands queue their drain loop as
// tasks onto the pool instead of each owning a dedicated goroutine, so the
// number of live OS-level goroutines stays bounded regardless of how many
// connections are open.
type Pool interface {
	// NewStrand creates a Strand whose drain loop runs on this pool.
	NewStrand() Strand

	// Go runs fn on the pool outside of any particular strand, used for
	// one-shot work that does not need FIFO ordering against a connection
	// (e.g. a connector's accept loop).
	Go(fn func())

	// Size reports the number of workers backing the pool.
	Size() int

	// Shutdown stops accepting new work and waits, up to ctx's deadline,
	// for every worker to finish the job it is running and exit. Jobs still
	// queued and not yet picked up by a worker may be dropped.
	Shutdown(ctx context.Context) error
}
