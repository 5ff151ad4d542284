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

package connection

import (
	"context"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/nabbar/golib/executor"
	"github.com/nabbar/golib/sockerr"
)

// outboundFrame is one queued, already-encoded message.
type outboundFrame struct {
	chunks [][]byte
}

// Stream is the connection engine for reliable, ordered byte-stream
// transports (TCP, TLS-over-TCP, Unix stream) per spec.md §4.2: a read
// actor driven by the framer state machine, and a write actor that
// suspends on a wake timer used as an asynchronous condition variable.
type Stream struct {
	cfg Config

	connected int32 // atomic bool

	mu    sync.Mutex
	queue []outboundFrame

	wake executor.WakeTimer

	stopOnce sync.Once
}

// NewStream builds a Stream connection bound to cfg. Start must be
// called to begin reading and writing.
func NewStream(cfg Config) *Stream {
	s := &Stream{cfg: cfg}
	s.wake = cfg.Strand.Timer(s.writeTick)
	return s
}

func (s *Stream) ID() uint64           { return s.cfg.ID }
func (s *Stream) LocalAddr() net.Addr  { return s.cfg.Conn.LocalAddr() }
func (s *Stream) RemoteAddr() net.Addr { return s.cfg.Conn.RemoteAddr() }
func (s *Stream) IsConnected() bool    { return atomic.LoadInt32(&s.connected) == 1 }

// Start flips connected to true and launches the read actor. The write
// actor has no dedicated goroutine: it is driven by the wake timer
// firing onto the strand (awaiting/writing per spec.md §4.2).
func (s *Stream) Start(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&s.connected, 0, 1) {
		return
	}

	if s.cfg.Log != nil {
		s.cfg.Log.Debug("connection %d: start", s.cfg.ID)
	}

	go s.readLoop(ctx)
}

// readLoop is the state machine described in spec.md §4.2: request the
// framer's next operation, read exactly that many bytes, advance, and
// deliver completed messages without holding any connection lock.
func (s *Stream) readLoop(ctx context.Context) {
	for {
		op := s.cfg.Framer.NextOperation()
		buf := s.cfg.Framer.WorkBuffer()

		if op.ByteCount > 0 {
			if _, err := io.ReadFull(s.cfg.Conn, buf); err != nil {
				s.Stop(sockerr.Wrap(sockerr.ErrTransport, err))
				return
			}
		}

		ready, err := s.cfg.Framer.Advance(op.ByteCount)
		if err != nil {
			s.Stop(sockerr.Wrap(sockerr.ErrDataCorruption, err))
			return
		}

		if ready {
			msg := s.cfg.Framer.Take()
			if s.cfg.OnMessage != nil {
				s.cfg.OnMessage(msg.Payload, msg.Channel)
			}
		}

		select {
		case <-ctx.Done():
			s.Stop(sockerr.Wrap(sockerr.ErrUserTriggeredDisconnect, ctx.Err()))
			return
		default:
		}
	}
}

// Send encodes payload and enqueues it, then wakes the write actor by
// rearming the wake timer to fire immediately. Per spec.md §4.2, send
// takes only a short lock to append and never blocks.
func (s *Stream) Send(payload []byte, channel uint64) {
	if !s.IsConnected() {
		return
	}

	chunks := s.cfg.Framer.Encode(payload, channel)

	s.mu.Lock()
	s.queue = append(s.queue, outboundFrame{chunks: chunks})
	s.mu.Unlock()

	s.wake.Reset(0)
}

// writeTick is the write actor's "writing" sub-state: it runs on the
// strand (posted there by the wake timer), drains everything currently
// queued with one vectored write per frame, and returns to "awaiting" by
// simply not rearming itself — the next Send call rearms the timer.
func (s *Stream) writeTick() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		frame := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		for _, chunk := range frame.chunks {
			if len(chunk) == 0 {
				continue
			}
			if _, err := s.cfg.Conn.Write(chunk); err != nil {
				s.Stop(sockerr.Wrap(sockerr.ErrTransport, err))
				return
			}
		}
	}
}

// Stop tears the connection down, idempotently. Only the call that
// actually flips connected from true to false runs teardown and emits
// on_disconnect (I3).
func (s *Stream) Stop(err error) {
	if !atomic.CompareAndSwapInt32(&s.connected, 1, 0) {
		return
	}

	s.stopOnce.Do(func() {
		s.wake.Stop()
		_ = s.cfg.Conn.Close()

		if err == nil {
			err = sockerr.Wrap(sockerr.ErrConnectionAborted, net.ErrClosed)
		}

		if s.cfg.Log != nil {
			s.cfg.Log.Debug("connection %d: stop: %v", s.cfg.ID, err)
		}

		if s.cfg.OnDisconnect != nil {
			s.cfg.OnDisconnect(s.cfg.ID, err)
		}
	})
}
