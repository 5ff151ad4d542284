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

// Package connection implements the stream and datagram connection
// engines shared by every socket/client and socket/server transport:
// framer-driven read actor, queue-and-wake-timer write actor, and the
// single on_disconnect emission invariant (spec.md §3 I1/I3, §4.2, §4.3).
package connection

import (
	"context"
	"net"
	"sync/atomic"

	"github.com/nabbar/golib/executor"
	"github.com/nabbar/golib/framer"
	"github.com/nabbar/golib/logger"
	"github.com/nabbar/golib/sockerr"
	libsck "github.com/nabbar/golib/socket"
)

var idCounter uint64

// NextID hands out the next process-wide connection identifier (spec.md
// §3: a single monotonic counter shared by every connection).
func NextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}

// Config wires one Stream or Datagram connection to its transport,
// framer, strand, and the callbacks a connector registers.
type Config struct {
	ID     uint64
	Conn   net.Conn
	Framer framer.Framer
	Strand executor.Strand
	Log    logger.Logger

	OnMessage    func(payload []byte, channel uint64)
	OnDisconnect func(id uint64, err error)
	FuncInfo     libsck.FuncInfo
}

// Connection is the shared contract Stream and Datagram both satisfy.
type Connection interface {
	// ID returns this connection's process-wide identifier.
	ID() uint64

	// Start launches the read actor and arms the write actor. Idempotent.
	Start(ctx context.Context)

	// Send encodes payload through the framer and enqueues it for the
	// write actor. Non-blocking, never fails; dropped silently once the
	// connection has stopped.
	Send(payload []byte, channel uint64)

	// Stop tears the connection down, attributing err as the cause. Only
	// the first call that flips the connected flag emits on_disconnect
	// (I3).
	Stop(err error)

	// IsConnected reports whether the connection has been started and Stop
	// has not yet been called; the flag clears as Stop begins teardown.
	IsConnected() bool

	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}
