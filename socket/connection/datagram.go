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
	"net"
	"sync"
	"sync/atomic"

	"github.com/nabbar/golib/executor"
	"github.com/nabbar/golib/sockerr"
)

// datagramMaxPacket bounds one read from the transport; UDP datagrams
// never exceed this on any real network path.
const datagramMaxPacket = 64 * 1024

// writeToFunc sends payload to a fixed peer endpoint. A dialed
// net.Conn.Write closure is used for the client/peer-dialed case; a
// server's shared PacketConn.WriteTo bound to one remote address is used
// for the per-peer server-side case.
type writeToFunc func(b []byte) (int, error)

// Datagram is the connection engine for unreliable, message-boundary
// transports (UDP, Unix datagram) per spec.md §4.3. It shares Stream's
// outbound queue/wake-timer write actor, but its read side either drives
// its own dialed socket (client, or a server's single-peer pseudo-conn)
// or is entirely passive and fed by a server demultiplexer (Feed).
type Datagram struct {
	cfg    Config
	write  writeToFunc
	reader net.Conn // nil for server per-peer connections (no self-driven read actor)

	connected int32

	mu    sync.Mutex
	queue []outboundFrame

	wake executor.WakeTimer

	pending  []byte
	stopOnce sync.Once

	localAddr  net.Addr
	remoteAddr net.Addr
}

// NewDatagramClient builds a self-driven Datagram bound to a dialed
// net.Conn (client connectors, and plain UDP/unixgram clients use
// net.Dial so the kernel filters to one fixed peer already).
func NewDatagramClient(cfg Config) *Datagram {
	d := &Datagram{
		cfg:        cfg,
		reader:     cfg.Conn,
		write:      cfg.Conn.Write,
		localAddr:  cfg.Conn.LocalAddr(),
		remoteAddr: cfg.Conn.RemoteAddr(),
	}
	d.wake = cfg.Strand.Timer(d.writeTick)
	return d
}

// NewDatagramPeer builds a passive, server-side Datagram for one remote
// endpoint behind a shared socket: its read actor is a no-op (spec.md
// §4.3) and Feed is called by the server's demultiplexer instead.
func NewDatagramPeer(cfg Config, local, remote net.Addr, write writeToFunc) *Datagram {
	d := &Datagram{
		cfg:        cfg,
		write:      write,
		localAddr:  local,
		remoteAddr: remote,
	}
	d.wake = cfg.Strand.Timer(d.writeTick)
	return d
}

func (d *Datagram) ID() uint64          { return d.cfg.ID }
func (d *Datagram) LocalAddr() net.Addr { return d.localAddr }
func (d *Datagram) RemoteAddr() net.Addr {
	return d.remoteAddr
}
func (d *Datagram) IsConnected() bool { return atomic.LoadInt32(&d.connected) == 1 }

// Start flips connected to true and, for a self-driven Datagram, launches
// its read loop. Server per-peer connections (reader == nil) rely on
// Feed instead.
func (d *Datagram) Start(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&d.connected, 0, 1) {
		return
	}

	if d.cfg.Log != nil {
		d.cfg.Log.Debug("connection %d: start", d.cfg.ID)
	}

	if d.reader != nil {
		go d.readLoop(ctx)
	}
}

// readLoop implements spec.md §4.3's peek-then-drain schedule: read
// whatever bytes are currently available, then feed the framer until it
// runs out of a complete operation's worth, buffering any remainder.
func (d *Datagram) readLoop(ctx context.Context) {
	buf := make([]byte, datagramMaxPacket)

	for {
		n, err := d.reader.Read(buf)
		if err != nil {
			d.Stop(sockerr.Wrap(sockerr.ErrTransport, err))
			return
		}

		if derr := d.feedLocked(buf[:n]); derr != nil {
			d.Stop(derr)
			return
		}

		select {
		case <-ctx.Done():
			d.Stop(sockerr.Wrap(sockerr.ErrUserTriggeredDisconnect, ctx.Err()))
			return
		default:
		}
	}
}

// Feed hands externally received bytes (from a datagram server's shared
// socket demultiplexer) to this peer's framer. Safe to call repeatedly
// as more datagrams for this peer arrive.
func (d *Datagram) Feed(b []byte) {
	if err := d.feedLocked(b); err != nil {
		d.Stop(err)
	}
}

func (d *Datagram) feedLocked(b []byte) error {
	d.pending = append(d.pending, b...)

	for {
		op := d.cfg.Framer.NextOperation()
		if len(d.pending) < op.ByteCount {
			return nil // partial frame: wait for more bytes, not an error
		}

		wb := d.cfg.Framer.WorkBuffer()
		copy(wb, d.pending[:op.ByteCount])
		d.pending = d.pending[op.ByteCount:]

		ready, err := d.cfg.Framer.Advance(op.ByteCount)
		if err != nil {
			return sockerr.Wrap(sockerr.ErrDataCorruption, err)
		}

		if ready {
			msg := d.cfg.Framer.Take()
			if d.cfg.OnMessage != nil {
				d.cfg.OnMessage(msg.Payload, msg.Channel)
			}
		}
	}
}

// Send encodes and enqueues payload exactly like Stream.Send.
func (d *Datagram) Send(payload []byte, channel uint64) {
	if !d.IsConnected() {
		return
	}

	chunks := d.cfg.Framer.Encode(payload, channel)

	d.mu.Lock()
	d.queue = append(d.queue, outboundFrame{chunks: chunks})
	d.mu.Unlock()

	d.wake.Reset(0)
}

func (d *Datagram) writeTick() {
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			d.mu.Unlock()
			return
		}
		frame := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()

		var out []byte
		for _, chunk := range frame.chunks {
			out = append(out, chunk...)
		}

		if _, err := d.write(out); err != nil {
			d.Stop(sockerr.Wrap(sockerr.ErrTransport, err))
			return
		}
	}
}

func (d *Datagram) Stop(err error) {
	if !atomic.CompareAndSwapInt32(&d.connected, 1, 0) {
		return
	}

	d.stopOnce.Do(func() {
		d.wake.Stop()
		if d.reader != nil {
			_ = d.reader.Close()
		}

		if err == nil {
			err = sockerr.Wrap(sockerr.ErrConnectionAborted, net.ErrClosed)
		}

		if d.cfg.Log != nil {
			d.cfg.Log.Debug("connection %d: stop: %v", d.cfg.ID, err)
		}

		if d.cfg.OnDisconnect != nil {
			d.cfg.OnDisconnect(d.cfg.ID, err)
		}
	})
}
