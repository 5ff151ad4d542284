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

package messenger

import (
	"context"
	"sync"
	"time"

	"github.com/nabbar/golib/framer"
	"github.com/nabbar/golib/sockerr"
	libsck "github.com/nabbar/golib/socket"
	sckclt "github.com/nabbar/golib/socket/client"
	sckcfg "github.com/nabbar/golib/socket/config"
)

// reconnectBackoff is the fixed client-connector reconnect delay, per
// spec.md §4.4.
const reconnectBackoff = time.Second

// clientConnector dials cfg with a fixed-backoff reconnect loop, since
// socket/client.Connect itself attempts only once per call (spec.md §4.4
// "restarts run on a dedicated strand so that reconnect attempts never
// race their own teardown" — here, the connector's own goroutine).
type clientConnector struct {
	cli    libsck.Client
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewClient builds a Connector that dials cfg over and over, with a 1s
// backoff between attempts and after every disconnect, until Stop is
// called.
func NewClient(cfg sckcfg.Client) (Connector, error) {
	cli, err := sckclt.New(cfg, nil)
	if err != nil {
		return nil, err
	}
	return &clientConnector{cli: cli}, nil
}

func (c *clientConnector) Start(ready func(Conn)) error {
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.done = make(chan struct{})
	go c.run(ready)
	return nil
}

func (c *clientConnector) run(ready func(Conn)) {
	defer close(c.done)

	for {
		if c.ctx.Err() != nil {
			return
		}

		if err := c.cli.Connect(c.ctx); err != nil {
			if !c.sleep() {
				return
			}
			continue
		}

		conn := newClientConn(c.cli)
		if ready != nil {
			ready(conn)
		}
		conn.readLoop(c.ctx)

		if !c.sleep() {
			return
		}
	}
}

func (c *clientConnector) sleep() bool {
	select {
	case <-c.ctx.Done():
		return false
	case <-time.After(reconnectBackoff):
		return true
	}
}

func (c *clientConnector) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	err := c.cli.Close()
	if c.done != nil {
		<-c.done
	}
	return err
}

// clientConn drives a length-prefixed Framer over a connected
// libsck.Client, turning its raw Read/Write into whole-message Send/
// onMessage events.
type clientConn struct {
	cli libsck.Client
	fr  framer.Framer

	mu      sync.Mutex
	onMsg   func(payload []byte)
	onClose func(err error)
	closed  bool
	stopErr error
}

func newClientConn(cli libsck.Client) *clientConn {
	return &clientConn{
		cli: cli,
		fr:  framer.New(framer.Config{Layout: framer.LayoutDefault}),
	}
}

func (c *clientConn) Send(payload []byte) error {
	for _, chunk := range c.fr.Encode(payload, 0) {
		if _, err := c.cli.Write(chunk); err != nil {
			return sockerr.Wrap(sockerr.ErrTransport, err)
		}
	}
	return nil
}

func (c *clientConn) Stop(err error) error {
	c.mu.Lock()
	if c.stopErr == nil {
		c.stopErr = err
	}
	c.mu.Unlock()
	return c.cli.Close()
}

func (c *clientConn) SetOnMessage(f func(payload []byte)) {
	c.mu.Lock()
	c.onMsg = f
	c.mu.Unlock()
}

func (c *clientConn) SetOnClose(f func(err error)) {
	c.mu.Lock()
	c.onClose = f
	c.mu.Unlock()
}

// readLoop drives the framer state machine over c.cli until it errors,
// emitting onMsg for each assembled frame and onClose exactly once on
// exit (spec.md §5: on_disconnect fires at most once, after every
// message for that connection).
func (c *clientConn) readLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			c.finish(ctx.Err())
			return
		}

		op := c.fr.NextOperation()
		buf := c.fr.WorkBuffer()

		n, err := readFull(c.cli, buf[:op.ByteCount])
		if err != nil {
			c.finish(sockerr.Wrap(sockerr.ErrTransport, err))
			return
		}

		ready, err := c.fr.Advance(n)
		if err != nil {
			c.finish(sockerr.Wrap(sockerr.ErrDataCorruption, err))
			return
		}
		if !ready {
			continue
		}

		msg := c.fr.Take()
		c.mu.Lock()
		cb := c.onMsg
		c.mu.Unlock()
		if cb != nil {
			cb(msg.Payload)
		}
	}
}

func (c *clientConn) finish(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	cb := c.onClose
	if c.stopErr != nil {
		err = c.stopErr
	}
	c.mu.Unlock()

	if cb != nil {
		cb(err)
	}
}

// readFull reads exactly len(buf) bytes from r, the way an exact-length
// stream read primitive would (spec.md §4.1/§5 suspension points).
func readFull(r libsck.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
