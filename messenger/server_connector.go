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

	"github.com/nabbar/golib/framer"
	"github.com/nabbar/golib/sockerr"
	libsck "github.com/nabbar/golib/socket"
	sckcfg "github.com/nabbar/golib/socket/config"
	scksrv "github.com/nabbar/golib/socket/server"
)

// serverConnector accepts connections (stream transports) or demultiplexes
// packets by peer (datagram transports, one connection per packet — see
// DESIGN.md's server-engine simplification note) on one bound address,
// handing each off to the Messenger as a Conn for the duration of its
// HandlerFunc invocation.
type serverConnector struct {
	srv      libsck.Server
	address  string
	cancel   context.CancelFunc
	setReady func(func(Conn))
}

// NewServer builds a Connector around a socket/server bound to
// cfg.Address. Each accepted connection (or inbound packet, for datagram
// transports) is handed to the Messenger as a Conn; the handler blocks
// for that Conn's whole lifetime, matching socket/server's per-connection
// HandlerFunc contract.
func NewServer(cfg sckcfg.Server) (Connector, error) {
	sc := &serverConnector{address: cfg.Address}

	var ready func(Conn)
	handler := func(ctx libsck.Context) {
		if ready == nil {
			_ = ctx.Close()
			return
		}
		conn := newServerConn(ctx)
		ready(conn)
		conn.readLoop(ctx)
	}

	srv, err := scksrv.New(nil, handler, cfg)
	if err != nil {
		return nil, err
	}
	sc.srv = srv
	sc.setReady = func(f func(Conn)) { ready = f }
	return sc, nil
}

func (s *serverConnector) Start(ready func(Conn)) error {
	s.setReady(ready)
	if s.address != "" {
		if err := s.srv.RegisterServer(s.address); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go func() {
		_ = s.srv.Listen(ctx)
	}()
	return nil
}

func (s *serverConnector) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return s.srv.Close()
}

type serverConn struct {
	rwc libsck.Context
	fr  framer.Framer

	mu      sync.Mutex
	onMsg   func(payload []byte)
	onClose func(err error)
	closed  bool
	stopErr error
}

func newServerConn(ctx libsck.Context) *serverConn {
	return &serverConn{
		rwc: ctx,
		fr:  framer.New(framer.Config{Layout: framer.LayoutDefault}),
	}
}

func (s *serverConn) Send(payload []byte) error {
	for _, chunk := range s.fr.Encode(payload, 0) {
		if _, err := s.rwc.Write(chunk); err != nil {
			return sockerr.Wrap(sockerr.ErrTransport, err)
		}
	}
	return nil
}

func (s *serverConn) Stop(err error) error {
	s.mu.Lock()
	if s.stopErr == nil {
		s.stopErr = err
	}
	s.mu.Unlock()
	return s.rwc.Close()
}

func (s *serverConn) SetOnMessage(f func(payload []byte)) {
	s.mu.Lock()
	s.onMsg = f
	s.mu.Unlock()
}

func (s *serverConn) SetOnClose(f func(err error)) {
	s.mu.Lock()
	s.onClose = f
	s.mu.Unlock()
}

func (s *serverConn) readLoop(ctx libsck.Context) {
	for {
		if ctx.Err() != nil {
			s.finish(ctx.Err())
			return
		}

		op := s.fr.NextOperation()
		buf := s.fr.WorkBuffer()

		n, err := readFull(s.rwc, buf[:op.ByteCount])
		if err != nil {
			s.finish(sockerr.Wrap(sockerr.ErrTransport, err))
			return
		}

		ready, err := s.fr.Advance(n)
		if err != nil {
			s.finish(sockerr.Wrap(sockerr.ErrDataCorruption, err))
			return
		}
		if !ready {
			continue
		}

		msg := s.fr.Take()
		s.mu.Lock()
		cb := s.onMsg
		s.mu.Unlock()
		if cb != nil {
			cb(msg.Payload)
		}
	}
}

func (s *serverConn) finish(err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cb := s.onClose
	if s.stopErr != nil {
		err = s.stopErr
	}
	s.mu.Unlock()

	if cb != nil {
		cb(err)
	}
	_ = s.rwc.Close()
}
