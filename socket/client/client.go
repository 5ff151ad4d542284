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

// Package client implements the transport-agnostic outbound connector every
// socket/client/{tcp,udp,unix,unixgram} wrapper builds on.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"

	libtls "github.com/nabbar/golib/certificates"
	"github.com/nabbar/golib/sockerr"
	libsck "github.com/nabbar/golib/socket"
	sckcfg "github.com/nabbar/golib/socket/config"
)

type client struct {
	mu  sync.Mutex
	cfg sckcfg.Client
	hdl libsck.HandlerFunc
	cnn net.Conn

	connected atomic.Bool
	gone      atomic.Bool

	fnErr    atomic.Value // FuncError
	fnInfo   atomic.Value // FuncInfo
	fnUpdate atomic.Value // FuncUpdateConn
}

func init() {
	sckcfg.NewClientFunc = New
}

// New builds the generic client engine for cfg, running handler (if
// non-nil) in its own goroutine once Connect succeeds.
func New(cfg sckcfg.Client, handler libsck.HandlerFunc) (libsck.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &client{cfg: cfg, hdl: handler}, nil
}

func (c *client) RegisterFuncError(f libsck.FuncError) {
	c.fnErr.Store(f)
}

func (c *client) RegisterFuncInfo(f libsck.FuncInfo) {
	c.fnInfo.Store(f)
}

func (c *client) RegisterFuncUpdateConn(f libsck.FuncUpdateConn) {
	c.fnUpdate.Store(f)
}

func (c *client) raiseErr(err error) {
	if err == nil {
		return
	}
	if f, ok := c.fnErr.Load().(libsck.FuncError); ok && f != nil {
		f(err)
	}
}

func (c *client) raiseInfo(local, remote net.Addr, state libsck.ConnState) {
	if f, ok := c.fnInfo.Load().(libsck.FuncInfo); ok && f != nil {
		f(local, remote, state)
	}
}

func (c *client) updateConn(conn net.Conn) {
	if f, ok := c.fnUpdate.Load().(libsck.FuncUpdateConn); ok && f != nil {
		f(conn)
	}
}

func (c *client) SetTLS(enable bool, cfg libtls.TLSConfig, serverName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cfg.TLS.Enabled = enable
	c.cfg.TLS.ServerName = serverName
	if cfg != nil {
		c.cfg.DefaultTLS(cfg)
	}
	return c.cfg.Validate()
}

func (c *client) dial(ctx context.Context) (net.Conn, error) {
	c.raiseInfo(nil, nil, libsck.ConnectionDial)

	dlr := &net.Dialer{}
	cnn, err := dlr.DialContext(ctx, c.cfg.Network.Code(), c.cfg.Address)
	if err != nil {
		return nil, sockerr.Wrap(sockerr.ErrTransport, err)
	}

	if enabled, tlsCfg, serverName := c.cfg.GetTLS(); enabled {
		cnn = tls.Client(cnn, tlsCfg.TlsConfig(serverName))
	}

	c.updateConn(cnn)
	c.raiseInfo(cnn.LocalAddr(), cnn.RemoteAddr(), libsck.ConnectionNew)
	return cnn, nil
}

// Connect dials the remote endpoint once; it does not retry.
func (c *client) Connect(ctx context.Context) error {
	if c.gone.Load() {
		return libsck.ErrClientGone
	}

	cnn, err := c.dial(ctx)
	if err != nil {
		c.raiseErr(err)
		return err
	}

	c.mu.Lock()
	c.cnn = cnn
	c.mu.Unlock()
	c.connected.Store(true)

	if c.hdl != nil {
		go c.runHandler(ctx, cnn)
	}

	return nil
}

func (c *client) runHandler(ctx context.Context, cnn net.Conn) {
	c.raiseInfo(cnn.LocalAddr(), cnn.RemoteAddr(), libsck.ConnectionHandler)
	ctxt := libsck.NewContext(ctx, cnn, cnn.LocalAddr(), cnn.RemoteAddr(), func() bool { return !c.connected.Load() })
	c.hdl(ctxt)
	_ = c.Close()
}

func (c *client) Read(p []byte) (int, error) {
	c.mu.Lock()
	cnn := c.cnn
	c.mu.Unlock()

	if cnn == nil {
		return 0, libsck.ErrNotConnected
	}

	n, err := cnn.Read(p)
	if err = libsck.ErrorFilter(err); err != nil {
		c.raiseErr(err)
	}
	return n, err
}

func (c *client) Write(p []byte) (int, error) {
	c.mu.Lock()
	cnn := c.cnn
	c.mu.Unlock()

	if cnn == nil {
		return 0, libsck.ErrNotConnected
	}

	n, err := cnn.Write(p)
	if err = libsck.ErrorFilter(err); err != nil {
		c.raiseErr(err)
	}
	return n, err
}

// Once dials a fresh connection, writes request fully, invokes response
// with the connection as the reply stream, then closes it.
func (c *client) Once(ctx context.Context, request io.Reader, response func(io.Reader)) error {
	cnn, err := c.dial(ctx)
	if err != nil {
		c.raiseErr(err)
		return err
	}
	defer func() { _ = cnn.Close() }()

	if request != nil {
		if _, err = io.Copy(cnn, request); err != nil {
			err = sockerr.Wrap(sockerr.ErrTransport, err)
			c.raiseErr(err)
			return err
		}
	}

	if response != nil {
		if c.cfg.Network.IsPacket() {
			buf := make([]byte, libsck.DefaultBufferSize)
			n, rerr := cnn.Read(buf)
			if rerr != nil && !errors.Is(rerr, io.EOF) {
				rerr = sockerr.Wrap(sockerr.ErrTransport, rerr)
				c.raiseErr(rerr)
				return rerr
			}
			response(bytes.NewReader(buf[:n]))
		} else {
			response(cnn)
		}
	}

	return nil
}

func (c *client) Close() error {
	c.mu.Lock()
	cnn := c.cnn
	c.cnn = nil
	c.mu.Unlock()

	c.connected.Store(false)
	c.gone.Store(true)

	if cnn == nil {
		return nil
	}

	c.raiseInfo(cnn.LocalAddr(), cnn.RemoteAddr(), libsck.ConnectionClose)
	return libsck.ErrorFilter(cnn.Close())
}

func (c *client) IsConnected() bool {
	return c.connected.Load()
}

func (c *client) IsGone() bool {
	return c.gone.Load()
}
