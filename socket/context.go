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

package socket

import (
	"context"
	"io"
	"net"
)

// connContext adapts a net.Conn (or any ReadWriteCloser paired with local/
// remote addresses) into the Context a HandlerFunc receives. It is shared by
// every socket/client and socket/server transport so they all hand handlers
// the exact same shape.
type connContext struct {
	context.Context

	rwc    io.ReadWriteCloser
	local  net.Addr
	remote net.Addr
	gone   func() bool
}

// NewContext builds the Context passed to a HandlerFunc for one connection
// (stream transports) or one packet exchange (datagram transports). parent
// is typically the Listen/Connect ctx; rwc is the per-connection stream;
// gone reports whether the underlying connection has since been closed.
func NewContext(parent context.Context, rwc io.ReadWriteCloser, local, remote net.Addr, gone func() bool) Context {
	if gone == nil {
		gone = func() bool { return false }
	}
	return &connContext{Context: parent, rwc: rwc, local: local, remote: remote, gone: gone}
}

func (c *connContext) Read(p []byte) (int, error) {
	return c.rwc.Read(p)
}

func (c *connContext) Write(p []byte) (int, error) {
	return c.rwc.Write(p)
}

func (c *connContext) Close() error {
	return c.rwc.Close()
}

func (c *connContext) IsConnected() bool {
	return !c.gone()
}

func (c *connContext) LocalHost() string {
	if c.local == nil {
		return ""
	}
	return c.local.String()
}

func (c *connContext) RemoteHost() string {
	if c.remote == nil {
		return ""
	}
	return c.remote.String()
}
