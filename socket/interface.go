/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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
	"os"

	libtls "github.com/nabbar/golib/certificates"
)

// Reader is satisfied by anything that can be read from a Context.
type Reader interface {
	Read(p []byte) (n int, err error)
}

// Writer is satisfied by anything that can be written to a Context.
type Writer interface {
	Write(p []byte) (n int, err error)
}

// Context is the per-connection (or, for a datagram server, per-packet)
// handle passed to a HandlerFunc: an io.Reader/io.Writer over the
// connection plus the context.Context a handler should select on to
// notice cancellation, and the Close a handler calls when it is done.
type Context interface {
	context.Context
	io.Reader
	io.Writer
	io.Closer

	// IsConnected reports whether the underlying connection is still open.
	IsConnected() bool

	// LocalHost returns the local endpoint address as a string.
	LocalHost() string

	// RemoteHost returns the remote endpoint address as a string.
	RemoteHost() string
}

// HandlerFunc processes one connection (stream transports) or one packet
// (datagram transports). It is expected to call ctx.Close once done.
type HandlerFunc func(ctx Context)

// Handler is the stateful form of a connection handler: the state value
// carries whatever the handler needs across invocations (counters, shared
// resources, a parent component reference...).
type Handler[T any] func(state T, ctx Context)

// FuncError receives errors a Client/Server encounters outside any single
// handler invocation: dial/accept failures, listener shutdown.
type FuncError func(errs ...error)

// FuncInfo receives a ConnState transition for one connection.
type FuncInfo func(local, remote net.Addr, state ConnState)

// FuncUpdateConn lets a caller tune a freshly dialed or accepted net.Conn
// (buffer sizes, keepalive, deadlines) before it is handed to a handler.
type FuncUpdateConn func(conn net.Conn)

// UpdateConn is an alias kept for call sites naming the callback directly
// after its role rather than through RegisterFuncUpdateConn.
type UpdateConn = FuncUpdateConn

// Client represents a single outbound connection to one remote endpoint.
// Read/Write proxy directly to the dialed connection for simple
// synchronous usage; HandlerFunc-driven usage is registered at
// construction instead.
type Client interface {
	io.Reader
	io.Writer
	io.Closer

	RegisterFuncError(f FuncError)
	RegisterFuncInfo(f FuncInfo)
	RegisterFuncUpdateConn(f FuncUpdateConn)

	// SetTLS enables or disables TLS wrapping for subsequent Connect calls.
	// cfg may be nil when enable is false.
	SetTLS(enable bool, cfg libtls.TLSConfig, serverName string) error

	// Connect dials the remote endpoint once. It does not retry: a caller
	// wanting reconnection drives its own loop across repeated calls.
	Connect(ctx context.Context) error

	// Once dials a fresh connection, writes request's bytes to it, invokes
	// response with the connection as the reply stream, then closes it.
	// response may be nil when no reply is expected.
	Once(ctx context.Context, request io.Reader, response func(io.Reader)) error

	// IsConnected reports whether a dialed connection is currently open.
	IsConnected() bool

	// IsGone reports whether Close has been called; a gone client can no
	// longer Connect.
	IsGone() bool
}

// Server accepts inbound connections (stream transports) or reads inbound
// packets (datagram transports) on one bound endpoint, running a
// HandlerFunc for each connection or each packet until Shutdown is called
// or ctx is canceled. Packets are not grouped by remote address.
type Server interface {
	RegisterFuncError(f FuncError)
	RegisterFuncInfo(f FuncInfo)
	RegisterFuncUpdateConn(f FuncUpdateConn)

	// RegisterFuncInfoServer receives free-form lifecycle log lines (bind,
	// accept-loop exit...) that do not carry a single connection's address.
	RegisterFuncInfoServer(f func(msg string))

	// RegisterServer sets (or replaces, before Listen is called) the
	// address this server binds to.
	RegisterServer(address string) error

	// RegisterSocket sets the Unix socket path, file permission and group
	// owner applied after Listen binds it. Transports other than Unix and
	// UnixGram return an error.
	RegisterSocket(path string, perm os.FileMode, gid int) error

	// SetTLS enables or disables TLS wrapping for subsequent Listen calls.
	SetTLS(enable bool, cfg libtls.TLSConfig) error

	// Listen runs the accept/demultiplex loop. It blocks until ctx is
	// canceled, Shutdown is called, or the listener fails irrecoverably.
	Listen(ctx context.Context) error

	// Shutdown behaves exactly like Close: it closes the listener at once
	// and does not wait for in-flight handlers; ctx is not consulted.
	Shutdown(ctx context.Context) error

	// Close shuts the server down immediately, without waiting for
	// in-flight handlers.
	Close() error

	// IsRunning reports whether the accept/demultiplex loop is active.
	IsRunning() bool

	// IsGone reports whether Shutdown/Close has completed.
	IsGone() bool

	// OpenConnections reports the number of accepted connections currently
	// running. A datagram server counts its one shared socket: 1 while the
	// read loop runs, 0 otherwise, whatever the number of packet handlers.
	OpenConnections() int64

	// Listener reports the network and address actually bound, available
	// once Listen has bound the socket (useful to discover the OS-assigned
	// port after binding to ":0").
	Listener() (network string, address string, err error)
}
