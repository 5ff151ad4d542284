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

// Package socket defines the connection-facing contracts (Context, Handler,
// Client, Server) shared by every transport-specific implementation under
// socket/client and socket/server.
package socket

import "errors"

// ErrNotConnected is returned by Client.Read/Write when called before
// Connect has established a connection.
var ErrNotConnected = errors.New("socket: not connected")

// ErrClientGone is returned by Client.Connect once Close has been called;
// a gone client cannot be reconnected.
var ErrClientGone = errors.New("socket: client closed")

// ErrServerGone is returned by Server.Listen once Close/Shutdown has been
// called; a gone server cannot be relistened on.
var ErrServerGone = errors.New("socket: server closed")

// DefaultBufferSize is the read/write buffer size used when a caller does
// not override it in the connection configuration.
const DefaultBufferSize = 32 * 1024

// EOL is the line terminator used by line-oriented framing helpers.
const EOL = '\n'

// ErrorFilter drops the error raised when a connection is closed locally
// while a blocking Read/Write is in flight, since that case is the normal
// shutdown path rather than a reportable failure. Any other error, including
// one that merely mentions the same text as part of a larger message, is
// returned unchanged.
func ErrorFilter(err error) error {
	if err == nil {
		return nil
	}

	if err.Error() == "use of closed network connection" {
		return nil
	}

	return err
}

// ConnState identifies a step in the lifecycle of a single connection, from
// the initial dial/accept through the handler run to the final close.
type ConnState uint8

const (
	ConnectionDial ConnState = iota
	ConnectionNew
	ConnectionRead
	ConnectionCloseRead
	ConnectionHandler
	ConnectionWrite
	ConnectionCloseWrite
	ConnectionClose
)

// String returns a human-readable label for the state, used by FuncInfo
// callbacks and log lines.
func (s ConnState) String() string {
	switch s {
	case ConnectionDial:
		return "Dial Connection"
	case ConnectionNew:
		return "New Connection"
	case ConnectionRead:
		return "Read Incoming Stream"
	case ConnectionCloseRead:
		return "Close Incoming Stream"
	case ConnectionHandler:
		return "Run HandlerFunc"
	case ConnectionWrite:
		return "Write Outgoing Steam"
	case ConnectionCloseWrite:
		return "Close Outgoing Stream"
	case ConnectionClose:
		return "Close Connection"
	default:
		return "unknown connection state"
	}
}
