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

// Package messenger is the process-wide registry and callback dispatcher
// sitting on top of socket/client and socket/server: it tracks connectors
// and the connections they produce, assigns process-wide identifiers to
// both, and forwards framed messages to user callbacks without ever
// invoking one while holding its own lock (spec.md §4.6).
package messenger

import "errors"

// ErrNilConnector names a nil connector. AddConnector does not return it:
// it reports a nil connector by returning ConnectorID 0.
var ErrNilConnector = errors.New("messenger: connector is nil")

// ErrAlreadyRegistered names a connector already registered with this
// Messenger. AddConnector does not return it: it reports that case by
// returning ConnectorID 0.
var ErrAlreadyRegistered = errors.New("messenger: connector already registered")

// ErrUnknownConnection is returned by Send/Disconnect for a connection_id
// the Messenger has no record of (never registered, or already gone).
var ErrUnknownConnection = errors.New("messenger: unknown connection id")

// ConnectorID identifies one registered Connector for the lifetime of a
// Messenger.
type ConnectorID uint64

// ConnectionID identifies one connection produced by a Connector, process
// wide and monotonic, independent of the ConnectorID that produced it.
type ConnectionID uint64

// OnConnect is invoked once a Conn is ready for use, before any OnMessage
// call for that connection (spec.md §5 ordering guarantee).
type OnConnect func(id ConnectionID)

// OnDisconnect is invoked at most once per connection, after every
// OnMessage call for that connection has returned (spec.md §5 ordering
// guarantee). err names the cause (see sockerr kinds) and is never nil:
// after Messenger.Disconnect it is sockerr.ErrUserTriggeredDisconnect.
type OnDisconnect func(id ConnectionID, err error)

// OnMessage is invoked once per assembled frame.
type OnMessage func(id ConnectionID, payload []byte)

// Conn is one message-level connection handed to a Connector's ready
// callback. A Connector is responsible for driving its own Conn's
// SetOnMessage/SetOnClose callbacks from whatever read loop it owns.
type Conn interface {
	// Send frames payload and writes it to the underlying transport.
	Send(payload []byte) error

	// Stop tears the connection down, attributing err as the cause.
	Stop(err error) error

	// SetOnMessage installs the callback invoked for every assembled
	// frame. Only ever called once, by the Messenger that owns this Conn,
	// before the Connector starts reading.
	SetOnMessage(f func(payload []byte))

	// SetOnClose installs the callback invoked exactly once when this
	// Conn's read loop ends, before any further OnMessage/SetOnMessage
	// call can occur.
	SetOnClose(f func(err error))
}

// Connector produces Conn values over its own lifetime — a dialing client
// that retries with backoff, or a listening server that accepts many
// peers — and is started and stopped at most once by the Messenger that
// registers it.
type Connector interface {
	// Start begins producing connections. For each one ready for use it
	// calls ready, synchronously or from its own goroutine. Start itself
	// must not block past its own setup.
	Start(ready func(Conn)) error

	// Stop tears the connector down along with every connection it is
	// still holding open.
	Stop() error
}
