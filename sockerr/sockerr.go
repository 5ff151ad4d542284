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

// Package sockerr defines the error-kind sentinels shared by the
// connection, connector and messenger packages. Each kind is matched with
// errors.Is against a wrapped cause, so the underlying transport error
// remains reachable through errors.Unwrap.
package sockerr

import "errors"

var (
	// ErrTransport covers I/O failures on the underlying net.Conn that are
	// not a deliberate disconnect: reset, timeout, broken pipe...
	ErrTransport = errors.New("transport error")

	// ErrDataCorruption covers framing violations: a length prefix beyond
	// the configured maximum, a header that fails to parse, a reassembly
	// buffer that would grow past its limit.
	ErrDataCorruption = errors.New("data corruption")

	// ErrUserTriggeredDisconnect covers a disconnect requested by the
	// caller (Close/Shutdown), as opposed to one the peer or transport
	// initiated.
	ErrUserTriggeredDisconnect = errors.New("user triggered disconnect")

	// ErrHostUnreachable covers a dial failure because the remote host
	// could not be reached at the network layer.
	ErrHostUnreachable = errors.New("host unreachable")

	// ErrConnectionAborted covers a connection torn down by the peer or by
	// the transport outside of a normal close handshake.
	ErrConnectionAborted = errors.New("connection aborted")
)

// Wrap associates cause with kind so that errors.Is(result, kind) matches
// while errors.Unwrap(result) still reaches cause. A nil cause returns nil.
func Wrap(kind error, cause error) error {
	if cause == nil {
		return nil
	}

	return &wrapped{kind: kind, cause: cause}
}

type wrapped struct {
	kind  error
	cause error
}

func (w *wrapped) Error() string {
	return w.kind.Error() + ": " + w.cause.Error()
}

func (w *wrapped) Is(target error) bool {
	return target == w.kind
}

func (w *wrapped) Unwrap() error {
	return w.cause
}
