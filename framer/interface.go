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

// Package framer turns a byte stream into length-prefixed messages and
// back. A Framer is driven by a small state machine (next_operation /
// work_buffer / advance / take) so the same framer works whether the
// caller reads via an exact-length primitive (stream transports) or via
// a peek-then-drain loop (datagram transports).
package framer

import "errors"

// DefaultMaxPayload is the payload-size ceiling applied when a Framer is
// built without an explicit one: 64 MiB, per spec.md §4.1.
const DefaultMaxPayload = 64 * 1024 * 1024

// ErrOversizePayload is wrapped into sockerr.ErrDataCorruption by callers
// when a decoded length prefix exceeds the configured maximum.
var ErrOversizePayload = errors.New("framer: payload exceeds configured maximum")

// ErrAdvanceMismatch is wrapped into sockerr.ErrDataCorruption by callers
// when advance(n) is called with n different from the byte count the
// last next_operation() requested — an implementation bug in the read
// actor per spec.md §4.1.
var ErrAdvanceMismatch = errors.New("framer: advance byte count does not match requested operation")

// Layout selects the wire layout a Framer encodes/decodes. The choice is
// fixed per connection at construction (spec.md §4.1, §9 open question).
type Layout uint8

const (
	// LayoutDefault is the 4-byte little-endian length prefix plus
	// payload. The channel tag is never transmitted in this layout.
	LayoutDefault Layout = iota

	// LayoutExtended adds a 1-byte header-size prefix, an 8-byte channel
	// tag and a 2-byte identifier ahead of the payload.
	LayoutExtended
)

// OpKind identifies what next_operation is asking the read actor to do.
type OpKind uint8

const (
	// OpReadHeaderSize requests the 1-byte header-size prefix of the
	// extended layout. Only appears when the framer uses LayoutExtended.
	OpReadHeaderSize OpKind = iota

	// OpReadHeader requests the fixed-size header (length prefix, and
	// under the extended layout also channel + id).
	OpReadHeader

	// OpReadPayload requests the payload bytes.
	OpReadPayload
)

// Operation is what the read actor must do next: read exactly ByteCount
// bytes into WorkBuffer(), then call Advance.
type Operation struct {
	Kind      OpKind
	ByteCount int
}

// Message is one fully assembled frame handed to the caller by Take.
type Message struct {
	Payload []byte
	Channel uint64
	ID      uint16
}

// Framer turns a byte stream into discrete messages. It is not
// goroutine-safe; each connection owns exactly one Framer, driven only
// from its read actor (spec.md §4.2).
type Framer interface {
	// NextOperation reports what to read next.
	NextOperation() Operation

	// WorkBuffer returns the buffer the read actor must fill with
	// exactly the byte count of the last NextOperation() result.
	WorkBuffer() []byte

	// Advance tells the framer that n bytes (matching the last
	// NextOperation().ByteCount) were written into WorkBuffer(). It
	// returns true once a full message is assembled and ready for Take,
	// and an error if n mismatches or the frame fails validation (too
	// large).
	Advance(n int) (ready bool, err error)

	// Take returns the assembled message and resets the framer for the
	// next one. Only valid immediately after Advance returned true.
	Take() Message

	// Encode renders payload (tagged with channel) into the wire chunks
	// a write actor should send, in order, as a single vectored write.
	Encode(payload []byte, channel uint64) [][]byte
}

// BufferMode selects how a Framer stages bytes in flight.
type BufferMode uint8

const (
	// BufferMulti keeps separate header and payload buffers; the payload
	// buffer is handed back directly as the message with no copy.
	BufferMulti BufferMode = iota

	// BufferSingle keeps one growing buffer overlaying the header region
	// at the front, reordered in place on assembly instead of allocating
	// a second buffer.
	BufferSingle
)

// Config tunes a Framer.
type Config struct {
	Layout     Layout
	Buffer     BufferMode
	MaxPayload uint32 // 0 means DefaultMaxPayload
}

// New builds a Framer per cfg.
func New(cfg Config) Framer {
	switch cfg.Buffer {
	case BufferSingle:
		return newSingleFramer(cfg)
	default:
		return newMultiFramer(cfg)
	}
}

func (c Config) maxPayload() uint32 {
	if c.MaxPayload == 0 {
		return DefaultMaxPayload
	}
	return c.MaxPayload
}
