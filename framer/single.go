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

package framer

// singleFramer keeps one growing buffer overlaying the header region at
// the front instead of a separate header/payload pair. Assembly swaps
// the min(header_size, payload_size) overlapping bytes between the front
// and the tail, then truncates, so the buffer ends up holding exactly
// the original payload with one in-place reorder and no second
// allocation — the algorithm netpp's standard_builder uses for its
// length-prefixed wire format, carried over unchanged for LayoutDefault.
//
// LayoutExtended has no equivalent single-swap identity (its header
// carries three independent fields, not one that can be reconstructed
// by swapping a single contiguous run), so it falls back to the same
// direct field layout multiFramer uses; see DESIGN.md.
type singleFramer struct {
	cfg Config

	step    multiStep
	buf     []byte // the one staging buffer: header bytes, then header+payload
	hdrSize int    // total header length including any size prefix
	plSize  uint32
	channel uint64
	id      uint16
	nextID  uint16
}

func newSingleFramer(cfg Config) *singleFramer {
	f := &singleFramer{cfg: cfg}
	f.resetStep()
	return f
}

func (f *singleFramer) resetStep() {
	if f.cfg.Layout == LayoutExtended {
		f.step = stepHeaderSize
		f.hdrSize = extHeaderSize
		f.buf = make([]byte, 1)
	} else {
		f.step = stepHeader
		f.hdrSize = defaultHeaderSize
		f.buf = make([]byte, defaultHeaderSize)
	}
}

func (f *singleFramer) NextOperation() Operation {
	switch f.step {
	case stepHeaderSize:
		return Operation{Kind: OpReadHeaderSize, ByteCount: 1}
	case stepHeader:
		return Operation{Kind: OpReadHeader, ByteCount: len(f.buf)}
	default:
		return Operation{Kind: OpReadPayload, ByteCount: int(f.plSize)}
	}
}

func (f *singleFramer) WorkBuffer() []byte {
	switch f.step {
	case stepHeaderSize:
		return f.buf
	case stepHeader:
		return f.buf
	default:
		return f.buf[f.hdrSize:]
	}
}

func (f *singleFramer) Advance(n int) (bool, error) {
	op := f.NextOperation()
	if n != op.ByteCount {
		return false, ErrAdvanceMismatch
	}

	switch f.step {
	case stepHeaderSize:
		if f.buf[0] != extHeaderFields {
			return false, ErrOversizePayload
		}
		f.step = stepHeader
		f.buf = make([]byte, extHeaderFields)
		return false, nil

	case stepHeader:
		if f.cfg.Layout == LayoutExtended {
			f.plSize, f.channel, f.id = decodeExtHeader(f.buf)
		} else {
			f.plSize = decodeDefaultHeader(f.buf)
			f.channel, f.id = 0, 0
		}

		if f.plSize > f.cfg.maxPayload() {
			return false, ErrOversizePayload
		}

		if f.cfg.Layout == LayoutExtended {
			// No single-swap identity for the multi-field header: stage
			// payload right after it, like multiFramer.
			f.buf = append(f.buf, make([]byte, f.plSize)...)
			f.hdrSize = len(f.buf) - int(f.plSize)
			f.step = stepPayload
			if f.plSize == 0 {
				f.buf = f.buf[f.hdrSize:]
				return true, nil
			}
			return false, nil
		}

		// LayoutDefault: grow the buffer to header+payload length so the
		// payload work area sits right after the still-intact header.
		f.buf = append(f.buf, make([]byte, f.plSize)...)
		f.step = stepPayload
		if f.plSize == 0 {
			f.swapHeaderPayload()
			return true, nil
		}
		return false, nil

	default: // stepPayload
		if f.cfg.Layout == LayoutDefault {
			f.swapHeaderPayload()
		} else {
			f.buf = f.buf[f.hdrSize:]
		}
		return true, nil
	}
}

// swapHeaderPayload implements standard_builder::process_operation's
// read_msg step: swap the min(header_size, payload_size) overlapping
// bytes between the front of the buffer and its tail, then truncate to
// payload_size, reconstructing the original payload in place.
func (f *singleFramer) swapHeaderPayload() {
	headerSize := defaultHeaderSize
	payloadSize := int(f.plSize)

	copySz := minInt(headerSize, payloadSize)
	offset := headerSize + payloadSize - copySz

	for i := 0; i < copySz; i++ {
		f.buf[i], f.buf[offset+i] = f.buf[offset+i], f.buf[i]
	}

	f.buf = f.buf[:payloadSize]
}

func (f *singleFramer) Take() Message {
	msg := Message{Payload: f.buf, Channel: f.channel, ID: f.id}
	f.resetStep()
	return msg
}

// Encode mirrors standard_builder::build for LayoutDefault: start from
// the payload buffer, grow it by header_size at the tail, swap the
// overlapping region to the front, then overwrite the header with the
// real length. LayoutExtended encodes its three header fields directly,
// since the single-swap identity does not generalize to them.
func (f *singleFramer) Encode(payload []byte, channel uint64) [][]byte {
	if f.cfg.Layout == LayoutExtended {
		f.nextID++
		return [][]byte{encodeExtHeader(uint32(len(payload)), channel, f.nextID), payload}
	}

	headerSize := defaultHeaderSize
	payloadSize := len(payload)

	buf := make([]byte, payloadSize+headerSize)
	copy(buf, payload)

	copySz := minInt(headerSize, payloadSize)
	offset := headerSize + payloadSize - copySz

	for i := 0; i < copySz; i++ {
		buf[i], buf[offset+i] = buf[offset+i], buf[i]
	}

	hdr := encodeDefaultHeader(uint32(payloadSize))
	copy(buf[:headerSize], hdr)

	return [][]byte{buf}
}
