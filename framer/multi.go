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

// multiStep tracks where a multiFramer sits in its read schedule.
type multiStep uint8

const (
	stepHeaderSize multiStep = iota
	stepHeader
	stepPayload
)

// multiFramer keeps header and payload in separate buffers: the payload
// buffer is handed back directly as the assembled message, with no copy
// (spec.md §4.1, "preferred for stream transports").
type multiFramer struct {
	cfg Config

	step    multiStep
	hdrBuf  []byte
	plBuf   []byte
	plSize  uint32
	channel uint64
	id      uint16
	nextID  uint16
}

func newMultiFramer(cfg Config) *multiFramer {
	f := &multiFramer{cfg: cfg}
	f.resetStep()
	return f
}

func (f *multiFramer) resetStep() {
	if f.cfg.Layout == LayoutExtended {
		f.step = stepHeaderSize
		f.hdrBuf = make([]byte, 1)
	} else {
		f.step = stepHeader
		f.hdrBuf = make([]byte, defaultHeaderSize)
	}
	f.plBuf = nil
}

func (f *multiFramer) NextOperation() Operation {
	switch f.step {
	case stepHeaderSize:
		return Operation{Kind: OpReadHeaderSize, ByteCount: 1}
	case stepHeader:
		return Operation{Kind: OpReadHeader, ByteCount: len(f.hdrBuf)}
	default:
		return Operation{Kind: OpReadPayload, ByteCount: int(f.plSize)}
	}
}

func (f *multiFramer) WorkBuffer() []byte {
	if f.step == stepPayload {
		return f.plBuf
	}
	return f.hdrBuf
}

func (f *multiFramer) Advance(n int) (bool, error) {
	op := f.NextOperation()
	if n != op.ByteCount {
		return false, ErrAdvanceMismatch
	}

	switch f.step {
	case stepHeaderSize:
		if f.hdrBuf[0] != extHeaderFields {
			return false, ErrOversizePayload
		}
		f.step = stepHeader
		f.hdrBuf = make([]byte, extHeaderFields)
		return false, nil

	case stepHeader:
		if f.cfg.Layout == LayoutExtended {
			f.plSize, f.channel, f.id = decodeExtHeader(f.hdrBuf)
		} else {
			f.plSize = decodeDefaultHeader(f.hdrBuf)
			f.channel, f.id = 0, 0
		}

		if f.plSize > f.cfg.maxPayload() {
			return false, ErrOversizePayload
		}

		f.plBuf = make([]byte, f.plSize)
		if f.plSize == 0 {
			f.step = stepPayload
			return true, nil
		}

		f.step = stepPayload
		return false, nil

	default: // stepPayload
		return true, nil
	}
}

func (f *multiFramer) Take() Message {
	msg := Message{Payload: f.plBuf, Channel: f.channel, ID: f.id}
	f.resetStep()
	return msg
}

func (f *multiFramer) Encode(payload []byte, channel uint64) [][]byte {
	if f.cfg.Layout == LayoutExtended {
		f.nextID++
		return [][]byte{encodeExtHeader(uint32(len(payload)), channel, f.nextID), payload}
	}
	return [][]byte{encodeDefaultHeader(uint32(len(payload))), payload}
}
