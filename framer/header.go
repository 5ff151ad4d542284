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

import "encoding/binary"

// defaultHeaderSize is the length-prefix-only header: a 4-byte LE payload
// length, no channel tag (spec.md §4.1 / §9 open question (a): the
// default layout never round-trips a channel).
const defaultHeaderSize = 4

// extHeaderFields is the byte size of the fixed-field portion of the
// extended header (payload_size + channel + id), i.e. everything after
// the leading 1-byte header-size prefix.
const extHeaderFields = 4 + 8 + 2

// extHeaderSize is the total extended header size including its own
// 1-byte size prefix.
const extHeaderSize = 1 + extHeaderFields

func encodeDefaultHeader(payloadSize uint32) []byte {
	b := make([]byte, defaultHeaderSize)
	binary.LittleEndian.PutUint32(b, payloadSize)
	return b
}

func decodeDefaultHeader(b []byte) (payloadSize uint32) {
	return binary.LittleEndian.Uint32(b)
}

func encodeExtHeader(payloadSize uint32, channel uint64, id uint16) []byte {
	b := make([]byte, extHeaderSize)
	b[0] = extHeaderFields
	binary.LittleEndian.PutUint32(b[1:5], payloadSize)
	binary.LittleEndian.PutUint64(b[5:13], channel)
	binary.LittleEndian.PutUint16(b[13:15], id)
	return b
}

func decodeExtHeader(b []byte) (payloadSize uint32, channel uint64, id uint16) {
	payloadSize = binary.LittleEndian.Uint32(b[0:4])
	channel = binary.LittleEndian.Uint64(b[4:12])
	id = binary.LittleEndian.Uint16(b[12:14])
	return
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
