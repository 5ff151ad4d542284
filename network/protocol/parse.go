/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package protocol

import "strings"

// Parse matches a network string (as accepted by net.Dial/net.Listen, case
// insensitive, with surrounding quotes/backticks/whitespace trimmed) to its
// NetworkProtocol value. It returns NetworkEmpty when nothing matches.
func Parse(s string) NetworkProtocol {
	return lookup(clean(s))
}

// lookup matches an already-normalized, lowercase network string literal to
// its NetworkProtocol value, with no further trimming.
func lookup(s string) NetworkProtocol {
	switch s {
	case "unix":
		return NetworkUnix
	case "tcp":
		return NetworkTCP
	case "tcp4":
		return NetworkTCP4
	case "tcp6":
		return NetworkTCP6
	case "udp":
		return NetworkUDP
	case "udp4":
		return NetworkUDP4
	case "udp6":
		return NetworkUDP6
	case "ip":
		return NetworkIP
	case "ip4":
		return NetworkIP4
	case "ip6":
		return NetworkIP6
	case "unixgram":
		return NetworkUnixGram
	default:
		return NetworkEmpty
	}
}

// ParseBytes is a byte-slice convenience wrapper around Parse.
func ParseBytes(p []byte) NetworkProtocol {
	return Parse(string(p))
}

// ParseInt64 matches an ordinal value (as returned by Int) to its NetworkProtocol.
// Values outside the uint8 range, including negatives, return NetworkEmpty.
func ParseInt64(i int64) NetworkProtocol {
	if i < 0 || i > 255 {
		return NetworkEmpty
	}

	p := NetworkProtocol(i)

	if !p.valid() {
		return NetworkEmpty
	}

	return p
}

// ParseInt is a convenience wrapper around ParseInt64 for the int type.
func ParseInt(i int) NetworkProtocol {
	return ParseInt64(int64(i))
}

// clean trims surrounding whitespace, then strips one layer of single quotes,
// one layer of double quotes and one layer of backticks, applied in that
// order. A value wrapped in two different quote styles is left partially
// quoted, since the later passes never see what an earlier pass exposed.
func clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "'")
	s = strings.Trim(s, `"`)
	s = strings.Trim(s, "`")
	return strings.ToLower(s)
}
