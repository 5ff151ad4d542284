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

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// unquote strips one layer of single quotes, one layer of double quotes and
// one layer of backticks, in that order. A value quoted both ways (e.g.
// "'tcp'") is left partially quoted by design, since a later pass never sees
// what an earlier pass exposed.
func unquote(s string) string {
	s = strings.Trim(s, "'")
	s = strings.Trim(s, `"`)
	s = strings.Trim(s, "`")
	return s
}

// normalize trims whitespace, strips one layer of quoting via unquote and
// lowercases: the same steps Parse applies.
func normalize(s string) NetworkProtocol {
	s = strings.TrimSpace(s)
	s = unquote(s)
	return lookup(strings.ToLower(s))
}

// UnmarshalJSON implements json.Unmarshaler. Unknown or empty values decode
// to NetworkEmpty without error.
func (p *NetworkProtocol) UnmarshalJSON(data []byte) error {
	*p = normalize(string(data))
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler (gopkg.in/yaml.v3 node form).
func (p *NetworkProtocol) UnmarshalYAML(node *yaml.Node) error {
	*p = normalize(node.Value)
	return nil
}

// UnmarshalTOML implements the toml Unmarshaler contract, accepting either a
// string or a []byte value.
func (p *NetworkProtocol) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		*p = normalize(v)
		return nil
	case []byte:
		*p = normalize(string(v))
		return nil
	default:
		return fmt.Errorf("protocol: value %v is not in valid format for NetworkProtocol", data)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *NetworkProtocol) UnmarshalText(data []byte) error {
	*p = normalize(string(data))
	return nil
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (p *NetworkProtocol) UnmarshalCBOR(data []byte) error {
	*p = normalize(string(data))
	return nil
}
