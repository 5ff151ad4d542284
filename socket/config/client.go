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

package config

import (
	"fmt"
	"net"
	"reflect"

	libtls "github.com/nabbar/golib/certificates"
	libptc "github.com/nabbar/golib/network/protocol"
	libsck "github.com/nabbar/golib/socket"
)

// NewClientFunc is set by socket/client's init to break the import cycle a
// direct dependency on that package would create here. Client.New calls
// through this hook; it is nil only if socket/client has never been
// imported by the running binary.
var NewClientFunc func(cfg Client, handler libsck.HandlerFunc) (libsck.Client, error)

// ClientTLS groups the TLS knobs of a Client connector. Config is the
// certificate/cipher/version bundle; ServerName drives both the outbound
// SNI and the peer certificate verification.
type ClientTLS struct {
	Enabled    bool
	Config     libtls.Config
	ServerName string
}

// Client describes one outbound connector: the transport to dial and,
// optionally, the TLS wrapping applied to it.
type Client struct {
	Network libptc.NetworkProtocol
	Address string
	TLS     ClientTLS

	dftTLS libtls.TLSConfig
}

// Validate checks that Network is supported on this platform, that Address
// resolves for it, and that the TLS surface (when enabled) is consistent.
func (c Client) Validate() error {
	if !validClientProtocol(c.Network) {
		return fmt.Errorf("%w: %v", ErrInvalidProtocol, c.Network)
	}

	if err := resolveClientAddr(c.Network, c.Address); err != nil {
		return err
	}

	if c.TLS.Enabled {
		if !c.Network.IsStream() {
			return fmt.Errorf("%w: TLS requires a stream transport", ErrInvalidTLSConfig)
		}
		if c.TLS.ServerName == "" {
			return fmt.Errorf("%w: TLS requires a server name", ErrInvalidTLSConfig)
		}
	}

	return nil
}

// DefaultTLS registers the TLSConfig used by GetTLS when TLS.Config has not
// been set explicitly. A nil def clears the fallback.
func (c *Client) DefaultTLS(def libtls.TLSConfig) {
	c.dftTLS = def
}

// GetTLS resolves the effective TLS configuration: whether TLS is enabled,
// the TLSConfig to hand to the connector, and the SNI/verification server
// name. tlsCfg is nil when TLS is disabled.
func (c Client) GetTLS() (enabled bool, tlsCfg libtls.TLSConfig, serverName string) {
	if !c.TLS.Enabled {
		return false, nil, ""
	}

	if reflect.DeepEqual(c.TLS.Config, libtls.Config{}) && c.dftTLS != nil {
		return true, c.dftTLS, c.TLS.ServerName
	}

	return true, c.TLS.Config.New(), c.TLS.ServerName
}

// New builds a Client connector from this configuration. The returned
// Client dials on Connect; no HandlerFunc is attached since config-driven
// clients are read/written synchronously rather than handler-driven.
func (c Client) New() (libsck.Client, error) {
	if NewClientFunc == nil {
		return nil, fmt.Errorf("%w: socket/client not imported", ErrInvalidProtocol)
	}
	return NewClientFunc(c, nil)
}

func validClientProtocol(p libptc.NetworkProtocol) bool {
	switch p {
	case libptc.NetworkTCP, libptc.NetworkTCP4, libptc.NetworkTCP6,
		libptc.NetworkUDP, libptc.NetworkUDP4, libptc.NetworkUDP6:
		return true
	case libptc.NetworkUnix, libptc.NetworkUnixGram:
		return unixSocketSupported()
	default:
		return false
	}
}

func resolveClientAddr(p libptc.NetworkProtocol, addr string) error {
	switch p {
	case libptc.NetworkTCP, libptc.NetworkTCP4, libptc.NetworkTCP6:
		_, err := net.ResolveTCPAddr(p.Code(), addr)
		return err
	case libptc.NetworkUDP, libptc.NetworkUDP4, libptc.NetworkUDP6:
		_, err := net.ResolveUDPAddr(p.Code(), addr)
		return err
	case libptc.NetworkUnix, libptc.NetworkUnixGram:
		_, err := net.ResolveUnixAddr(p.Code(), addr)
		return err
	default:
		return fmt.Errorf("%w: %v", ErrInvalidProtocol, p)
	}
}
