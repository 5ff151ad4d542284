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
	libdur "github.com/nabbar/golib/duration"
	libprm "github.com/nabbar/golib/file/perm"
	libptc "github.com/nabbar/golib/network/protocol"
	libsck "github.com/nabbar/golib/socket"
)

// NewServerFunc is set by socket/server's init to break the import cycle a
// direct dependency on that package would create here. Server.New calls
// through this hook; it is nil only if socket/server has never been
// imported by the running binary.
var NewServerFunc func(upd libsck.FuncUpdateConn, handler libsck.HandlerFunc, cfg Server) (libsck.Server, error)

// ServerTLS groups the TLS knobs of a Server connector.
type ServerTLS struct {
	Enabled bool
	Config  libtls.Config
}

// Server describes one listening connector: the transport to bind, the
// Unix-socket file ownership it should apply after listen, the idle
// timeout it enforces on accepted connections, and optional TLS wrapping.
type Server struct {
	Network libptc.NetworkProtocol
	Address string

	// PermFile is applied to the Unix socket file after Listen, ignored on
	// every other transport.
	PermFile libprm.Perm

	// GroupPerm is the POSIX group id to chown the Unix socket file to.
	// -1 leaves the group unchanged; any value in [0, MaxGID] is accepted.
	GroupPerm int32

	// ConIdleTimeout closes an accepted connection that has been idle for
	// longer than this duration. Zero disables the idle timeout.
	ConIdleTimeout libdur.Duration

	TLS ServerTLS

	dftTLS libtls.TLSConfig
}

// Validate checks that Network is supported on this platform, that Address
// resolves for it, that GroupPerm is a plausible POSIX group id, and that
// the TLS surface (when enabled) is consistent.
func (s Server) Validate() error {
	if !validServerProtocol(s.Network) {
		return fmt.Errorf("%w: %v", ErrInvalidProtocol, s.Network)
	}

	if err := resolveServerAddr(s.Network, s.Address); err != nil {
		return err
	}

	if s.GroupPerm < -1 || s.GroupPerm > MaxGID {
		return fmt.Errorf("%w: %d", ErrInvalidGroup, s.GroupPerm)
	}

	if s.TLS.Enabled && !s.Network.IsStream() {
		return fmt.Errorf("%w: TLS requires a stream transport", ErrInvalidTLSConfig)
	}

	return nil
}

// DefaultTLS registers the TLSConfig used by GetTLS when TLS.Config has not
// been set explicitly. A nil def clears the fallback.
func (s *Server) DefaultTLS(def libtls.TLSConfig) {
	s.dftTLS = def
}

// GetTLS resolves the effective TLS configuration: whether TLS is enabled
// and the TLSConfig to hand to the connector. tlsCfg is nil when TLS is
// disabled.
func (s Server) GetTLS() (enabled bool, tlsCfg libtls.TLSConfig) {
	if !s.TLS.Enabled {
		return false, nil
	}

	if reflect.DeepEqual(s.TLS.Config, libtls.Config{}) && s.dftTLS != nil {
		return true, s.dftTLS
	}

	return true, s.TLS.Config.New()
}

// New builds a Server connector from this configuration, running handler
// once per connection (stream transports) or per packet (datagram
// transports); upd may be nil.
func (s Server) New(upd libsck.FuncUpdateConn, handler libsck.HandlerFunc) (libsck.Server, error) {
	if NewServerFunc == nil {
		return nil, fmt.Errorf("%w: socket/server not imported", ErrInvalidProtocol)
	}
	return NewServerFunc(upd, handler, s)
}

func validServerProtocol(p libptc.NetworkProtocol) bool {
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

func resolveServerAddr(p libptc.NetworkProtocol, addr string) error {
	switch p {
	case libptc.NetworkTCP, libptc.NetworkTCP4, libptc.NetworkTCP6:
		_, err := net.ResolveTCPAddr(p.Code(), addr)
		return err
	case libptc.NetworkUDP, libptc.NetworkUDP4, libptc.NetworkUDP6:
		_, err := net.ResolveUDPAddr(p.Code(), addr)
		return err
	case libptc.NetworkUnix, libptc.NetworkUnixGram:
		if addr == "" {
			// address may be supplied later via Server.RegisterSocket
			return nil
		}
		_, err := net.ResolveUnixAddr(p.Code(), addr)
		return err
	default:
		return fmt.Errorf("%w: %v", ErrInvalidProtocol, p)
	}
}
