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

// Package server implements the transport-agnostic listening engine every
// socket/server/{tcp,udp,unix,unixgram} wrapper builds on.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"

	libtls "github.com/nabbar/golib/certificates"
	libptc "github.com/nabbar/golib/network/protocol"
	"github.com/nabbar/golib/sockerr"
	libsck "github.com/nabbar/golib/socket"
	sckcfg "github.com/nabbar/golib/socket/config"
)

var (
	errUnixOnly     = errors.New("server: RegisterSocket is only valid for unix/unixgram transports")
	errInvalidGID   = errors.New("server: invalid group id")
	errNotListening = errors.New("server: not listening")
)

type server struct {
	mu  sync.Mutex
	cfg sckcfg.Server
	hdl libsck.HandlerFunc
	upd libsck.FuncUpdateConn

	lst net.Listener
	pkt net.PacketConn

	running atomic.Bool
	gone    atomic.Bool
	opened  atomic.Int64

	sockPath string
	sockPerm os.FileMode
	sockGID  int

	fnErr       atomic.Value // FuncError
	fnInfo      atomic.Value // FuncInfo
	fnInfoSrv   atomic.Value // func(string)
	fnUpdateAlt atomic.Value // FuncUpdateConn
}

func init() {
	sckcfg.NewServerFunc = New
}

// New builds the generic server engine: upd tunes freshly accepted
// connections (may be nil), handler runs once per connection (stream
// transports) or per packet (datagram transports), cfg describes the
// transport to bind.
func New(upd libsck.FuncUpdateConn, handler libsck.HandlerFunc, cfg sckcfg.Server) (libsck.Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &server{cfg: cfg, hdl: handler, upd: upd, sockPerm: cfg.PermFile.FileMode(), sockGID: int(cfg.GroupPerm)}, nil
}

// newUnbound builds a server engine for a single transport, deferring the
// address to a later RegisterServer call. Used by the per-transport thin
// wrapper packages (tcp/udp/unix/unixgram), which fix cfg.Network but not
// cfg.Address up front.
func newUnbound(network libptc.NetworkProtocol, upd libsck.FuncUpdateConn, handler libsck.HandlerFunc) libsck.Server {
	return &server{cfg: sckcfg.Server{Network: network}, hdl: handler, upd: upd, sockGID: -1}
}

// NewUnbound exposes newUnbound to the per-transport thin wrapper packages
// (tcp/udp/unix/unixgram), which fix cfg.Network but leave the address to a
// later RegisterServer call.
func NewUnbound(network libptc.NetworkProtocol, upd libsck.FuncUpdateConn, handler libsck.HandlerFunc) libsck.Server {
	return newUnbound(network, upd, handler)
}

func (s *server) RegisterFuncError(f libsck.FuncError) { s.fnErr.Store(f) }
func (s *server) RegisterFuncInfo(f libsck.FuncInfo)   { s.fnInfo.Store(f) }
func (s *server) RegisterFuncInfoServer(f func(msg string)) {
	s.fnInfoSrv.Store(f)
}
func (s *server) RegisterFuncUpdateConn(f libsck.FuncUpdateConn) {
	s.mu.Lock()
	s.upd = f
	s.mu.Unlock()
}

func (s *server) raiseErr(err error) {
	if err == nil {
		return
	}
	if f, ok := s.fnErr.Load().(libsck.FuncError); ok && f != nil {
		f(err)
	}
}

func (s *server) raiseInfo(local, remote net.Addr, state libsck.ConnState) {
	if f, ok := s.fnInfo.Load().(libsck.FuncInfo); ok && f != nil {
		f(local, remote, state)
	}
}

func (s *server) raiseInfoSrv(msg string) {
	if f, ok := s.fnInfoSrv.Load().(func(string)); ok && f != nil {
		f(msg)
	}
}

func (s *server) updateConn(conn net.Conn) {
	s.mu.Lock()
	upd := s.upd
	s.mu.Unlock()
	if upd != nil {
		upd(conn)
	}
}

func (s *server) RegisterServer(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.Address = address
	return s.cfg.Validate()
}

func (s *server) RegisterSocket(path string, perm os.FileMode, gid int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Network != libptc.NetworkUnix && s.cfg.Network != libptc.NetworkUnixGram {
		return sockerr.Wrap(sockerr.ErrTransport, errUnixOnly)
	}

	if gid < -1 || gid > int(sckcfg.MaxGID) {
		return sockerr.Wrap(sockerr.ErrTransport, errInvalidGID)
	}

	s.sockPath = path
	s.sockPerm = perm
	s.sockGID = gid
	s.cfg.Address = path

	return nil
}

func (s *server) SetTLS(enable bool, cfg libtls.TLSConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.TLS.Enabled = enable
	if cfg != nil {
		s.cfg.DefaultTLS(cfg)
	}
	return s.cfg.Validate()
}

func (s *server) bind() error {
	s.mu.Lock()
	network := s.cfg.Network
	address := s.cfg.Address
	if s.sockPath != "" {
		address = s.sockPath
	}
	enabled, tlsCfg := s.cfg.GetTLS()
	s.mu.Unlock()

	if network.IsPacket() {
		pkt, err := net.ListenPacket(network.Code(), address)
		if err != nil {
			return sockerr.Wrap(sockerr.ErrTransport, err)
		}
		s.mu.Lock()
		s.pkt = pkt
		s.mu.Unlock()
	} else {
		lst, err := net.Listen(network.Code(), address)
		if err != nil {
			return sockerr.Wrap(sockerr.ErrTransport, err)
		}
		if enabled {
			lst = tls.NewListener(lst, tlsCfg.TlsConfig(""))
		}
		s.mu.Lock()
		s.lst = lst
		s.mu.Unlock()
	}

	if network == libptc.NetworkUnix || network == libptc.NetworkUnixGram {
		s.applySocketPerm(address)
	}

	return nil
}

func (s *server) applySocketPerm(path string) {
	s.mu.Lock()
	perm, gid := s.sockPerm, s.sockGID
	s.mu.Unlock()

	if perm != 0 {
		_ = os.Chmod(path, perm)
	}
	if gid >= 0 {
		_ = os.Chown(path, -1, gid)
	}
}

// Listen runs the accept/demultiplex loop until ctx is canceled or Shutdown
// is called.
func (s *server) Listen(ctx context.Context) error {
	if s.gone.Load() {
		return libsck.ErrServerGone
	}

	if err := s.bind(); err != nil {
		s.raiseErr(err)
		return err
	}

	s.running.Store(true)
	s.raiseInfoSrv("listening")
	defer func() {
		s.running.Store(false)
		s.raiseInfoSrv("stopped")
	}()

	s.mu.Lock()
	isPacket := s.cfg.Network.IsPacket()
	s.mu.Unlock()

	if isPacket {
		return s.servePacket(ctx)
	}
	return s.serveStream(ctx)
}

func (s *server) serveStream(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	for {
		s.mu.Lock()
		lst := s.lst
		s.mu.Unlock()

		if lst == nil {
			return nil
		}

		cnn, err := lst.Accept()
		if err != nil {
			if s.gone.Load() {
				return nil
			}
			err = sockerr.Wrap(sockerr.ErrTransport, err)
			s.raiseErr(err)
			return err
		}

		s.updateConn(cnn)
		s.opened.Add(1)
		s.raiseInfo(cnn.LocalAddr(), cnn.RemoteAddr(), libsck.ConnectionNew)

		go s.handleStream(ctx, cnn)
	}
}

func (s *server) handleStream(ctx context.Context, cnn net.Conn) {
	defer s.opened.Add(-1)
	defer func() { _ = cnn.Close() }()

	s.raiseInfo(cnn.LocalAddr(), cnn.RemoteAddr(), libsck.ConnectionHandler)

	if s.hdl != nil {
		connected := atomic.Bool{}
		connected.Store(true)
		ctxt := libsck.NewContext(ctx, cnn, cnn.LocalAddr(), cnn.RemoteAddr(), func() bool { return !connected.Load() })
		s.hdl(ctxt)
	}

	s.raiseInfo(cnn.LocalAddr(), cnn.RemoteAddr(), libsck.ConnectionClose)
}

func (s *server) servePacket(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	s.opened.Add(1)
	defer s.opened.Add(-1)

	buf := make([]byte, libsck.DefaultBufferSize)

	for {
		s.mu.Lock()
		pkt := s.pkt
		s.mu.Unlock()

		if pkt == nil {
			return nil
		}

		n, remote, err := pkt.ReadFrom(buf)
		if err != nil {
			if s.gone.Load() {
				return nil
			}
			err = sockerr.Wrap(sockerr.ErrTransport, err)
			s.raiseErr(err)
			return err
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])

		s.raiseInfo(pkt.LocalAddr(), remote, libsck.ConnectionNew)
		go s.handlePacket(ctx, pkt, remote, payload)
	}
}

func (s *server) handlePacket(ctx context.Context, pkt net.PacketConn, remote net.Addr, payload []byte) {
	if s.hdl == nil {
		return
	}

	rwc := newPacketRWC(pkt, remote, payload)
	s.raiseInfo(pkt.LocalAddr(), remote, libsck.ConnectionHandler)
	ctxt := libsck.NewContext(ctx, rwc, pkt.LocalAddr(), remote, func() bool { return false })
	s.hdl(ctxt)
	s.raiseInfo(pkt.LocalAddr(), remote, libsck.ConnectionClose)
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.Close()
}

func (s *server) Close() error {
	s.mu.Lock()
	lst, pkt := s.lst, s.pkt
	s.lst, s.pkt = nil, nil
	s.mu.Unlock()

	s.gone.Store(true)
	s.running.Store(false)

	var err error
	if lst != nil {
		err = libsck.ErrorFilter(lst.Close())
	}
	if pkt != nil {
		if e := libsck.ErrorFilter(pkt.Close()); e != nil {
			err = e
		}
	}
	return err
}

func (s *server) IsRunning() bool { return s.running.Load() }
func (s *server) IsGone() bool    { return s.gone.Load() }

func (s *server) OpenConnections() int64 { return s.opened.Load() }

func (s *server) Listener() (network string, address string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lst != nil {
		return s.lst.Addr().Network(), s.lst.Addr().String(), nil
	}
	if s.pkt != nil {
		return s.pkt.LocalAddr().Network(), s.pkt.LocalAddr().String(), nil
	}
	return "", "", errNotListening
}

// packetRWC adapts one received datagram into a ReadWriteCloser: Read
// drains the payload once, Write sends the reply back to the sender via
// the shared PacketConn, Close is a no-op (the PacketConn outlives any
// single packet's handler).
type packetRWC struct {
	pkt     net.PacketConn
	remote  net.Addr
	payload []byte
	off     int
}

func newPacketRWC(pkt net.PacketConn, remote net.Addr, payload []byte) *packetRWC {
	return &packetRWC{pkt: pkt, remote: remote, payload: payload}
}

func (p *packetRWC) Read(b []byte) (int, error) {
	if p.off >= len(p.payload) {
		return 0, io.EOF
	}
	n := copy(b, p.payload[p.off:])
	p.off += n
	return n, nil
}

func (p *packetRWC) Write(b []byte) (int, error) {
	return p.pkt.WriteTo(b, p.remote)
}

func (p *packetRWC) Close() error {
	return nil
}
