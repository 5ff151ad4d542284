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

// Package config defines the client and server configuration surfaces consumed
// by the socket/client and socket/server connector packages: network/address
// selection, TLS enablement, and the handful of Unix-socket and idle-timeout
// knobs a connector needs before it can start.
package config

import (
	"errors"
)

// MaxGID is the largest POSIX group id this package accepts for GroupPerm.
const MaxGID = 32767

var (
	// ErrInvalidProtocol is returned when Network does not name a supported
	// transport, or names one unavailable on the current platform.
	ErrInvalidProtocol = errors.New("invalid protocol")

	// ErrInvalidTLSConfig is returned when TLS is enabled on a transport that
	// cannot carry it, or when the TLS surface is otherwise incomplete.
	ErrInvalidTLSConfig = errors.New("invalid TLS config")

	// ErrInvalidGroup is returned when GroupPerm falls outside [-1, MaxGID].
	ErrInvalidGroup = errors.New("invalid unix group")
)
