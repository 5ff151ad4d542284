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

package executor

import (
	"context"
	"sync"
)

var (
	svcMu   sync.Mutex
	svcPool Pool
)

// InitServices builds (or replaces) the process-wide shared Pool per
// spec.md §6's init_services(config). Connectors created through
// socket/client and socket/server pull their strands from this pool
// unless given one explicitly.
func InitServices(cfg Config) Pool {
	svcMu.Lock()
	defer svcMu.Unlock()

	svcPool = NewPool(cfg)
	return svcPool
}

// Services returns the process-wide Pool, lazily creating it with the
// GOMAXPROCS-sized default if InitServices was never called.
func Services() Pool {
	svcMu.Lock()
	defer svcMu.Unlock()

	if svcPool == nil {
		svcPool = NewPool(Config{})
	}
	return svcPool
}

// DeinitServices shuts down the process-wide Pool and clears it, so a
// subsequent Services() call lazily rebuilds a fresh one. Matches
// spec.md §6's deinit_services().
func DeinitServices(ctx context.Context) error {
	svcMu.Lock()
	p := svcPool
	svcPool = nil
	svcMu.Unlock()

	if p == nil {
		return nil
	}
	return p.Shutdown(ctx)
}
