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
	"runtime"
	"sync"
)

// Config tunes a Pool. A zero Config is valid: Workers <= 0 resolves to
// runtime.GOMAXPROCS(0), matching the hardware_concurrency default named
// in spec.md §5/§6.
type Config struct {
	Workers int
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

type pool struct {
	jobs chan func()
	wg   sync.WaitGroup
	size int

	closeOnce sync.Once
	done      chan struct{}
}

// NewPool builds a Pool sized per cfg and starts its workers.
func NewPool(cfg Config) Pool {
	n := cfg.workers()

	p := &pool{
		jobs: make(chan func(), 4*n),
		size: n,
		done: make(chan struct{}),
	}

	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

func (p *pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.done:
			return
		case fn, ok := <-p.jobs:
			if !ok {
				return
			}
			fn()
		}
	}
}

func (p *pool) Go(fn func()) {
	select {
	case <-p.done:
		return
	default:
	}

	select {
	case p.jobs <- fn:
	case <-p.done:
	}
}

func (p *pool) Size() int {
	return p.size
}

func (p *pool) NewStrand() Strand {
	return newStrand(p)
}

func (p *pool) Shutdown(ctx context.Context) error {
	p.closeOnce.Do(func() {
		close(p.done)
	})

	waited := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
