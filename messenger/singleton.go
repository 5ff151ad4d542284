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

package messenger

import "sync"

var (
	instMu   sync.Mutex
	instance *Messenger
)

// Instance returns the process-wide Messenger, lazily creating it on
// first use (spec.md §4.6: "the messenger singleton is a process-wide
// lazy object"). Its teardown is DeinitMessengers, which a caller
// registers into whatever process-controlled shutdown sequence it runs
// (spec.md §6 deinit_messengers), mirroring executor.InitServices/
// Services/DeinitServices's own lazy-singleton shape.
func Instance() *Messenger {
	instMu.Lock()
	defer instMu.Unlock()

	if instance == nil {
		instance = New()
	}
	return instance
}

// DeinitMessengers stops the process-wide Messenger — joining every
// in-flight connection and clearing every registration — and clears the
// singleton so a subsequent Instance call lazily rebuilds a fresh one.
func DeinitMessengers() error {
	instMu.Lock()
	m := instance
	instance = nil
	instMu.Unlock()

	if m == nil {
		return nil
	}
	return m.Stop()
}
