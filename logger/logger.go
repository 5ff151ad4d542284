/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2021 Nicolas JUHEL
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

// Package logger provides a small structured logger on top of logrus, used by
// the socket connectors and connections to report lifecycle and transport events
// without ever calling back into user code while holding an internal lock.
package logger

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the interface used across this module to emit structured, leveled
// log entries. It never panics and never blocks on slow writers: SetOutput
// callers are responsible for using a non-blocking io.Writer if needed.
type Logger interface {
	io.Writer

	// SetLevel changes the minimal level of log message accepted by the logger.
	SetLevel(lvl Level)

	// GetLevel returns the minimal level of log message currently accepted.
	GetLevel() Level

	// SetFields replaces the default fields attached to every entry produced by this logger.
	SetFields(f Fields)

	// GetFields returns the default fields attached to every entry produced by this logger.
	GetFields() Fields

	// WithFields returns a clone of this logger with additional fields merged into the default ones.
	WithFields(f Fields) Logger

	// Clone returns an independent copy of this logger, sharing the same output and level.
	Clone() Logger

	Debug(message string, args ...interface{})
	Info(message string, args ...interface{})
	Warning(message string, args ...interface{})
	Error(message string, args ...interface{})

	// Entry logs a message at the given level, attaching a specific error if not nil.
	Entry(lvl Level, message string, err error, args ...interface{})
}

type logger struct {
	m sync.RWMutex
	l *logrus.Logger
	v Level
	f Fields
}

// New returns a new Logger writing formatted entries to the logrus standard logger.
// Level defaults to InfoLevel.
func New() Logger {
	l := &logger{
		l: logrus.StandardLogger(),
		v: InfoLevel,
		f: NewFields(),
	}

	l.SetLevel(InfoLevel)

	return l
}

// NewWithWriter returns a new Logger writing to the given writer using a dedicated logrus instance.
func NewWithWriter(w io.Writer) Logger {
	n := logrus.New()
	n.SetOutput(w)

	l := &logger{
		l: n,
		v: InfoLevel,
		f: NewFields(),
	}

	l.SetLevel(InfoLevel)

	return l
}

func (o *logger) Write(p []byte) (n int, err error) {
	return len(p), o.l.Out.Write(p)
}

func (o *logger) SetLevel(lvl Level) {
	o.m.Lock()
	defer o.m.Unlock()

	o.v = lvl
	o.l.SetLevel(lvl.Logrus())
}

func (o *logger) GetLevel() Level {
	o.m.RLock()
	defer o.m.RUnlock()

	return o.v
}

func (o *logger) SetFields(f Fields) {
	o.m.Lock()
	defer o.m.Unlock()

	o.f = f
}

func (o *logger) GetFields() Fields {
	o.m.RLock()
	defer o.m.RUnlock()

	return o.f
}

func (o *logger) WithFields(f Fields) Logger {
	o.m.RLock()
	n := &logger{
		l: o.l,
		v: o.v,
		f: o.f.Merge(f),
	}
	o.m.RUnlock()

	return n
}

func (o *logger) Clone() Logger {
	return o.WithFields(NewFields())
}

func (o *logger) entry() *logrus.Entry {
	o.m.RLock()
	defer o.m.RUnlock()

	return o.l.WithFields(o.f.Logrus())
}

func (o *logger) Debug(message string, args ...interface{}) {
	o.entry().Debug(fmt.Sprintf(message, args...))
}

func (o *logger) Info(message string, args ...interface{}) {
	o.entry().Info(fmt.Sprintf(message, args...))
}

func (o *logger) Warning(message string, args ...interface{}) {
	o.entry().Warning(fmt.Sprintf(message, args...))
}

func (o *logger) Error(message string, args ...interface{}) {
	o.entry().Error(fmt.Sprintf(message, args...))
}

func (o *logger) Entry(lvl Level, message string, err error, args ...interface{}) {
	e := o.entry()

	if err != nil {
		e = e.WithError(err)
	}

	msg := fmt.Sprintf(message, args...)

	switch lvl {
	case DebugLevel:
		e.Debug(msg)
	case InfoLevel:
		e.Info(msg)
	case WarnLevel:
		e.Warning(msg)
	case ErrorLevel:
		e.Error(msg)
	case FatalLevel:
		e.Error(msg)
	case PanicLevel:
		e.Error(msg)
	}
}
