/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package startStop provides a small lifecycle wrapper around a pair of
// start/stop functions: Fresh -> Running -> Stopping -> Stopped.
package startStop

import (
	"context"
	"time"
)

// FuncStart is run in its own goroutine by Start; it must return once ctx is done.
type FuncStart func(ctx context.Context) error

// FuncStop runs synchronously from Stop to release whatever FuncStart acquired.
type FuncStop func(ctx context.Context) error

// StartStop drives a Fresh -> Running -> Stopping -> Stopped state machine
// around one start/stop function pair. Start and Stop are both idempotent
// and safe to call from multiple goroutines.
type StartStop interface {
	// Start launches the start function in a new goroutine and returns
	// immediately. Calling Start while already running stops the previous
	// instance first.
	Start(ctx context.Context) error

	// Stop cancels the running start function, runs the stop function and
	// waits for the start goroutine to return. Calling Stop when not
	// running is a no-op.
	Stop(ctx context.Context) error

	// Restart is Stop followed by Start.
	Restart(ctx context.Context) error

	// IsRunning reports whether the start function is currently executing.
	IsRunning() bool

	// Uptime is the duration since the current run started, or zero when
	// not running.
	Uptime() time.Duration

	// ErrorsLast returns the most recently recorded error, or nil.
	ErrorsLast() error

	// ErrorsList returns every error recorded since the last Start.
	ErrorsList() []error
}

// New builds a StartStop around the given start/stop function pair. Either
// may be nil: calling Start or Stop will then record an "invalid ... function"
// error instead of panicking.
func New(start FuncStart, stop FuncStop) StartStop {
	return &model{
		fctStart: start,
		fctStop:  stop,
	}
}
