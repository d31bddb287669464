/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package engine implements the BackupEngine: the worker pool that turns
// debounced filesystem events for one source into versioned, optionally
// compressed artifacts under that source's destination tree.
package engine

import (
	"context"

	"github.com/nabbar/golib/queue"
)

// State is the BackupEngine's lifecycle state.
type State uint8

const (
	StateFresh State = iota
	StateRunning
	StateStopping
	StateStopped
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Counters is a point-in-time snapshot of an Engine's backup counters.
type Counters struct {
	TotalBackups      int64
	FailedBackups     int64
	SkippedBackups    int64
	CompressedBackups int64
	TotalBytes        int64
}

// Engine watches one source tree's queued events and backs up changed
// files into versioned artifacts.
type Engine interface {
	// Start launches numWorkers backup workers (2 if numWorkers <= 0) and
	// returns immediately; the workers run until Stop is called.
	Start(ctx context.Context, numWorkers int) error

	// Stop drains the work queue, waits for in-flight workers to finish,
	// and is idempotent and safe to call even if Start was never called.
	Stop(ctx context.Context) error

	// OnEvent records a filesystem event observed for filename inside
	// dir. Directories, and actions other than create/modify, are
	// ignored; events are filtered and debounced before being queued.
	OnEvent(dir string, filename string, action queue.Action)

	// State reports the engine's current lifecycle state.
	State() State

	// Counters returns a snapshot of the engine's backup counters.
	Counters() Counters
}

// New returns an Engine for the given source spec.
func New(spec SourceSpec) Engine {
	return newEngine(spec)
}
