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

// Package supervisor owns the fleet of per-source backup engines and the
// single filesystem watcher that feeds them, and aggregates their backup
// counters for reporting.
package supervisor

import (
	"context"

	"github.com/nabbar/golib/engine"
	"github.com/nabbar/golib/ioutils/mapCloser"
)

// Supervisor starts, stops and aggregates counters across every
// configured source's BackupEngine.
type Supervisor interface {
	// Start creates and starts an engine for every enabled source whose
	// root exists (missing roots are skipped with a warning, not a fatal
	// error), registers each root with the shared watcher, and starts
	// the watcher itself. It returns an aggregated error if any source
	// failed to start.
	Start(ctx context.Context, numWorkers int) error

	// Stop stops the watcher first, then stops every engine concurrently,
	// waiting for all to finish. Idempotent.
	Stop(ctx context.Context) error

	// Counters returns the sum of the counters of every engine that was
	// started, including after Stop.
	Counters() engine.Counters

	// PerSourceCounters returns one entry per running source, keyed by its
	// root path, for per-source metrics reporting.
	PerSourceCounters() map[string]engine.Counters

	// SourceCount returns the number of sources an engine was started
	// for.
	SourceCount() int

	// Closer exposes the supervisor's registry of closable resources
	// (currently the watcher), so a caller can
	// fold it into a larger shutdown sequence.
	Closer() mapCloser.Closer
}

// New returns a Supervisor for the given sources.
func New(sources []engine.SourceSpec) Supervisor {
	return newSupervisor(sources)
}
