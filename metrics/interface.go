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

// Package metrics exposes the supervisor's running counters as Prometheus
// gauges, plus an HTTP handler serving them at /metrics.
package metrics

import (
	"net/http"

	"github.com/nabbar/golib/engine"
)

// Source reports a named source's current counters, e.g. a supervisor
// reporting on behalf of each of its engines.
type Source interface {
	Name() string
	Counters() engine.Counters
}

// Recorder samples one or more Source values into the registered gauges.
type Recorder interface {
	// Collect reads every source's counters and updates the gauges. Callers
	// typically invoke this on a ticker, or just before serving /metrics.
	Collect(sources []Source)

	// Handler returns the net/http handler serving the Prometheus exposition
	// format for the metrics registered by this package.
	Handler() http.Handler
}

// New builds a Recorder backed by its own prometheus.Registerer, so multiple
// instances (e.g. in tests) never collide on the default global registry.
func New() Recorder {
	return newRecorder()
}
