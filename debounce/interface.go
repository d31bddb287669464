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

// Package debounce collapses a burst of filesystem events for the same
// path into at most one accepted event per configured window, per path.
package debounce

import "time"

// Debouncer tracks, per path, the last time an event for that path was
// accepted.
type Debouncer interface {
	// ShouldAccept reports whether an event for path should be processed
	// now: true the first time a path is seen, or once at least window
	// has elapsed since the last accepted event for that path. A call
	// that returns true updates the path's last-accepted time to now.
	ShouldAccept(path string) bool

	// Reset discards the recorded last-accepted time for path, so the
	// next ShouldAccept call for it returns true unconditionally.
	Reset(path string)

	// Len returns the number of paths currently tracked.
	Len() int
}

// New returns a Debouncer with the given debounce window.
func New(window time.Duration) Debouncer {
	return &debouncer{
		window: window,
		last:   make(map[string]time.Time),
	}
}
