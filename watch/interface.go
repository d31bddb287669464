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

// Package watch adapts fsnotify into the narrow event shape the backup
// engines consume: (dir, filename, action). Watched roots are registered
// recursively, and newly created subdirectories are picked up reactively
// as fsnotify reports them, so a tree created after watching began is
// still covered.
package watch

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/nabbar/golib/queue"
)

// Handler is called for every accepted filesystem event. dir is the
// directory the event occurred in and filename is the changed entry's
// base name.
type Handler func(dir string, filename string, action queue.Action)

// Watcher recursively watches one or more root directories and reports
// create/modify events to a Handler.
type Watcher interface {
	// AddRoot registers root and every existing subdirectory beneath it
	// with the underlying filesystem watcher.
	AddRoot(root string) error

	// Run processes filesystem events until ctx is done or Close is
	// called. It is meant to be run in its own goroutine.
	Run(ctx context.Context) error

	// Close releases the underlying OS watch handles.
	Close() error
}

// New returns a Watcher that reports accepted events to onEvent.
func New(onEvent Handler) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ErrorWatcherCreate.Error(err)
	}

	return &watcher{
		fsw:     fsw,
		onEvent: onEvent,
	}, nil
}
