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

package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/nabbar/golib/queue"
)

type watcher struct {
	fsw     *fsnotify.Watcher
	onEvent Handler

	mu    sync.Mutex
	roots []string
}

func (w *watcher) AddRoot(root string) error {
	w.mu.Lock()
	w.roots = append(w.roots, root)
	w.mu.Unlock()

	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if e := w.fsw.Add(path); e != nil {
			return ErrorRootAdd.Error(e)
		}
		return nil
	})
}

func (w *watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
		}
	}
}

func (w *watcher) handle(ev fsnotify.Event) {
	dir := filepath.Dir(ev.Name)
	name := filepath.Base(ev.Name)

	switch {
	case ev.Op&fsnotify.Create != 0:
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.AddRoot(ev.Name)
			return
		}
		w.dispatch(dir, name, queue.ActionCreate)

	case ev.Op&fsnotify.Write != 0:
		w.dispatch(dir, name, queue.ActionModify)
	}
}

func (w *watcher) dispatch(dir, name string, action queue.Action) {
	if w.onEvent != nil {
		w.onEvent(dir, name, action)
	}
}

func (w *watcher) Close() error {
	return w.fsw.Close()
}
