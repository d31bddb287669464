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

package supervisor

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/nabbar/golib/engine"
	"github.com/nabbar/golib/ioutils/fileDescriptor"
	"github.com/nabbar/golib/ioutils/mapCloser"
	"github.com/nabbar/golib/queue"
	"github.com/nabbar/golib/watch"
)

type supervisor struct {
	sources []engine.SourceSpec

	mu      sync.Mutex
	engines []engine.Engine
	w       watch.Watcher
	cl      mapCloser.Closer
}

func newSupervisor(sources []engine.SourceSpec) *supervisor {
	return &supervisor{sources: sources}
}

func (s *supervisor) route(dir string, filename string, action queue.Action) {
	s.mu.Lock()
	sources := s.sources
	engines := s.engines
	s.mu.Unlock()

	for i, sp := range sources {
		if i >= len(engines) || engines[i] == nil {
			continue
		}
		if dir == sp.Root || strings.HasPrefix(dir, sp.Root+string(os.PathSeparator)) {
			engines[i].OnEvent(dir, filename, action)
		}
	}
}

func (s *supervisor) raiseFileDescriptorLimit() {
	if cur, max, err := fileDescriptor.SystemFileDescriptor(0); err == nil && cur < max {
		_, _, _ = fileDescriptor.SystemFileDescriptor(max)
	}
}

func (s *supervisor) Start(ctx context.Context, numWorkers int) error {
	s.raiseFileDescriptorLimit()

	s.mu.Lock()
	s.cl = mapCloser.New(ctx)
	s.mu.Unlock()

	w, err := watch.New(s.route)
	if err != nil {
		return err
	}

	engines := make([]engine.Engine, len(s.sources))

	var (
		mu   sync.Mutex
		merr *multierror.Error
		eg   errgroup.Group
	)

	for i, sp := range s.sources {
		i, sp := i, sp

		eg.Go(func() error {
			if _, statErr := os.Stat(sp.Root); statErr != nil {
				mu.Lock()
				merr = multierror.Append(merr, ErrorSourceRootMissing.Error(statErr))
				mu.Unlock()
				return nil
			}

			e := engine.New(sp)
			if startErr := e.Start(ctx, numWorkers); startErr != nil {
				mu.Lock()
				merr = multierror.Append(merr, startErr)
				mu.Unlock()
				return nil
			}

			if addErr := w.AddRoot(sp.Root); addErr != nil {
				mu.Lock()
				merr = multierror.Append(merr, ErrorWatchRegister.Error(addErr))
				mu.Unlock()
				_ = e.Stop(ctx)
				return nil
			}

			mu.Lock()
			engines[i] = e
			mu.Unlock()

			return nil
		})
	}

	_ = eg.Wait()

	s.mu.Lock()
	s.engines = engines
	s.w = w
	s.mu.Unlock()

	s.cl.Add(w)

	go func() { _ = w.Run(ctx) }()

	if merr != nil {
		return merr.ErrorOrNil()
	}

	return nil
}

func (s *supervisor) Stop(ctx context.Context) error {
	s.mu.Lock()
	w := s.w
	engines := s.engines
	cl := s.cl
	s.mu.Unlock()

	if w != nil {
		_ = w.Close()
	}

	var eg errgroup.Group
	for _, e := range engines {
		if e == nil {
			continue
		}
		e := e
		eg.Go(func() error { return e.Stop(ctx) })
	}

	err := eg.Wait()

	if cl != nil {
		_ = cl.Close()
	}

	return err
}

func (s *supervisor) Counters() engine.Counters {
	s.mu.Lock()
	engines := s.engines
	s.mu.Unlock()

	var total engine.Counters

	for _, e := range engines {
		if e == nil {
			continue
		}
		c := e.Counters()
		total.TotalBackups += c.TotalBackups
		total.FailedBackups += c.FailedBackups
		total.SkippedBackups += c.SkippedBackups
		total.CompressedBackups += c.CompressedBackups
		total.TotalBytes += c.TotalBytes
	}

	return total
}

func (s *supervisor) PerSourceCounters() map[string]engine.Counters {
	s.mu.Lock()
	sources := s.sources
	engines := s.engines
	s.mu.Unlock()

	out := make(map[string]engine.Counters, len(engines))

	for i, e := range engines {
		if e == nil || i >= len(sources) {
			continue
		}
		out[sources[i].Root] = e.Counters()
	}

	return out
}

func (s *supervisor) SourceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, e := range s.engines {
		if e != nil {
			n++
		}
	}
	return n
}

func (s *supervisor) Closer() mapCloser.Closer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cl
}
