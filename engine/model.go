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

package engine

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	golibatomic "github.com/nabbar/golib/atomic"
	"github.com/nabbar/golib/compressor"
	"github.com/nabbar/golib/debounce"
	"github.com/nabbar/golib/hash"
	"github.com/nabbar/golib/queue"
	"github.com/nabbar/golib/runner/startStop"
	"github.com/nabbar/golib/versionstore"
)

type engine struct {
	spec SourceSpec

	q   queue.WorkQueue
	deb debounce.Debouncer
	hsh hash.Hasher
	cmp compressor.Compressor
	vs  versionstore.Store

	lastHash golibatomic.MapTyped[string, string]

	sts startStop.StartStop

	mu         sync.Mutex
	state      State
	numWorkers int
	wg         sync.WaitGroup

	totalBackups      atomic.Int64
	failedBackups     atomic.Int64
	skippedBackups    atomic.Int64
	compressedBackups atomic.Int64
	totalBytes        atomic.Int64
}

func newEngine(spec SourceSpec) *engine {
	e := &engine{
		spec:     spec,
		q:        queue.New(),
		deb:      debounce.New(time.Duration(spec.Strategy.DebounceSeconds) * time.Second),
		hsh:      hash.New(),
		cmp:      compressor.New(spec.Strategy.CompressionEnabled, spec.Strategy.CompressionMinBytes, spec.Strategy.CompressionLevel),
		vs:       versionstore.New(spec.DestBase, spec.Strategy.MaxVersionsPerFile, spec.Strategy.RetentionDays, 0755, 0644),
		lastHash: golibatomic.NewMapTyped[string, string](),
		state:    StateFresh,
	}

	e.sts = startStop.New(e.runWorkers, e.stopWorkers)

	return e
}

func (e *engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

func (e *engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *engine) Counters() Counters {
	return Counters{
		TotalBackups:      e.totalBackups.Load(),
		FailedBackups:     e.failedBackups.Load(),
		SkippedBackups:    e.skippedBackups.Load(),
		CompressedBackups: e.compressedBackups.Load(),
		TotalBytes:        e.totalBytes.Load(),
	}
}

func (e *engine) Start(ctx context.Context, numWorkers int) error {
	if numWorkers <= 0 {
		numWorkers = 2
	}

	e.mu.Lock()
	e.numWorkers = numWorkers
	e.mu.Unlock()

	e.setState(StateRunning)

	return e.sts.Start(ctx)
}

func (e *engine) Stop(ctx context.Context) error {
	e.setState(StateStopping)
	err := e.sts.Stop(ctx)
	e.setState(StateStopped)
	return err
}

func (e *engine) runWorkers(ctx context.Context) error {
	e.mu.Lock()
	n := e.numWorkers
	e.mu.Unlock()

	e.wg.Add(n)
	for i := 0; i < n; i++ {
		go e.worker(ctx)
	}

	<-ctx.Done()
	return nil
}

func (e *engine) stopWorkers(_ context.Context) error {
	e.q.Stop()
	e.wg.Wait()
	return nil
}

func (e *engine) worker(ctx context.Context) {
	defer e.wg.Done()

	for {
		task, ok := e.q.PopOrWait()
		if !ok {
			return
		}

		e.process(ctx, task)
	}
}

// OnEvent is step 0: filter out non-file, non-modifying events, apply the
// source's filter and the debounce window, then enqueue the survivor.
func (e *engine) OnEvent(dir string, filename string, action queue.Action) {
	if action != queue.ActionCreate && action != queue.ActionModify {
		return
	}

	path := filepath.Join(dir, filename)

	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return
	}

	relPath, err := filepath.Rel(e.spec.Root, path)
	if err != nil {
		relPath = filename
	}

	if !e.spec.Filter.Allows(relPath) {
		return
	}

	if !e.deb.ShouldAccept(path) {
		e.skippedBackups.Add(1)
		return
	}

	e.q.Push(queue.Task{
		Dir:        dir,
		Filename:   filename,
		Action:     action,
		EnqueuedAt: time.Now(),
	})
}

// process runs the 11-step worker algorithm for one queued task:
//  1. re-stat the path, skip if it has vanished since it was queued
//  2. re-apply the source filter
//  3. reject files over the configured size ceiling
//  4. confirm the destination base is reachable
//  5. compute the source-relative path
//  6. hash the file's current content
//  7. skip if that hash matches the last backed-up hash for this path
//  8. pick the backup timestamp and whether to compress
//  9. assemble the versioned artifact path
//  10. write the artifact, retrying with exponential backoff on failure and
//      falling back to a plain copy if compression keeps failing
//  11. record counters, the new last-hash and prune old versions
func (e *engine) process(ctx context.Context, task queue.Task) {
	path := task.Path()

	fi, err := os.Stat(path)
	if err != nil {
		// vanished since it was queued: silent skip, no counter.
		return
	}

	relPath, err := filepath.Rel(e.spec.Root, path)
	if err != nil {
		relPath = task.Filename
	}

	if !e.spec.Filter.Allows(relPath) {
		// no longer matches the source filter: silent skip, no counter.
		return
	}

	if e.spec.Strategy.MaxFileBytes > 0 && fi.Size() > e.spec.Strategy.MaxFileBytes {
		// over the size ceiling: silent skip, no counter.
		return
	}

	if _, err = os.Stat(e.spec.DestBase); err != nil {
		// destination not reachable (e.g. unplugged drive): skip, not counted as failed.
		return
	}

	digest, ok := e.hsh.HashFile(path)
	if !ok {
		e.failedBackups.Add(1)
		return
	}

	if prev, loaded := e.lastHash.Load(relPath); loaded && prev == digest {
		e.skippedBackups.Add(1)
		return
	}

	ts := time.Now()
	compressed := e.cmp.ShouldCompress(path, fi.Size())
	dst := e.vs.ArtifactPath(relPath, ts, compressed)

	if err = e.vs.EnsureDir(dst); err != nil {
		e.failedBackups.Add(1)
		return
	}

	ok, wroteCompressed := e.writeWithRetry(ctx, path, dst, compressed)
	if !ok {
		e.failedBackups.Add(1)
		return
	}

	e.totalBackups.Add(1)
	e.totalBytes.Add(fi.Size())
	if wroteCompressed {
		e.compressedBackups.Add(1)
	}

	e.lastHash.Store(relPath, digest)
	_, _ = e.vs.CleanupOldVersions(relPath)
}

// writeWithRetry writes src to dst, retrying with exponential backoff on
// failure. If compressed is true and every compression attempt fails, it
// falls back to a plain copy into dst with the compressor suffix stripped,
// per the documented "compression failure falls back to plain copy" rule.
// The returned bool reports whether the artifact actually landed compressed,
// which may be false even when compressed was requested.
func (e *engine) writeWithRetry(ctx context.Context, src, dst string, compressed bool) (bool, bool) {
	backoff := time.Duration(e.spec.Strategy.InitialRetryBackoffSeconds) * time.Second
	if backoff <= 0 {
		backoff = time.Second
	}

	maxRetries := e.spec.Strategy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if compressed {
			err = e.cmp.Compress(src, dst)
		} else {
			err = copyFile(src, dst)
		}

		if err == nil {
			return true, compressed
		}

		if attempt == maxRetries {
			break
		}

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return false, false
		}

		backoff *= 2
	}

	if compressed {
		plainDst := strings.TrimSuffix(dst, compressor.Suffix)
		if copyFile(src, plainDst) == nil {
			return true, false
		}
	}

	return false, false
}

func copyFile(src, dst string) error {
	in, e := os.Open(src)
	if e != nil {
		return e
	}
	defer func() { _ = in.Close() }()

	out, e := os.Create(dst)
	if e != nil {
		return e
	}

	ok := false
	defer func() {
		_ = out.Close()
		if !ok {
			_ = os.Remove(dst)
		}
	}()

	if _, e = io.Copy(out, in); e != nil {
		return e
	}

	ok = true
	return nil
}
