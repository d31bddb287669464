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

// Package queue implements the bounded-memory, unbounded-length FIFO work
// queue that buffers filesystem events between the watcher and the backup
// workers.
package queue

import "time"

// Action classifies the filesystem event that produced a Task.
type Action uint8

const (
	// ActionCreate is a file creation event.
	ActionCreate Action = iota
	// ActionModify is a file write/modification event.
	ActionModify
)

// Task is one unit of work handed to a backup worker.
type Task struct {
	// Dir is the watched directory the event occurred in.
	Dir string

	// Filename is the base name of the changed file.
	Filename string

	// Action is the kind of filesystem event observed.
	Action Action

	// EnqueuedAt is when the task was pushed onto the queue.
	EnqueuedAt time.Time
}

// Path returns the task's full path (Dir joined with Filename).
func (t Task) Path() string {
	if t.Dir == "" {
		return t.Filename
	}
	return t.Dir + string(pathSeparator) + t.Filename
}

// WorkQueue is a FIFO queue of Task, safe for concurrent push by many
// producers and concurrent pop by many worker goroutines.
type WorkQueue interface {
	// Push appends a task to the back of the queue and wakes one waiting
	// consumer, if any. Push after Stop is a no-op.
	Push(t Task)

	// PopOrWait removes and returns the task at the front of the queue,
	// blocking until one is available or the queue is stopped. ok is
	// false only when the queue was stopped and is empty.
	PopOrWait() (t Task, ok bool)

	// Len returns the number of tasks currently queued.
	Len() int

	// Stop wakes every blocked PopOrWait call and causes future Push
	// calls to be ignored. Idempotent.
	Stop()
}

// New returns an empty WorkQueue.
func New() WorkQueue {
	q := &workQueue{}
	q.cond = newCond(&q.mu)
	return q
}
