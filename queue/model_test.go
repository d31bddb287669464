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

package queue_test

import (
	"time"

	. "github.com/nabbar/golib/queue"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("WorkQueue", func() {
	It("returns pushed tasks in FIFO order", func() {
		q := New()
		q.Push(Task{Dir: "/a", Filename: "1.txt", Action: ActionCreate})
		q.Push(Task{Dir: "/a", Filename: "2.txt", Action: ActionModify})

		t1, ok := q.PopOrWait()
		Expect(ok).To(BeTrue())
		Expect(t1.Filename).To(Equal("1.txt"))

		t2, ok := q.PopOrWait()
		Expect(ok).To(BeTrue())
		Expect(t2.Filename).To(Equal("2.txt"))
	})

	It("blocks PopOrWait until a task is pushed", func() {
		q := New()
		done := make(chan Task, 1)

		go func() {
			t, ok := q.PopOrWait()
			if ok {
				done <- t
			}
		}()

		time.Sleep(20 * time.Millisecond)
		q.Push(Task{Filename: "late.txt"})

		select {
		case t := <-done:
			Expect(t.Filename).To(Equal("late.txt"))
		case <-time.After(time.Second):
			Fail("PopOrWait did not unblock after Push")
		}
	})

	It("unblocks every waiter on Stop without a task", func() {
		q := New()
		results := make(chan bool, 3)

		for i := 0; i < 3; i++ {
			go func() {
				_, ok := q.PopOrWait()
				results <- ok
			}()
		}

		time.Sleep(20 * time.Millisecond)
		q.Stop()

		for i := 0; i < 3; i++ {
			select {
			case ok := <-results:
				Expect(ok).To(BeFalse())
			case <-time.After(time.Second):
				Fail("a waiter did not unblock after Stop")
			}
		}
	})

	It("ignores pushes after Stop", func() {
		q := New()
		q.Stop()
		q.Push(Task{Filename: "ignored.txt"})
		Expect(q.Len()).To(Equal(0))
	})

	It("computes Path from Dir and Filename", func() {
		t := Task{Dir: "/a/b", Filename: "c.txt"}
		Expect(t.Path()).To(Equal("/a/b/c.txt"))
	})
})
