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

package compressor_test

import (
	"os"
	"path/filepath"

	. "github.com/nabbar/golib/compressor"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Compressor", func() {
	Context("ShouldCompress", func() {
		It("declines when disabled", func() {
			c := New(false, 1024, 6)
			Expect(c.ShouldCompress("report.txt", 1<<20)).To(BeFalse())
		})

		It("declines below the minimum size", func() {
			c := New(true, 1024, 6)
			Expect(c.ShouldCompress("report.txt", 100)).To(BeFalse())
		})

		It("declines already-compressed extensions", func() {
			c := New(true, 1024, 6)
			Expect(c.ShouldCompress("archive.zip", 1<<20)).To(BeFalse())
			Expect(c.ShouldCompress("photo.JPG", 1<<20)).To(BeFalse())
		})

		It("accepts a large plain-text file", func() {
			c := New(true, 1024, 6)
			Expect(c.ShouldCompress("report.txt", 1<<20)).To(BeTrue())
		})
	})

	Context("round trip", func() {
		var dir string

		BeforeEach(func() {
			var e error
			dir, e = os.MkdirTemp("", "compressor-test-*")
			Expect(e).To(BeNil())
		})

		AfterEach(func() {
			_ = os.RemoveAll(dir)
		})

		It("restores the original bytes exactly", func() {
			c := New(true, 0, 6)

			src := filepath.Join(dir, "src.txt")
			payload := []byte("hello backup world, compressed and restored")
			Expect(os.WriteFile(src, payload, 0644)).To(Succeed())

			artifact := filepath.Join(dir, "v1.txt"+Suffix)
			Expect(c.Compress(src, artifact)).To(Succeed())

			restored := filepath.Join(dir, "restored.txt")
			Expect(c.Decompress(artifact, restored)).To(Succeed())

			got, e := os.ReadFile(restored)
			Expect(e).To(BeNil())
			Expect(got).To(Equal(payload))
		})

		It("does not leave a partial artifact when the source does not exist", func() {
			c := New(true, 0, 6)
			artifact := filepath.Join(dir, "missing.txt"+Suffix)

			Expect(c.Compress(filepath.Join(dir, "does-not-exist.txt"), artifact)).ToNot(Succeed())
			_, e := os.Stat(artifact)
			Expect(os.IsNotExist(e)).To(BeTrue())
		})
	})
})
