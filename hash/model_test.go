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

package hash_test

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	. "github.com/nabbar/golib/hash"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Hasher", func() {
	var h Hasher

	BeforeEach(func() {
		h = New()
	})

	Context("HashBytes", func() {
		It("matches the stdlib SHA-256 of the same content", func() {
			buf := []byte("the quick brown fox jumps over the lazy dog")
			sum := sha256.Sum256(buf)

			Expect(h.HashBytes(buf)).To(Equal(hex.EncodeToString(sum[:])))
		})

		It("is deterministic across calls", func() {
			buf := []byte("repeatable content")
			Expect(h.HashBytes(buf)).To(Equal(h.HashBytes(buf)))
		})

		It("differs for different content", func() {
			Expect(h.HashBytes([]byte("a"))).ToNot(Equal(h.HashBytes([]byte("b"))))
		})
	})

	Context("HashFile", func() {
		var dir string

		BeforeEach(func() {
			var e error
			dir, e = os.MkdirTemp("", "hash-test-*")
			Expect(e).To(BeNil())
		})

		AfterEach(func() {
			_ = os.RemoveAll(dir)
		})

		It("matches HashBytes for the same content", func() {
			buf := []byte("file content spanning more than one chunk boundary maybe")
			pth := filepath.Join(dir, "sample.txt")
			Expect(os.WriteFile(pth, buf, 0644)).To(Succeed())

			digest, ok := h.HashFile(pth)
			Expect(ok).To(BeTrue())
			Expect(digest).To(Equal(h.HashBytes(buf)))
		})

		It("streams content larger than the chunk size correctly", func() {
			small := NewSize(8)
			buf := make([]byte, 64*1024)
			for i := range buf {
				buf[i] = byte(i % 251)
			}
			pth := filepath.Join(dir, "large.bin")
			Expect(os.WriteFile(pth, buf, 0644)).To(Succeed())

			digest, ok := small.HashFile(pth)
			Expect(ok).To(BeTrue())
			Expect(digest).To(Equal(small.HashBytes(buf)))
		})

		It("returns ok=false when the file does not exist", func() {
			digest, ok := h.HashFile(filepath.Join(dir, "missing.txt"))
			Expect(ok).To(BeFalse())
			Expect(digest).To(BeEmpty())
		})

		It("returns ok=false when the path is a directory", func() {
			digest, ok := h.HashFile(dir)
			Expect(ok).To(BeFalse())
			Expect(digest).To(BeEmpty())
		})
	})
})
