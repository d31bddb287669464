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

package engine_test

import (
	. "github.com/nabbar/golib/engine"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Filter", func() {
	It("allows everything when FilterNone", func() {
		f := Filter{Mode: FilterNone}
		Expect(f.Allows("a.rs")).To(BeTrue())
		Expect(f.Allows("a.bin")).To(BeTrue())
	})

	It("matches extensions case-insensitively under a whitelist", func() {
		f := Filter{Mode: FilterWhitelist, Patterns: []string{".rs", ".txt"}}
		Expect(f.Allows("src/main.rs")).To(BeTrue())
		Expect(f.Allows("NOTES.TXT")).To(BeTrue())
		Expect(f.Allows("image.png")).To(BeFalse())
	})

	It("excludes matched extensions under a blacklist", func() {
		f := Filter{Mode: FilterBlacklist, Patterns: []string{".tmp"}}
		Expect(f.Allows("build/out.tmp")).To(BeFalse())
		Expect(f.Allows("build/out.o")).To(BeTrue())
	})

	It("does not treat patterns as shell globs", func() {
		f := Filter{Mode: FilterWhitelist, Patterns: []string{".rs"}}
		Expect(f.Allows("main.rs")).To(BeTrue())
		Expect(f.Allows("mainxrs")).To(BeFalse())
	})
})
