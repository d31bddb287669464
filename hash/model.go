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

package hash

import (
	"io"
	"os"

	shaEnc "github.com/nabbar/golib/encoding/sha256"
)

type hasher struct {
	chunk int
}

func (h *hasher) HashFile(path string) (string, bool) {
	f, e := os.Open(path)
	if e != nil {
		_ = ErrorFileOpen.Error(e)
		return "", false
	}
	defer func() { _ = f.Close() }()

	cdr := shaEnc.New()
	buf := make([]byte, h.chunk)

	for {
		n, err := f.Read(buf)
		if n > 0 {
			cdr.Encode(buf[:n])
		}

		if err != nil {
			if err == io.EOF {
				break
			}
			_ = ErrorFileRead.Error(err)
			return "", false
		}
	}

	return encodeHex(cdr.Encode(nil)), true
}

func (h *hasher) HashBytes(buf []byte) string {
	cdr := shaEnc.New()
	return encodeHex(cdr.Encode(buf))
}

func encodeHex(p []byte) string {
	const hextable = "0123456789abcdef"
	dst := make([]byte, len(p)*2)
	for i, b := range p {
		dst[i*2] = hextable[b>>4]
		dst[i*2+1] = hextable[b&0x0f]
	}
	return string(dst)
}
