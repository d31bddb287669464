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

package compressor

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zlib"

	"github.com/nabbar/golib/archive/compress"
)

type compressor struct {
	enabled  bool
	minBytes int64
	level    int
}

func (c *compressor) ShouldCompress(path string, size int64) bool {
	if !c.enabled {
		return false
	}

	if size < c.minBytes {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	if alreadyCompressed[ext] {
		return false
	}

	return true
}

func (c *compressor) Compress(srcPath string, dstPath string) error {
	src, e := os.Open(srcPath)
	if e != nil {
		return ErrorSourceOpen.Error(e)
	}
	defer func() { _ = src.Close() }()

	info, e := src.Stat()
	if e != nil {
		return ErrorSourceOpen.Error(e)
	}

	dst, e := os.Create(dstPath)
	if e != nil {
		return ErrorDestCreate.Error(e)
	}

	ok := false
	defer func() {
		_ = dst.Close()
		if !ok {
			_ = os.Remove(dstPath)
		}
	}()

	hdr := make([]byte, headerSize)
	binary.LittleEndian.PutUint64(hdr, uint64(info.Size()))

	if _, e = dst.Write(hdr); e != nil {
		return ErrorWrite.Error(e)
	}

	zw, e := zlib.NewWriterLevel(dst, c.level)
	if e != nil {
		return ErrorWrite.Error(e)
	}

	if _, e = io.Copy(zw, src); e != nil {
		_ = zw.Close()
		return ErrorWrite.Error(e)
	}

	if e = zw.Close(); e != nil {
		return ErrorWrite.Error(e)
	}

	ok = true
	return nil
}

func (c *compressor) Decompress(srcPath string, dstPath string) error {
	src, e := os.Open(srcPath)
	if e != nil {
		return ErrorSourceOpen.Error(e)
	}
	defer func() { _ = src.Close() }()

	hdr := make([]byte, headerSize)
	if _, e = io.ReadFull(src, hdr); e != nil {
		return ErrorSourceRead.Error(e)
	}

	rdr, e := compress.Zlib.Reader(src)
	if e != nil {
		return ErrorSourceRead.Error(e)
	}
	defer func() { _ = rdr.Close() }()

	dst, e := os.Create(dstPath)
	if e != nil {
		return ErrorDestCreate.Error(e)
	}

	ok := false
	defer func() {
		_ = dst.Close()
		if !ok {
			_ = os.Remove(dstPath)
		}
	}()

	if _, e = io.Copy(dst, rdr); e != nil {
		return ErrorSourceRead.Error(e)
	}

	ok = true
	return nil
}
