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

// Package compressor implements the on-disk artifact format for backed-up
// file versions: an 8-byte little-endian original-size header followed by a
// zlib-compressed (RFC 1950) payload, written with klauspost's zlib writer
// at the configured level and read back through archive/compress's Zlib
// algorithm. The on-disk suffix is the literal ".gz" required by the
// naming contract, independent of archive/compress's own ".zz" convention
// for the same algorithm.
package compressor

// Suffix is appended to the versioned artifact path whenever a version was
// written through Compress. It is a fixed literal, not compress.Zlib.Extension().
const Suffix = ".gz"

// headerSize is the width, in bytes, of the little-endian original-size
// prefix written before the zlib payload.
const headerSize = 8

// alreadyCompressed lists extensions (lowercase, with leading dot) that are
// assumed to already be compressed or incompressible, so ShouldCompress
// skips them even when they pass the size floor.
var alreadyCompressed = map[string]bool{
	".zip":  true,
	".rar":  true,
	".7z":   true,
	".gz":   true,
	".bz2":  true,
	".xz":   true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".mp4":  true,
	".mp3":  true,
	".avi":  true,
	".mkv":  true,
	".pdf":  true,
	".docx": true,
	".xlsx": true,
}

// Compressor decides whether a given file is worth compressing and
// implements the artifact round-trip.
type Compressor interface {
	// ShouldCompress reports whether path/size warrants compression, given
	// the configured enabled flag, minimum-size floor and the
	// already-compressed extension table.
	ShouldCompress(path string, size int64) bool

	// Compress reads srcPath and writes the framed zlib artifact to
	// dstPath. On any failure dstPath is removed so a partial artifact is
	// never left behind.
	Compress(srcPath string, dstPath string) error

	// Decompress reads a framed zlib artifact from srcPath and writes the
	// original bytes to dstPath.
	Decompress(srcPath string, dstPath string) error
}

// New returns a Compressor configured with the strategy's compression
// switches: enabled toggles compression globally, minBytes is the size
// floor below which a file is never compressed, and level is the zlib
// compression level (0-9) used by Compress.
func New(enabled bool, minBytes int64, level int) Compressor {
	if level < 0 || level > 9 {
		level = 6
	}

	return &compressor{
		enabled:  enabled,
		minBytes: minBytes,
		level:    level,
	}
}
