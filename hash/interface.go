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

// Package hash computes the SHA-256 content fingerprint used for dedup and
// versioning, streaming any reader or file in fixed-size chunks so a hash of
// an arbitrarily large file uses bounded memory.
package hash

// Hasher exposes content fingerprinting for the backup pipeline. A failure
// to open or read a file yields an absent result (ok == false), not an
// error: callers treat absence as "cannot back up now".
type Hasher interface {
	// HashFile streams path in fixed-size chunks and returns its lowercase
	// hex SHA-256 digest. ok is false if the file cannot be opened or read.
	HashFile(path string) (digest string, ok bool)

	// HashBytes returns the lowercase hex SHA-256 digest of buf.
	HashBytes(buf []byte) string
}

// New returns the default Hasher, reading files in 8 KiB chunks.
func New() Hasher {
	return NewSize(chunkSize)
}

// NewSize returns a Hasher that reads files in chunks of size bytes.
func NewSize(size int) Hasher {
	if size <= 0 {
		size = chunkSize
	}
	return &hasher{chunk: size}
}

const chunkSize = 8 * 1024
