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

// Package versionstore lays out and garbage-collects the versioned backup
// artifacts under a destination tree. An artifact for source-relative path
// P backed up at time D lives at:
//
//	<destBase>/<D:YYYYMMDD>/<dirname(P)>/<stem(P)>.<D:YYYYMMDD>_<time:HHMMSS>.<ext(P)>[.gz]
//
// the trailing ".gz" present only when the version was written compressed.
package versionstore

import "time"

// VersionInfo describes one on-disk version of a backed-up source path.
type VersionInfo struct {
	// Path is the absolute path of the version artifact on disk.
	Path string

	// RelPath is the source-relative path this version backs up.
	RelPath string

	// Timestamp is the backup time encoded in the artifact's name.
	Timestamp time.Time

	// Compressed reports whether the artifact carries the compressor's
	// ".gz" suffix.
	Compressed bool

	// Size is the artifact's size in bytes, as reported by the filesystem.
	Size int64
}

// Store lays out versioned artifact paths and prunes old versions.
type Store interface {
	// ArtifactPath returns the path at which a version of relPath, taken
	// at ts, should be written. compressed appends the compressor suffix.
	ArtifactPath(relPath string, ts time.Time, compressed bool) string

	// EnsureDir creates every directory component of path's parent.
	EnsureDir(path string) error

	// VersionsOf lists every existing version of relPath, newest first.
	VersionsOf(relPath string) ([]VersionInfo, error)

	// CleanupOldVersions prunes relPath's versions according to the
	// configured retention window and per-file version cap, and returns
	// the number of artifacts removed. The three newest versions are
	// always kept regardless of age.
	CleanupOldVersions(relPath string) (removed int, err error)

	// CleanupAll walks the whole tree under destBase and deletes any
	// version whose parsed timestamp is older than retentionDays, with no
	// keep-newest-3 floor (unlike CleanupOldVersions), returning the total
	// removed.
	CleanupAll() (removed int, err error)
}

// New returns a Store rooted at destBase, enforcing maxVersions per source
// path and a retentionDays age ceiling (0 disables age-based expiry).
func New(destBase string, maxVersions int, retentionDays int, dirPerm, filePerm uint32) Store {
	if maxVersions <= 0 {
		maxVersions = 10
	}

	return &store{
		destBase:      destBase,
		maxVersions:   maxVersions,
		retentionDays: retentionDays,
		dirPerm:       dirPerm,
		filePerm:      filePerm,
	}
}
