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

package versionstore

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/nabbar/golib/compressor"
)

const (
	dateLayout = "20060102"
	timeLayout = "150405"
)

// versionName matches "<stem>.<YYYYMMDD>_<HHMMSS>.<ext>[.gz]", mirroring
// the testable naming contract's regex.
var versionName = regexp.MustCompile(`^(.*)\.(\d{8})_(\d{6})\.(.+)$`)

var dateDirName = regexp.MustCompile(`^\d{8}$`)

type store struct {
	destBase      string
	maxVersions   int
	retentionDays int
	dirPerm       uint32
	filePerm      uint32
}

func (s *store) dateDir(ts time.Time) string {
	return ts.Format(dateLayout)
}

func (s *store) ArtifactPath(relPath string, ts time.Time, compressed bool) string {
	dir := filepath.Dir(relPath)
	ext := filepath.Ext(relPath)
	stem := strings.TrimSuffix(filepath.Base(relPath), ext)

	name := stem + "." + ts.Format(dateLayout) + "_" + ts.Format(timeLayout) + ext
	if compressed {
		name += compressor.Suffix
	}

	if dir == "." || dir == "" {
		return filepath.Join(s.destBase, s.dateDir(ts), name)
	}

	return filepath.Join(s.destBase, s.dateDir(ts), dir, name)
}

func (s *store) EnsureDir(path string) error {
	if e := os.MkdirAll(filepath.Dir(path), os.FileMode(s.dirPerm)); e != nil {
		return ErrorMkdirDest.Error(e)
	}
	return nil
}

func (s *store) VersionsOf(relPath string) ([]VersionInfo, error) {
	dir := filepath.Dir(relPath)
	ext := filepath.Ext(relPath)
	stem := strings.TrimSuffix(filepath.Base(relPath), ext)

	entries, e := os.ReadDir(s.destBase)
	if e != nil {
		if os.IsNotExist(e) {
			return nil, nil
		}
		return nil, ErrorListVersions.Error(e)
	}

	var out []VersionInfo

	for _, de := range entries {
		if !de.IsDir() || !dateDirName.MatchString(de.Name()) {
			continue
		}

		candidate := s.destBase + string(os.PathSeparator) + de.Name()
		if dir != "." && dir != "" {
			candidate = filepath.Join(candidate, dir)
		}

		files, e := os.ReadDir(candidate)
		if e != nil {
			continue
		}

		for _, f := range files {
			if f.IsDir() {
				continue
			}

			vi, ok := parseVersionName(f.Name())
			if !ok || vi.RelPath != stem+ext {
				continue
			}

			fi, e := f.Info()
			var sz int64
			if e == nil {
				sz = fi.Size()
			}

			vi.Path = filepath.Join(candidate, f.Name())
			vi.RelPath = relPath
			vi.Size = sz

			out = append(out, vi)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })

	return out, nil
}

// parseVersionName classifies a bare version filename without needing the
// directory walk VersionsOf does; CleanupAll uses it directly since a global
// sweep has no single relPath to match against.
func parseVersionName(name string) (VersionInfo, bool) {
	m := versionName.FindStringSubmatch(name)
	if m == nil {
		return VersionInfo{}, false
	}

	tail := m[4]
	compressed := strings.HasSuffix(tail, compressor.Suffix)
	ext := strings.TrimSuffix(tail, compressor.Suffix)

	ts, e := time.ParseInLocation(dateLayout+"_"+timeLayout, m[2]+"_"+m[3], time.Local)
	if e != nil {
		return VersionInfo{}, false
	}

	return VersionInfo{
		RelPath:    m[1] + "." + ext,
		Timestamp:  ts,
		Compressed: compressed,
	}, true
}

const keepNewest = 3

func (s *store) CleanupOldVersions(relPath string) (int, error) {
	versions, e := s.VersionsOf(relPath)
	if e != nil {
		return 0, e
	}

	if len(versions) <= keepNewest {
		return 0, nil
	}

	cutoff := time.Time{}
	if s.retentionDays > 0 {
		cutoff = time.Now().AddDate(0, 0, -s.retentionDays)
	}

	removed := 0

	for i, v := range versions {
		if i < keepNewest {
			continue
		}

		expired := !cutoff.IsZero() && v.Timestamp.Before(cutoff)
		overCap := i >= s.maxVersions

		if expired || overCap {
			if os.Remove(v.Path) == nil {
				removed++
			}
		}
	}

	return removed, nil
}

// CleanupAll is the global GC sweep: it deletes every version file whose
// parsed timestamp is older than retentionDays, with no floor on how many
// versions of a given path remain. It is a different policy from
// CleanupOldVersions, which always protects the newest keepNewest versions
// of a single path regardless of age; the two must not share logic.
func (s *store) CleanupAll() (int, error) {
	if s.retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	total := 0

	e := filepath.WalkDir(s.destBase, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}

		vi, ok := parseVersionName(d.Name())
		if !ok {
			return nil
		}

		if vi.Timestamp.Before(cutoff) {
			if os.Remove(path) == nil {
				total++
			}
		}

		return nil
	})
	if e != nil {
		return 0, ErrorListVersions.Error(e)
	}

	return total, nil
}
