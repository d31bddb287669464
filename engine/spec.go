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

package engine

import (
	"path/filepath"
	"strings"
)

// FilterMode selects how a Filter's Patterns are interpreted.
type FilterMode uint8

const (
	// FilterNone allows every path through unconditionally.
	FilterNone FilterMode = iota
	// FilterWhitelist allows only paths matching at least one pattern.
	FilterWhitelist
	// FilterBlacklist allows every path except those matching a pattern.
	FilterBlacklist
)

// Filter is a source's include/exclude rule set, expressed as file
// extensions (e.g. ".rs", ".txt") matched case-insensitively against the
// extension of a path relative to the source root.
type Filter struct {
	Mode     FilterMode
	Patterns []string
}

// Allows reports whether relPath passes this filter.
func (f Filter) Allows(relPath string) bool {
	switch f.Mode {
	case FilterWhitelist:
		return f.matchesAny(relPath)
	case FilterBlacklist:
		return !f.matchesAny(relPath)
	default:
		return true
	}
}

func (f Filter) matchesAny(relPath string) bool {
	ext := filepath.Ext(relPath)

	for _, p := range f.Patterns {
		if strings.EqualFold(ext, p) {
			return true
		}
	}

	return false
}

// Strategy holds the per-source retention, compression and retry knobs.
// Zero values are not valid configuration; use DefaultStrategy to obtain
// the documented defaults and override individual fields.
type Strategy struct {
	RetentionDays              int
	MaxVersionsPerFile         int
	CompressionEnabled         bool
	CompressionLevel           int
	CompressionMinBytes        int64
	MaxFileBytes               int64
	DebounceSeconds            int
	MaxRetries                 int
	InitialRetryBackoffSeconds int

	// IncrementalEnabled, FullBackupInterval and DeltaRatioThreshold are
	// accepted and range-validated for forward compatibility with a future
	// incremental-backup mode. They are parsed but have no effect on the
	// current whole-file dedup-by-hash behavior.
	IncrementalEnabled  bool
	FullBackupInterval  int
	DeltaRatioThreshold float64
}

// DefaultStrategy returns the documented default strategy values.
func DefaultStrategy() Strategy {
	return Strategy{
		RetentionDays:              30,
		MaxVersionsPerFile:         10,
		CompressionEnabled:         true,
		CompressionLevel:           6,
		CompressionMinBytes:        1024,
		MaxFileBytes:               100 * 1024 * 1024,
		DebounceSeconds:            5,
		MaxRetries:                 5,
		InitialRetryBackoffSeconds: 1,
		IncrementalEnabled:         false,
		FullBackupInterval:         0,
		DeltaRatioThreshold:        0,
	}
}

// SourceSpec fully describes one watched source tree and how it backs up.
type SourceSpec struct {
	// Root is the absolute path of the watched directory tree.
	Root string

	// DestBase is the absolute path under which versioned artifacts for
	// this source are written.
	DestBase string

	Filter   Filter
	Strategy Strategy
}
