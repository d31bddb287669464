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

// Package logger wires a per-process logrus.Logger with a colorized console
// hook and an optional file hook that appends to a single file (the file is
// not rotated), injected rather than reached through a global singleton.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/nabbar/golib/logger/level"
)

// FileOptions configures the optional file hook.
type FileOptions struct {
	// Filepath is the destination log file. Empty disables the file hook.
	Filepath string

	// CreatePath creates the parent directory (and the file, if missing)
	// before the first write.
	CreatePath bool

	// FileMode is the permission used when creating Filepath. Defaults to 0644.
	FileMode os.FileMode

	// PathMode is the permission used when creating Filepath's parent
	// directory. Defaults to 0755.
	PathMode os.FileMode
}

// Options configures a Logger.
type Options struct {
	// Level is the minimum level accepted by every hook.
	Level level.Level

	// DisableColor disables ANSI coloring on the console hook, even on a
	// terminal that would otherwise support it.
	DisableColor bool

	// DisableConsole skips installing the console hook entirely, for
	// daemons configured to log to file only.
	DisableConsole bool

	// File optionally mirrors every entry to a log file.
	File FileOptions
}

// Logger is an injectable structured logger. It never reaches for a global
// singleton: callers hold their own instance and pass it down explicitly.
type Logger interface {
	Debug(msg string, fields logrus.Fields)
	Info(msg string, fields logrus.Fields)
	Warn(msg string, fields logrus.Fields)
	Error(msg string, fields logrus.Fields)

	// WithFields returns a derived Logger that always includes the given
	// fields, e.g. a per-source logger carrying {"source": root}.
	WithFields(fields logrus.Fields) Logger

	// Close releases the file hook's underlying file handle, if any.
	Close() error
}

// New builds a Logger from Options. The console hook is always installed;
// the file hook is installed only when opt.File.Filepath is non-empty.
func New(opt Options) (Logger, error) {
	return newLogger(opt)
}
