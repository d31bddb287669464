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

package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"

	"github.com/nabbar/golib/ioutils"
	"github.com/nabbar/golib/logger/level"
)

var levelColors = map[logrus.Level]*color.Color{
	logrus.PanicLevel: color.New(color.FgHiWhite, color.BgRed, color.Bold),
	logrus.FatalLevel: color.New(color.FgHiWhite, color.BgRed, color.Bold),
	logrus.ErrorLevel: color.New(color.FgRed),
	logrus.WarnLevel:  color.New(color.FgYellow),
	logrus.InfoLevel:  color.New(color.FgCyan),
	logrus.DebugLevel: color.New(color.FgWhite),
}

type logger struct {
	log *logrus.Logger
	fh  *os.File
}

func newLogger(opt Options) (Logger, error) {
	lg := logrus.New()
	lg.SetLevel(opt.Level.Logrus())
	lg.SetOutput(io.Discard)

	if !opt.DisableConsole {
		out := colorable.NewColorable(os.Stdout)
		lg.AddHook(&consoleHook{out: out, level: opt.Level, color: !opt.DisableColor})
	}

	l := &logger{log: lg}

	if opt.File.Filepath != "" {
		fh, err := openLogFile(opt.File)
		if err != nil {
			return nil, err
		}

		l.fh = fh
		lg.AddHook(&fileHook{w: fh, level: opt.Level})
	}

	return l, nil
}

func openLogFile(opt FileOptions) (*os.File, error) {
	fileMode := opt.FileMode
	if fileMode == 0 {
		fileMode = 0644
	}

	pathMode := opt.PathMode
	if pathMode == 0 {
		pathMode = 0755
	}

	if opt.CreatePath {
		if err := ioutils.PathCheckCreate(true, opt.Filepath, fileMode, pathMode); err != nil {
			return nil, ErrorFileCreatePath.Error(err)
		}
	}

	fh, err := os.OpenFile(opt.Filepath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, fileMode)
	if err != nil {
		return nil, ErrorFileOpen.Error(err)
	}

	if _, err = fh.Seek(0, io.SeekEnd); err != nil {
		_ = fh.Close()
		return nil, ErrorFileOpen.Error(err)
	}

	return fh, nil
}

// consoleHook renders each entry as "<level> <msg> key=value ..." colorized
// by level, the way the console package colorizes prompts and output.
type consoleHook struct {
	mu    sync.Mutex
	out   io.Writer
	level level.Level
	color bool
}

func (h *consoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *consoleHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	line := formatEntry(entry)

	if h.color {
		c, ok := levelColors[entry.Level]
		if ok {
			_, err := c.Fprintln(h.out, line)
			return err
		}
	}

	_, err := io.WriteString(h.out, line+"\n")
	return err
}

// fileHook appends a plain, uncolored rendering of each entry to an
// already-open file handle.
type fileHook struct {
	mu    sync.Mutex
	w     io.Writer
	level level.Level
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.w, formatEntry(entry)+"\n")
	return err
}

func formatEntry(entry *logrus.Entry) string {
	line := entry.Time.Format("2006-01-02T15:04:05.000Z07:00") + " [" + entry.Level.String() + "] " + entry.Message

	for k, v := range entry.Data {
		line += " " + k + "=" + toString(v)
	}

	return line
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if e, ok := v.(error); ok {
		return e.Error()
	}
	return fmt.Sprintf("%v", v)
}

func (l *logger) entry(fields logrus.Fields) *logrus.Entry {
	if fields == nil {
		return logrus.NewEntry(l.log)
	}
	return l.log.WithFields(fields)
}

func (l *logger) Debug(msg string, fields logrus.Fields) { l.entry(fields).Debug(msg) }
func (l *logger) Info(msg string, fields logrus.Fields)  { l.entry(fields).Info(msg) }
func (l *logger) Warn(msg string, fields logrus.Fields)  { l.entry(fields).Warn(msg) }
func (l *logger) Error(msg string, fields logrus.Fields) { l.entry(fields).Error(msg) }

func (l *logger) WithFields(fields logrus.Fields) Logger {
	return &derived{base: l, fields: fields}
}

func (l *logger) Close() error {
	if l.fh != nil {
		return l.fh.Close()
	}
	return nil
}

// derived is a Logger view that always merges its own fields into every
// call, without needing a second logrus.Logger instance.
type derived struct {
	base   *logger
	fields logrus.Fields
}

func (d *derived) merge(fields logrus.Fields) logrus.Fields {
	out := make(logrus.Fields, len(d.fields)+len(fields))
	for k, v := range d.fields {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func (d *derived) Debug(msg string, fields logrus.Fields) { d.base.Debug(msg, d.merge(fields)) }
func (d *derived) Info(msg string, fields logrus.Fields)  { d.base.Info(msg, d.merge(fields)) }
func (d *derived) Warn(msg string, fields logrus.Fields)  { d.base.Warn(msg, d.merge(fields)) }
func (d *derived) Error(msg string, fields logrus.Fields) { d.base.Error(msg, d.merge(fields)) }

func (d *derived) WithFields(fields logrus.Fields) Logger {
	return &derived{base: d.base, fields: d.merge(fields)}
}

func (d *derived) Close() error {
	return d.base.Close()
}
