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

package logger_test

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	. "github.com/nabbar/golib/logger"
	"github.com/nabbar/golib/logger/level"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Logger", func() {
	It("writes entries to the file hook when a file path is configured", func() {
		dir, _ := os.MkdirTemp("", "logger-*")
		defer func() { _ = os.RemoveAll(dir) }()

		logPath := filepath.Join(dir, "sub", "backupwatchd.log")

		l, err := New(Options{
			Level:        level.InfoLevel,
			DisableColor: true,
			File: FileOptions{
				Filepath:   logPath,
				CreatePath: true,
			},
		})
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = l.Close() }()

		l.Info("backup completed", logrus.Fields{"path": "/a/b.txt"})

		_ = l.Close()

		data, err := os.ReadFile(logPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("backup completed"))
		Expect(string(data)).To(ContainSubstring("path=/a/b.txt"))
	})

	It("derives a child logger that always merges its own fields", func() {
		dir, _ := os.MkdirTemp("", "logger-*")
		defer func() { _ = os.RemoveAll(dir) }()

		logPath := filepath.Join(dir, "d.log")

		l, err := New(Options{
			Level:        level.DebugLevel,
			DisableColor: true,
			File:         FileOptions{Filepath: logPath, CreatePath: true},
		})
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = l.Close() }()

		child := l.WithFields(logrus.Fields{"source": "docs"})
		child.Warn("retrying", logrus.Fields{"attempt": 2})

		_ = l.Close()

		data, err := os.ReadFile(logPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("source=docs"))
		Expect(string(data)).To(ContainSubstring("attempt=2"))
	})

	It("still writes to the file hook when the console hook is disabled", func() {
		dir, _ := os.MkdirTemp("", "logger-*")
		defer func() { _ = os.RemoveAll(dir) }()

		logPath := filepath.Join(dir, "console-off.log")

		l, err := New(Options{
			Level:          level.InfoLevel,
			DisableConsole: true,
			File:           FileOptions{Filepath: logPath, CreatePath: true},
		})
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = l.Close() }()

		l.Info("daemon started", logrus.Fields{})

		_ = l.Close()

		data, err := os.ReadFile(logPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("daemon started"))
	})
})
