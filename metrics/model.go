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

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "backupwatchd"

var sourceLabels = []string{"source"}

type recorder struct {
	reg *prometheus.Registry

	totalBackups      *prometheus.GaugeVec
	failedBackups     *prometheus.GaugeVec
	skippedBackups    *prometheus.GaugeVec
	compressedBackups *prometheus.GaugeVec
	totalBytes        *prometheus.GaugeVec
}

func newRecorder() *recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &recorder{
		reg: reg,
		totalBackups: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_backups",
			Help:      "Total number of files successfully backed up.",
		}, sourceLabels),
		failedBackups: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "failed_backups",
			Help:      "Total number of backup attempts that failed (unreadable source, destination directory error, or write failure after retries).",
		}, sourceLabels),
		skippedBackups: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "skipped_backups",
			Help:      "Total number of events skipped (debounce rejections and unchanged content).",
		}, sourceLabels),
		compressedBackups: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "compressed_backups",
			Help:      "Total number of successful backups stored compressed.",
		}, sourceLabels),
		totalBytes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_bytes",
			Help:      "Total bytes read from source files across successful backups.",
		}, sourceLabels),
	}
}

func (r *recorder) Collect(sources []Source) {
	for _, s := range sources {
		c := s.Counters()
		lbl := prometheus.Labels{"source": s.Name()}

		r.totalBackups.With(lbl).Set(float64(c.TotalBackups))
		r.failedBackups.With(lbl).Set(float64(c.FailedBackups))
		r.skippedBackups.With(lbl).Set(float64(c.SkippedBackups))
		r.compressedBackups.With(lbl).Set(float64(c.CompressedBackups))
		r.totalBytes.With(lbl).Set(float64(c.TotalBytes))
	}
}

func (r *recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
