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

package metrics_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/nabbar/golib/engine"
	. "github.com/nabbar/golib/metrics"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeSource struct {
	name string
	c    engine.Counters
}

func (f fakeSource) Name() string             { return f.name }
func (f fakeSource) Counters() engine.Counters { return f.c }

var _ = Describe("Metrics", func() {
	It("exposes collected counters in the Prometheus exposition format", func() {
		r := New()
		r.Collect([]Source{
			fakeSource{name: "docs", c: engine.Counters{TotalBackups: 3, FailedBackups: 1, TotalBytes: 42}},
		})

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		r.Handler().ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		body := rec.Body.String()
		Expect(body).To(ContainSubstring(`backupwatchd_total_backups{source="docs"} 3`))
		Expect(body).To(ContainSubstring(`backupwatchd_failed_backups{source="docs"} 1`))
		Expect(body).To(ContainSubstring(`backupwatchd_total_bytes{source="docs"} 42`))
	})
})
