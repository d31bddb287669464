/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

package startStop

import (
	"context"
	"fmt"
	"sync"
	"time"

	errpool "github.com/nabbar/golib/errors/pool"
)

type model struct {
	mu sync.Mutex

	fctStart FuncStart
	fctStop  FuncStop

	running bool
	started time.Time

	cnl context.CancelFunc
	done chan struct{}

	errs errpool.Pool
}

func (m *model) Start(ctx context.Context) error {
	m.mu.Lock()

	if m.running {
		// stop the previous instance first, without holding the lock during the wait
		m.mu.Unlock()
		_ = m.Stop(ctx)
		m.mu.Lock()
	}

	m.errs = errpool.New()

	c, cnl := context.WithCancel(ctx)
	done := make(chan struct{})

	m.cnl = cnl
	m.done = done
	m.running = true
	m.started = time.Now()

	fct := m.fctStart
	errs := m.errs

	m.mu.Unlock()

	go func() {
		defer close(done)

		var err error

		func() {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic in start function: %v", r)
				}
			}()

			if fct == nil {
				err = fmt.Errorf("invalid start function")
				return
			}

			err = fct(c)
		}()

		if err != nil {
			errs.Add(err)
		}

		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	return nil
}

func (m *model) Stop(ctx context.Context) error {
	m.mu.Lock()

	if !m.running {
		m.mu.Unlock()
		return nil
	}

	cnl := m.cnl
	done := m.done
	fct := m.fctStop
	errs := m.errs

	m.mu.Unlock()

	if cnl != nil {
		cnl()
	}

	var err error

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in stop function: %v", r)
			}
		}()

		if fct == nil {
			err = fmt.Errorf("invalid stop function")
			return
		}

		err = fct(ctx)
	}()

	if err != nil && errs != nil {
		errs.Add(err)
	}

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}

	m.mu.Lock()
	m.running = false
	m.started = time.Time{}
	m.mu.Unlock()

	return nil
}

func (m *model) Restart(ctx context.Context) error {
	if err := m.Stop(ctx); err != nil {
		return err
	}
	return m.Start(ctx)
}

func (m *model) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *model) Uptime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running || m.started.IsZero() {
		return 0
	}

	return time.Since(m.started)
}

func (m *model) ErrorsLast() error {
	m.mu.Lock()
	errs := m.errs
	m.mu.Unlock()

	if errs == nil {
		return nil
	}

	return errs.Last()
}

func (m *model) ErrorsList() []error {
	m.mu.Lock()
	errs := m.errs
	m.mu.Unlock()

	if errs == nil {
		return nil
	}

	return errs.Slice()
}
