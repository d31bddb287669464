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

package config

import "github.com/nabbar/golib/errors"

const (
	ErrorConfigRead errors.CodeError = iota + errors.MinPkgConfig
	ErrorConfigParse
	ErrorPresetNotFound
	ErrorFilterConflict
	ErrorNoEnabledSource
	ErrorMissingDestination
	ErrorInvalidStrategy
)

func init() {
	errors.RegisterIdFctMessage(ErrorConfigRead, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorConfigRead:
		return "cannot read configuration file"
	case ErrorConfigParse:
		return "cannot parse configuration file"
	case ErrorPresetNotFound:
		return "source references a preset that does not exist"
	case ErrorFilterConflict:
		return "source and its preset both declare a filter; declare the filter in only one place"
	case ErrorNoEnabledSource:
		return "no enabled source with an existing root was found"
	case ErrorMissingDestination:
		return "source has no destination: set backup_destination_base or the source's own dest"
	case ErrorInvalidStrategy:
		return "strategy override has an out-of-range field"
	}

	return ""
}
