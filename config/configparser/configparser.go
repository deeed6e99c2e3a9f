/*
 * S370 - Configuration file parser
 *
 * Copyright 2024, Richard Cornwell
 * Copyright 2026, regvm contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package configparser loads a VM boot configuration file: one keyword plus
// a free-form value per line, dispatched to whichever concern registered
// that keyword. The line-scanning shape and the "concerns self-register
// their keyword via init()" pattern both come from the teacher's device
// configuration loader; the per-device option-list grammar (comma lists,
// quoted strings, hex device addresses) is dropped, since nothing in this
// VM is addressed or attached the way a 370 device is. A boot file has
// lines like:
//
//	IMAGE program.bc
//	PORT 6170
//	TRACE opcode
//	DEBUGFILE trace.log
package configparser

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// OptionFunc handles one configuration line's value, once RegisterOption
// has claimed its keyword.
type OptionFunc func(value string) error

var options = map[string]OptionFunc{}

// RegisterOption claims a configuration keyword. Concerns call this from
// their own init(), the same self-registration shape the teacher's device
// models use, so configparser never needs to know what keywords exist.
func RegisterOption(keyword string, fn OptionFunc) {
	options[strings.ToUpper(keyword)] = fn
}

// LoadConfigFile reads name line by line. Blank lines and lines starting
// with # are skipped. Every other line's first whitespace-delimited token
// is looked up in the registered keywords; the remainder of the line,
// trimmed, is passed to that keyword's handler verbatim.
func LoadConfigFile(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		keyword, value, _ := strings.Cut(line, " ")
		fn, ok := options[strings.ToUpper(keyword)]
		if !ok {
			return fmt.Errorf("config: line %d: unknown option %q", lineNumber, keyword)
		}
		if err := fn(strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("config: line %d: %w", lineNumber, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
