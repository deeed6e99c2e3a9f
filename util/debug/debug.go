/*
 * S370 - Log debug data to a file
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

// Package debug gates interpreter trace output by category (opcode,
// stack, heap) instead of the teacher's per-device/per-channel mask, since
// this VM has no devices or channels. Categories are turned on with a
// TRACE line in the boot config (replacing the teacher's separate DEBUG
// device-model config, which had nothing left to configure once devices
// were gone); output goes to a file named by DEBUGFILE, or stderr if none
// was configured.
package debug

import (
	"fmt"
	"os"
	"strings"

	config "github.com/cormacvm/regvm/config/configparser"
)

var (
	logFile    *os.File
	categories = map[string]bool{}
)

// Debugf logs a message under category if that category has been enabled
// by a TRACE config line.
func Debugf(category string, format string, a ...interface{}) {
	if !categories[strings.ToUpper(category)] {
		return
	}
	out := logFile
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, category+": "+format+"\n", a...)
}

// Enabled reports whether category has been turned on.
func Enabled(category string) bool {
	return categories[strings.ToUpper(category)]
}

func init() {
	config.RegisterOption("DEBUGFILE", createFile)
	config.RegisterOption("TRACE", Enable)
}

func createFile(name string) error {
	if logFile != nil {
		return fmt.Errorf("debug: can't have more than one debug file, previous: %s", logFile.Name())
	}
	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("debug: unable to create debug file: %s", name)
	}
	logFile = file
	return nil
}

// Enable turns a trace category on, either from a TRACE boot config line
// or from the console's "trace" command.
func Enable(name string) error {
	if name == "" {
		return fmt.Errorf("debug: TRACE requires a category name")
	}
	categories[strings.ToUpper(name)] = true
	return nil
}
