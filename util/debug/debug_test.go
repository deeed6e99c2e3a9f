/*
 * S370 - Log debug data to a file
 *
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

package debug

import "testing"

func TestEnableCategoryThenEnabled(t *testing.T) {
	if Enabled("opcode") {
		t.Fatalf("opcode category enabled before TRACE")
	}
	if err := Enable("opcode"); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if !Enabled("OPCODE") {
		t.Errorf("Enabled should be case-insensitive")
	}
}

func TestEnableCategoryRequiresName(t *testing.T) {
	if err := Enable(""); err == nil {
		t.Errorf("expected an error for an empty category name")
	}
}

func TestDebugfSkipsDisabledCategory(t *testing.T) {
	// stack was never enabled by any other test in this package; Debugf
	// must not panic even though logFile is nil.
	Debugf("stack", "frame pushed base=%d", 16)
}
