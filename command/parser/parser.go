/*
 * S370 - Command parser.
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

// Package parser implements the console command table shared by the
// interactive (liner) front end and the remote line console: a small
// prefix-matched dispatch table over *core.Core, the same shape as the
// teacher's device-oriented command parser but with the attach/detach/show
// device machinery replaced by the handful of things there are to do to a
// single running interpreter — load an image, run it, stop it, and inspect
// its registers and call stack.
package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/cormacvm/regvm/emu/core"
	"github.com/cormacvm/regvm/emu/loader"
	debug "github.com/cormacvm/regvm/util/debug"
	hex "github.com/cormacvm/regvm/util/hex"
)

type cmd struct {
	name     string
	min      int
	process  func(*cmdLine, *core.Core) (bool, error)
	complete func(*cmdLine) []string
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmd{
	{name: "load", min: 1, process: load},
	{name: "run", min: 1, process: run},
	{name: "stop", min: 2, process: stop},
	{name: "trace", min: 2, process: trace},
	{name: "registers", min: 3, process: showRegisters},
	{name: "stacks", min: 2, process: showStacks},
	{name: "quit", min: 1, process: quit},
}

// ProcessCommand parses and runs one command line against core. It reports
// whether the console loop should exit, and any error encountered.
func ProcessCommand(commandLine string, core *core.Core) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}
	if len(match) > 1 {
		return false, errors.New("ambiguous command: " + name)
	}
	return match[0].process(&line, core)
}

// CompleteCmd returns the tab-completion candidates for a partial command
// line, used by the liner-backed console reader.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	if !line.isEOL() && line.pos > 0 && line.line[line.pos-1] == ' ' {
		match := matchList(name)
		if len(match) != 1 || match[0].complete == nil {
			return nil
		}
		return match[0].complete(&line)
	}

	match := matchList(name)
	out := make([]string, len(match))
	for i, m := range match {
		out[i] = m.name
	}
	return out
}

func matchCommand(m cmd, name string) bool {
	if len(name) > len(m.name) {
		return false
	}
	for i := range name {
		if m.name[i] != name[i] {
			return false
		}
	}
	return len(name) >= m.min
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var match []cmd
	for _, m := range cmdList {
		if matchCommand(m, name) {
			match = append(match, m)
		}
	}
	return match
}

func load(line *cmdLine, c *core.Core) (bool, error) {
	path := line.getRest()
	if path == "" {
		return false, errors.New("load requires an image path")
	}
	img, err := loader.ReadFile(path)
	if err != nil {
		return false, err
	}
	if err := c.SetState(loader.Boot(img)); err != nil {
		return false, err
	}
	fmt.Printf("loaded %s\n", path)
	return false, nil
}

func run(_ *cmdLine, c *core.Core) (bool, error) {
	c.Control() <- core.Packet{Msg: core.MsgRun}
	return false, nil
}

func stop(_ *cmdLine, c *core.Core) (bool, error) {
	c.Control() <- core.Packet{Msg: core.MsgStop}
	return false, nil
}

func trace(line *cmdLine, _ *core.Core) (bool, error) {
	category := line.getWord()
	if category == "" {
		return false, errors.New("trace requires a category name")
	}
	return false, debug.Enable(category)
}

func showRegisters(_ *cmdLine, c *core.Core) (bool, error) {
	var sb strings.Builder
	hex.FormatSlot(&sb, c.State().Registers())
	fmt.Println(sb.String())
	return false, nil
}

func showStacks(_ *cmdLine, c *core.Core) (bool, error) {
	s := c.State()
	fmt.Printf("sp=%d\n", s.ActiveStackPointer())
	for i, fr := range s.ActiveFrames() {
		fmt.Printf("  frame %d: base=%d locals=%d\n", i, fr.Base, fr.N)
	}
	return false, nil
}

func quit(_ *cmdLine, _ *core.Core) (bool, error) {
	return true, nil
}

func (line *cmdLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

func (line *cmdLine) isEOL() bool {
	return line.pos >= len(line.line) || line.line[line.pos] == '#'
}

// getWord returns the next whitespace-delimited, lowercased token, leaving
// pos positioned just past it (and any trailing space already skipped on
// the next call).
func (line *cmdLine) getWord() string {
	line.skipSpace()
	start := line.pos
	for !line.isEOL() && !unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
	return strings.ToLower(line.line[start:line.pos])
}

// getRest returns everything remaining on the line, trimmed, for commands
// like load that take a free-form path argument.
func (line *cmdLine) getRest() string {
	line.skipSpace()
	if line.isEOL() {
		return ""
	}
	rest := line.line[line.pos:]
	if idx := strings.IndexByte(rest, '#'); idx >= 0 {
		rest = rest[:idx]
	}
	line.pos = len(line.line)
	return strings.TrimSpace(rest)
}
