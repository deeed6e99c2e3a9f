/*
   regvm: interpreter orchestration loop tests.

   Copyright (c) 2024, Richard Cornwell
   Copyright (c) 2026, regvm contributors

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
   FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
   DEALINGS IN THE SOFTWARE.

*/

package core

import (
	"testing"
	"time"

	"github.com/cormacvm/regvm/emu/asmtest"
	"github.com/cormacvm/regvm/emu/opcodemap"
	"github.com/cormacvm/regvm/emu/stack"
	"github.com/cormacvm/regvm/emu/vm"
)

func newTestCore(t *testing.T) *Core {
	t.Helper()
	var p asmtest.Program
	p.Append(asmtest.A(opcodemap.OpReturn, 0))

	s := vm.NewState(1<<16, 0, 0)
	s.Instructions = p.Bytes()
	st := stack.New(256)
	s.AddStack(1, st)
	s.SetCurrentStack(1)
	s.PushFrame(0, stack.ExitReturn)

	return New(s)
}

func TestCoreRunCompletesAndReportsIdle(t *testing.T) {
	c := newTestCore(t)
	c.Start()
	defer c.Stop()

	c.Control() <- Packet{Msg: MsgRun}

	deadline := time.After(time.Second)
	for c.Running() {
		select {
		case <-deadline:
			t.Fatal("run did not complete in time")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestCoreStopAfterStartReturns(t *testing.T) {
	c := newTestCore(t)
	c.Start()
	c.Stop()
}

func TestCoreSetStateSwapsState(t *testing.T) {
	c := newTestCore(t)
	var p asmtest.Program
	p.Append(asmtest.A(opcodemap.OpReturn, 0))
	s2 := vm.NewState(1<<16, 0, 0)
	s2.Instructions = p.Bytes()
	st := stack.New(256)
	s2.AddStack(1, st)
	s2.SetCurrentStack(1)
	s2.PushFrame(0, stack.ExitReturn)

	if err := c.SetState(s2); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	if c.State() != s2 {
		t.Errorf("State() did not return the swapped-in state")
	}
}

func TestCoreSetStateSucceedsAfterRunCompletes(t *testing.T) {
	c := newTestCore(t)
	c.Start()
	defer c.Stop()

	c.Control() <- Packet{Msg: MsgRun}
	// There's no deterministic window in which Running() is guaranteed true
	// for this trivial one-instruction program, so this only exercises the
	// not-running path; the running-refusal branch is covered by reading
	// the implementation directly.
	for c.Running() {
		time.Sleep(time.Millisecond)
	}
	if err := c.SetState(c.State()); err != nil {
		t.Errorf("SetState after completion: %v", err)
	}
}

func TestCoreDoubleRunRequestIsNoOp(t *testing.T) {
	c := newTestCore(t)
	c.Start()
	defer c.Stop()

	c.Control() <- Packet{Msg: MsgRun}
	c.Control() <- Packet{Msg: MsgRun} // should just log and return, not panic or double-run

	deadline := time.After(time.Second)
	for c.Running() {
		select {
		case <-deadline:
			t.Fatal("run did not complete in time")
		case <-time.After(time.Millisecond):
		}
	}
}
