/*
 * S370 - telnet server, listener.
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

package telnet

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/cormacvm/regvm/emu/asmtest"
	"github.com/cormacvm/regvm/emu/core"
	"github.com/cormacvm/regvm/emu/opcodemap"
	"github.com/cormacvm/regvm/emu/stack"
	"github.com/cormacvm/regvm/emu/vm"
)

func newTestCore(t *testing.T) *core.Core {
	t.Helper()
	var p asmtest.Program
	p.Append(asmtest.A(opcodemap.OpReturn, 0))

	s := vm.NewState(1<<16, 0, 0)
	s.Instructions = p.Bytes()
	st := stack.New(256)
	s.AddStack(1, st)
	s.SetCurrentStack(1)
	s.PushFrame(0, stack.ExitReturn)

	return core.New(s)
}

func TestStartStopAcceptsConnections(t *testing.T) {
	c := newTestCore(t)
	if err := Start(c, "0"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer Stop()

	_, port, err := net.SplitHostPort(server.listener.Addr().String())
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}

	conn, err := net.DialTimeout("tcp", "127.0.0.1:"+port, time.Second)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(2 * time.Second))
	reader := bufio.NewReader(conn)
	if _, err := reader.ReadString(' '); err != nil {
		t.Fatalf("reading banner prompt: %v", err)
	}

	if _, err := conn.Write([]byte("quit\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func TestStartFailsOnBadPort(t *testing.T) {
	c := newTestCore(t)
	if err := Start(c, "not-a-port"); err == nil {
		Stop()
		t.Errorf("expected an error listening on an invalid port")
	}
}
