/*
   regvm: interpreter orchestration loop.

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

// Package core owns the goroutine that drives the interpreter loop
// (emu/vm.Run) and the control channel the console/telnet front ends use to
// ask it to run or stop. The VM itself is single-threaded and
// cooperative (spec §5: no OS threads, no timers), so unlike the teacher's
// cycle-by-cycle CPU loop a run here is one call to emu/vm.Run that
// executes straight through to a RETURN at the top frame or a trapped
// error; this package's job is keeping that call off the console's
// goroutine and reporting its outcome, not interrupting it mid-instruction.
package core

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/cormacvm/regvm/emu/vm"
)

// Msg identifies what a Packet is asking the core to do.
type Msg int

const (
	MsgRun Msg = iota
	MsgStop
)

// Packet is sent to a Core's control channel by the interactive console,
// the remote console, or the CLI's own command reader, standing in for the
// teacher's master.Packet (emu/master was never delivered in the retrieval
// pack; this is reconstructed the same shape, scoped to what this VM needs:
// run and stop, since the VM model has no devices to attach/detach).
type Packet struct {
	Msg Msg
}

// Core owns one VM state and the goroutine that may be running it.
type Core struct {
	wg      sync.WaitGroup
	done    chan struct{}
	control chan Packet

	mu      sync.Mutex
	state   *vm.State
	running bool
}

// New wraps an already-booted VM state (see emu/loader.Boot) with an
// orchestration loop.
func New(state *vm.State) *Core {
	return &Core{
		state:   state,
		done:    make(chan struct{}),
		control: make(chan Packet, 8),
	}
}

// Control returns the channel the console front ends send Packets on.
func (c *Core) Control() chan<- Packet {
	return c.control
}

// Start launches the control-processing goroutine. Call Stop to shut it
// down.
func (c *Core) Start() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-c.done:
				slog.Info("core: shutdown")
				return
			case pkt := <-c.control:
				c.process(pkt)
			}
		}
	}()
}

func (c *Core) process(pkt Packet) {
	switch pkt.Msg {
	case MsgRun:
		c.runOnce()
	case MsgStop:
		slog.Warn("core: stop requested; the interpreter runs its current instruction stream to completion before it can be reported")
	}
}

// runOnce starts emu/vm.Run in its own goroutine if one isn't already in
// flight, logging how it finished; a run that ends in an error (an unknown
// opcode) terminates the process with exit status 1. A second MsgRun arriving while a run is
// in progress is a no-op (spec §5: one interpreter instance, nothing to
// schedule concurrently with it).
func (c *Core) runOnce() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		slog.Warn("core: run requested while already running")
		return
	}
	c.running = true
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			c.mu.Lock()
			c.running = false
			c.mu.Unlock()
		}()
		if err := vm.Run(c.state); err != nil {
			slog.Error("core: vm run aborted", "err", err)
			os.Exit(1)
		}
		slog.Info("core: vm run completed")
	}()
}

// Stop signals the control goroutine to exit and waits for it (and any
// in-flight run) to finish, up to one second.
func (c *Core) Stop() {
	close(c.done)
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		slog.Warn("core: timed out waiting for shutdown")
	}
}

// Running reports whether a vm.Run call is currently in flight.
func (c *Core) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// State returns the wrapped VM state, for console commands that inspect or
// dump it directly.
func (c *Core) State() *vm.State {
	return c.state
}

// SetState replaces the wrapped VM state, for the console's LOAD command.
// It refuses while a run is in flight, since swapping the state out from
// under emu/vm.Run would leave the old run reading freed structures.
func (c *Core) SetState(state *vm.State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return fmt.Errorf("core: can't load a new image while a run is in progress")
	}
	c.state = state
	return nil
}
