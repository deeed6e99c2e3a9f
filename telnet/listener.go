/*
 * S370 - telnet server, listener.
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

// Package telnet is a remote line console: one accept loop per listener,
// one goroutine per connection, each running the same command table the
// local liner-backed console uses. It keeps the teacher's accept/dispatch
// shape (a Server with a shutdown channel and a WaitGroup covering every
// live connection) but drops the IAC/3270 option negotiation entirely —
// there is no terminal model in this VM for a remote console to negotiate
// with, only a command line.
package telnet

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/cormacvm/regvm/command/parser"
	"github.com/cormacvm/regvm/emu/core"
)

type Server struct {
	wg       sync.WaitGroup
	listener net.Listener
	shutdown chan struct{}
	core     *core.Core
}

var server *Server

// Start opens a listener on port and begins accepting connections, each
// served by its own goroutine running the command table against c.
func Start(c *core.Core, port string) error {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("telnet: failed to listen on port %s: %w", port, err)
	}
	server = &Server{
		listener: listener,
		shutdown: make(chan struct{}),
		core:     c,
	}
	slog.Info("telnet: console listening", "port", port)

	server.wg.Add(1)
	go server.acceptConnections()
	return nil
}

// Stop closes the listener and waits up to one second for in-flight
// connections to finish.
func Stop() {
	if server == nil {
		return
	}
	close(server.shutdown)
	server.listener.Close()

	done := make(chan struct{})
	go func() {
		server.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		slog.Warn("telnet: timed out waiting for connections to finish")
	}
}

func (s *Server) acceptConnections() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return
			default:
				continue
			}
		}
		s.wg.Add(1)
		go s.handleClient(conn)
	}
}

func (s *Server) handleClient(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	fmt.Fprint(conn, "regvm> ")
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			quit, err := parser.ProcessCommand(line, s.core)
			if err != nil {
				fmt.Fprintln(conn, "Error: "+err.Error())
			}
			if quit {
				return
			}
		}
		fmt.Fprint(conn, "regvm> ")
	}
}
