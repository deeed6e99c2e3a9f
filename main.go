/*
 * S370 - Main process.
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

package main

import (
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	getopt "github.com/pborman/getopt/v2"

	"github.com/cormacvm/regvm/command/reader"
	config "github.com/cormacvm/regvm/config/configparser"
	"github.com/cormacvm/regvm/emu/core"
	"github.com/cormacvm/regvm/emu/loader"
	"github.com/cormacvm/regvm/emu/trap"
	"github.com/cormacvm/regvm/emu/vm"
	"github.com/cormacvm/regvm/telnet"
	logger "github.com/cormacvm/regvm/util/logger"

	_ "github.com/cormacvm/regvm/util/debug"
)

var Logger *slog.Logger

var (
	imagePath  string
	telnetPort = "6170"
)

func init() {
	config.RegisterOption("IMAGE", func(v string) error { imagePath = v; return nil })
	config.RegisterOption("PORT", func(v string) error { telnetPort = v; return nil })
}

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optImage := getopt.StringLong("image", 'i', "", "Bytecode image to boot")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Echo log records to stderr in addition to the log file")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			slog.Error("can't create log file", "path", *optLogFile, "err", err)
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, optDebug))
	slog.SetDefault(Logger)

	Logger.Info("regvm started")

	if *optConfig != "" {
		if _, err := os.Stat(*optConfig); os.IsNotExist(err) {
			Logger.Error("configuration file not found", "path", *optConfig)
			os.Exit(1)
		}
		if err := config.LoadConfigFile(*optConfig); err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}

	if *optImage != "" {
		imagePath = *optImage
	}
	if imagePath == "" {
		Logger.Error("no bytecode image given (pass -i, or an IMAGE line in the config file)")
		os.Exit(1)
	}

	img, err := loader.ReadFile(imagePath)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	state := loader.Boot(img)
	wireTraps(state)

	c := core.New(state)
	c.Start()

	if err := telnet.Start(c, telnetPort); err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	consoleDone := make(chan struct{})
	go func() {
		reader.ConsoleReader(c)
		close(consoleDone)
	}()

	select {
	case <-sigChan:
		Logger.Info("got quit signal")
	case <-consoleDone:
		Logger.Info("console exited")
	}

	Logger.Info("shutting down core")
	c.Stop()
	Logger.Info("shutting down telnet")
	telnet.Stop()
	Logger.Info("stopped")
}

// wireTraps installs the reference trap implementations onto a freshly
// booted state. A real deployment would replace some of these with
// purpose-built collaborators (spec §4.3); these are enough to run a
// bytecode image end to end without one.
func wireTraps(s *vm.State) {
	s.Collector = trap.GrowCollector{GrowBy: 4096}

	tr := trap.NewDirectTrampoline()
	trap.RegisterStandardRoutines(tr, s)
	s.Trampoline = tr

	s.Launcher = trap.NewFormatLauncher()
	s.Brancher = trap.TableBrancher{}
	s.Namer = trap.StaticClassNames{Names: map[uint64]string{}}
	s.Tracer = trap.StderrTracer{}
}
