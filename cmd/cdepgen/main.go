// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command cdepgen watches a C/C++ project tree and keeps one makefile
// dependency fragment per source file up to date.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/cdepgen/cdepgen/internal/config"
	"github.com/cdepgen/cdepgen/internal/scan"
	"github.com/cdepgen/cdepgen/internal/shell"
)

const projectConfigBasename = "cdepgen_config.json"

func main() {
	projectRoot := pflag.StringP("project-root", "p", ".", "root of the project tree to watch")
	pflag.Parse()

	root, err := filepath.Abs(*projectRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: couldn't resolve project root: %v\n", err)
		os.Exit(1)
	}

	configPath := filepath.Join(root, projectConfigBasename)
	cfg, usedDefault, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: couldn't load configuration: %v\n", err)
		os.Exit(1)
	}

	s := &shell.Shell{
		Config:     cfg,
		ConfigPath: configPath,
		Out:        os.Stdout,
		In:         os.Stdin,
	}

	if usedDefault {
		s.Logf(shell.LevelWarn, "This project doesn't have a configuration file yet. Use the command \"config save\" to create one.")
	}

	for {
		outcome := s.Run()
		if outcome == shell.Terminate {
			return
		}

		runScan(root, cfg, s)
	}
}

// runScan drives the scan controller until an interrupt arrives (delivered
// through os/signal, see signals.go, and checked before each cycle and
// during the inter-cycle sleep) or a cycle reports that the project has no
// template, then stops cleanly and hands control back to the shell.
func runScan(root string, cfg *config.Config, s *shell.Shell) {
	s.Logf(shell.LevelInfo, "=> Started the scan of the source files.\n=> Press CTRL-C to end the scan.")

	interrupt := make(chan os.Signal, 1)
	notifyInterrupt(interrupt)
	defer stopInterruptNotify(interrupt)

	controller := scan.New(root, cfg, cfg.ToolchainLibraryPattern)
	controller.Logf = func(format string, args ...interface{}) {
		s.Logf(shell.LevelInfo, format, args...)
	}

	for {
		select {
		case <-interrupt:
			return
		default:
		}

		if !controller.Cycle() {
			return
		}

		select {
		case <-interrupt:
			return
		case <-time.After(cfg.SleepTimer()):
		}
	}
}
