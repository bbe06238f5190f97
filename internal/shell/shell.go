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

// Package shell implements the interactive command prompt: it reads one
// line at a time, dispatches it through a cobra command tree, and either
// keeps prompting, starts a scan, or terminates the program.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cdepgen/cdepgen/internal/config"
)

// Level selects the prefix print_msg-style output carries.
type Level int

const (
	LevelError Level = iota
	LevelInfo
	LevelWarn
)

// Outcome is what a command requests of the REPL loop.
type Outcome int

const (
	// Continue keeps prompting for another command.
	Continue Outcome = iota
	// StartScan ends the prompt loop and starts the scan controller.
	StartScan
	// Terminate ends the program.
	Terminate
)

// Shell is the read-eval-print loop over the project's configuration.
// Config mutation (set/save/load/default) lives here because the
// scan controller never touches configuration once constructed.
type Shell struct {
	Config     *config.Config
	ConfigPath string
	Out        io.Writer
	In         io.Reader
}

// Logf writes a single timestamped "[H:MM:SS] LEVEL: text" message (the
// hour is not zero-padded). LEVEL is "ERROR" or "WARNING"; info messages
// carry no level label.
func (s *Shell) Logf(level Level, format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	now := time.Now()
	prefix := fmt.Sprintf("[%d:%02d:%02d] ", now.Hour(), now.Minute(), now.Second())
	switch level {
	case LevelError:
		prefix += "ERROR: "
	case LevelWarn:
		prefix += "WARNING: "
	}
	fmt.Fprintf(s.Out, "\n%s%s\n", prefix, text)
}

// Run prompts for commands until one returns StartScan or Terminate.
func (s *Shell) Run() Outcome {
	scanner := bufio.NewScanner(s.In)
	for {
		fmt.Fprint(s.Out, "\n\n--> Please type a command: ")
		if !scanner.Scan() {
			return Terminate
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		outcome, handled := s.dispatch(line)
		if !handled {
			s.Logf(LevelError, "The input provided is not valid.\nType \"help\" for a list of valid commands.")
			continue
		}
		if outcome != Continue {
			return outcome
		}
	}
}

func (s *Shell) dispatch(line string) (outcome Outcome, handled bool) {
	args := strings.Fields(line)
	outcome = Continue
	handled = true

	root := s.newRootCommand(&outcome)
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	if err := root.Execute(); err != nil {
		return Continue, false
	}
	return outcome, true
}

func (s *Shell) newRootCommand(outcome *Outcome) *cobra.Command {
	root := &cobra.Command{Use: "cdepgen", SilenceUsage: true, SilenceErrors: true}

	root.AddCommand(&cobra.Command{
		Use: "run",
		RunE: func(*cobra.Command, []string) error {
			*outcome = StartScan
			return nil
		},
	})
	root.AddCommand(&cobra.Command{
		Use: "exit",
		RunE: func(*cobra.Command, []string) error {
			*outcome = Terminate
			return nil
		},
	})
	root.AddCommand(&cobra.Command{
		Use: "help",
		RunE: func(*cobra.Command, []string) error {
			s.printHelp()
			return nil
		},
	})
	root.AddCommand(s.newConfigCommand())

	return root
}

func (s *Shell) printHelp() {
	s.Logf(LevelInfo, "The valid commands are:"+
		"\n\t- run: starts the scan of the source files and the generation of the dependency fragments as needed."+
		"\n\t- config show: shows the current configuration in effect for this project."+
		"\n\t- config set key=value: changes the configuration with tag \"key\" to the value of \"value\"."+
		"\n\t- config save: saves the current configuration for this project, which will be loaded and used in the future."+
		"\n\t- config load: loads this project's configuration if one exists, or the program default configuration otherwise."+
		"\n\t- config default: changes the current configuration to the program default configuration."+
		"\n\t- help: shows help information."+
		"\n\t- exit: exit the program.")
}

func (s *Shell) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "config"}

	cmd.AddCommand(&cobra.Command{
		Use: "show",
		RunE: func(*cobra.Command, []string) error {
			s.configShow()
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:  "set",
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s.configSet(args[0])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use: "save",
		RunE: func(*cobra.Command, []string) error {
			s.configSave()
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use: "load",
		RunE: func(*cobra.Command, []string) error {
			s.configLoad()
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use: "default",
		RunE: func(*cobra.Command, []string) error {
			s.configDefault()
			return nil
		},
	})

	return cmd
}

func (s *Shell) configShow() {
	values := config.Show(s.Config)
	keys := config.Keys()
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("The current configurations in effect for this project are:")
	for _, key := range keys {
		fmt.Fprintf(&b, "\n\t- %s = %s", key, values[key])
	}
	s.Logf(LevelInfo, "%s", b.String())
}

func (s *Shell) configSet(pair string) {
	key, value, ok := strings.Cut(pair, "=")
	if !ok || key == "" {
		s.Logf(LevelError, "The configuration key-value pair provided %q is not valid.\nType \"config show\" for a list of valid configuration keys.", pair)
		return
	}

	if err := config.Set(s.Config, key, value); err != nil {
		s.Logf(LevelError, "The configuration %s couldn't be changed: %v.", key, err)
		return
	}
	s.Logf(LevelInfo, "The configuration %s was successfully changed.\nIn order to preserve this change don't forget to call \"config save\".", key)
}

func (s *Shell) configSave() {
	if err := config.Save(s.Config, s.ConfigPath); err != nil {
		s.Logf(LevelError, "The current configurations couldn't be saved: %v.", err)
		return
	}
	s.Logf(LevelInfo, "The current configurations were successfully saved.")
}

func (s *Shell) configLoad() {
	c, usedDefault, err := config.Load(s.ConfigPath)
	if err != nil {
		s.Logf(LevelError, "The current project's configuration couldn't be loaded: %v.", err)
		return
	}
	*s.Config = *c
	if usedDefault {
		s.Logf(LevelWarn, "This project doesn't have a configuration file yet. Use the command \"config save\" to create one.")
		s.Logf(LevelInfo, "The program's default configurations was successfully loaded.")
		return
	}
	s.Logf(LevelInfo, "The current project's configuration was successfully loaded.")
}

func (s *Shell) configDefault() {
	c, err := config.Default()
	if err != nil {
		s.Logf(LevelError, "The program's default configurations couldn't be loaded: %v.", err)
		return
	}
	*s.Config = *c
	s.Logf(LevelInfo, "The program's default configurations was successfully loaded.")
}
