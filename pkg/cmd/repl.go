// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/consensys/go-speclang/pkg/speclang/parser"
	"github.com/consensys/go-speclang/pkg/speclang/typing"
	"github.com/consensys/go-speclang/pkg/util/source"
	"github.com/peterh/liner"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const replHelp = `Enter a clause (e.g. "ensures x == 0bv64;"), a boolean expression or a value
expression to see it elaborated.  Commands:
  :fun <name>   elaborate against the formals of a function
  :fun          clear the current function
  :help         show this message
  :quit         exit
`

var replCmd = &cobra.Command{
	Use:   "repl [flags]",
	Short: "interactively elaborate specifications.",
	Long:  `Read clauses and expressions interactively, printing their elaborations.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			config, _ = parserConfig(cmd)
			history   = GetString(cmd, "history")
			session   = &repl{env: config.Environment()}
		)
		//
		if history == "" {
			if home, err := os.UserHomeDir(); err == nil {
				history = filepath.Join(home, ".speclang_history")
			}
		}
		//
		session.run(history)
	},
}

// Session state of the loop.  The environment is reused across inputs, hence
// the current function persists until changed.
type repl struct {
	env      *typing.Environment
	function string
}

func (p *repl) run(history string) {
	ln := liner.NewLiner()
	defer ln.Close()
	//
	ln.SetCtrlCAborts(true)
	// Load history (if any)
	if f, err := os.Open(history); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	//
	for {
		line, err := ln.Prompt(p.prompt())
		//
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		} else if errors.Is(err, liner.ErrPromptAborted) {
			continue
		} else if err != nil {
			log.Error(err)
			break
		}
		//
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		//
		ln.AppendHistory(line)
		//
		if strings.HasPrefix(line, ":") {
			if p.command(strings.Fields(line)) {
				break
			}
		} else {
			p.elaborate(line)
		}
	}
	// Persist history
	if f, err := os.Create(history); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
}

func (p *repl) prompt() string {
	if p.function == "" {
		return "> "
	}
	//
	return fmt.Sprintf("%s> ", p.function)
}

// Execute a command, returning true if the loop should exit.
func (p *repl) command(fields []string) bool {
	switch fields[0] {
	case ":quit", ":exit":
		return true
	case ":help":
		fmt.Print(replHelp)
	case ":fun":
		if len(fields) > 1 {
			p.function = fields[1]
		} else {
			p.function = ""
		}
	default:
		fmt.Printf("unknown command %s (see :help)\n", fields[0])
	}
	//
	return false
}

var clauses = []string{"requires", "ensures", "modifies", "track"}

// Elaborate a line of input.  Clauses are recognised by their keyword.
// Otherwise, the line is a boolean expression or, failing that, a value
// expression.
func (p *repl) elaborate(line string) {
	var (
		srcfile = source.NewStringFile("<repl>", line)
		keyword = strings.Fields(line)[0]
	)
	//
	switch {
	case keyword == "fun":
		p.elaborateFunctions(srcfile)
	case slices.Contains(clauses, keyword):
		specs, errs := parser.NewParser(srcfile, p.env).ParseSpecs(p.function)
		//
		for _, spec := range specs {
			fmt.Println(spec.String())
		}
		//
		printErrors(errs)
	default:
		bexpr, errs := parser.NewParser(srcfile, p.env).ParseBExpr(p.function)
		//
		if len(errs) == 0 {
			fmt.Println(bexpr.String())
			return
		}
		//
		if vexpr, verrs := parser.NewParser(srcfile, p.env).ParseVExpr(p.function); len(verrs) == 0 {
			fmt.Printf("%s : %s\n", vexpr.String(), vexpr.Type().String())
			return
		}
		//
		printErrors(errs)
	}
}

func (p *repl) elaborateFunctions(srcfile *source.File) {
	file, errs := parser.NewParser(srcfile, p.env).Parse()
	//
	for _, fn := range file.Functions {
		fmt.Println(fn.String())
	}
	//
	printErrors(errs)
}

func init() {
	replCmd.Flags().String("history", "", "history file (default ~/.speclang_history)")
	rootCmd.AddCommand(replCmd)
}
