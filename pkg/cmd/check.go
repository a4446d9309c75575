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
	"fmt"
	"os"

	"github.com/consensys/go-speclang/pkg/speclang/ast"
	"github.com/consensys/go-speclang/pkg/speclang/parser"
	"github.com/consensys/go-speclang/pkg/speclang/rewrite"
	"github.com/consensys/go-speclang/pkg/speclang/typing"
	"github.com/kr/pretty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] file1.spec file2.spec ...",
	Short: "parse and elaborate specification files.",
	Long: `Parse and elaborate a given set of specification files, printing the
elaborated specifications.  Implicit dereferences are shown explicitly.`,
	Run: runCheckCmd,
}

func runCheckCmd(cmd *cobra.Command, args []string) {
	var (
		config, table = parserConfig(cmd)
		dump          = GetFlag(cmd, "dump")
		lower         = GetFlag(cmd, "lower")
		resolve       = GetFlag(cmd, "resolve")
		failed        = false
	)
	//
	if len(args) == 0 {
		fmt.Println("no specification files given")
		os.Exit(2)
	} else if (lower || resolve) && table == nil {
		fmt.Println("--lower and --resolve require a catalogue (see --catalogue or --binary)")
		os.Exit(2)
	} else if lower && config.Catalogue == nil && !resolve {
		fmt.Println("--lower requires typed specifications (see --resolve)")
		os.Exit(2)
	}
	//
	for _, srcfile := range readSourceFiles(args) {
		file, errs := parser.Parse(srcfile, config)
		functions := file.Functions
		// Deferred elaboration of untyped specifications
		if len(errs) == 0 && resolve && config.Catalogue == nil {
			env := typing.NewEnvironment(config.Xlen, table, nil)
			functions, errs = rewrite.ResolveTypes(file, env)
		}
		//
		if len(errs) > 0 {
			printErrors(errs)
			failed = true
			//
			continue
		}
		//
		log.Debug(fmt.Sprintf("read %d function specifications from %s", len(functions), srcfile.Filename()))
		//
		for _, fn := range functions {
			if lower {
				var err error
				//
				if fn, err = rewrite.Lower(fn, table, config.Xlen, file.SourceMap); err != nil {
					fmt.Println(err)
					os.Exit(4)
				}
			}
			//
			printFunction(fn, dump)
		}
	}
	//
	if failed {
		os.Exit(4)
	}
}

func printFunction(fn *ast.FuncSpec, dump bool) {
	if dump {
		pretty.Println(fn)
	} else {
		fmt.Println(fn.String())
	}
}

func init() {
	checkCmd.Flags().Bool("dump", false, "print the structure of elaborated specifications")
	checkCmd.Flags().Bool("lower", false, "replace globals by their addresses and fold constants")
	checkCmd.Flags().Bool("resolve", false, "elaborate untyped specifications in a separate pass")
	rootCmd.AddCommand(checkCmd)
}
