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
	"strings"

	"github.com/consensys/go-speclang/pkg/speclang/catalogue"
	"github.com/consensys/go-speclang/pkg/speclang/parser"
	"github.com/consensys/go-speclang/pkg/util/source"
	"github.com/consensys/go-speclang/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Configure logging, and read the machine word width.
func configure(cmd *cobra.Command) uint {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
	//
	xlen := GetUint(cmd, "xlen")
	//
	if xlen == 0 || xlen > 64 {
		fmt.Printf("invalid xlen %d (must be between 1 and 64)\n", xlen)
		os.Exit(2)
	}
	//
	return xlen
}

// Read the type catalogue given on the command line (if any).  This returns
// nil if no catalogue was given.
func readCatalogue(cmd *cobra.Command, xlen uint) *catalogue.Table {
	var (
		jsonFile  = GetString(cmd, "catalogue")
		binFile   = GetString(cmd, "binary")
		cacheFile = GetString(cmd, "cache")
		table     *catalogue.Table
		err       error
	)
	//
	switch {
	case jsonFile != "" && binFile != "":
		fmt.Println("cannot specify both --catalogue and --binary")
		os.Exit(2)
	case jsonFile != "":
		var bytes []byte
		//
		log.Debug(fmt.Sprintf("reading catalogue %s", jsonFile))
		//
		if bytes, err = os.ReadFile(jsonFile); err == nil {
			table, err = catalogue.ParseJSON(bytes)
		}
	case binFile != "" && cacheFile != "":
		var cache *catalogue.Cache
		//
		if cache, err = catalogue.OpenCache(cacheFile); err == nil {
			table, err = cache.ReadDWARF(binFile, xlen)
			//
			if cerr := cache.Close(); err == nil {
				err = cerr
			}
		}
	case binFile != "":
		table, err = catalogue.ReadDWARF(binFile, xlen)
	default:
		return nil
	}
	// Handle error
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	return table
}

// Construct the parser configuration determined by the command line, along
// with the catalogue it was read from (if any).  When parsing is untyped, the
// catalogue is returned but not configured.
func parserConfig(cmd *cobra.Command) (parser.Config, *catalogue.Table) {
	var (
		xlen  = configure(cmd)
		table = readCatalogue(cmd, xlen)
	)
	//
	if table == nil || GetFlag(cmd, "untyped") {
		return parser.Config{Xlen: xlen}, table
	}
	//
	return parser.Config{Xlen: xlen, Catalogue: table}, table
}

// Read the given source files, exiting on failure.
func readSourceFiles(filenames []string) []*source.File {
	var srcfiles = make([]*source.File, len(filenames))
	//
	for i, n := range filenames {
		log.Debug(fmt.Sprintf("including source file %s", n))
		// Read source file
		bytes, err := os.ReadFile(n)
		// Sanity check for errors
		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
		//
		srcfiles[i] = source.NewSourceFile(n, bytes)
	}
	//
	return srcfiles
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := max(1, min(line.Length()-lineOffset, span.Length()))
	highlight := strings.Repeat("^", length)
	// Colour highlight on terminals
	if termio.IsTerminal(os.Stdout) {
		highlight = termio.BoldAnsiEscape().FgColour(termio.TERM_RED).Wrap(highlight)
	}
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Println(highlight)
}

func printErrors(errs []parser.Error) {
	for _, err := range errs {
		log.Debug(fmt.Sprintf("%s error", err.Kind.String()))
		printSyntaxError(&err.SyntaxError)
	}
}
