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

	"github.com/consensys/go-speclang/pkg/util/termio"
	"github.com/spf13/cobra"
)

var catalogueCmd = &cobra.Command{
	Use:   "catalogue [flags]",
	Short: "print the functions and globals of a catalogue.",
	Long: `Print the function signatures and global variables of a type catalogue.  This
can also convert a catalogue read from a binary into JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			xlen  = configure(cmd)
			table = readCatalogue(cmd, xlen)
		)
		//
		if table == nil {
			fmt.Println("no catalogue given (see --catalogue or --binary)")
			os.Exit(2)
		}
		//
		if GetFlag(cmd, "json") {
			bytes, err := table.MarshalJSON()
			if err != nil {
				fmt.Println(err)
				os.Exit(3)
			}
			//
			fmt.Println(string(bytes))
			//
			return
		}
		//
		var (
			tp     = termio.NewTablePrinter(3)
			header = termio.BoldAnsiEscape()
		)
		//
		tp.AddRow("function", "signature", "")
		//
		for _, sig := range table.Functions() {
			tp.AddRow(sig.Name, sig.String(), "")
		}
		//
		row := tp.AddRow("global", "type", "address")
		//
		for _, g := range table.Globals() {
			tp.AddRow(g.Name, g.Type.String(), fmt.Sprintf("0x%x", g.Address))
		}
		// Highlight headers
		for col := uint(0); col < 3; col++ {
			tp.SetEscape(col, 0, header)
			tp.SetEscape(col, row, header)
		}
		//
		tp.AnsiEscapes(termio.IsTerminal(os.Stdout))
		tp.Print(os.Stdout)
	},
}

func init() {
	catalogueCmd.Flags().Bool("json", false, "print catalogue as JSON")
	rootCmd.AddCommand(catalogueCmd)
}
