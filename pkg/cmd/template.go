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

	"github.com/consensys/go-speclang/pkg/speclang/template"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template [flags]",
	Short: "generate a specification template for every function in a catalogue.",
	Long: `Generate a trivial specification for every function in a catalogue, to be
used as a starting point when writing specifications.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			xlen   = configure(cmd)
			table  = readCatalogue(cmd, xlen)
			output = GetString(cmd, "output")
			out    = os.Stdout
			err    error
		)
		//
		if table == nil {
			fmt.Println("no catalogue given (see --catalogue or --binary)")
			os.Exit(2)
		} else if output != "" {
			if out, err = os.Create(output); err != nil {
				fmt.Println(err)
				os.Exit(3)
			}
			//
			defer out.Close()
		}
		//
		if err = template.Generate(out, table); err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
		//
		if output != "" {
			log.Info(fmt.Sprintf("wrote specification template to %s", output))
		}
	},
}

func init() {
	templateCmd.Flags().StringP("output", "o", "", "write template to file (rather than stdout)")
	rootCmd.AddCommand(templateCmd)
}
