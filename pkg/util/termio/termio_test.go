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
package termio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_AnsiEscape_01(t *testing.T) {
	esc := NewAnsiEscape().FgColour(TERM_RED)
	assert.Equal(t, "\033[31m", esc.Build())
}

func Test_AnsiEscape_02(t *testing.T) {
	esc := BoldAnsiEscape().FgColour(TERM_YELLOW).BgColour(TERM_BLACK)
	assert.Equal(t, "\033[1;33;40m", esc.Build())
	assert.Equal(t, "\033[1;33;40mhi\033[0m", esc.Wrap("hi"))
}

func Test_TablePrinter_01(t *testing.T) {
	var (
		buf   bytes.Buffer
		table = NewTablePrinter(2)
	)
	//
	table.AddRow("name", "type")
	row := table.AddRow("counter", "bv64")
	table.SetEscape(0, row, NewAnsiEscape().FgColour(TERM_GREEN))
	table.AnsiEscapes(false)
	table.Print(&buf)
	//
	assert.Equal(t, uint(2), table.Height())
	assert.Equal(t, "counter", table.Get(0, 1))
	assert.Equal(t, " name    | type\n counter | bv64\n", buf.String())
}
