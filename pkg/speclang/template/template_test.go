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
package template

import (
	"strings"
	"testing"

	"github.com/consensys/go-speclang/pkg/speclang/catalogue"
	"github.com/consensys/go-speclang/pkg/speclang/parser"
	"github.com/consensys/go-speclang/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Template_01(t *testing.T) {
	var (
		table   = catalogue.NewTable()
		word    = &catalogue.BitVector{Width: 64}
		builder strings.Builder
	)
	//
	table.AddFunction("reset")
	table.AddFunction("add", catalogue.Formal{Name: "a", Type: word}, catalogue.Formal{Name: "b", Type: word})
	//
	require.NoError(t, Generate(&builder, table))
	//
	expected := "// add(a: bv64, b: bv64)\nfun add {\n  requires true;\n  ensures true;\n}\n" +
		"\n// reset()\nfun reset {\n  requires true;\n  ensures true;\n}\n"
	assert.Equal(t, expected, builder.String())
}

func Test_Template_02(t *testing.T) {
	var (
		table   = catalogue.NewTable()
		builder strings.Builder
	)
	//
	table.AddFunction("f", catalogue.Formal{Name: "x", Type: &catalogue.BitVector{Width: 32}})
	require.NoError(t, Generate(&builder, table))
	// Templates are themselves valid specifications
	file, errs := parser.Parse(source.NewStringFile("template", builder.String()), parser.Config{Xlen: 64,
		Catalogue: table})
	require.Empty(t, errs)
	assert.Equal(t, Skeleton("f"), file.Functions[0])
}

func Test_Template_03(t *testing.T) {
	var builder strings.Builder
	//
	require.NoError(t, Generate(&builder, catalogue.NewTable()))
	assert.Empty(t, builder.String())
}
