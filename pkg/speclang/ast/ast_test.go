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
package ast

import (
	"testing"

	"github.com/consensys/go-speclang/pkg/util/collection/set"
	"github.com/stretchr/testify/assert"
)

func Test_Types_01(t *testing.T) {
	var (
		mem   = &ArrayType{NewBvType(64), NewBvType(8)}
		point = &StructType{"point", []FieldType{{"x", NewBvType(32), 0}, {"y", NewBvType(32), 4}}, 64}
	)
	//
	assert.True(t, NewBvType(8).Equals(NewBvType(8)))
	assert.False(t, NewBvType(8).Equals(NewBvType(16)))
	assert.False(t, NewBvType(8).Equals(INTEGER))
	assert.True(t, mem.Equals(&ArrayType{NewBvType(64), NewBvType(8)}))
	assert.False(t, mem.Equals(&ArrayType{NewBvType(64), NewBvType(16)}))
	assert.True(t, point.Equals(&StructType{"point", point.Fields, 64}))
	assert.False(t, point.Equals(&StructType{"point", point.Fields[:1], 64}))
	assert.False(t, IsKnown(UNKNOWN))
	assert.True(t, IsKnown(BOOLEAN))
}

func Test_Types_02(t *testing.T) {
	assert.Equal(t, "[bv64]bv8", (&ArrayType{NewBvType(64), NewBvType(8)}).String())
	assert.Equal(t, "struct point", (&StructType{Name: "point"}).String())
	assert.Equal(t, "struct { a: bv8 }", (&StructType{Fields: []FieldType{{"a", NewBvType(8), 0}}}).String())
	//
	n, ok := ByteSize(NewBvType(12))
	assert.True(t, ok)
	assert.Equal(t, uint(2), n)
	//
	_, ok = ByteSize(&ArrayType{NewBvType(64), NewBvType(8)})
	assert.False(t, ok)
}

func Test_Printer_01(t *testing.T) {
	var (
		x     = &Ident{"x", FORMAL, NewBvType(64)}
		g     = &Ident{"g", GLOBAL, NewBvType(32)}
		sum   = &OpApp{ValueOp{Kind: ADD}, []VExpr{x, &Bv{1, 64}}, NewBvType(64)}
		slice = &OpApp{ValueOp{SLICE, 7, 0}, []VExpr{sum}, NewBvType(8)}
		load  = &OpApp{ValueOp{Kind: DEREF}, []VExpr{g}, NewBvType(32)}
		old   = &FuncApp{"old", []VExpr{load}, NewBvType(32)}
	)
	//
	assert.Equal(t, "(x + 1bv64)", sum.String())
	assert.Equal(t, "(x + 1bv64)[7:0]", slice.String())
	assert.Equal(t, "*g", load.String())
	assert.Equal(t, "*((x + 1bv64))", (&OpApp{ValueOp{Kind: DEREF}, []VExpr{sum}, NewBvType(64)}).String())
	assert.Equal(t, "old(*g)", old.String())
}

func Test_Printer_02(t *testing.T) {
	var (
		v    = &Ident{"v", BOUND, NewBvType(32)}
		eq   = &COpApp{EQUAL, v, v}
		all  = &BOpApp{BoolOp{FORALL, v}, []BExpr{eq}}
		impl = &BOpApp{BoolOp{Kind: IMPLIES}, []BExpr{&BoolLit{true}, all}}
	)
	//
	assert.Equal(t, "v == v", eq.String())
	assert.Equal(t, "(forall (v: bv32) :: v == v)", all.String())
	assert.Equal(t, "(true ==> (forall (v: bv32) :: v == v))", impl.String())
	assert.Equal(t, "!true", (&BOpApp{BoolOp{Kind: NEG}, []BExpr{&BoolLit{true}}}).String())
	assert.Equal(t, []VExpr{v, v}, eq.Operands())
}

func Test_Printer_03(t *testing.T) {
	assert.Equal(t, ">=_u", GEU.String())
	assert.True(t, GEU.IsUnsigned())
	assert.False(t, GEQ.IsUnsigned())
	assert.Equal(t, ">>>", ValueOp{Kind: URSHIFT}.String())
	assert.True(t, ValueOp{Kind: CONCAT}.IsBinary())
	assert.False(t, ValueOp{Kind: SLICE}.IsBinary())
	assert.Equal(t, "formal", FORMAL.String())
}

func Test_FuncSpec_01(t *testing.T) {
	var fn = &FuncSpec{"f", []Spec{
		&Requires{&BoolLit{true}},
		&Modifies{set.NewSortedSet("b", "a")},
		&Ensures{&BoolLit{false}},
		&Modifies{set.NewSortedSet("c", "a")},
		&Track{"t", &Int{-3}},
	}}
	//
	assert.Equal(t, []string{"a", "b", "c"}, fn.Modified().ToArray())
	assert.Equal(t, []BExpr{&BoolLit{true}}, fn.Requires())
	assert.Equal(t, []BExpr{&BoolLit{false}}, fn.Ensures())
	assert.Equal(t, "fun f {\n  requires true;\n  modifies a, b;\n  ensures false;\n  modifies a, c;\n"+
		"  track [t] -3;\n}", fn.String())
}
