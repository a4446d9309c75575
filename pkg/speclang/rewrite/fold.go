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
package rewrite

import (
	"math"

	"github.com/consensys/go-speclang/pkg/speclang/ast"
	"github.com/consensys/go-speclang/pkg/speclang/typing"
	"github.com/consensys/go-speclang/pkg/util/source"
)

// FoldConstants evaluates value operators whose operands are all literals.
// Bit-vector arithmetic is modulo 2^w for a result of width w.  Dereferences
// and field accesses are never folded, nor is division by zero.
func FoldConstants(fn *ast.FuncSpec, srcmap *source.Map[any]) *ast.FuncSpec {
	return NewRewriter(srcmap, fold).Function(fn)
}

func fold(expr ast.VExpr) ast.VExpr {
	var result ast.VExpr
	//
	switch e := expr.(type) {
	case *ast.OpApp:
		result = foldOpApp(e)
	case *ast.FuncApp:
		result = foldExtension(e)
	}
	//
	if result == nil {
		return expr
	}
	//
	return result
}

// Returns nil if the operator cannot be folded.
func foldOpApp(e *ast.OpApp) ast.VExpr {
	switch {
	case e.Op.IsBinary():
		switch lhs := e.Args[0].(type) {
		case *ast.Int:
			if rhs, ok := e.Args[1].(*ast.Int); ok {
				if value, ok := foldInt(e.Op.Kind, lhs.Value, rhs.Value); ok {
					return &ast.Int{Value: value}
				}
			}
		case *ast.Bv:
			if rhs, ok := e.Args[1].(*ast.Bv); ok {
				return foldBv(e.Op.Kind, lhs, rhs)
			}
		}
	case e.Op.Kind == ast.SLICE:
		if arg, ok := e.Args[0].(*ast.Bv); ok {
			width := uint(e.Op.Hi-e.Op.Lo) + 1
			return &ast.Bv{Value: (arg.Value >> e.Op.Lo) & typing.Mask(width), Width: width}
		}
	case e.Op.Kind == ast.ARRAY_INDEX:
		return foldAddress(e)
	}
	//
	return nil
}

func foldInt(op ast.ValueOpKind, lhs int64, rhs int64) (int64, bool) {
	switch op {
	case ast.ADD:
		return lhs + rhs, true
	case ast.SUB:
		return lhs - rhs, true
	case ast.MUL:
		return lhs * rhs, true
	case ast.DIV:
		if rhs == 0 || (lhs == math.MinInt64 && rhs == -1) {
			return 0, false
		}
		//
		return lhs / rhs, true
	case ast.BVXOR:
		return lhs ^ rhs, true
	case ast.BVAND:
		return lhs & rhs, true
	case ast.BVOR:
		return lhs | rhs, true
	case ast.LSHIFT:
		return lhs << min(uint64(rhs), 64), rhs >= 0
	case ast.RSHIFT:
		return lhs >> min(uint64(rhs), 63), rhs >= 0
	case ast.URSHIFT:
		return int64(uint64(lhs) >> min(uint64(rhs), 64)), rhs >= 0
	default:
		return 0, false
	}
}

func foldBv(op ast.ValueOpKind, lhs *ast.Bv, rhs *ast.Bv) ast.VExpr {
	var (
		width = lhs.Width
		l, r  = lhs.Value, rhs.Value
		value uint64
	)
	//
	if op == ast.CONCAT {
		if width = lhs.Width + rhs.Width; width > 64 {
			return nil
		}
		//
		return &ast.Bv{Value: l<<rhs.Width | r, Width: width}
	} else if lhs.Width != rhs.Width {
		return nil
	}
	//
	switch op {
	case ast.ADD:
		value = l + r
	case ast.SUB:
		value = l - r
	case ast.MUL:
		value = l * r
	case ast.DIV:
		if r == 0 {
			return nil
		}
		//
		value = l / r
	case ast.BVXOR:
		value = l ^ r
	case ast.BVAND:
		value = l & r
	case ast.BVOR:
		value = l | r
	case ast.LSHIFT:
		value = l << min(r, 64)
	case ast.URSHIFT:
		value = l >> min(r, 64)
	case ast.RSHIFT:
		value = uint64(signExtend(l, width) >> min(r, 63))
	default:
		return nil
	}
	//
	return &ast.Bv{Value: value & typing.Mask(width), Width: width}
}

// Fold the address of an array element, given the address of the array and a
// literal index.  Elements which are themselves arrays have no fixed size.
func foldAddress(e *ast.OpApp) ast.VExpr {
	var (
		base, ok1     = e.Args[0].(*ast.Bv)
		index, ok2    = literalIndex(e.Args[1])
		elemSize, ok3 = ast.ByteSize(e.Typ)
	)
	//
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	//
	address := base.Value + index*uint64(elemSize)
	//
	return &ast.Bv{Value: address & typing.Mask(base.Width), Width: base.Width}
}

func literalIndex(e ast.VExpr) (uint64, bool) {
	switch e := e.(type) {
	case *ast.Int:
		return uint64(e.Value), e.Value >= 0
	case *ast.Bv:
		return e.Value, true
	default:
		return 0, false
	}
}

// Fold sign or zero extension of a literal.
func foldExtension(e *ast.FuncApp) ast.VExpr {
	if e.Name != "sext" && e.Name != "uext" {
		return nil
	}
	//
	n, ok1 := literalIndex(e.Args[0])
	arg, ok2 := e.Args[1].(*ast.Bv)
	//
	if !ok1 || !ok2 || n > 64 || arg.Width+uint(n) > 64 {
		return nil
	}
	//
	width := arg.Width + uint(n)
	//
	if e.Name == "uext" {
		return &ast.Bv{Value: arg.Value, Width: width}
	}
	//
	return &ast.Bv{Value: uint64(signExtend(arg.Value, arg.Width)) & typing.Mask(width), Width: width}
}

// Interpret the lower width bits of a value as a signed integer.
func signExtend(value uint64, width uint) int64 {
	var shift = 64 - width
	//
	return int64(value<<shift) >> shift
}
