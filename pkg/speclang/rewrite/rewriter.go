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
	"github.com/consensys/go-speclang/pkg/speclang/ast"
	"github.com/consensys/go-speclang/pkg/util/source"
)

// Rewriter applies a given transformation to every value expression within a
// specification.  Expressions are rewritten bottom-up, so the transformation
// sees operands which have already been rewritten.  Nodes are never modified
// in place, instead a node is rebuilt whenever its operands change.  Rebuilt
// nodes inherit the span of the node they replace.
type Rewriter struct {
	srcmap    *source.Map[any]
	transform func(ast.VExpr) ast.VExpr
}

// NewRewriter constructs a rewriter for a given transformation.  The source
// map is optional.
func NewRewriter(srcmap *source.Map[any], transform func(ast.VExpr) ast.VExpr) *Rewriter {
	return &Rewriter{srcmap, transform}
}

// Function rewrites every clause of a function specification.
func (p *Rewriter) Function(fn *ast.FuncSpec) *ast.FuncSpec {
	var (
		specs   = make([]ast.Spec, len(fn.Specs))
		changed = false
	)
	//
	for i, spec := range fn.Specs {
		specs[i] = p.Spec(spec)
		changed = changed || specs[i] != spec
	}
	//
	if !changed {
		return fn
	}
	//
	return p.copy(fn, &ast.FuncSpec{Name: fn.Name, Specs: specs}).(*ast.FuncSpec)
}

// Spec rewrites a single clause.
func (p *Rewriter) Spec(spec ast.Spec) ast.Spec {
	switch s := spec.(type) {
	case *ast.Requires:
		if cond := p.BExpr(s.Cond); cond != s.Cond {
			return p.copy(s, &ast.Requires{Cond: cond}).(ast.Spec)
		}
	case *ast.Ensures:
		if cond := p.BExpr(s.Cond); cond != s.Cond {
			return p.copy(s, &ast.Ensures{Cond: cond}).(ast.Spec)
		}
	case *ast.Track:
		if expr := p.VExpr(s.Expr); expr != s.Expr {
			return p.copy(s, &ast.Track{Name: s.Name, Expr: expr}).(ast.Spec)
		}
	case *ast.Modifies:
		// nothing to do
	default:
		panic("unreachable")
	}
	//
	return spec
}

// BExpr rewrites the value expressions within a boolean expression.
func (p *Rewriter) BExpr(expr ast.BExpr) ast.BExpr {
	switch e := expr.(type) {
	case *ast.BoolLit:
		return e
	case *ast.BOpApp:
		var (
			args    = make([]ast.BExpr, len(e.Args))
			changed = false
		)
		//
		for i, arg := range e.Args {
			args[i] = p.BExpr(arg)
			changed = changed || args[i] != arg
		}
		//
		if !changed {
			return e
		}
		//
		return p.copy(e, &ast.BOpApp{Op: e.Op, Args: args}).(ast.BExpr)
	case *ast.COpApp:
		var (
			lhs = p.VExpr(e.Left)
			rhs = p.VExpr(e.Right)
		)
		//
		if lhs == e.Left && rhs == e.Right {
			return e
		}
		//
		return p.copy(e, &ast.COpApp{Op: e.Op, Left: lhs, Right: rhs}).(ast.BExpr)
	default:
		panic("unreachable")
	}
}

// VExpr rewrites a value expression.
func (p *Rewriter) VExpr(expr ast.VExpr) ast.VExpr {
	var result ast.VExpr
	//
	switch e := expr.(type) {
	case *ast.Ident, *ast.Int, *ast.Bv, *ast.Bool:
		result = e
	case *ast.OpApp:
		if args, changed := p.operands(e.Args); changed {
			result = p.copy(e, &ast.OpApp{Op: e.Op, Args: args, Typ: e.Typ}).(ast.VExpr)
		} else {
			result = e
		}
	case *ast.FuncApp:
		if args, changed := p.operands(e.Args); changed {
			result = p.copy(e, &ast.FuncApp{Name: e.Name, Args: args, Typ: e.Typ}).(ast.VExpr)
		} else {
			result = e
		}
	default:
		panic("unreachable")
	}
	//
	return p.copy(expr, p.transform(result)).(ast.VExpr)
}

func (p *Rewriter) operands(args []ast.VExpr) ([]ast.VExpr, bool) {
	var (
		nargs   = make([]ast.VExpr, len(args))
		changed = false
	)
	//
	for i, arg := range args {
		nargs[i] = p.VExpr(arg)
		changed = changed || nargs[i] != arg
	}
	//
	return nargs, changed
}

// Copy the span of one node to its replacement, returning the replacement.
func (p *Rewriter) copy(from any, to any) any {
	if p.srcmap != nil && from != to {
		p.srcmap.Copy(from, to)
	}
	//
	return to
}
