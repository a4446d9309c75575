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
	"fmt"

	"github.com/consensys/go-speclang/pkg/speclang/ast"
	"github.com/consensys/go-speclang/pkg/speclang/parser"
	"github.com/consensys/go-speclang/pkg/speclang/typing"
	"github.com/consensys/go-speclang/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// ResolveTypes elaborates the functions of a source file which was parsed
// without a type catalogue, using a given (typed) environment.  This produces
// the same trees as parsing with that environment would have done, including
// implicit dereferences.  Errors are reported against the spans recorded in
// the source file's map, which also receives the spans of resolved nodes.
// Resolution stops at the first error.
func ResolveTypes(file parser.SourceFile, env *typing.Environment) ([]*ast.FuncSpec, []parser.Error) {
	var (
		resolver  = &resolver{env, file.SourceMap}
		functions = make([]*ast.FuncSpec, len(file.Functions))
	)
	//
	for i, fn := range file.Functions {
		var errs []parser.Error
		//
		log.Debug(fmt.Sprintf("resolving types for %s", fn.Name))
		//
		if functions[i], errs = resolver.function(fn); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	return functions, nil
}

type resolver struct {
	env    *typing.Environment
	srcmap *source.Map[any]
}

func (p *resolver) function(fn *ast.FuncSpec) (*ast.FuncSpec, []parser.Error) {
	var specs = make([]ast.Spec, len(fn.Specs))
	//
	p.env.EnterFunction(fn.Name)
	//
	for i, spec := range fn.Specs {
		var errs []parser.Error
		//
		if specs[i], errs = p.spec(spec); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	result := &ast.FuncSpec{Name: fn.Name, Specs: specs}
	p.srcmap.Copy(fn, result)
	//
	return result, nil
}

func (p *resolver) spec(spec ast.Spec) (ast.Spec, []parser.Error) {
	var (
		result ast.Spec
		errs   []parser.Error
	)
	//
	switch s := spec.(type) {
	case *ast.Requires:
		var cond ast.BExpr
		cond, errs = p.bexpr(s.Cond)
		result = &ast.Requires{Cond: cond}
	case *ast.Ensures:
		var cond ast.BExpr
		cond, errs = p.bexpr(s.Cond)
		result = &ast.Ensures{Cond: cond}
	case *ast.Track:
		var expr ast.VExpr
		expr, errs = p.vexpr(s.Expr)
		result = &ast.Track{Name: s.Name, Expr: expr}
	case *ast.Modifies:
		return s, nil
	default:
		panic("unreachable")
	}
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	p.srcmap.Copy(spec, result)
	//
	return result, nil
}

func (p *resolver) bexpr(expr ast.BExpr) (ast.BExpr, []parser.Error) {
	var (
		result ast.BExpr
		errs   []parser.Error
	)
	//
	switch e := expr.(type) {
	case *ast.BoolLit:
		return e, nil
	case *ast.BOpApp:
		result, errs = p.bopApp(e)
	case *ast.COpApp:
		var (
			lhs, rhs ast.VExpr
			err      *typing.Error
		)
		//
		if lhs, errs = p.vexpr(e.Left); len(errs) > 0 {
			return nil, errs
		} else if rhs, errs = p.vexpr(e.Right); len(errs) > 0 {
			return nil, errs
		} else if result, err = p.env.Compare(e.Op, lhs, rhs); err != nil {
			return nil, p.errors(e, err)
		}
	default:
		panic("unreachable")
	}
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	p.srcmap.Copy(expr, result)
	//
	return result, nil
}

func (p *resolver) bopApp(e *ast.BOpApp) (ast.BExpr, []parser.Error) {
	var (
		op   = e.Op
		args = make([]ast.BExpr, len(e.Args))
		errs []parser.Error
	)
	//
	if op.IsQuantifier() {
		var (
			width uint
			err   *typing.Error
		)
		//
		if bv, ok := op.Var.Typ.(*ast.BvType); ok {
			width = bv.Width
		}
		//
		if op.Var, err = p.env.Bind(e.Op.Var.Name, width); err != nil {
			return nil, p.errors(e, err)
		}
		//
		defer p.env.Unbind()
		p.srcmap.Copy(e.Op.Var, op.Var)
	}
	//
	for i, arg := range e.Args {
		if args[i], errs = p.bexpr(arg); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	return &ast.BOpApp{Op: op, Args: args}, nil
}

func (p *resolver) vexpr(expr ast.VExpr) (ast.VExpr, []parser.Error) {
	var (
		result ast.VExpr
		err    *typing.Error
	)
	//
	switch e := expr.(type) {
	case *ast.Int, *ast.Bv, *ast.Bool:
		return e, nil
	case *ast.Ident:
		if e.Kind == ast.SYSTEM {
			result, err = p.env.SystemIdentifier(e.Name)
		} else {
			result, err = p.env.Identifier(e.Name)
		}
	case *ast.OpApp:
		var operands = e.Args
		// Field names are not resolved as variables
		if e.Op.Kind == ast.GET_FIELD {
			operands = e.Args[:1]
		}
		//
		args, errs := p.vexprs(operands)
		if len(errs) > 0 {
			return nil, errs
		}
		//
		switch e.Op.Kind {
		case ast.DEREF:
			// Implicit dereferences are absent from untyped trees, hence this
			// must have been written explicitly.
			result = p.env.ExplicitDeref(args[0])
		case ast.SLICE:
			result, err = p.env.Slice(args[0], e.Op.Hi, e.Op.Lo)
		case ast.ARRAY_INDEX:
			result, err = p.env.ArrayIndex(args[0], args[1])
		case ast.GET_FIELD:
			result, err = p.env.GetField(args[0], e.Args[1].(*ast.Ident).Name)
		default:
			result, err = p.env.Binary(e.Op.Kind, args[0], args[1])
		}
	case *ast.FuncApp:
		args, errs := p.vexprs(e.Args)
		if len(errs) > 0 {
			return nil, errs
		}
		//
		result, err = p.env.Builtin(e.Name, args)
	default:
		panic("unreachable")
	}
	//
	if err != nil {
		return nil, p.errors(expr, err)
	}
	//
	p.srcmap.Copy(expr, result)
	//
	return result, nil
}

func (p *resolver) vexprs(exprs []ast.VExpr) ([]ast.VExpr, []parser.Error) {
	var (
		results = make([]ast.VExpr, len(exprs))
		errs    []parser.Error
	)
	//
	for i, expr := range exprs {
		if results[i], errs = p.vexpr(expr); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	return results, nil
}

// Report a resolution error against the span of a given node.
func (p *resolver) errors(node any, err *typing.Error) []parser.Error {
	span, _ := p.srcmap.Lookup(node)
	//
	return []parser.Error{parser.ResolutionError(p.srcmap.Source(), span, err)}
}
