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
	"fmt"
	"strings"
)

// VExpr represents a value expression.  Every value expression carries the
// type determined for it when it was elaborated.
type VExpr interface {
	fmt.Stringer
	// Type returns the elaborated type of this expression.
	Type() VType
}

// IdentKind records how an identifier was resolved.
type IdentKind uint8

const (
	// UNRESOLVED indicates an identifier which has not been resolved yet.
	UNRESOLVED IdentKind = iota
	// BOUND indicates a variable bound by a quantifier.
	BOUND
	// FORMAL indicates a formal parameter of the enclosing function.
	FORMAL
	// GLOBAL indicates a global variable.  Its value is the address of the
	// variable.
	GLOBAL
	// SYSTEM indicates an entity of the machine model (e.g. a register).
	SYSTEM
	// FIELD indicates the name of a field in a field access.
	FIELD
)

var identKinds = []string{"unresolved", "bound", "formal", "global", "system", "field"}

func (k IdentKind) String() string {
	return identKinds[k]
}

// ValueOpKind identifies a value operator.
type ValueOpKind uint8

const (
	// ADD represents "+"
	ADD ValueOpKind = iota
	// SUB represents "-"
	SUB
	// BVXOR represents "^"
	BVXOR
	// BVAND represents "&"
	BVAND
	// BVOR represents "|"
	BVOR
	// DIV represents "/"
	DIV
	// MUL represents "*"
	MUL
	// RSHIFT represents ">>" (arithmetic)
	RSHIFT
	// URSHIFT represents ">>>" (logical)
	URSHIFT
	// LSHIFT represents "<<"
	LSHIFT
	// CONCAT represents "++"
	CONCAT
	// ARRAY_INDEX represents "a[i]", giving the address of the i'th element.
	ARRAY_INDEX
	// SLICE represents "e[hi:lo]"
	SLICE
	// GET_FIELD represents "s.f", giving the address of the field.
	GET_FIELD
	// DEREF represents a load from memory.
	DEREF
)

var valueOpSymbols = []string{"+", "-", "^", "&", "|", "/", "*", ">>", ">>>", "<<", "++"}

// ValueOp is a value operator.  Only slices make use of the bounds.
type ValueOp struct {
	Kind ValueOpKind
	Hi   uint16
	Lo   uint16
}

// IsBinary determines whether this is an infix binary operator.
func (p ValueOp) IsBinary() bool {
	return p.Kind <= CONCAT
}

func (p ValueOp) String() string {
	switch p.Kind {
	case ARRAY_INDEX:
		return "[]"
	case SLICE:
		return fmt.Sprintf("[%d:%d]", p.Hi, p.Lo)
	case GET_FIELD:
		return "."
	case DEREF:
		return "*"
	default:
		return valueOpSymbols[p.Kind]
	}
}

// Ident is a reference to a named variable.  System identifiers retain their
// "$" prefix.
type Ident struct {
	Name string
	Kind IdentKind
	Typ  VType
}

// Type implementation for the VExpr interface.
func (p *Ident) Type() VType { return p.Typ }

func (p *Ident) String() string { return p.Name }

// Int is an integer literal.
type Int struct {
	Value int64
}

// Type implementation for the VExpr interface.
func (p *Int) Type() VType { return INTEGER }

func (p *Int) String() string { return fmt.Sprintf("%d", p.Value) }

// Bv is a bit-vector literal.  The value is always within the given width.
type Bv struct {
	Value uint64
	Width uint
}

// Type implementation for the VExpr interface.
func (p *Bv) Type() VType { return NewBvType(p.Width) }

func (p *Bv) String() string { return fmt.Sprintf("%dbv%d", p.Value, p.Width) }

// Bool is a boolean literal used as a value.
type Bool struct {
	Value bool
}

// Type implementation for the VExpr interface.
func (p *Bool) Type() VType { return BOOLEAN }

func (p *Bool) String() string { return fmt.Sprintf("%t", p.Value) }

// OpApp applies a value operator to one or two operands.
type OpApp struct {
	Op   ValueOp
	Args []VExpr
	Typ  VType
}

// Type implementation for the VExpr interface.
func (p *OpApp) Type() VType { return p.Typ }

func (p *OpApp) String() string {
	switch p.Op.Kind {
	case ARRAY_INDEX:
		return fmt.Sprintf("%s[%s]", p.Args[0].String(), p.Args[1].String())
	case SLICE:
		return fmt.Sprintf("%s%s", p.Args[0].String(), p.Op.String())
	case GET_FIELD:
		return fmt.Sprintf("%s.%s", p.Args[0].String(), p.Args[1].String())
	case DEREF:
		if _, ok := p.Args[0].(*Ident); ok {
			return fmt.Sprintf("*%s", p.Args[0].String())
		}
		//
		return fmt.Sprintf("*(%s)", p.Args[0].String())
	default:
		return fmt.Sprintf("(%s %s %s)", p.Args[0].String(), p.Op.String(), p.Args[1].String())
	}
}

// FuncApp applies a builtin function to one or more arguments.
type FuncApp struct {
	Name string
	Args []VExpr
	Typ  VType
}

// Type implementation for the VExpr interface.
func (p *FuncApp) Type() VType { return p.Typ }

func (p *FuncApp) String() string {
	var args = make([]string, len(p.Args))
	//
	for i, arg := range p.Args {
		args[i] = arg.String()
	}
	//
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(args, ", "))
}

// IsLiteral determines whether a given expression is an integer or
// bit-vector literal.
func IsLiteral(e VExpr) bool {
	switch e.(type) {
	case *Int, *Bv:
		return true
	default:
		return false
	}
}

// IsDeref determines whether a given expression is a dereference.
func IsDeref(e VExpr) bool {
	if op, ok := e.(*OpApp); ok {
		return op.Op.Kind == DEREF
	}
	//
	return false
}
