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
)

// BExpr represents a boolean expression, such as the condition of a
// requires clause.
type BExpr interface {
	fmt.Stringer
	// Operands returns the value expressions used directly by this
	// expression (i.e. not those of nested boolean expressions).
	Operands() []VExpr
}

// BoolOpKind identifies a boolean operator.
type BoolOpKind uint8

const (
	// NEG represents "!"
	NEG BoolOpKind = iota
	// CONJ represents "&&"
	CONJ
	// DISJ represents "||"
	DISJ
	// IMPLIES represents "==>"
	IMPLIES
	// FORALL represents universal quantification.
	FORALL
	// EXISTS represents existential quantification.
	EXISTS
)

var boolOpSymbols = []string{"!", "&&", "||", "==>", "forall", "exists"}

// BoolOp is a boolean operator.  Quantifiers record the variable they bind.
type BoolOp struct {
	Kind BoolOpKind
	Var  *Ident
}

// IsQuantifier determines whether this operator binds a variable.
func (p BoolOp) IsQuantifier() bool {
	return p.Kind == FORALL || p.Kind == EXISTS
}

// BoundType returns the type of the variable bound by a quantifier.
func (p BoolOp) BoundType() VType {
	return p.Var.Typ
}

func (p BoolOp) String() string {
	return boolOpSymbols[p.Kind]
}

// CompOp is a comparison operator.
type CompOp uint8

const (
	// GT represents ">"
	GT CompOp = iota
	// LT represents "<"
	LT
	// GEQ represents ">="
	GEQ
	// LEQ represents "<="
	LEQ
	// EQUAL represents "=="
	EQUAL
	// NEQUAL represents "!="
	NEQUAL
	// GTU represents ">_u"
	GTU
	// LTU represents "<_u"
	LTU
	// GEU represents ">=_u"
	GEU
	// LEU represents "<=_u"
	LEU
)

var compOpSymbols = []string{">", "<", ">=", "<=", "==", "!=", ">_u", "<_u", ">=_u", "<=_u"}

// IsUnsigned determines whether this comparison is explicitly unsigned.
func (p CompOp) IsUnsigned() bool {
	return p >= GTU
}

func (p CompOp) String() string {
	return compOpSymbols[p]
}

// BoolLit is a boolean literal.
type BoolLit struct {
	Value bool
}

// Operands implementation for the BExpr interface.
func (p *BoolLit) Operands() []VExpr { return nil }

func (p *BoolLit) String() string { return fmt.Sprintf("%t", p.Value) }

// BOpApp applies a boolean operator to one (negation and quantifiers) or two
// operands.
type BOpApp struct {
	Op   BoolOp
	Args []BExpr
}

// Operands implementation for the BExpr interface.
func (p *BOpApp) Operands() []VExpr { return nil }

func (p *BOpApp) String() string {
	switch p.Op.Kind {
	case NEG:
		return fmt.Sprintf("!%s", p.Args[0].String())
	case FORALL, EXISTS:
		return fmt.Sprintf("(%s (%s: %s) :: %s)", p.Op.String(), p.Op.Var.Name, p.Op.BoundType().String(),
			p.Args[0].String())
	default:
		return fmt.Sprintf("(%s %s %s)", p.Args[0].String(), p.Op.String(), p.Args[1].String())
	}
}

// COpApp compares two value expressions.
type COpApp struct {
	Op    CompOp
	Left  VExpr
	Right VExpr
}

// Operands implementation for the BExpr interface.
func (p *COpApp) Operands() []VExpr { return []VExpr{p.Left, p.Right} }

func (p *COpApp) String() string {
	return fmt.Sprintf("%s %s %s", p.Left.String(), p.Op.String(), p.Right.String())
}
