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
package parser

import (
	"strconv"
	"strings"

	"github.com/consensys/go-speclang/pkg/speclang/ast"
	"github.com/consensys/go-speclang/pkg/speclang/typing"
)

// Binary value operators, grouped by precedence (lowest first).  All operators
// at a given level are left-associative.
var (
	level1Ops = []uint{ADD, SUB, XOR, BITWISE_AND, BITWISE_OR}
	level2Ops = []uint{DIV, MUL, SHIFT_RIGHT, USHIFT_RIGHT, SHIFT_LEFT, CONCAT}
)

var binaryOps = map[uint]ast.ValueOpKind{
	ADD:          ast.ADD,
	SUB:          ast.SUB,
	XOR:          ast.BVXOR,
	BITWISE_AND:  ast.BVAND,
	BITWISE_OR:   ast.BVOR,
	DIV:          ast.DIV,
	MUL:          ast.MUL,
	SHIFT_RIGHT:  ast.RSHIFT,
	USHIFT_RIGHT: ast.URSHIFT,
	SHIFT_LEFT:   ast.LSHIFT,
	CONCAT:       ast.CONCAT,
}

var comparators = map[uint]ast.CompOp{
	EQUALS_EQUALS:         ast.EQUAL,
	NOT_EQUALS:            ast.NEQUAL,
	LESS_THAN:             ast.LT,
	LESS_THAN_EQUALS:      ast.LEQ,
	GREATER_THAN:          ast.GT,
	GREATER_THAN_EQUALS:   ast.GEQ,
	LESS_THAN_U:           ast.LTU,
	LESS_THAN_EQUALS_U:    ast.LEU,
	GREATER_THAN_U:        ast.GTU,
	GREATER_THAN_EQUALS_U: ast.GEU,
}

var connectives = map[uint]ast.BoolOpKind{
	OR:      ast.DISJ,
	AND:     ast.CONJ,
	IMPLIES: ast.IMPLIES,
}

// ============================================================================
// Boolean Expressions
// ============================================================================

// Parse a boolean expression.  The connectives "||", "&&" and "==>" share a
// single level and associate to the right.
func (p *Parser) parseBExpr() (ast.BExpr, []Error) {
	var (
		start    = p.index
		lhs, rhs ast.BExpr
		errs     []Error
	)
	//
	if lhs, errs = p.parseBExpr2(); len(errs) > 0 {
		return nil, errs
	}
	//
	kind, ok := connectives[p.lookahead().Kind]
	if !ok {
		return lhs, nil
	}
	// Consume connective
	p.index++
	//
	if rhs, errs = p.parseBExpr(); len(errs) > 0 {
		return nil, errs
	}
	//
	node := &ast.BOpApp{Op: ast.BoolOp{Kind: kind}, Args: []ast.BExpr{lhs, rhs}}
	p.srcmap.Put(node, p.spanOf(start, p.index-1))
	//
	return node, nil
}

func (p *Parser) parseBExpr2() (ast.BExpr, []Error) {
	var (
		start     = p.index
		lookahead = p.lookahead()
	)
	//
	switch lookahead.Kind {
	case NOT:
		p.match(NOT)
		//
		arg, errs := p.parseBExpr2()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		node := &ast.BOpApp{Op: ast.BoolOp{Kind: ast.NEG}, Args: []ast.BExpr{arg}}
		p.srcmap.Put(node, p.spanOf(start, p.index-1))
		//
		return node, nil
	case KEYWORD_FORALL, KEYWORD_EXISTS:
		return p.parseQuantifier()
	case KEYWORD_TRUE, KEYWORD_FALSE:
		// A boolean literal may also be the operand of a comparison.
		if !p.startsComparison(p.index + 1) {
			p.index++
			//
			node := &ast.BoolLit{Value: lookahead.Kind == KEYWORD_TRUE}
			p.srcmap.Put(node, p.spanOf(start, start))
			//
			return node, nil
		}
	case LBRACE:
		// Distinguish a bracketed boolean expression from a bracketed value
		// expression by what follows the closing brace.
		if end := p.matchingBrace(p.index); !p.startsComparison(end + 1) {
			p.match(LBRACE)
			//
			expr, errs := p.parseBExpr()
			if len(errs) > 0 {
				return nil, errs
			} else if _, errs = p.expect(RBRACE); len(errs) > 0 {
				return nil, errs
			}
			//
			return expr, nil
		}
	}
	//
	return p.parseComparison()
}

// Parse "forall (x: bvN) :: body" or "exists (x: bvN) :: body".  The bound
// variable is in scope only within the body.
func (p *Parser) parseQuantifier() (ast.BExpr, []Error) {
	var (
		start = p.index
		kind  = ast.EXISTS
		body  ast.BExpr
		errs  []Error
	)
	//
	if p.lookahead().Kind == KEYWORD_FORALL {
		kind = ast.FORALL
	}
	// Consume quantifier
	p.index++
	//
	if _, errs = p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	nameIndex := p.index
	//
	name, errs := p.parseIdentifier()
	if len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(COLON); len(errs) > 0 {
		return nil, errs
	}
	//
	width, errs := p.parseBvType()
	if len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(RBRACE); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(COLON_COLON); len(errs) > 0 {
		return nil, errs
	}
	//
	variable, err := p.env.Bind(name, width)
	if err != nil {
		return nil, p.resolutionErrors(start, err)
	}
	//
	p.srcmap.Put(variable, p.spanOf(nameIndex, nameIndex))
	body, errs = p.parseBExpr2()
	p.env.Unbind()
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	node := &ast.BOpApp{Op: ast.BoolOp{Kind: kind, Var: variable}, Args: []ast.BExpr{body}}
	p.srcmap.Put(node, p.spanOf(start, p.index-1))
	//
	return node, nil
}

// Parse a bit-vector type "bvN", returning its width.
func (p *Parser) parseBvType() (uint, []Error) {
	token, errs := p.expect(BV_TYPE)
	if len(errs) > 0 {
		return 0, errs
	}
	//
	width, err := strconv.ParseUint(p.string(token)[2:], 10, 16)
	if err != nil {
		return 0, p.syntaxErrors(token, "invalid bit-vector width")
	}
	//
	return uint(width), nil
}

func (p *Parser) parseComparison() (ast.BExpr, []Error) {
	var (
		start    = p.index
		lhs, rhs ast.VExpr
		errs     []Error
	)
	//
	if lhs, errs = p.parseVExpr(); len(errs) > 0 {
		return nil, errs
	}
	//
	op, ok := comparators[p.lookahead().Kind]
	if !ok {
		return nil, p.syntaxErrors(p.lookahead(), "expected comparison")
	}
	// Consume comparator
	p.index++
	//
	if rhs, errs = p.parseVExpr(); len(errs) > 0 {
		return nil, errs
	}
	//
	node, err := p.env.Compare(op, lhs, rhs)
	if err != nil {
		return nil, p.resolutionErrors(start, err)
	}
	//
	p.srcmap.Put(node, p.spanOf(start, p.index-1))
	//
	return node, nil
}

// Determine whether the token at a given index continues a value expression
// into a comparison.
func (p *Parser) startsComparison(index int) bool {
	kind := p.peek(index).Kind
	//
	if _, ok := binaryOps[kind]; ok {
		return true
	} else if _, ok := comparators[kind]; ok {
		return true
	}
	//
	return kind == LSQUARE || kind == DOT
}

// Find the index of the brace matching the opening brace at a given index.  If
// there is none, the index of the final token is returned.
func (p *Parser) matchingBrace(index int) int {
	var depth = 0
	//
	for ; index < len(p.tokens); index++ {
		switch p.tokens[index].Kind {
		case LBRACE:
			depth++
		case RBRACE:
			if depth--; depth == 0 {
				return index
			}
		}
	}
	//
	return len(p.tokens) - 1
}

// ============================================================================
// Value Expressions
// ============================================================================

func (p *Parser) parseVExpr() (ast.VExpr, []Error) {
	return p.parseInfix(level1Ops, p.parseVExpr2)
}

func (p *Parser) parseVExpr2() (ast.VExpr, []Error) {
	return p.parseInfix(level2Ops, p.parsePostfix)
}

// Parse a left-associative sequence of operands separated by operators from a
// given set.
func (p *Parser) parseInfix(ops []uint, operand func() (ast.VExpr, []Error)) (ast.VExpr, []Error) {
	var (
		start    = p.index
		lhs, rhs ast.VExpr
		errs     []Error
	)
	//
	if lhs, errs = operand(); len(errs) > 0 {
		return nil, errs
	}
	//
	for p.follows(ops...) {
		op := binaryOps[p.lookahead().Kind]
		p.index++
		//
		if rhs, errs = operand(); len(errs) > 0 {
			return nil, errs
		}
		//
		node, err := p.env.Binary(op, lhs, rhs)
		if err != nil {
			return nil, p.resolutionErrors(start, err)
		}
		//
		p.srcmap.Put(node, p.spanOf(start, p.index-1))
		lhs = node
	}
	//
	return lhs, nil
}

// Parse a term followed by zero or more selectors, i.e. slices "e[hi:lo]",
// indices "e[i]" or field accesses "e.f".
func (p *Parser) parsePostfix() (ast.VExpr, []Error) {
	var (
		start = p.index
		expr  ast.VExpr
		errs  []Error
		err   *typing.Error
	)
	//
	if expr, errs = p.parseTerm(); len(errs) > 0 {
		return nil, errs
	}
	//
	for p.follows(LSQUARE, DOT) {
		if p.match(DOT) {
			var field string
			//
			if field, errs = p.parseIdentifier(); len(errs) > 0 {
				return nil, errs
			}
			//
			expr, err = p.env.GetField(expr, field)
		} else if p.match(LSQUARE) && p.isSlice() {
			var hi, lo uint16
			//
			if hi, errs = p.parseSliceBound(); len(errs) > 0 {
				return nil, errs
			} else if _, errs = p.expect(COLON); len(errs) > 0 {
				return nil, errs
			} else if lo, errs = p.parseSliceBound(); len(errs) > 0 {
				return nil, errs
			} else if _, errs = p.expect(RSQUARE); len(errs) > 0 {
				return nil, errs
			}
			//
			expr, err = p.env.Slice(expr, hi, lo)
		} else {
			var index ast.VExpr
			//
			if index, errs = p.parseVExpr(); len(errs) > 0 {
				return nil, errs
			} else if _, errs = p.expect(RSQUARE); len(errs) > 0 {
				return nil, errs
			}
			//
			expr, err = p.env.ArrayIndex(expr, index)
		}
		//
		if err != nil {
			return nil, p.resolutionErrors(start, err)
		}
		//
		p.srcmap.Put(expr, p.spanOf(start, p.index-1))
	}
	//
	return expr, nil
}

// Determine whether the selector following an opening square brace is a slice
// "hi:lo", rather than an index.
func (p *Parser) isSlice() bool {
	return p.follows(NUMBER) && p.peek(p.index+1).Kind == COLON
}

func (p *Parser) parseSliceBound() (uint16, []Error) {
	token, errs := p.expect(NUMBER)
	if len(errs) > 0 {
		return 0, errs
	}
	//
	bound, err := strconv.ParseUint(p.string(token), 0, 16)
	if err != nil {
		return 0, p.syntaxErrors(token, "invalid slice bound")
	}
	//
	return uint16(bound), nil
}

func (p *Parser) parseTerm() (ast.VExpr, []Error) {
	var (
		start     = p.index
		lookahead = p.lookahead()
		term      ast.VExpr
		errs      []Error
	)
	//
	switch lookahead.Kind {
	case KEYWORD_TRUE, KEYWORD_FALSE:
		p.index++
		term = &ast.Bool{Value: lookahead.Kind == KEYWORD_TRUE}
	case SUB:
		p.index++
		term, errs = p.parseLiteral(true)
	case NUMBER, BV_LITERAL:
		term, errs = p.parseLiteral(false)
	case KEYWORD_OLD, KEYWORD_SEXT, KEYWORD_UEXT:
		return p.parseBuiltin()
	case MUL:
		p.index++
		//
		if !p.follows(IDENTIFIER, SYSTEM_IDENTIFIER) {
			return nil, p.syntaxErrors(p.lookahead(), "expected identifier")
		} else if term, errs = p.parseVariable(); len(errs) == 0 {
			term = p.env.ExplicitDeref(term)
		}
	case IDENTIFIER, SYSTEM_IDENTIFIER:
		return p.parseVariable()
	case LBRACE:
		p.match(LBRACE)
		//
		if term, errs = p.parseVExpr(); len(errs) > 0 {
			return nil, errs
		} else if _, errs = p.expect(RBRACE); len(errs) > 0 {
			return nil, errs
		}
		//
		return term, nil
	default:
		return nil, p.syntaxErrors(lookahead, "expected value expression")
	}
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	p.srcmap.Put(term, p.spanOf(start, p.index-1))
	//
	return term, nil
}

// Parse an integer or bit-vector literal.  A negated integer literal may reach
// the most negative 64-bit value.
func (p *Parser) parseLiteral(negate bool) (ast.VExpr, []Error) {
	var (
		lookahead = p.lookahead()
		text      = p.string(lookahead)
	)
	//
	switch lookahead.Kind {
	case NUMBER:
		p.index++
		//
		if negate {
			text = "-" + text
		}
		//
		value, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return nil, p.syntaxErrors(lookahead, "integer literal out of range")
		}
		//
		return &ast.Int{Value: value}, nil
	case BV_LITERAL:
		var (
			start = p.index
			split = strings.LastIndex(text, "bv")
		)
		//
		p.index++
		//
		value, err := strconv.ParseUint(text[:split], 0, 64)
		if err != nil {
			return nil, p.syntaxErrors(lookahead, "bit-vector literal out of range")
		}
		//
		width, err := strconv.ParseUint(text[split+2:], 10, 16)
		if err != nil {
			return nil, p.syntaxErrors(lookahead, "invalid bit-vector width")
		}
		//
		bv, terr := typing.BvLiteral(value, uint(width), negate)
		if terr != nil {
			return nil, p.resolutionErrors(start, terr)
		}
		//
		return bv, nil
	default:
		return nil, p.syntaxErrors(lookahead, "expected literal")
	}
}

// Parse an application of old, sext or uext.
func (p *Parser) parseBuiltin() (ast.VExpr, []Error) {
	var (
		start = p.index
		name  = p.string(p.lookahead())
		args  []ast.VExpr
		errs  []Error
	)
	// Consume name
	p.index++
	//
	if _, errs = p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	for first := true; first || p.match(COMMA); first = false {
		var arg ast.VExpr
		//
		if arg, errs = p.parseVExpr(); len(errs) > 0 {
			return nil, errs
		}
		//
		args = append(args, arg)
	}
	//
	if _, errs = p.expect(RBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	node, err := p.env.Builtin(name, args)
	if err != nil {
		return nil, p.resolutionErrors(start, err)
	}
	//
	p.srcmap.Put(node, p.spanOf(start, p.index-1))
	//
	return node, nil
}

// Parse a (possibly system) identifier, resolving it in the current
// environment.
func (p *Parser) parseVariable() (ast.VExpr, []Error) {
	var (
		token = p.lookahead()
		name  = p.string(token)
		expr  ast.VExpr
		err   *typing.Error
	)
	//
	p.index++
	//
	if token.Kind == SYSTEM_IDENTIFIER {
		expr, err = p.env.SystemIdentifier(name)
	} else {
		expr, err = p.env.Identifier(name)
	}
	//
	if err != nil {
		return nil, p.resolutionErrors(p.index-1, err)
	}
	//
	p.srcmap.Put(expr, p.spanOf(p.index-1, p.index-1))
	//
	return expr, nil
}
