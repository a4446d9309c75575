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
	"slices"

	"github.com/consensys/go-speclang/pkg/speclang/ast"
	"github.com/consensys/go-speclang/pkg/speclang/catalogue"
	"github.com/consensys/go-speclang/pkg/speclang/sysmodel"
	"github.com/consensys/go-speclang/pkg/speclang/typing"
	"github.com/consensys/go-speclang/pkg/util/collection/set"
	"github.com/consensys/go-speclang/pkg/util/source"
	"github.com/consensys/go-speclang/pkg/util/source/lex"
)

// Config determines how expressions are elaborated during parsing.
type Config struct {
	// Xlen is the word width of the machine (in bits).
	Xlen uint
	// Catalogue of types for the binary being specified.  When this is nil,
	// parsing is untyped: every node is given an unknown type and no implicit
	// dereferences are inserted.
	Catalogue catalogue.Catalogue
	// Model of the machine.  When this is nil, the RISC-V model is used.
	Model sysmodel.Model
}

// Environment constructs the elaboration environment described by this
// configuration.
func (c Config) Environment() *typing.Environment {
	if c.Catalogue == nil {
		return typing.NewUntypedEnvironment(c.Xlen)
	}
	//
	return typing.NewEnvironment(c.Xlen, c.Catalogue, c.Model)
}

// SourceFile captures a specification file which has been successfully parsed
// and elaborated.
type SourceFile struct {
	// Function specifications in the order they were given.
	Functions []*ast.FuncSpec
	// Mapping of nodes back to the source file.
	SourceMap *source.Map[any]
}

// Parse accepts a given source file containing zero or more function
// specifications, and elaborates them under a given configuration.  Parsing
// stops at the first error encountered.
func Parse(srcfile *source.File, config Config) (SourceFile, []Error) {
	parser := NewParser(srcfile, config.Environment())
	//
	return parser.Parse()
}

// ============================================================================
// Parser
// ============================================================================

// Parser is a parser for specifications.  Each parser owns its own session
// state (i.e. the current function), hence independent parsers can be used
// concurrently.
type Parser struct {
	srcfile *source.File
	tokens  []lex.Token
	// Source mapping
	srcmap *source.Map[any]
	// Position within the tokens
	index int
	// Elaboration environment
	env *typing.Environment
}

// NewParser constructs a new parser for a given source file, which elaborates
// expressions in a given environment.
func NewParser(srcfile *source.File, env *typing.Environment) *Parser {
	// Construct (initially empty) source mapping
	srcmap := source.NewSourceMap[any](srcfile)
	//
	return &Parser{srcfile, nil, srcmap, 0, env}
}

// SourceMap returns the mapping from nodes constructed by this parser back to
// the source file.
func (p *Parser) SourceMap() *source.Map[any] {
	return p.srcmap
}

// Parse the given source file into a sequence of zero or more function
// specifications.
func (p *Parser) Parse() (SourceFile, []Error) {
	var (
		item   SourceFile
		errors []Error
		fn     *ast.FuncSpec
	)
	// Convert source file into tokens
	if errors = p.lex(); len(errors) > 0 {
		return item, errors
	}
	// Continue going until all consumed
	for p.lookahead().Kind != END_OF {
		if fn, errors = p.parseFuncSpec(); len(errors) > 0 {
			return item, errors
		}
		//
		item.Functions = append(item.Functions, fn)
	}
	// Copy over source map
	item.SourceMap = p.srcmap
	//
	return item, nil
}

// ParseSpecs parses a sequence of zero or more clauses (i.e. the body of a
// function specification without its enclosing braces), for a given function.
func (p *Parser) ParseSpecs(function string) ([]ast.Spec, []Error) {
	var (
		specs  []ast.Spec
		spec   ast.Spec
		errors []Error
	)
	//
	if errors = p.lex(); len(errors) > 0 {
		return nil, errors
	}
	//
	p.env.EnterFunction(function)
	//
	for p.lookahead().Kind != END_OF {
		if spec, errors = p.parseSpec(); len(errors) > 0 {
			return nil, errors
		}
		//
		specs = append(specs, spec)
	}
	//
	return specs, nil
}

// ParseBExpr parses a single boolean expression for a given function.
func (p *Parser) ParseBExpr(function string) (ast.BExpr, []Error) {
	var (
		expr   ast.BExpr
		errors []Error
	)
	//
	if errors = p.lex(); len(errors) > 0 {
		return nil, errors
	}
	//
	p.env.EnterFunction(function)
	//
	if expr, errors = p.parseBExpr(); len(errors) > 0 {
		return nil, errors
	} else if _, errors = p.expect(END_OF); len(errors) > 0 {
		return nil, errors
	}
	//
	return expr, nil
}

// ParseVExpr parses a single value expression for a given function.
func (p *Parser) ParseVExpr(function string) (ast.VExpr, []Error) {
	var (
		expr   ast.VExpr
		errors []Error
	)
	//
	if errors = p.lex(); len(errors) > 0 {
		return nil, errors
	}
	//
	p.env.EnterFunction(function)
	//
	if expr, errors = p.parseVExpr(); len(errors) > 0 {
		return nil, errors
	} else if _, errors = p.expect(END_OF); len(errors) > 0 {
		return nil, errors
	}
	//
	return expr, nil
}

func (p *Parser) lex() []Error {
	if p.tokens == nil {
		tokens, errs := Lex(p.srcfile)
		//
		if len(errs) > 0 {
			return lexicalErrors(errs)
		}
		//
		p.tokens = tokens
	}
	//
	return nil
}

func (p *Parser) parseFuncSpec() (*ast.FuncSpec, []Error) {
	var (
		start  = p.index
		name   string
		spec   ast.Spec
		specs  []ast.Spec
		errors []Error
	)
	//
	if _, errors = p.expect(KEYWORD_FUN); len(errors) > 0 {
		return nil, errors
	} else if name, errors = p.parseIdentifier(); len(errors) > 0 {
		return nil, errors
	}
	// Identifiers within the block are resolved against this function.
	p.env.EnterFunction(name)
	//
	if _, errors = p.expect(LCURLY); len(errors) > 0 {
		return nil, errors
	}
	//
	for !p.match(RCURLY) {
		if spec, errors = p.parseSpec(); len(errors) > 0 {
			return nil, errors
		}
		//
		specs = append(specs, spec)
	}
	//
	fn := &ast.FuncSpec{Name: name, Specs: specs}
	p.srcmap.Put(fn, p.spanOf(start, p.index-1))
	//
	return fn, nil
}

func (p *Parser) parseSpec() (ast.Spec, []Error) {
	var (
		start     = p.index
		lookahead = p.lookahead()
		spec      ast.Spec
		cond      ast.BExpr
		errors    []Error
	)
	//
	switch lookahead.Kind {
	case KEYWORD_REQUIRES:
		p.match(KEYWORD_REQUIRES)
		//
		if cond, errors = p.parseBExpr(); len(errors) == 0 {
			spec = &ast.Requires{Cond: cond}
		}
	case KEYWORD_ENSURES:
		p.match(KEYWORD_ENSURES)
		//
		if cond, errors = p.parseBExpr(); len(errors) == 0 {
			spec = &ast.Ensures{Cond: cond}
		}
	case KEYWORD_MODIFIES:
		spec, errors = p.parseModifies()
	case KEYWORD_TRACK:
		spec, errors = p.parseTrack()
	case END_OF:
		return nil, p.syntaxErrors(lookahead, "unexpected end of file")
	default:
		return nil, p.syntaxErrors(lookahead, "unknown clause")
	}
	//
	if len(errors) > 0 {
		return nil, errors
	} else if _, errors = p.expect(SEMICOLON); len(errors) > 0 {
		return nil, errors
	}
	//
	p.srcmap.Put(spec, p.spanOf(start, p.index-1))
	//
	return spec, nil
}

// Parse "modifies a, b, c".  Duplicate names are collapsed.
func (p *Parser) parseModifies() (ast.Spec, []Error) {
	var (
		names = set.NewSortedSet[string]()
		token lex.Token
		errs  []Error
	)
	//
	p.match(KEYWORD_MODIFIES)
	//
	for first := true; first || p.match(COMMA); first = false {
		if !p.follows(IDENTIFIER, SYSTEM_IDENTIFIER) {
			return nil, p.syntaxErrors(p.lookahead(), "expected identifier")
		} else if token, errs = p.expect(p.lookahead().Kind); len(errs) > 0 {
			return nil, errs
		}
		//
		names.Insert(p.string(token))
	}
	//
	return &ast.Modifies{Names: names}, nil
}

// Parse "track [name] e".
func (p *Parser) parseTrack() (ast.Spec, []Error) {
	var (
		name string
		expr ast.VExpr
		errs []Error
	)
	//
	p.match(KEYWORD_TRACK)
	//
	if _, errs = p.expect(LSQUARE); len(errs) > 0 {
		return nil, errs
	} else if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(RSQUARE); len(errs) > 0 {
		return nil, errs
	} else if expr, errs = p.parseVExpr(); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.Track{Name: name, Expr: expr}, nil
}

func (p *Parser) parseIdentifier() (string, []Error) {
	tok, errs := p.expect(IDENTIFIER)
	//
	if len(errs) > 0 {
		return "", errs
	}
	//
	return p.string(tok), nil
}

// Get the text representing the given token as a string.
func (p *Parser) string(token lex.Token) string {
	return p.srcfile.Text(token.Span)
}

// Lookahead returns the next token.  This must exist because EOF is always
// appended at the end of the token stream.
func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

// Peek returns the token at a given index, or the final (EOF) token if the
// index is beyond the end of the stream.
func (p *Parser) peek(index int) lex.Token {
	return p.tokens[min(index, len(p.tokens)-1)]
}

// Expect returns an error if the next token is not what was expected.
func (p *Parser) expect(kind uint) (lex.Token, []Error) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		errs := p.syntaxErrors(lookahead, "unexpected token")
		return lookahead, errs
	}
	//
	p.index++
	//
	return lookahead, nil
}

// Match attempts to match the given token.
func (p *Parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

// Follows checks whether one of the given token kinds is next.
func (p *Parser) follows(options ...uint) bool {
	return slices.Contains(options, p.lookahead().Kind)
}

func (p *Parser) spanOf(firstToken, lastToken int) source.Span {
	//
	start := p.tokens[firstToken].Span.Start()
	end := p.tokens[lastToken].Span.End()
	//
	return source.NewSpan(start, end)
}

func (p *Parser) syntaxErrors(token lex.Token, msg string) []Error {
	err := p.srcfile.SyntaxError(token.Span, msg)
	//
	return []Error{{SyntaxError: *err, Kind: SYNTAX}}
}

// Report a failed elaboration for the construct spanning from a given token to
// the last token consumed.
func (p *Parser) resolutionErrors(start int, err *typing.Error) []Error {
	span := p.spanOf(start, max(start, p.index-1))
	//
	return []Error{ResolutionError(p.srcfile, span, err)}
}
