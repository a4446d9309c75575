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

// Package lex provides scanner combinators, along with a rule-driven lexer
// which turns a sequence of items (typically runes) into tagged tokens.
package lex

import (
	"slices"

	"github.com/consensys/go-speclang/pkg/util/source"
)

// Token associates a piece of information with a given range of characters in
// the string being scanned.
type Token struct {
	Kind uint
	Span source.Span
}

// LexRule is simply a rule for associating groups of characters with a given
// tag.
//
// nolint
type LexRule[T any] struct {
	scanner Scanner[T]
	tag     uint
}

// Rule constructs a new lexing rule which maps matching characters to a given
// tag.
func Rule[T any](scanner Scanner[T], tag uint) LexRule[T] {
	return LexRule[T]{scanner, tag}
}

// Lexer provides a top-level construct for tokenising a given input string.
// Rules are tried in the order given, and the first rule which matches wins.
// Hence, rules for longer operators must precede those for their prefixes.
// Tokens whose tags are discarded (e.g. whitespace and comments) are consumed
// but never returned.
type Lexer[T any] struct {
	items   []T
	index   int
	rules   []LexRule[T]
	discard []uint
	buffer  []Token
}

// NewLexer constructs a new lexer with a given set of lexing rules.
func NewLexer[T any](input []T, rules ...LexRule[T]) *Lexer[T] {
	return &Lexer[T]{input, 0, rules, nil, nil}
}

// Discard tokens with any of the given tags.  This returns the lexer itself,
// so that it can be chained with construction.
func (p *Lexer[T]) Discard(tags ...uint) *Lexer[T] {
	p.discard = append(p.discard, tags...)
	return p
}

// Index returns the current index within the items array.
func (p *Lexer[T]) Index() uint {
	return uint(p.index)
}

// Remaining determines how many characters from the original sequence were
// left.
func (p *Lexer[T]) Remaining() uint {
	return uint(max(0, len(p.items)-p.index))
}

// Unmatched returns the span of items left over when lexing stopped because
// no rule matched, or false if the entire input was consumed.
func (p *Lexer[T]) Unmatched() (source.Span, bool) {
	if p.Remaining() == 0 {
		return source.Span{}, false
	}
	//
	return source.NewSpan(p.index, len(p.items)), true
}

// HasNext checks whether or not there are any items remaining to visit.
func (p *Lexer[T]) HasNext() bool {
	p.scan()
	return len(p.buffer) > 0
}

// Next returns the next item and advances the lexer.
func (p *Lexer[T]) Next() Token {
	next := p.buffer[0]
	p.buffer = p.buffer[1:]
	p.advance(next)
	//
	return next
}

// Collect is a convenience function which parses all remaining tokens in one
// go, producing an array of tokens.
func (p *Lexer[T]) Collect() []Token {
	var tokens []Token
	// Keep scanning
	for p.HasNext() {
		tokens = append(tokens, p.Next())
	}
	//
	return tokens
}

// Fill the buffer with the next token which is not discarded, if any.
func (p *Lexer[T]) scan() {
	for len(p.buffer) == 0 && p.index <= len(p.items) {
		token, ok := p.match()
		//
		if !ok {
			return
		} else if slices.Contains(p.discard, token.Kind) {
			p.advance(token)
		} else {
			p.buffer = append(p.buffer, token)
		}
	}
}

// Apply the first rule which matches at the current position.
func (p *Lexer[T]) match() (Token, bool) {
	for _, r := range p.rules {
		if n := r.scanner(p.items[p.index:]); n > 0 {
			end := min(len(p.items), p.index+int(n))
			return Token{r.tag, source.NewSpan(p.index, end)}, true
		}
	}
	//
	return Token{}, false
}

// Move past a given token.  The end-of-file token is empty, hence stepping
// past it moves beyond the end of the input.
func (p *Lexer[T]) advance(token Token) {
	if p.index == len(p.items) {
		p.index++
	} else {
		p.index = token.Span.End()
	}
}
