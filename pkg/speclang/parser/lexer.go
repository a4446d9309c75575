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
	"regexp"

	"github.com/consensys/go-speclang/pkg/util/source"
	"github.com/consensys/go-speclang/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace
const WHITESPACE uint = 1

// COMMENT signals "// ... \n"
const COMMENT uint = 2

// LBRACE signals "("
const LBRACE uint = 3

// RBRACE signals ")"
const RBRACE uint = 4

// LCURLY signals "{"
const LCURLY uint = 5

// RCURLY signals "}"
const RCURLY uint = 6

// LSQUARE signals "["
const LSQUARE uint = 7

// RSQUARE signals "]"
const RSQUARE uint = 8

// COMMA signals ","
const COMMA uint = 9

// COLON signals ":"
const COLON uint = 10

// COLON_COLON signals "::"
const COLON_COLON uint = 11

// SEMICOLON signals ";"
const SEMICOLON uint = 12

// DOT signals "."
const DOT uint = 13

// NUMBER signals an integer number
const NUMBER uint = 14

// BV_LITERAL signals a bit-vector literal, such as "1bv8"
const BV_LITERAL uint = 15

// BV_TYPE signals a bit-vector type, such as "bv32"
const BV_TYPE uint = 16

// IDENTIFIER signals a variable, field or function name
const IDENTIFIER uint = 17

// SYSTEM_IDENTIFIER signals a system entity, such as "$pc"
const SYSTEM_IDENTIFIER uint = 18

// KEYWORD_FUN signals the start of a function specification
const KEYWORD_FUN uint = 20

// KEYWORD_ENSURES signals a postcondition
const KEYWORD_ENSURES uint = 21

// KEYWORD_REQUIRES signals a precondition
const KEYWORD_REQUIRES uint = 22

// KEYWORD_MODIFIES signals a modifies clause
const KEYWORD_MODIFIES uint = 23

// KEYWORD_TRACK signals a track clause
const KEYWORD_TRACK uint = 24

// KEYWORD_FORALL signals universal quantification
const KEYWORD_FORALL uint = 25

// KEYWORD_EXISTS signals existential quantification
const KEYWORD_EXISTS uint = 26

// KEYWORD_TRUE signals "true"
const KEYWORD_TRUE uint = 27

// KEYWORD_FALSE signals "false"
const KEYWORD_FALSE uint = 28

// KEYWORD_OLD signals the builtin "old"
const KEYWORD_OLD uint = 29

// KEYWORD_SEXT signals the builtin "sext"
const KEYWORD_SEXT uint = 30

// KEYWORD_UEXT signals the builtin "uext"
const KEYWORD_UEXT uint = 31

// OR signals "||"
const OR uint = 40

// AND signals "&&"
const AND uint = 41

// IMPLIES signals "==>"
const IMPLIES uint = 42

// NOT signals "!"
const NOT uint = 43

// EQUALS_EQUALS signals "=="
const EQUALS_EQUALS uint = 60

// NOT_EQUALS signals "!="
const NOT_EQUALS uint = 61

// LESS_THAN signals "<"
const LESS_THAN uint = 62

// LESS_THAN_EQUALS signals "<="
const LESS_THAN_EQUALS uint = 63

// GREATER_THAN signals ">"
const GREATER_THAN uint = 64

// GREATER_THAN_EQUALS signals ">="
const GREATER_THAN_EQUALS uint = 65

// LESS_THAN_U signals "<_u"
const LESS_THAN_U uint = 66

// LESS_THAN_EQUALS_U signals "<=_u"
const LESS_THAN_EQUALS_U uint = 67

// GREATER_THAN_U signals ">_u"
const GREATER_THAN_U uint = 68

// GREATER_THAN_EQUALS_U signals ">=_u"
const GREATER_THAN_EQUALS_U uint = 69

// ADD signals "+"
const ADD uint = 80

// SUB signals "-"
const SUB uint = 81

// XOR signals "^"
const XOR uint = 82

// BITWISE_AND signals "&"
const BITWISE_AND uint = 83

// BITWISE_OR signals "|"
const BITWISE_OR uint = 84

// DIV signals "/"
const DIV uint = 85

// MUL signals "*"
const MUL uint = 86

// SHIFT_RIGHT signals ">>"
const SHIFT_RIGHT uint = 87

// USHIFT_RIGHT signals ">>>"
const USHIFT_RIGHT uint = 88

// SHIFT_LEFT signals "<<"
const SHIFT_LEFT uint = 89

// CONCAT signals "++"
const CONCAT uint = 90

// Keywords are lexed as identifiers, and then reclassified.  This prevents
// identifiers such as "oldest" being split.
var keywords = map[string]uint{
	"fun":      KEYWORD_FUN,
	"ensures":  KEYWORD_ENSURES,
	"requires": KEYWORD_REQUIRES,
	"modifies": KEYWORD_MODIFIES,
	"track":    KEYWORD_TRACK,
	"forall":   KEYWORD_FORALL,
	"exists":   KEYWORD_EXISTS,
	"true":     KEYWORD_TRUE,
	"false":    KEYWORD_FALSE,
	"old":      KEYWORD_OLD,
	"sext":     KEYWORD_SEXT,
	"uext":     KEYWORD_UEXT,
}

var bvType = regexp.MustCompile(`^bv[0-9]+$`)

var whitespace lex.Scanner[rune] = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\n'), lex.Unit('\r')))

var (
	decimalDigit = lex.Within('0', '9')
	hexDigit     = lex.Or(
		lex.Within('0', '9'),
		lex.Within('A', 'F'),
		lex.Within('a', 'f'),
	)
	// Numbers lack a sign, since negation is handled by the parser.
	unsigned = lex.Or(
		lex.Sequence(lex.String("0x"), hexDigit, lex.Many(hexDigit)),
		lex.Sequence(decimalDigit, lex.Many(decimalDigit)),
	)
	// Width suffix of a bit-vector literal
	bvSuffix = lex.Sequence(lex.String("bv"), decimalDigit, lex.Many(decimalDigit))
)

var identifierStart lex.Scanner[rune] = lex.Or(
	lex.Unit('_'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierChar lex.Scanner[rune] = lex.Or(
	lex.Unit('_'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

// Rule for describing identifiers
var identifier lex.Scanner[rune] = lex.And(identifierStart, lex.Many(identifierChar))

// Rule for describing system identifiers
var systemIdentifier lex.Scanner[rune] = lex.Sequence(lex.Unit('$'), identifier)

// Numbers cannot run into identifiers, hence "12ab" is not lexed.
var number lex.Scanner[rune] = lex.Followed(unsigned, identifierChar)

// Comments start with '//' and continue until a newline or EOF.
var comment lex.Scanner[rune] = lex.And(lex.String("//"), lex.Until('\n'))

// Bit-vector literals are a number immediately followed by a width suffix.
// Since 'b' is a hex digit, the number is shortened until a suffix is found.
func bitVector(items []rune) uint {
	for n := unsigned(items); n > 0; n-- {
		if unsigned(items[:n]) != n {
			// Not a complete number (e.g. "0x")
			continue
		} else if m := lex.Followed(bvSuffix, identifierChar)(items[n:]); m > 0 {
			return n + m
		}
	}
	//
	return 0
}

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(comment, COMMENT),
	lex.Rule(lex.Unit('('), LBRACE),
	lex.Rule(lex.Unit(')'), RBRACE),
	lex.Rule(lex.Unit('{'), LCURLY),
	lex.Rule(lex.Unit('}'), RCURLY),
	lex.Rule(lex.Unit('['), LSQUARE),
	lex.Rule(lex.Unit(']'), RSQUARE),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.String("::"), COLON_COLON),
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(lex.Unit(';'), SEMICOLON),
	lex.Rule(lex.Unit('.'), DOT),
	lex.Rule(lex.String("||"), OR),
	lex.Rule(lex.String("&&"), AND),
	lex.Rule(lex.String("==>"), IMPLIES),
	lex.Rule(lex.String("=="), EQUALS_EQUALS),
	lex.Rule(lex.String("!="), NOT_EQUALS),
	lex.Rule(lex.Unit('!'), NOT),
	lex.Rule(lex.String(">>>"), USHIFT_RIGHT),
	lex.Rule(lex.String(">>"), SHIFT_RIGHT),
	lex.Rule(lex.String(">=_u"), GREATER_THAN_EQUALS_U),
	lex.Rule(lex.String(">="), GREATER_THAN_EQUALS),
	lex.Rule(lex.String(">_u"), GREATER_THAN_U),
	lex.Rule(lex.Unit('>'), GREATER_THAN),
	lex.Rule(lex.String("<<"), SHIFT_LEFT),
	lex.Rule(lex.String("<=_u"), LESS_THAN_EQUALS_U),
	lex.Rule(lex.String("<="), LESS_THAN_EQUALS),
	lex.Rule(lex.String("<_u"), LESS_THAN_U),
	lex.Rule(lex.Unit('<'), LESS_THAN),
	lex.Rule(lex.String("++"), CONCAT),
	lex.Rule(lex.Unit('+'), ADD),
	lex.Rule(lex.Unit('-'), SUB),
	lex.Rule(lex.Unit('^'), XOR),
	lex.Rule(lex.Unit('&'), BITWISE_AND),
	lex.Rule(lex.Unit('|'), BITWISE_OR),
	lex.Rule(lex.Unit('/'), DIV),
	lex.Rule(lex.Unit('*'), MUL),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(lex.Scanner[rune](bitVector), BV_LITERAL),
	lex.Rule(number, NUMBER),
	lex.Rule(systemIdentifier, SYSTEM_IDENTIFIER),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Lex a given source file into a sequence of zero or more tokens, along with
// any syntax errors arising.  Whitespace and comments are removed, and the
// final token is always END_OF.
func Lex(srcfile *source.File) ([]lex.Token, []source.SyntaxError) {
	var (
		contents = srcfile.Contents()
		lexer    = lex.NewLexer(contents, rules...).Discard(WHITESPACE, COMMENT)
		// Lex as many tokens as possible
		tokens = lexer.Collect()
	)
	// Check whether anything was left (if so this is an error)
	if span, ok := lexer.Unmatched(); ok {
		err := srcfile.SyntaxError(span, "unknown text encountered")
		// errors
		return nil, []source.SyntaxError{*err}
	}
	// Reclassify keywords and types
	for i, t := range tokens {
		if t.Kind == IDENTIFIER {
			text := srcfile.Text(t.Span)
			//
			if kind, ok := keywords[text]; ok {
				tokens[i].Kind = kind
			} else if bvType.MatchString(text) {
				tokens[i].Kind = BV_TYPE
			}
		}
	}
	// Done
	return tokens, nil
}
