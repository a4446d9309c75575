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
	"github.com/consensys/go-speclang/pkg/speclang/typing"
	"github.com/consensys/go-speclang/pkg/util/source"
)

// ErrorKind classifies the errors arising from parsing.
type ErrorKind uint8

const (
	// LEXICAL signals malformed text which does not form a token.
	LEXICAL ErrorKind = iota
	// SYNTAX signals a sequence of tokens which is not permitted by the
	// grammar.
	SYNTAX
	// RESOLUTION signals an expression which could not be elaborated, such as
	// a reference to an unknown variable.
	RESOLUTION
)

var errorKinds = []string{"lexical", "syntax", "resolution"}

func (k ErrorKind) String() string {
	return errorKinds[k]
}

// Error is a syntax error which additionally records its classification.
// Resolution errors also record the reason elaboration failed, and the
// offending name (if any).
type Error struct {
	source.SyntaxError
	Kind ErrorKind
	// Reason for a resolution error.
	Reason typing.ErrorKind
	// Offending name for a resolution error.
	Name string
}

func (p *Error) Error() string {
	return p.SyntaxError.Error()
}

// Unwrap returns the underlying syntax error.
func (p *Error) Unwrap() error {
	return &p.SyntaxError
}

func lexicalErrors(errs []source.SyntaxError) []Error {
	var errors = make([]Error, len(errs))
	//
	for i, err := range errs {
		errors[i] = Error{SyntaxError: err, Kind: LEXICAL}
	}
	//
	return errors
}

// ResolutionError constructs an error for a failed elaboration over a given
// span of a source file.
func ResolutionError(srcfile *source.File, span source.Span, err *typing.Error) Error {
	return Error{*srcfile.SyntaxError(span, err.Message), RESOLUTION, err.Kind, err.Name}
}
