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
package typing

import (
	"fmt"
)

// ErrorKind identifies the reason why elaboration failed.
type ErrorKind uint8

const (
	// UNKNOWN_SYSTEM_ENTITY signals a "$" identifier not in the system model.
	UNKNOWN_SYSTEM_ENTITY ErrorKind = iota
	// UNKNOWN_VARIABLE signals an identifier which is neither bound, a formal
	// of the current function nor a global.
	UNKNOWN_VARIABLE
	// NOT_A_STRUCT signals a field access on something other than a struct.
	NOT_A_STRUCT
	// UNKNOWN_FIELD signals a field access for a field which doesn't exist.
	UNKNOWN_FIELD
	// INVALID_FIELD_NAME signals a field name which is not alphanumeric.
	INVALID_FIELD_NAME
	// NOT_AN_ARRAY signals an index into something other than an array.
	NOT_AN_ARRAY
	// TYPE_MISMATCH signals operands whose types are incompatible with an
	// operator.
	TYPE_MISMATCH
	// INVALID_SLICE signals slice bounds outside the sliced bit-vector.
	INVALID_SLICE
	// INVALID_BUILTIN signals a malformed application of a builtin function.
	INVALID_BUILTIN
	// INVALID_LITERAL signals a literal which cannot be represented.
	INVALID_LITERAL
)

var errorKinds = []string{
	"unknown system entity",
	"unknown variable",
	"not a struct",
	"unknown field",
	"invalid field name",
	"not an array",
	"type mismatch",
	"invalid slice",
	"invalid builtin",
	"invalid literal",
}

func (k ErrorKind) String() string {
	return errorKinds[k]
}

// Error is returned when an expression cannot be elaborated.  It identifies
// the offending name (where there is one), but not its location.
type Error struct {
	Kind ErrorKind
	// Name of the offending identifier, field or function (if applicable).
	Name string
	// Message describing the error.
	Message string
}

func (p *Error) Error() string {
	return p.Message
}

func newError(kind ErrorKind, name string, format string, args ...any) *Error {
	return &Error{kind, name, fmt.Sprintf(format, args...)}
}
