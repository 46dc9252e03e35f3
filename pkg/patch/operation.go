// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package patch

import (
	"fmt"

	"github.com/walteh/patchrc/pkg/match"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidOperation is returned when an operation or plan fails validation.
var ErrInvalidOperation = errors.Base("invalid operation")

// ✏️ Operation is a single find-and-replace step. It is immutable once built.
type Operation struct {
	pattern     match.Pattern
	replacement string
	expect      int
	optional    bool
	description string
}

// OperationOption configures an Operation at construction.
type OperationOption func(*Operation)

// WithExpect sets how many occurrences the pattern must have. The default is 1.
func WithExpect(n int) OperationOption {
	return func(o *Operation) { o.expect = n }
}

// Optional marks the operation as skippable when its pattern has no matches.
func Optional() OperationOption {
	return func(o *Operation) { o.optional = true }
}

// WithOptional sets the optional flag explicitly.
func WithOptional(optional bool) OperationOption {
	return func(o *Operation) { o.optional = optional }
}

// WithDescription attaches a human-readable label used in reports.
func WithDescription(desc string) OperationOption {
	return func(o *Operation) { o.description = desc }
}

// NewOperation validates and builds an operation.
func NewOperation(pattern match.Pattern, replacement string, opts ...OperationOption) (Operation, error) {
	op := Operation{
		pattern:     pattern,
		replacement: replacement,
		expect:      1,
	}
	for _, opt := range opts {
		opt(&op)
	}

	if pattern.IsZero() {
		return Operation{}, errors.Errorf("%w: pattern is required", ErrInvalidOperation)
	}
	if op.expect < 1 {
		return Operation{}, errors.Errorf("%w: expected match count must be at least 1, got %d", ErrInvalidOperation, op.expect)
	}

	return op, nil
}

// Replace builds an exact-literal operation.
func Replace(find string, replacement string, opts ...OperationOption) (Operation, error) {
	p, err := match.Literal(find)
	if err != nil {
		return Operation{}, errors.Errorf("building literal pattern: %w", err)
	}
	return NewOperation(p, replacement, opts...)
}

// ReplaceRegex builds a regex operation. replacement may reference groups as $1 or ${name}.
func ReplaceRegex(expr string, flags string, replacement string, opts ...OperationOption) (Operation, error) {
	p, err := match.Regex(expr, flags)
	if err != nil {
		return Operation{}, errors.Errorf("building regex pattern: %w", err)
	}
	return NewOperation(p, replacement, opts...)
}

func (o Operation) Pattern() match.Pattern { return o.pattern }
func (o Operation) Replacement() string    { return o.replacement }
func (o Operation) Expect() int            { return o.expect }
func (o Operation) IsOptional() bool       { return o.optional }
func (o Operation) Description() string    { return o.description }

// Label is the description if set, otherwise a shortened form of the pattern.
func (o Operation) Label() string {
	if o.description != "" {
		return o.description
	}
	return fmt.Sprintf("%s %q", o.pattern.Mode(), abbreviate(o.pattern.Expr(), 40))
}

func abbreviate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
