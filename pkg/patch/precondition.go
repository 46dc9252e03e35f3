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
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidPrecondition is returned when a precondition expression does not compile.
var ErrInvalidPrecondition = errors.Base("invalid precondition")

// 🚦 Precondition is a boolean expression evaluated against the loaded document
// before a plan runs. Expressions see:
//
//	doc               the document text
//	includes(s)       whether doc contains s
//	occurrences(s)    non-overlapping occurrences of s in doc
//	regexMatch(re)    whether re matches doc (an invalid re never matches)
//
// The expr operators work too, as in `doc contains "x"` or `doc matches "^import"`.
// For example `!includes("activityScrollContainer")` keeps a plan from being re-applied.
type Precondition struct {
	source  string
	program *vm.Program
}

// NewPrecondition compiles an expression. It must evaluate to a boolean.
func NewPrecondition(source string) (Precondition, error) {
	if strings.TrimSpace(source) == "" {
		return Precondition{}, errors.Errorf("%w: expression is empty", ErrInvalidPrecondition)
	}

	program, err := expr.Compile(source, expr.Env(preconditionEnv("")), expr.AsBool())
	if err != nil {
		return Precondition{}, errors.Errorf("%w: %q: %s", ErrInvalidPrecondition, source, err.Error())
	}

	return Precondition{source: source, program: program}, nil
}

// MustPrecondition is like NewPrecondition but panics on error.
func MustPrecondition(source string) Precondition {
	c, err := NewPrecondition(source)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Precondition) String() string { return c.source }

// Eval runs the expression against doc.
func (c Precondition) Eval(doc string) (bool, error) {
	if c.program == nil {
		return false, errors.Errorf("%w: not compiled", ErrInvalidPrecondition)
	}

	out, err := expr.Run(c.program, preconditionEnv(doc))
	if err != nil {
		return false, errors.Errorf("evaluating %q: %w", c.source, err)
	}

	ok, isBool := out.(bool)
	if !isBool {
		return false, errors.Errorf("evaluating %q: result is %T, not bool", c.source, out)
	}
	return ok, nil
}

func preconditionEnv(doc string) map[string]any {
	return map[string]any{
		"doc": doc,
		"includes": func(s string) bool {
			return strings.Contains(doc, s)
		},
		"occurrences": func(s string) int {
			if s == "" {
				return 0
			}
			return strings.Count(doc, s)
		},
		"regexMatch": func(re string) bool {
			ok, err := regexp.MatchString(re, doc)
			return err == nil && ok
		},
	}
}
