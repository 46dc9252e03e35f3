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

package match

import (
	"fmt"
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrInvalidPattern is returned when a pattern cannot be constructed.
var ErrInvalidPattern = errors.Base("invalid pattern")

// 🔤 Mode tags how a pattern is matched against a document
type Mode int

const (
	ModeLiteral Mode = iota // byte-for-byte substring match
	ModeRegex               // RE2 regular expression
)

// String returns the name used in plan files
func (m Mode) String() string {
	switch m {
	case ModeLiteral:
		return "literal"
	case ModeRegex:
		return "regex"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses a mode name as written in plan files.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "literal", "find", "exact":
		return ModeLiteral, nil
	case "regex", "regexp":
		return ModeRegex, nil
	default:
		return 0, errors.Errorf("%w: unknown match mode %q", ErrInvalidPattern, s)
	}
}

// regexFlags are the inline flags RE2 accepts in a (?flags) group.
const regexFlags = "imsU"

// 🎯 Pattern is a literal or regex search fragment with its match mode.
// Construct one with Literal or Regex; the zero value matches nothing.
type Pattern struct {
	mode  Mode
	expr  string
	flags string
	re    *regexp.Regexp
}

// Literal creates an exact-text pattern. No normalization is performed: whitespace,
// quoting and case must match the document exactly.
func Literal(text string) (Pattern, error) {
	if text == "" {
		return Pattern{}, errors.Errorf("%w: literal pattern is empty", ErrInvalidPattern)
	}
	return Pattern{mode: ModeLiteral, expr: text}, nil
}

// Regex compiles a regular expression pattern. flags is an optional subset of "imsU"
// prepended to the expression as an inline flag group.
func Regex(expr string, flags string) (Pattern, error) {
	if expr == "" {
		return Pattern{}, errors.Errorf("%w: regex pattern is empty", ErrInvalidPattern)
	}
	for _, f := range flags {
		if !strings.ContainsRune(regexFlags, f) {
			return Pattern{}, errors.Errorf("%w: unsupported regex flag %q (allowed: %s)", ErrInvalidPattern, f, regexFlags)
		}
	}

	source := expr
	if flags != "" {
		source = "(?" + flags + ")" + expr
	}

	re, err := regexp.Compile(source)
	if err != nil {
		return Pattern{}, errors.Errorf("%w: %s", ErrInvalidPattern, err.Error())
	}

	return Pattern{mode: ModeRegex, expr: expr, flags: flags, re: re}, nil
}

// MustLiteral is like Literal but panics on error.
func MustLiteral(text string) Pattern {
	p, err := Literal(text)
	if err != nil {
		panic(err)
	}
	return p
}

// MustRegex is like Regex but panics on error.
func MustRegex(expr string, flags string) Pattern {
	p, err := Regex(expr, flags)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pattern) Mode() Mode     { return p.mode }
func (p Pattern) Expr() string   { return p.expr }
func (p Pattern) Flags() string  { return p.flags }
func (p Pattern) IsZero() bool   { return p.expr == "" }
func (p Pattern) String() string { return p.mode.String() + ":" + p.expr }

// Expand renders a regex replacement template for one located span, using
// regexp template syntax ($1, ${name}). Literal patterns return the template unchanged.
func (p Pattern) Expand(doc string, span Span, template string) string {
	if p.mode != ModeRegex || p.re == nil {
		return template
	}
	return string(p.re.ExpandString(nil, template, doc, span.Groups))
}
