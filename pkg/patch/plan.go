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
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"
	"gitlab.com/tozd/go/errors"
)

// 📦 Plan is an ordered, immutable sequence of operations for one document.
// Order matters: each operation sees the buffer produced by the ones before it.
type Plan struct {
	name          string
	target        string
	policy        Policy
	operations    []Operation
	preconditions []Precondition
}

// PlanOption configures a Plan at construction.
type PlanOption func(*Plan)

// WithPolicy sets the plan's default validation policy.
func WithPolicy(p Policy) PlanOption {
	return func(pl *Plan) { pl.policy = p }
}

// WithPreconditions adds checks that must hold on the loaded document before any edit runs.
func WithPreconditions(conds ...Precondition) PlanOption {
	return func(pl *Plan) { pl.preconditions = append(pl.preconditions, conds...) }
}

// NewPlan builds a plan. ops is copied; later changes to the slice do not affect the plan.
func NewPlan(name string, target string, ops []Operation, opts ...PlanOption) (*Plan, error) {
	pl := &Plan{
		name:       name,
		target:     target,
		policy:     PolicyStrict,
		operations: append([]Operation(nil), ops...),
	}
	for _, opt := range opts {
		opt(pl)
	}

	for i, op := range pl.operations {
		if op.pattern.IsZero() {
			return nil, errors.Errorf("%w: operation %d has no pattern", ErrInvalidOperation, i)
		}
		if op.expect < 1 {
			return nil, errors.Errorf("%w: operation %d expects %d matches", ErrInvalidOperation, i, op.expect)
		}
	}
	for i, c := range pl.preconditions {
		if c.program == nil {
			return nil, errors.Errorf("%w: precondition %d was not compiled", ErrInvalidPrecondition, i)
		}
	}

	return pl, nil
}

// MustPlan is like NewPlan but panics on error.
func MustPlan(name string, target string, ops []Operation, opts ...PlanOption) *Plan {
	pl, err := NewPlan(name, target, ops, opts...)
	if err != nil {
		panic(err)
	}
	return pl
}

func (p *Plan) Name() string   { return p.name }
func (p *Plan) Target() string { return p.target }
func (p *Plan) Policy() Policy { return p.policy }
func (p *Plan) Len() int       { return len(p.operations) }

// Operation returns the i-th operation.
func (p *Plan) Operation(i int) Operation { return p.operations[i] }

// Operations returns a copy of the operation list.
func (p *Plan) Operations() []Operation {
	return append([]Operation(nil), p.operations...)
}

// Preconditions returns a copy of the precondition list.
func (p *Plan) Preconditions() []Precondition {
	return append([]Precondition(nil), p.preconditions...)
}

// Fingerprint identifies the plan's content. Two plans with the same name, target,
// policy, preconditions and operations share a fingerprint.
func (p *Plan) Fingerprint() string {
	var b strings.Builder
	field := func(s string) {
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}

	field(p.name)
	field(p.target)
	field(p.policy.String())
	for _, c := range p.preconditions {
		field(c.source)
	}
	for _, op := range p.operations {
		field(op.pattern.Mode().String())
		field(op.pattern.Flags())
		field(op.pattern.Expr())
		field(op.replacement)
		field(strconv.Itoa(op.expect))
		field(strconv.FormatBool(op.optional))
	}

	return HashText(b.String())
}

// HashText returns the hex BLAKE3-256 digest of s.
func HashText(s string) string {
	sum := blake3.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
