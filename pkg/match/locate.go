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

import "strings"

// Span is a half-open byte range [Start, End) of one occurrence. Groups holds the
// submatch index pairs for regex matches and is nil for literal matches.
type Span struct {
	Start  int
	End    int
	Groups []int
}

// Result lists every non-overlapping occurrence of a pattern, left to right.
type Result struct {
	Count int
	Spans []Span
}

// Locate finds every non-overlapping occurrence of p in doc. It never modifies doc.
func Locate(doc string, p Pattern) Result {
	if p.IsZero() {
		return Result{}
	}

	switch p.mode {
	case ModeRegex:
		return locateRegex(doc, p)
	default:
		return locateLiteral(doc, p.expr)
	}
}

func locateLiteral(doc string, needle string) Result {
	var spans []Span
	offset := 0
	for {
		i := strings.Index(doc[offset:], needle)
		if i < 0 {
			break
		}
		start := offset + i
		spans = append(spans, Span{Start: start, End: start + len(needle)})
		offset = start + len(needle)
	}
	return Result{Count: len(spans), Spans: spans}
}

func locateRegex(doc string, p Pattern) Result {
	if p.re == nil {
		return Result{}
	}
	all := p.re.FindAllStringSubmatchIndex(doc, -1)
	spans := make([]Span, 0, len(all))
	for _, idx := range all {
		spans = append(spans, Span{Start: idx[0], End: idx[1], Groups: idx})
	}
	return Result{Count: len(spans), Spans: spans}
}
