// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package selector

import (
	"strings"
)

// Namespace maps selector names to their truth value for one build
// configuration. Names that are absent are false.
type Namespace map[string]bool

// Lookup returns the value of name, or false when the name is unknown.
func (n Namespace) Lookup(name string) bool {
	return n[name]
}

// Selector is a live selector annotation found on a recipe line.
type Selector struct {
	// Content is the part of the line that survives when the selector is true.
	Content string
	// Expr is the expression between the brackets, trimmed.
	Expr string

	expr node
}

// Eval evaluates the selector expression against ns.
func (s Selector) Eval(ns Namespace) bool {
	return s.expr.eval(ns)
}

// Evaluate applies selectors line by line. Lines whose selector is true are
// kept with the annotation and trailing comment removed; lines whose selector
// is false are dropped; every other line is passed through unchanged. A
// trailing newline in text is preserved.
func Evaluate(text string, ns Namespace) string {
	if text == "" {
		return ""
	}

	body, trailing := strings.CutSuffix(text, "\n")
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if kept, ok := Selected(line, ns); ok {
			out = append(out, kept)
		}
	}

	res := strings.Join(out, "\n")
	if trailing {
		res += "\n"
	}
	return res
}

// Selected returns the line as it should appear after evaluation under ns,
// and false when the line is removed by its selector.
func Selected(line string, ns Namespace) (string, bool) {
	sel, ok := Find(line)
	if !ok {
		return line, true
	}
	if !sel.Eval(ns) {
		return "", false
	}
	return sel.Content, true
}

// HasSelector reports whether line carries a live selector annotation.
func HasSelector(line string) bool {
	_, ok := Find(line)
	return ok
}

// Find locates the selector annotation on line, if any. Malformed bracket
// groups and expressions that do not parse are treated as ordinary text.
func Find(line string) (Selector, bool) {
	s := strings.TrimRight(line, " \t\r")
	if s == "" || strings.HasPrefix(strings.TrimLeft(s, " \t"), "#") {
		return Selector{}, false
	}

	sc := scan(s)

	// Comment form: prefer a '#' outside any quoted span, then fall back to
	// the first '#' outside a template span.
	for _, hash := range []int{sc.hashUnquoted, sc.hash} {
		if hash <= 0 {
			continue
		}
		g, ok := sc.lastGroupAfter(hash)
		if !ok {
			continue
		}
		if sel, ok := newSelector(s[:hash], s[g.open+1:g.close]); ok {
			if q := s[len(s)-1]; q == '\'' || q == '"' {
				sel.Content += string(q)
			}
			return sel, true
		}
	}

	// Bare form: a bracket group that ends the line.
	if n := len(sc.groups); n > 0 {
		g := sc.groups[n-1]
		if g.close == len(s)-1 && g.open > 0 {
			return newSelector(s[:g.open], s[g.open+1:g.close])
		}
	}

	return Selector{}, false
}

func newSelector(content, expr string) (Selector, bool) {
	expr = strings.TrimSpace(expr)
	n, err := compile(expr)
	if err != nil {
		return Selector{}, false
	}
	return Selector{
		Content: strings.TrimRight(content, " \t"),
		Expr:    expr,
		expr:    n,
	}, true
}

// group is a bracket pair found outside template spans, holding no nested brackets.
type group struct {
	open, close int
}

type scanResult struct {
	// hash is the first '#' outside template spans, -1 if none.
	hash int
	// hashUnquoted is the first '#' outside template spans and quotes, -1 if none.
	hashUnquoted int
	groups       []group
}

func (r scanResult) lastGroupAfter(pos int) (group, bool) {
	for i := len(r.groups) - 1; i >= 0; i-- {
		if r.groups[i].open > pos {
			return r.groups[i], true
		}
	}
	return group{}, false
}

// templateClosers maps the second byte of a template opener to its closer.
var templateClosers = map[byte]string{
	'{': "}}",
	'%': "%}",
	'#': "#}",
}

// scan walks s left to right tracking template spans and quotes, and records
// the comment candidates and bracket groups a selector may come from.
func scan(s string) scanResult {
	res := scanResult{hash: -1, hashUnquoted: -1}
	var (
		closer string
		quote  byte
		open   = -1
	)

	for i := 0; i < len(s); i++ {
		c := s[i]

		if closer != "" {
			if strings.HasPrefix(s[i:], closer) {
				i += len(closer) - 1
				closer = ""
			}
			continue
		}

		if c == '{' && i+1 < len(s) {
			if cl, ok := templateClosers[s[i+1]]; ok {
				closer = cl
				// A bracket group may not straddle a template span.
				open = -1
				i++
				continue
			}
		}

		switch c {
		case '\'', '"':
			switch quote {
			case 0:
				quote = c
			case c:
				quote = 0
			}
		case '#':
			if res.hash < 0 {
				res.hash = i
			}
			if quote == 0 && res.hashUnquoted < 0 {
				res.hashUnquoted = i
			}
		case '[':
			open = i
		case ']':
			if open >= 0 && i-open > 1 {
				res.groups = append(res.groups, group{open: open, close: i})
			}
			open = -1
		}
	}

	return res
}
