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
	"errors"
	"fmt"
	"sync"
)

var errEmptyExpr = errors.New("empty selector expression")

// node is a compiled selector expression.
type node interface {
	eval(ns Namespace) bool
}

type identNode string

func (n identNode) eval(ns Namespace) bool { return ns.Lookup(string(n)) }

type constNode bool

func (n constNode) eval(Namespace) bool { return bool(n) }

type notNode struct{ x node }

func (n notNode) eval(ns Namespace) bool { return !n.x.eval(ns) }

type andNode struct{ l, r node }

func (n andNode) eval(ns Namespace) bool { return n.l.eval(ns) && n.r.eval(ns) }

type orNode struct{ l, r node }

func (n orNode) eval(ns Namespace) bool { return n.l.eval(ns) || n.r.eval(ns) }

type compiled struct {
	n   node
	err error
}

// cache holds compiled expressions keyed by source; recipes reuse a handful
// of selectors on many lines.
var cache sync.Map

// compile parses a selector expression:
//
//	expr    = and { "or" and }
//	and     = unary { "and" unary }
//	unary   = "not" unary | primary
//	primary = ident | "True" | "False" | "(" expr ")"
func compile(src string) (node, error) {
	if v, ok := cache.Load(src); ok {
		c := v.(compiled)
		return c.n, c.err
	}

	n, err := parse(src)
	cache.Store(src, compiled{n: n, err: err})
	return n, err
}

func parse(src string) (node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, errEmptyExpr
	}

	p := &parser{toks: toks}
	n, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("unexpected %q in selector %q", p.toks[p.pos], src)
	}
	return n, nil
}

func tokenize(src string) ([]string, error) {
	var toks []string
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(' || c == ')':
			toks = append(toks, string(c))
			i++
		case isIdentStart(c):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			toks = append(toks, src[i:j])
			i = j
		default:
			return nil, fmt.Errorf("invalid character %q in selector %q", c, src)
		}
	}
	return toks, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) or() (node, error) {
	l, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.peek() == "or" {
		p.next()
		r, err := p.and()
		if err != nil {
			return nil, err
		}
		l = orNode{l: l, r: r}
	}
	return l, nil
}

func (p *parser) and() (node, error) {
	l, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.peek() == "and" {
		p.next()
		r, err := p.unary()
		if err != nil {
			return nil, err
		}
		l = andNode{l: l, r: r}
	}
	return l, nil
}

func (p *parser) unary() (node, error) {
	if p.peek() == "not" {
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notNode{x: x}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	t := p.next()
	switch t {
	case "":
		return nil, errors.New("unexpected end of selector")
	case "(":
		n, err := p.or()
		if err != nil {
			return nil, err
		}
		if p.next() != ")" {
			return nil, errors.New("missing closing parenthesis in selector")
		}
		return n, nil
	case ")", "and", "or", "not":
		return nil, fmt.Errorf("unexpected %q in selector", t)
	case "True":
		return constNode(true), nil
	case "False":
		return constNode(false), nil
	default:
		return identNode(t), nil
	}
}
