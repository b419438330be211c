// Package selector performs line-oriented conditional inclusion over recipe text.
//
// # Overview
//
// A recipe line may end with a selector, a bracketed expression over the build
// configuration's boolean namespace:
//
//	    - m2w64-toolchain  # [win]
//	    - gcc              # [linux and not aarch64]
//	    - patch [unix]
//
// The selector is either the last bracket group inside a trailing '#' comment
// or a bare bracket group that ends the line. When it evaluates to true the
// line is kept without the annotation and comment; when false the line is
// dropped. Lines without a selector pass through unchanged.
//
// # Scanning
//
// Each line is scanned left to right. Bracket characters and '#' inside a
// template span ({{ }}, {% %}, {# #}) are never part of a selector, so
//
//	test {{ JINJA_VAR[:2] }}
//
// carries no selector. A '#' inside a quoted span only opens the comment when
// no unquoted '#' introduces one; when the line ends in a quote character the
// quote is re-appended to the kept content:
//
//	 'quoted # [abc] '   ->    'quoted'
//
// # Expressions
//
// Expressions use names from the Namespace combined with not, and, or and
// parentheses, plus the literals True and False. Unknown names are false.
// A bracket group that does not parse as an expression is ordinary text.
//
// # Usage
//
//	ns := selector.Namespace{"linux": true, "x86_64": true}
//	out := selector.Evaluate(recipeText, ns)
//
// Evaluate never fails and is safe for concurrent use.
package selector
