// Package matchspec parses and compares dependency match specifications.
//
// A match specification has up to three whitespace separated parts:
//
//	numpy                 name only
//	numpy 1.9.1           name and version constraint
//	numpy 1.9.0 py27_2    name, version constraint and build string
//
// Strictness reports how many parts are present. Version constraints accept
// exact versions, prefix patterns ("1.8*"), comparisons (">=1.8,<2") and
// alternatives ("2.7*|3.5*"); Match evaluates one against a candidate version.
package matchspec
