// Package pin reconciles abstract dependency requirements with the versions
// configured for a build.
//
// Each package with an opinion has a Policy in a lookup table; adding a
// package is a table entry. Today the table holds python and numpy:
//
//	python      + 3.4         -> python 3.4*
//	python x.x  + 27          -> python 2.7*
//	python 2.7.8 + 3.5        -> python 2.7.8   (explicit pin wins)
//	numpy       + 18 (build)  -> numpy 1.8*
//	numpy       + 18 (run)    -> numpy          (run requirement left open)
//	numpy x.x   + 110         -> numpy 1.10*
//
// A wildcard ("x.x") requirement without a configured version fails with an
// errors.ErrCodeConfiguration error. Requirements with a build string, and
// packages without a policy, are returned unchanged.
package pin
