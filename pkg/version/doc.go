// Package version provides numeric version parsing and comparison with flexible precision support.
//
// # Overview
//
// Versions have one to three numeric components. A version with lower precision acts as a
// wildcard for the missing components when compared:
//
//   - 1 compares equal to 1.0.0, 1.5.0, 1.99.99 (any minor/patch)
//   - 1.8 compares equal to 1.8.0, 1.8.1, 1.8.99 (any patch)
//   - 1.8.2 compares equal only to 1.8.2
//
// # Configured versions
//
// Build configurations carry interpreter and library versions in a compact digit form
// (CONDA_PY=27, CONDA_NPY=110). ParseCompact reads the first digit as the major component and
// the remaining digits as the minor one, and Normalize turns either form into the dotted form
// used in pins:
//
//	version.Normalize("27")  // "2.7"
//	version.Normalize("110") // "1.10"
//	version.Normalize("3.4") // "3.4" (already dotted, unchanged)
//
// # Error Handling
//
// ParseVersion and ParseCompact return wrapped sentinel errors:
//
//   - ErrEmptyVersion: Input string is empty
//   - ErrTooManyComponents: More than 3 version components
//   - ErrNonNumeric: Component contains non-numeric characters
//   - ErrNegativeComponent: Component is a negative number
package version
