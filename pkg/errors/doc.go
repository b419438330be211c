// Package errors provides structured error types so callers can tell a
// configuration problem from a validation failure or a malformed dependency
// string without matching on message text.
//
// Example usage:
//
//	err := errors.NewWithContext(
//	    errors.ErrCodeConfiguration,
//	    "unable to determine python version",
//	    map[string]any{
//	        "dependency": "python x.x",
//	    },
//	)
//	if errors.IsCode(err, errors.ErrCodeConfiguration) {
//	    // abort the build, do not retry
//	}
package errors
