// Package identifier validates logical file identifiers before they are used
// in index queries or filesystem paths. Validation is a security boundary:
// anything outside the allow-list is rejected so that identifiers can never
// carry path traversal or query injection.
package identifier

import (
	"errors"
	"fmt"
)

// ErrMissing is returned when no identifier was supplied.
var ErrMissing = errors.New("missing mandatory parameter 'id'")

// ErrUnsafe is returned when an identifier contains characters outside the
// allow-list. Callers can match it with errors.Is.
var ErrUnsafe = errors.New("identifier contains unsafe characters")

// Safe reports whether every character of id is in the allow-list: ASCII
// letters, digits, and the punctuation that appears in real identifiers
// (dot, dash, underscore, colon, parentheses, space). Slashes, quotes,
// control characters and non-ASCII input are all rejected.
func Safe(id string) bool {
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '-' || c == '_' || c == ':':
		case c == '(' || c == ')' || c == ' ':
		default:
			return false
		}
	}
	return true
}

// Validate checks that id is present and safe to embed in an index query.
func Validate(id string) error {
	if id == "" {
		return ErrMissing
	}
	if !Safe(id) {
		return fmt.Errorf("%w: allowed are letters, digits and '.-_:() '", ErrUnsafe)
	}
	return nil
}
