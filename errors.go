package tagdex

import (
	"errors"

	"github.com/indu-doc/tagdex/internal/domain"
	"github.com/indu-doc/tagdex/internal/querylang"
)

// SyntaxError reports malformed query text with the offending fragment
// and its byte position.
type SyntaxError = querylang.SyntaxError

// ErrSyntax matches any query syntax error via errors.Is.
var ErrSyntax = querylang.ErrSyntax

// ErrClassNotFound is returned when a class has never been indexed.
var ErrClassNotFound = domain.ErrClassNotFound

// IsSyntaxError reports whether err stems from malformed query text.
func IsSyntaxError(err error) bool {
	return errors.Is(err, ErrSyntax)
}
