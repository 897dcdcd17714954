package querylang

import (
	"errors"
	"fmt"
)

// ErrSyntax is the sentinel all syntax errors unwrap to.
var ErrSyntax = errors.New("query syntax error")

// SyntaxError reports malformed query text. It carries the byte offset
// and the offending fragment so callers can point the user at the
// problem instead of crashing.
type SyntaxError struct {
	Pos      int
	Fragment string
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("query syntax error at offset %d near %q: %s", e.Pos, e.Fragment, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// fragmentLen caps the offending-text excerpt carried by a SyntaxError.
const fragmentLen = 24

func syntaxErr(input string, pos int, msg string) *SyntaxError {
	end := pos + fragmentLen
	if end > len(input) {
		end = len(input)
	}
	return &SyntaxError{Pos: pos, Fragment: input[pos:end], Msg: msg}
}
