package hostlist

import (
	"errors"
	"fmt"
)

// ErrTooManyResults is returned by ExpandLimit when an expression would
// produce more hostnames than the caller allows.
var ErrTooManyResults = errors.New("too many results")

// ParseError reports why an expression was rejected and where.
type ParseError struct {
	Offset int // byte offset into the input
	Msg    string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Msg, e.Offset)
}

func newParseError(offset int, msg string) *ParseError {
	return &ParseError{Offset: offset, Msg: msg}
}
