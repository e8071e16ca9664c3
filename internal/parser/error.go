package parser

import (
	"fmt"

	"github.com/tpascal/go-tpc/pkg/token"
)

// Error is a structured parse error with position information.
type Error struct {
	Message string
	Pos     token.Position
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
}

// NewError creates a positioned parse error.
func NewError(pos token.Position, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Pos: pos}
}
