package semantic

import (
	"fmt"

	"github.com/tpascal/go-tpc/pkg/token"
)

// Error is a semantic error with its source position.
type Error struct {
	Message string
	Pos     token.Position
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
}
