// Package errors formats compiler diagnostics with source context, positions
// and a caret pointing at the offending column.
package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/tpascal/go-tpc/pkg/token"
)

// CompilerError is a single diagnostic with position and source context.
type CompilerError struct {
	Message string
	Source  string
	File    string
	Pos     token.Position
}

// New creates a compiler error.
func New(pos token.Position, message, source, file string) *CompilerError {
	return &CompilerError{
		Pos:     pos,
		Message: message,
		Source:  source,
		File:    file,
	}
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format renders the error with its source line and a caret. When colorize
// is true the caret and message use ANSI colours.
func (e *CompilerError) Format(colorize bool) string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("Error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("Error at line %d:%d\n", e.Pos.Line, e.Pos.Column))
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")

		col := e.Pos.Column
		if col < 1 {
			col = 1
		}
		sb.WriteString(strings.Repeat(" ", len(prefix)+col-1))
		caret := "^"
		if colorize {
			caret = color.New(color.FgRed, color.Bold).Sprint("^")
		}
		sb.WriteString(caret)
		sb.WriteString("\n")
	}

	msg := e.Message
	if colorize {
		msg = color.New(color.Bold).Sprint(msg)
	}
	sb.WriteString(msg)

	return sb.String()
}

// sourceLine extracts the 1-indexed line from the source text.
func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[lineNum-1], "\r")
}

// FormatErrors renders a list of diagnostics separated by blank lines.
func FormatErrors(errs []*CompilerError, colorize bool) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Format(colorize)
	}
	return strings.Join(parts, "\n\n")
}
