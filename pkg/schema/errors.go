package schema

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"
)

// ParseError represents a malformed schema with position information.
// Line and Column are zero when the position is unknown.
type ParseError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// UnsupportedFormatError is returned when no builder handles a file extension.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("cannot detect schema format of %s (no file extension)", e.Path)
	}
	return fmt.Sprintf("unsupported schema format %q for %s", e.Ext, e.Path)
}

// NewParseError converts err into a *ParseError for file.
// Position information is taken from participle errors when available.
func NewParseError(file string, err error) *ParseError {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr
	}

	var pe participle.Error
	if errors.As(err, &pe) {
		pos := pe.Position()
		return &ParseError{File: file, Line: pos.Line, Column: pos.Column, Message: pe.Message()}
	}
	return &ParseError{File: file, Message: err.Error()}
}

// Errorf returns a *ParseError at the given position.
func Errorf(file string, line, column int, format string, args ...any) *ParseError {
	return &ParseError{File: file, Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}
