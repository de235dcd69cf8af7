package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput          = errors.New("empty input")
	ErrUnreadableStructure = errors.New("unreadable structure")
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
	ErrFileTooLarge        = errors.New("file too large")
)

// ParseError is the fatal error for a single input. Callers processing a
// batch isolate it to that file and continue with the rest.
type ParseError struct {
	FileName string
	Err      error
}

// NewParseError wraps err as a ParseError for fileName.
func NewParseError(fileName string, err error) *ParseError {
	return &ParseError{FileName: fileName, Err: err}
}

func (e *ParseError) Error() string {
	if e.FileName == "" {
		return fmt.Sprintf("parse: %v", e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.FileName, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
