package model

import "fmt"

// ParseError is raised when JSON tokenization fails or the text parser
// finishes without having found a root node. Callers can distinguish it
// from other errors via errors.As.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// NewParseError builds a ParseError with a formatted message.
func NewParseError(format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}
