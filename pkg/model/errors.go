package model

import "fmt"

// ErrorKind is the closed set of parse failure categories. It implements error
// so callers can test a failure with errors.Is(err, model.ErrInvalidIdentifier).
type ErrorKind string

func (k ErrorKind) Error() string {
	return string(k)
}

// Structural errors.
const (
	ErrMetadataTooShort   ErrorKind = "metadata line too short"
	ErrInvalidMetadataTag ErrorKind = "invalid metadata tag line"
	ErrInvalidCacheValue  ErrorKind = "invalid cache tag value"
	ErrInvalidHeaderLine  ErrorKind = "invalid header line"
	ErrInvalidOrderedList ErrorKind = "invalid ordered list line"
	ErrInvalidDropdown    ErrorKind = "invalid dropdown line"
)

// Identifier errors.
const (
	ErrInvalidIdentifier ErrorKind = "invalid identifier"
)

// Field-grammar errors.
const (
	ErrMissingFieldID       ErrorKind = "form field without identifier"
	ErrInvalidFieldType     ErrorKind = "invalid form field type"
	ErrMissingProperty      ErrorKind = "missing required property"
	ErrForbiddenProperty    ErrorKind = "forbidden property"
	ErrInvalidPropertyValue ErrorKind = "invalid property value"
)

// ParseError describes the first rule a document violated.
type ParseError struct {
	Kind ErrorKind
	// Line is the 1-based line number, zero when the error was raised outside
	// the document scanner (for example by NewID).
	Line int
	// Field is the type keyword of the offending form field, if any.
	Field FieldKind
	// Property is the offending property name, if any.
	Property string
	Message  string
}

// NewParseError builds a ParseError with a human readable message.
func NewParseError(kind ErrorKind, message string) *ParseError {
	return &ParseError{Kind: kind, Message: message}
}

func (e *ParseError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Line > 0 {
		return fmt.Sprintf("athn: line %d: %s", e.Line, msg)
	}
	return "athn: " + msg
}

// Unwrap exposes the kind so errors.Is matches ErrorKind sentinels.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

// AtLine returns a copy of the error annotated with a line number.
func (e *ParseError) AtLine(line int) *ParseError {
	clone := *e
	clone.Line = line
	return &clone
}
