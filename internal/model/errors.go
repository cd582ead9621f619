package model

import (
	"errors"
	"fmt"
)

// Error kinds. A unit without an entity sentinel is not an error.
var (
	ErrMalformedDeclaration = errors.New("malformed declaration")
	ErrMissingStructure     = errors.New("missing structure")
	ErrUnresolvedStyle      = errors.New("unresolved style")
)

// Error is a fatal generation failure located in a source unit.
type Error struct {
	Kind error  // One of the Err* kinds
	Unit string // Unit identity, usually a file path
	Line int    // Zero-based line, or -1 when unknown
	Msg  string // Human readable detail
}

// Errorf creates an Error of the given kind.
func Errorf(kind error, unit string, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Unit: unit, Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Line < 0 {
		return fmt.Sprintf("%s: %v: %s", e.Unit, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %v: %s", e.Unit, e.Line+1, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Kind
}
