package geod

import (
	"fmt"
)

// ParseError reports malformed textual input. Position is a byte offset
// into the original text.
type ParseError struct {
	Position int
	Msg      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Position, e.Msg)
}

func NewParseError(pos int, format string, args ...any) error {
	return &ParseError{Position: pos, Msg: fmt.Sprintf(format, args...)}
}

func IsParseError(err error) bool {
	_, ok := err.(*ParseError)
	return ok
}

// InvalidDefinitionError reports a structurally well-formed definition that
// violates an object model invariant.
type InvalidDefinitionError struct {
	msg string
}

func (e *InvalidDefinitionError) Error() string {
	return e.msg
}

func NewInvalidDefinition(format string, args ...any) error {
	return &InvalidDefinitionError{msg: fmt.Sprintf(format, args...)}
}

func IsInvalidDefinition(err error) bool {
	_, ok := err.(*InvalidDefinitionError)
	return ok
}

// NoSuchCodeError reports a catalog miss for an (authority, code) pair.
type NoSuchCodeError struct {
	Authority string
	Code      string
}

func (e *NoSuchCodeError) Error() string {
	return fmt.Sprintf("no definition for code %s:%s", e.Authority, e.Code)
}

func IsNoSuchCode(err error) bool {
	_, ok := err.(*NoSuchCodeError)
	return ok
}

// NoSuchNameError reports a catalog miss for a name lookup.
type NoSuchNameError struct {
	Name string
}

func (e *NoSuchNameError) Error() string {
	return fmt.Sprintf("no definition named %q", e.Name)
}

func IsNoSuchName(err error) bool {
	_, ok := err.(*NoSuchNameError)
	return ok
}

// FormattingNotSupportedError reports an object variant that has no
// representation in the requested output convention.
type FormattingNotSupportedError struct {
	msg string
}

func (e *FormattingNotSupportedError) Error() string {
	return e.msg
}

func NewFormattingNotSupported(format string, args ...any) error {
	return &FormattingNotSupportedError{msg: fmt.Sprintf(format, args...)}
}

func IsFormattingNotSupported(err error) bool {
	_, ok := err.(*FormattingNotSupportedError)
	return ok
}

// NotApplicableError reports an operation requested on the wrong entity
// variant, e.g. asking a geographic CRS for a compound component.
type NotApplicableError struct {
	msg string
}

func (e *NotApplicableError) Error() string {
	return e.msg
}

func NewNotApplicable(format string, args ...any) error {
	return &NotApplicableError{msg: fmt.Sprintf(format, args...)}
}

func IsNotApplicable(err error) bool {
	_, ok := err.(*NotApplicableError)
	return ok
}
