package spec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes failures so callers can react without matching on
// message text.
type ErrorCode string

const (
	// ValidationError: the input path has an unsupported extension.
	ValidationError ErrorCode = "ValidationError"
	// DocumentParseError: the bytes are not a valid OpenAPI document.
	DocumentParseError ErrorCode = "DocumentParseError"
	// UnsupportedSchemaShape: a schema matches none of the handled cases.
	UnsupportedSchemaShape ErrorCode = "UnsupportedSchemaShape"
	// UnnamedReference: a $ref target has no resolvable name.
	UnnamedReference ErrorCode = "UnnamedReference"
	// UnresolvedReference: a $ref names something that was never built.
	UnresolvedReference ErrorCode = "UnresolvedReference"
	// InternalError: an unknown node or format variant reached a switch.
	InternalError ErrorCode = "InternalError"
)

// Error is a structured error with the location of the offending part of
// the document.
type Error struct {
	Code    ErrorCode
	Message string
	// Location names the unit that failed: "Pet.status" for a property,
	// "POST /pets" for an operation, or a file path or URL.
	Location string
	Pointer  string
	Cause    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Location != "" {
		b.WriteString(" at ")
		b.WriteString(e.Location)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Pointer != "" {
		b.WriteString(" (")
		b.WriteString(e.Pointer)
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports a match against a bare code sentinel, so
// errors.Is(err, spec.ErrUnsupportedSchemaShape) works on any wrapped Error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" && t.Location == "" && t.Pointer == "" {
		return t.Code == e.Code
	}
	return t == e
}

// Sentinels for errors.Is.
var (
	ErrValidation             = &Error{Code: ValidationError}
	ErrDocumentParse          = &Error{Code: DocumentParseError}
	ErrUnsupportedSchemaShape = &Error{Code: UnsupportedSchemaShape}
	ErrUnnamedReference       = &Error{Code: UnnamedReference}
	ErrUnresolvedReference    = &Error{Code: UnresolvedReference}
)

// Errorf builds an Error with a formatted message.
func Errorf(code ErrorCode, location, pointer, format string, args ...any) *Error {
	return &Error{Code: code, Location: location, Pointer: pointer, Message: fmt.Sprintf(format, args...)}
}

// WithLocation returns err with its location prefixed by outer, so an error
// raised for a property can be reported against its object.
func WithLocation(err error, outer string) error {
	var se *Error
	if !errors.As(err, &se) {
		return err
	}
	cp := *se
	switch {
	case cp.Location == "":
		cp.Location = outer
	case outer != "":
		cp.Location = outer + "." + cp.Location
	}
	return &cp
}

// BuildError aggregates the per-unit errors collected while building a
// document model. Units that failed are missing from the model; everything
// else was built.
type BuildError struct {
	Errors []*Error
}

func (e *BuildError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	lines := make([]string, 0, len(e.Errors)+1)
	lines = append(lines, fmt.Sprintf("%d parts of the document could not be modeled:", len(e.Errors)))
	for _, err := range e.Errors {
		lines = append(lines, "  - "+err.Error())
	}
	return strings.Join(lines, "\n")
}

func (e *BuildError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		out[i] = err
	}
	return out
}

// Add records err, converting foreign errors to InternalError.
func (e *BuildError) Add(err error) {
	if err == nil {
		return
	}
	var se *Error
	if errors.As(err, &se) {
		e.Errors = append(e.Errors, se)
		return
	}
	e.Errors = append(e.Errors, &Error{Code: InternalError, Message: err.Error(), Cause: err})
}

// ErrOrNil returns nil when nothing was collected.
func (e *BuildError) ErrOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}
