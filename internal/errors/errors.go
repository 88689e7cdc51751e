// Package errors defines the classified error taxonomy of spec.md §7: a
// single carrier struct tagged by a closed Kind enum, carrying an
// optional source span and wrapped cause.
package errors

import (
	"fmt"

	"github.com/cwbudde/go-pysb/internal/token"
)

// Kind is the closed taxonomy of spec.md §7.
type Kind string

const (
	KindSyntax              Kind = "SyntaxError"
	KindNameNotDefined      Kind = "NameNotDefined"
	KindAttributeDenied     Kind = "AttributeAccessDenied"
	KindAttributeMissing    Kind = "AttributeMissing"
	KindImportNotAuthorized Kind = "ImportNotAuthorized"
	KindType                Kind = "TypeError"
	KindValue               Kind = "ValueError"
	KindKey                 Kind = "KeyError"
	KindIndex               Kind = "IndexError"
	KindAssertion           Kind = "AssertionError"
	KindIterationLimit      Kind = "IterationLimitExceeded"
	KindOperationLimit      Kind = "OperationLimitExceeded"
	KindInternal            Kind = "InternalError"
	KindUser                Kind = "UserError" // a raised user-class instance/value
	KindStopIteration       Kind = "StopIteration"
)

// InterpreterError is the single classified error value the evaluator
// raises. Pos is attached by the dispatcher the first time the error
// crosses a node boundary without one (§4.1); nested errors keep the
// innermost span.
type InterpreterError struct {
	Kind    Kind
	Message string
	Pos     *token.Position
	Cause   error
	// Value, when non-nil, is the runtime value a `raise` statement raised
	// (a user exception instance or other value) so `except` clauses can
	// match on it by class.
	Value any
}

func (e *InterpreterError) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("%s error at line %d, column %d: %s", e.Kind, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *InterpreterError) Unwrap() error { return e.Cause }

// WithPos returns e with Pos set to pos if e.Pos is currently nil,
// preserving whatever span an inner re-raise already attached (§4.1: "keep
// the innermost span").
func (e *InterpreterError) WithPos(pos token.Position) *InterpreterError {
	if e.Pos != nil {
		return e
	}
	cp := *e
	cp.Pos = &pos
	return &cp
}

// New builds a classified error with no span yet attached.
func New(kind Kind, format string, args ...any) *InterpreterError {
	return &InterpreterError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewAt builds a classified error with a span already attached.
func NewAt(kind Kind, pos token.Position, format string, args ...any) *InterpreterError {
	return &InterpreterError{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: &pos}
}

// Wrap classifies an existing error.
func Wrap(kind Kind, err error, format string, args ...any) *InterpreterError {
	return &InterpreterError{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: err}
}

// CodeLineMessage decorates a classified error with the
// "Code execution failed at line '<line text>'" suffix §4.1 specifies,
// when a span and the offending source line are both available.
func CodeLineMessage(err *InterpreterError, lineText string) string {
	if err.Pos == nil || lineText == "" {
		return err.Error()
	}
	return fmt.Sprintf("%s\nCode execution failed at line '%s'", err.Error(), lineText)
}

// ClientError is a dedicated passthrough type (§7): when a caller-supplied
// callable raises one, the dispatcher propagates it unwrapped instead of
// reclassifying it as an InterpreterError.
type ClientError struct {
	Cause error
}

func (c *ClientError) Error() string { return c.Cause.Error() }
func (c *ClientError) Unwrap() error { return c.Cause }

// NewClientError wraps err so the evaluator recognizes it as a
// caller-intended failure rather than an interpreter fault.
func NewClientError(err error) *ClientError {
	return &ClientError{Cause: err}
}

// IsClientError reports whether err (or something it wraps) is a
// ClientError.
func IsClientError(err error) bool {
	var ce *ClientError
	return asClientError(err, &ce)
}

func asClientError(err error, target **ClientError) bool {
	for err != nil {
		if ce, ok := err.(*ClientError); ok {
			*target = ce
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
