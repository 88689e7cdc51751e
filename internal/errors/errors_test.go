package errors

import (
	"errors"
	"testing"

	"github.com/cwbudde/go-pysb/internal/token"
)

func TestInterpreterErrorString(t *testing.T) {
	err := New(KindType, "unsupported operand type(s) for +: 'int' and 'str'")
	if got := err.Error(); got != "TypeError error: unsupported operand type(s) for +: 'int' and 'str'" {
		t.Errorf("unexpected Error(): %s", got)
	}

	pos := token.Position{Line: 3, Column: 5}
	withPos := NewAt(KindNameNotDefined, pos, "name 'x' is not defined")
	if got := withPos.Error(); got != "NameNotDefined error at line 3, column 5: name 'x' is not defined" {
		t.Errorf("unexpected Error(): %s", got)
	}
}

func TestWithPosKeepsInnermostSpan(t *testing.T) {
	inner := token.Position{Line: 1, Column: 1}
	outer := token.Position{Line: 99, Column: 99}
	err := NewAt(KindKey, inner, "boom").WithPos(outer)
	if err.Pos.Line != 1 {
		t.Fatalf("expected innermost position to be preserved, got line %d", err.Pos.Line)
	}
}

func TestClientErrorPassthrough(t *testing.T) {
	cause := errors.New("boom from host function")
	ce := NewClientError(cause)
	if !IsClientError(ce) {
		t.Fatal("expected IsClientError(ce) to be true")
	}
	wrapped := Wrap(KindInternal, ce, "call failed")
	if !IsClientError(wrapped) {
		t.Fatal("expected IsClientError to see through Wrap's Unwrap chain to the inner ClientError")
	}
}

func TestIsClientErrorFalseForPlainError(t *testing.T) {
	if IsClientError(errors.New("plain")) {
		t.Fatal("expected plain errors.New to not be a ClientError")
	}
}
