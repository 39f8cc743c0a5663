package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyRegister         = errors.New("register empty")
	ErrInsufficientBalance   = errors.New("insufficient total balance")
	ErrNoExactSolution       = errors.New("exact change not possible with current coin counts")
	ErrInternalInconsistency = errors.New("internal inconsistency")
)

// ChangeError wraps a failed computation. It unwraps to the failure's sentinel.
type ChangeError struct {
	Kind FailureKind
	Msg  string
}

func (e *ChangeError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg != "" {
		return e.Msg
	}
	if s := e.Kind.Sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("change failed (%d)", int(e.Kind))
}

func (e *ChangeError) Unwrap() error { return e.Kind.Sentinel() }
