package httperr

import (
	"errors"
	"fmt"
)

// Kind classifies a business error so callers can branch without
// matching on codes or messages.
type Kind string

const (
	KindInvalidInput        Kind = "invalid_input"
	KindNotConfigured       Kind = "not_configured"
	KindNotFound            Kind = "not_found"
	KindInvalidState        Kind = "invalid_state"
	KindForbidden           Kind = "forbidden"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindConflictOnWrite     Kind = "conflict_on_write"
)

type BusinessError struct {
	Kind Kind
	Code string
	Err  error
}

func (e BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

// ErrBusiness reports a domain rule violation by code.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindInvalidState, Code: code}
}

func InvalidInput(code string) error {
	return BusinessError{Kind: KindInvalidInput, Code: code}
}

func NotConfigured(code string) error {
	return BusinessError{Kind: KindNotConfigured, Code: code}
}

func NotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func InvalidState(code string) error {
	return BusinessError{Kind: KindInvalidState, Code: code}
}

func Forbidden(code string) error {
	return BusinessError{Kind: KindForbidden, Code: code}
}

func Upstream(code string, err error) error {
	return BusinessError{Kind: KindUpstreamUnavailable, Code: code, Err: err}
}

func Conflict(code string) error {
	return BusinessError{Kind: KindConflictOnWrite, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or "" when err is not a BusinessError.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// CodeOf returns the code of err, or "" when err is not a BusinessError.
func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
