package driver

import (
	"errors"
	"fmt"
)

// Code is the closed failure taxonomy produced at the driver boundary.
// Classification downstream is a single switch over this enum instead
// of string sniffing on arbitrary errors.
type Code int

const CODE_UNKNOWN Code = 0
const CODE_NETWORK Code = 1
const CODE_ELEMENT_NOT_FOUND Code = 2
const CODE_AUTHENTICATION Code = 3
const CODE_RATE_LIMITED Code = 4
const CODE_VALIDATION Code = 5

func (c Code) String() string {
	switch c {
	case CODE_NETWORK:
		return "network"
	case CODE_ELEMENT_NOT_FOUND:
		return "element_not_found"
	case CODE_AUTHENTICATION:
		return "authentication"
	case CODE_RATE_LIMITED:
		return "rate_limited"
	case CODE_VALIDATION:
		return "validation"
	default:
		return "unknown"
	}
}

type Error struct {
	Code   Code
	Op     string
	Target string
	Err    error
}

func (e *Error) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("driver %s %q: %s: %v", e.Op, e.Target, e.Code, e.Err)
	}
	return fmt.Sprintf("driver %s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(code Code, op string, target string, err error) *Error {
	return &Error{Code: code, Op: op, Target: target, Err: err}
}

// CodeOf extracts the failure code from an error chain. Errors that did
// not originate at the driver boundary report CODE_UNKNOWN.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CODE_UNKNOWN
}
