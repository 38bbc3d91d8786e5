// Package qstatus implements the small closed status taxonomy every
// coordinator operation returns instead of a bare error: OK, a distinguished
// CANCELLED (not an error), ERROR, and INTERNAL (assertion violations).
package qstatus

import "fmt"

// Code is the coordinator-wide status taxonomy.
type Code int

const (
	OK Code = iota
	Cancelled
	Error
	Internal
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case Cancelled:
		return "CANCELLED"
	case Error:
		return "ERROR"
	case Internal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// Status is a value type: coordinator state never holds a bare `error`,
// it holds a Status, so that "still OK" vs "already failed" checks don't
// need a nil comparison convention.
type Status struct {
	Code Code
	Msg  string
}

// OKStatus is the zero value but spelled out for readability at call sites.
var OKStatus = Status{Code: OK}

// CancelledStatus is the distinguished cancellation status.
var CancelledStatus = Status{Code: Cancelled, Msg: "Cancelled"}

func New(code Code, msg string) Status {
	return Status{Code: code, Msg: msg}
}

func Errorf(format string, args ...interface{}) Status {
	return Status{Code: Error, Msg: fmt.Sprintf(format, args...)}
}

func FromError(err error) Status {
	if err == nil {
		return OKStatus
	}
	return Status{Code: Error, Msg: err.Error()}
}

func (s Status) Ok() bool {
	return s.Code == OK
}

func (s Status) Error() string {
	if s.Msg == "" {
		return s.Code.String()
	}
	return fmt.Sprintf("%s: %s", s.Code, s.Msg)
}

// AsError returns nil for an OK status and an error value otherwise, for
// boundaries (e.g. returning from a function with a plain `error` signature)
// that can't carry a Status directly.
func (s Status) AsError() error {
	if s.Ok() {
		return nil
	}
	return s
}
