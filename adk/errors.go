package adk

import (
	"errors"
	"fmt"
)

// Result codes, mirroring the vendor ADKE_* set. The vendor reports failures
// with an integer code plus a text; both are carried verbatim.
const (
	CodeOK            = 0
	CodeNotFound      = 1
	CodeOpenFailed    = 2
	CodeNoCompany     = 3
	CodeUnknownTable  = 4
	CodeUnknownField  = 5
	CodeTypeMismatch  = 6
	CodeInvalidFilter = 7
	CodeNoPosition    = 8
	CodeNoRows        = 9
)

// Error is a failed native call, propagated as-is (no retries, no
// reinterpretation).
type Error struct {
	Op   string
	Code int
	Text string
}

func (e *Error) Error() string {
	return fmt.Sprintf("adk: %s: %s (code %d)", e.Op, e.Text, e.Code)
}

func NewError(op string, code int, format string, args ...interface{}) *Error {
	return &Error{
		Op:   op,
		Code: code,
		Text: fmt.Sprintf(format, args...),
	}
}

func IsNotFound(err error) bool {
	e := &Error{}
	return errors.As(err, &e) && e.Code == CodeNotFound
}
