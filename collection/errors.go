package collection

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a storage failure that carries a numeric code. The HTTP layer
// uses the code as response status.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) StatusCode() int {
	return e.Code
}

func newError(code int, format string, a ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, a...),
	}
}

var ErrClosed = errors.New("collection is closed")

func errNotFound(id string) *Error {
	return newError(http.StatusNotFound, "document '%s' not found", id)
}

func errConflict(id string) *Error {
	return newError(http.StatusConflict, "document '%s' already exists", id)
}
