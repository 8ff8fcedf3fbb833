package folio

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the backend answered 401.
// By then the session has already been logged out.
var ErrUnauthorized = errors.New("unauthorized, please login again")

// StatusError is returned for any other non 2xx answer of the backend.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Status string
	Body   string // first bytes of the response body, for diagnostics
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("cannot http %s %s: %s", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("cannot http %s %s: %s: %s", e.Method, e.Path, e.Status, e.Body)
}

// IsNotFound reports whether err is a 404 answer of the backend.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == 404
}
