package client

import (
	"errors"
	"fmt"
)

var (
	ErrNoSession         = errors.New("no valid session")
	ErrOriginRejected    = errors.New("origin not authorized")
	ErrUnavailable       = errors.New("server unavailable")
	ErrMalformedResponse = errors.New("malformed server response")
)

// ServerError is a non-2xx answer other than 401/403 on a check, or any
// refusal of a submission. Message is the server's text, shown verbatim.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}
