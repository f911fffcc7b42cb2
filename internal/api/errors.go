package api

import "fmt"

// RequestError is a non-success HTTP status normalized to a single message.
// Callers never see the raw response object.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// TransportError means the service could not be reached at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("service unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
