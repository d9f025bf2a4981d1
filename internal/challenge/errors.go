package challenge

import (
	"encoding/json"
	"fmt"
)

// ErrUnavailable indicates the service could not be reached or answered
// with a server error.
type ErrUnavailable struct {
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *ErrUnavailable) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("challenge service unavailable (HTTP %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("challenge service unavailable: %v", e.Err)
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the service answered with a body that does
// not match the expected shape.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid challenge service response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrRejected indicates the service processed the request and reported
// failure, or refused it with a client error status.
type ErrRejected struct {
	StatusCode int
	Message    string
}

func (e *ErrRejected) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("challenge service rejected request (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("challenge service rejected request: %s", e.Message)
}
