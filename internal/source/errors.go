package source

import "fmt"

// ErrUnauthorized indicates the credentials were rejected.
type ErrUnauthorized struct {
	Err error
}

func (e *ErrUnauthorized) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source unauthorized: %v", e.Err)
	}
	return "source unauthorized"
}

func (e *ErrUnauthorized) Unwrap() error { return e.Err }

// ErrSourceUnavailable indicates the source is down or unreachable.
type ErrSourceUnavailable struct {
	Err error
}

func (e *ErrSourceUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source unavailable: %v", e.Err)
	}
	return "source unavailable"
}

func (e *ErrSourceUnavailable) Unwrap() error { return e.Err }
