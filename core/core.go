package core

import "errors"

func (s AccountStatus) String() string {
	var description string = "unknown"

	switch s {
	case StatusExists:
		description = "exists"
	case StatusNotFound:
		description = "not found"
	case StatusSuspended:
		description = "suspended"
	case StatusPrivate:
		description = "private"
	case StatusTransientError:
		description = "transient error"
	}

	return description
}

// StatusOf maps the error returned by Source.Validate to an AccountStatus.
func StatusOf(err error) AccountStatus {
	switch {
	case err == nil:
		return StatusExists
	case errors.Is(err, ErrAccountNotFound):
		return StatusNotFound
	case errors.Is(err, ErrAccountSuspended):
		return StatusSuspended
	case errors.Is(err, ErrAccountPrivate):
		return StatusPrivate
	default:
		return StatusTransientError
	}
}
