package core

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput       = errors.New("username cannot be empty")
	ErrInvalidUsername  = errors.New("invalid username")
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountSuspended = errors.New("account is suspended")
	ErrAccountPrivate   = errors.New("account is private")
	ErrEmptyResult      = errors.New("no followings found")
	ErrCredentialSetup  = errors.New("credential setup failed")
)

// TransientError wraps a transport, status or parsing failure of a remote call.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func NewTransientError(op string, err error) *TransientError {
	return &TransientError{Op: op, Err: err}
}

// FileWriteError is returned when an export cannot be written to disk.
type FileWriteError struct {
	Path string
	Err  error
}

func (e *FileWriteError) Error() string {
	return fmt.Sprintf("cannot write %s: %v", e.Path, e.Err)
}

func (e *FileWriteError) Unwrap() error {
	return e.Err
}

// CredentialError explains why an authenticated source could not be set up.
type CredentialError struct {
	Reason string
	Err    error
}

func (e *CredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrCredentialSetup, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrCredentialSetup, e.Reason)
}

func (e *CredentialError) Is(target error) bool {
	return target == ErrCredentialSetup
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}
