package core

import "context"

// Source is a place the list of followed accounts can be read from.
type Source interface {
	Name() string
	// Validate returns nil when the account exists and is readable, otherwise
	// one of ErrAccountNotFound, ErrAccountSuspended, ErrAccountPrivate or a
	// *TransientError.
	Validate(ctx context.Context, username string) error
	// Fetch returns the complete list or a *TransientError, never a partial list.
	Fetch(ctx context.Context, username string) (FollowingList, error)
}

// Caveat is implemented by sources that only deliver best-effort results.
type Caveat interface {
	Caveat() string
}

type Exporter interface {
	Export(username string, followings FollowingList) (string, error)
}
