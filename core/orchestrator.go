package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OutcomeKind byte

const (
	_                                   = iota
	OutcomeExported         OutcomeKind = iota
	OutcomeEmptyInput       OutcomeKind = iota
	OutcomeNotFound         OutcomeKind = iota
	OutcomeSuspended        OutcomeKind = iota
	OutcomePrivate          OutcomeKind = iota
	OutcomeValidationFailed OutcomeKind = iota
	OutcomeFetchFailed      OutcomeKind = iota
	OutcomeNoFollowings     OutcomeKind = iota
	OutcomeWriteFailed      OutcomeKind = iota
	OutcomeInvalidUsername  OutcomeKind = iota
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeExported:
		return "exported"
	case OutcomeEmptyInput:
		return "empty_input"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeSuspended:
		return "suspended"
	case OutcomePrivate:
		return "private"
	case OutcomeValidationFailed:
		return "validation_failed"
	case OutcomeFetchFailed:
		return "fetch_failed"
	case OutcomeNoFollowings:
		return "no_followings"
	case OutcomeWriteFailed:
		return "write_failed"
	case OutcomeInvalidUsername:
		return "invalid_username"
	default:
		return "unknown"
	}
}

// Outcome is the single terminal result of one Run.
type Outcome struct {
	Kind    OutcomeKind
	Message string
	Path    string
	Count   int
	Err     error
}

func (o Outcome) OK() bool {
	return o.Kind == OutcomeExported
}

type Orchestrator struct {
	source   Source
	exporter Exporter
	logger   *zap.SugaredLogger
}

func NewOrchestrator(source Source, exporter Exporter, logger *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		source:   source,
		exporter: exporter,
		logger:   logger,
	}
}

// Run validates username, retrieves its followings and exports them.
// Every step is attempted at most once and the first failure ends the run.
func (o *Orchestrator) Run(ctx context.Context, username string) Outcome {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return Outcome{Kind: OutcomeEmptyInput, Message: "Username cannot be empty.", Err: ErrEmptyInput}
	}
	if !ValidHandle(username) {
		return Outcome{
			Kind:    OutcomeInvalidUsername,
			Message: "Invalid username. Use only letters, digits and underscores.",
			Err:     ErrInvalidUsername,
		}
	}

	logger := o.logger.With("run_id", uuid.NewString(), "source", o.source.Name(), "username", username)

	logger.Infof("Checking username @%s...", username)
	if err := o.source.Validate(ctx, username); err != nil {
		logger.Debugw("validation failed", "error", err)
		return validationOutcome(err)
	}

	logger.Infof("Found valid user @%s. Attempting to fetch followings...", username)
	if c, ok := o.source.(Caveat); ok {
		logger.Info(c.Caveat())
	}

	followings, err := o.source.Fetch(ctx, username)
	if err != nil {
		logger.Debugw("fetch failed", "error", err)
		return Outcome{
			Kind:    OutcomeFetchFailed,
			Message: fmt.Sprintf("Error fetching followings: %v", unwrapTransient(err)),
			Err:     err,
		}
	}

	if len(followings) == 0 {
		return Outcome{
			Kind:    OutcomeNoFollowings,
			Message: fmt.Sprintf("Couldn't fetch any followings for @%s.", username),
			Err:     ErrEmptyResult,
		}
	}

	logger.Infof("Found %d followings. Saving to file...", len(followings))
	path, err := o.exporter.Export(username, followings)
	if err != nil {
		logger.Debugw("export failed", "error", err)
		return Outcome{
			Kind:    OutcomeWriteFailed,
			Message: fmt.Sprintf("Error saving to CSV: %v", err),
			Count:   len(followings),
			Err:     err,
		}
	}

	logger.Debugw("export written", "path", path, "count", len(followings))

	return Outcome{
		Kind:    OutcomeExported,
		Message: fmt.Sprintf("Successfully saved followings to %s", path),
		Path:    path,
		Count:   len(followings),
	}
}

func validationOutcome(err error) Outcome {
	switch StatusOf(err) {
	case StatusNotFound:
		return Outcome{Kind: OutcomeNotFound, Message: "User not found. Please check the username.", Err: err}
	case StatusSuspended:
		return Outcome{Kind: OutcomeSuspended, Message: "Account is suspended", Err: err}
	case StatusPrivate:
		return Outcome{Kind: OutcomePrivate, Message: "Account is private", Err: err}
	default:
		return Outcome{
			Kind:    OutcomeValidationFailed,
			Message: fmt.Sprintf("Error checking username: %v", unwrapTransient(err)),
			Err:     err,
		}
	}
}

// unwrapTransient drops the operation prefix, the user-facing message already names it.
func unwrapTransient(err error) error {
	var transient *TransientError
	if errors.As(err, &transient) && transient.Err != nil {
		return transient.Err
	}
	return err
}
