package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSource struct {
	validateErr   error
	validateCalls int
	raw           []string
	fetchErr      error
	fetchCalls    int
	caveat        bool
}

func (s *fakeSource) Name() string {
	return "fake"
}

func (s *fakeSource) Validate(_ context.Context, _ string) error {
	s.validateCalls++
	return s.validateErr
}

func (s *fakeSource) Fetch(_ context.Context, username string) (FollowingList, error) {
	s.fetchCalls++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}

	c := NewCollector(username)
	for _, h := range s.raw {
		c.Add(h)
	}

	return c.List(), nil
}

type caveatSource struct {
	*fakeSource
}

func (caveatSource) Caveat() string {
	return "may not retrieve all results"
}

type fakeExporter struct {
	err      error
	calls    int
	username string
	written  FollowingList
}

func (e *fakeExporter) Export(username string, followings FollowingList) (string, error) {
	e.calls++
	if e.err != nil {
		return "", e.err
	}
	e.username = username
	e.written = followings
	return "media/10162026-120000-" + username + ".csv", nil
}

func newTestOrchestrator(source Source, exporter Exporter) (*Orchestrator, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewOrchestrator(source, exporter, zap.New(core).Sugar()), logs
}

func TestRunExportsDeduplicatedFollowings(t *testing.T) {
	source := &fakeSource{raw: []string{"bob", "carol", "bob"}}
	exporter := &fakeExporter{}
	o, logs := newTestOrchestrator(source, exporter)

	outcome := o.Run(context.Background(), "alice")

	require.True(t, outcome.OK())
	assert.Equal(t, OutcomeExported, outcome.Kind)
	assert.Equal(t, "alice", exporter.username)
	assert.Equal(t, FollowingList{"@bob", "@carol"}, exporter.written)
	assert.Equal(t, 2, outcome.Count)
	assert.Equal(t, "Successfully saved followings to media/10162026-120000-alice.csv", outcome.Message)

	assert.Equal(t, 1, logs.FilterMessage("Checking username @alice...").Len())
	assert.Equal(t, 1, logs.FilterMessage("Found 2 followings. Saving to file...").Len())
	for _, entry := range logs.All() {
		assert.Contains(t, entry.ContextMap(), "run_id")
	}
}

func TestRunTrimsInput(t *testing.T) {
	exporter := &fakeExporter{}
	o, _ := newTestOrchestrator(&fakeSource{raw: []string{"bob"}}, exporter)

	outcome := o.Run(context.Background(), "  @alice ")

	assert.True(t, outcome.OK())
	assert.Equal(t, "alice", exporter.username)
}

func TestRunEmptyUsername(t *testing.T) {
	source := &fakeSource{}
	o, logs := newTestOrchestrator(source, &fakeExporter{})

	outcome := o.Run(context.Background(), "   ")

	assert.Equal(t, OutcomeEmptyInput, outcome.Kind)
	assert.Equal(t, "Username cannot be empty.", outcome.Message)
	assert.ErrorIs(t, outcome.Err, ErrEmptyInput)
	assert.Equal(t, 0, source.fetchCalls)
	assert.Equal(t, 0, logs.Len())
}

func TestRunRejectsMalformedUsername(t *testing.T) {
	for _, username := range []string{"x/../../../escaped", "a/b", "..", "bob.smith", "al ice", `c:\x`} {
		t.Run(username, func(t *testing.T) {
			source := &fakeSource{raw: []string{"bob"}}
			exporter := &fakeExporter{}
			o, logs := newTestOrchestrator(source, exporter)

			outcome := o.Run(context.Background(), username)

			assert.Equal(t, OutcomeInvalidUsername, outcome.Kind)
			assert.Equal(t, "invalid_username", outcome.Kind.String())
			assert.ErrorIs(t, outcome.Err, ErrInvalidUsername)
			assert.Equal(t, 0, source.validateCalls)
			assert.Equal(t, 0, source.fetchCalls)
			assert.Equal(t, 0, exporter.calls)
			assert.Equal(t, 0, logs.Len())
		})
	}
}

func TestRunValidationFailures(t *testing.T) {
	cases := []struct {
		err     error
		kind    OutcomeKind
		message string
	}{
		{ErrAccountNotFound, OutcomeNotFound, "User not found. Please check the username."},
		{ErrAccountSuspended, OutcomeSuspended, "Account is suspended"},
		{ErrAccountPrivate, OutcomePrivate, "Account is private"},
		{
			NewTransientError("get profile", errors.New("connection refused")),
			OutcomeValidationFailed,
			"Error checking username: connection refused",
		},
	}

	for _, c := range cases {
		t.Run(c.kind.String(), func(t *testing.T) {
			source := &fakeSource{validateErr: c.err, raw: []string{"bob"}}
			exporter := &fakeExporter{}
			o, _ := newTestOrchestrator(source, exporter)

			outcome := o.Run(context.Background(), "alice")

			assert.Equal(t, c.kind, outcome.Kind)
			assert.Equal(t, c.message, outcome.Message)
			assert.Equal(t, 0, source.fetchCalls)
			assert.Equal(t, 0, exporter.calls)
		})
	}
}

func TestRunFetchFailure(t *testing.T) {
	source := &fakeSource{fetchErr: NewTransientError("get following page", errors.New("timeout"))}
	exporter := &fakeExporter{}
	o, _ := newTestOrchestrator(source, exporter)

	outcome := o.Run(context.Background(), "alice")

	assert.Equal(t, OutcomeFetchFailed, outcome.Kind)
	assert.Equal(t, "Error fetching followings: timeout", outcome.Message)
	assert.Equal(t, 0, exporter.calls)
}

func TestRunNoFollowings(t *testing.T) {
	source := &fakeSource{raw: []string{"alice", "home"}}
	exporter := &fakeExporter{}
	o, _ := newTestOrchestrator(source, exporter)

	outcome := o.Run(context.Background(), "alice")

	assert.Equal(t, OutcomeNoFollowings, outcome.Kind)
	assert.ErrorIs(t, outcome.Err, ErrEmptyResult)
	assert.Equal(t, 1, source.fetchCalls)
	assert.Equal(t, 0, exporter.calls)
}

func TestRunWriteFailure(t *testing.T) {
	writeErr := &FileWriteError{Path: "media/x.csv", Err: errors.New("permission denied")}
	exporter := &fakeExporter{err: writeErr}
	o, _ := newTestOrchestrator(&fakeSource{raw: []string{"bob"}}, exporter)

	outcome := o.Run(context.Background(), "alice")

	assert.Equal(t, OutcomeWriteFailed, outcome.Kind)
	assert.Equal(t, "Error saving to CSV: cannot write media/x.csv: permission denied", outcome.Message)
	var target *FileWriteError
	assert.ErrorAs(t, outcome.Err, &target)
	assert.Equal(t, 1, exporter.calls)
}

func TestRunLogsCaveat(t *testing.T) {
	source := caveatSource{&fakeSource{raw: []string{"bob"}}}
	o, logs := newTestOrchestrator(source, &fakeExporter{})

	outcome := o.Run(context.Background(), "alice")

	assert.True(t, outcome.OK())
	assert.Equal(t, 1, logs.FilterMessage("may not retrieve all results").Len())
}
