package api

import (
	"context"
	"encoding/json"
	"time"
)

// retryPhase is the current phase of a logical request.
type retryPhase int

const (
	// phaseAttempt means the next step is to send the request.
	phaseAttempt retryPhase = iota
	// phaseBackoff means the next step is to sleep for state.delay.
	phaseBackoff
	// phaseDone means a terminal outcome has been reached.
	phaseDone
)

// retryState drives one logical request through its attempt/backoff cycle.
// It lives for the duration of a single Do call and is discarded afterwards.
type retryState struct {
	phase      retryPhase
	attempt    int
	maxRetries int
	delay      time.Duration

	result json.RawMessage
	err    error
}

func newRetryState(maxRetries int) *retryState {
	return &retryState{maxRetries: maxRetries}
}

// backoffDelay returns the exponential backoff delay for the current
// attempt: 2^attempt seconds, attempt being 0-based.
func (s *retryState) backoffDelay() time.Duration {
	return time.Duration(1<<s.attempt) * time.Second
}

// scheduleRetry transitions to the backoff phase with the given delay.
// It reports false when attempts are exhausted; the caller must then finish.
func (s *retryState) scheduleRetry(delay time.Duration) bool {
	if s.attempt >= s.maxRetries {
		return false
	}
	s.delay = delay
	s.phase = phaseBackoff
	return true
}

// resume moves from backoff back to the attempt phase.
func (s *retryState) resume() {
	s.attempt++
	s.phase = phaseAttempt
}

// finish records the terminal outcome.
func (s *retryState) finish(result json.RawMessage, err error) {
	s.result = result
	s.err = err
	s.phase = phaseDone
}

// sleepContext blocks for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
