package api

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBackoffDelay(t *testing.T) {
	st := newRetryState(5)

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	for i, w := range want {
		if got := st.backoffDelay(); got != w {
			t.Errorf("attempt %d: backoffDelay() = %v, want %v", i, got, w)
		}
		st.resume()
	}
}

func TestScheduleRetry_Exhaustion(t *testing.T) {
	st := newRetryState(2)

	if !st.scheduleRetry(time.Second) {
		t.Fatal("first retry should be allowed")
	}
	st.resume()
	if !st.scheduleRetry(time.Second) {
		t.Fatal("second retry should be allowed")
	}
	st.resume()
	if st.scheduleRetry(time.Second) {
		t.Error("third retry should be refused with maxRetries = 2")
	}
}

func TestScheduleRetry_ZeroMaxRetries(t *testing.T) {
	st := newRetryState(0)
	if st.scheduleRetry(time.Second) {
		t.Error("retry should be refused with maxRetries = 0")
	}
}

func TestRetryState_Finish(t *testing.T) {
	st := newRetryState(3)
	st.finish([]byte(`{"ok":true}`), nil)

	if st.phase != phaseDone {
		t.Errorf("phase = %v, want phaseDone", st.phase)
	}
	if string(st.result) != `{"ok":true}` {
		t.Errorf("result = %s", st.result)
	}

	st = newRetryState(3)
	sentinel := errors.New("boom")
	st.finish(nil, sentinel)
	if st.err != sentinel {
		t.Errorf("err = %v, want sentinel", st.err)
	}
}

func TestSleepContext_Completes(t *testing.T) {
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("sleepContext() error = %v", err)
	}
}

func TestSleepContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sleepContext(ctx, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
