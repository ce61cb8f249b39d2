package resilience

import (
	"context"
	"errors"
	"testing"
)

func TestAuthRetryRefreshesOnceOnAuthError(t *testing.T) {
	calls := 0
	refreshes := 0
	policy := NewAuthRetryPolicy(nil, func(context.Context) error {
		refreshes++
		return nil
	})

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("401 Unauthorized")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
	if refreshes != 1 {
		t.Fatalf("expected 1 refresh, got %d", refreshes)
	}
}

func TestAuthRetryPropagatesNonAuthErrorImmediately(t *testing.T) {
	calls := 0
	refreshes := 0
	policy := NewAuthRetryPolicy(nil, func(context.Context) error {
		refreshes++
		return nil
	})

	want := errors.New("disk full")
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected original error, got %v", err)
	}
	if calls != 1 || refreshes != 0 {
		t.Fatalf("expected single attempt without refresh, got calls=%d refreshes=%d", calls, refreshes)
	}
}

func TestAuthRetryReturnsOriginalErrorWhenRetryFails(t *testing.T) {
	first := errors.New("token expired")
	calls := 0
	policy := NewAuthRetryPolicy(nil, func(context.Context) error { return nil })

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return first
		}
		return errors.New("still broken")
	})
	if !errors.Is(err, first) {
		t.Fatalf("expected the first error back, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 attempts, got %d", calls)
	}
}

func TestAuthRetryReturnsOriginalErrorWhenRefreshFails(t *testing.T) {
	first := errors.New("authentication required")
	calls := 0
	policy := NewAuthRetryPolicy(nil, func(context.Context) error {
		return errors.New("refresh endpoint down")
	})

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return first
	})
	if !errors.Is(err, first) {
		t.Fatalf("expected the first error back, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("refresh failure must not retry the operation, got %d calls", calls)
	}
}

func TestAuthRetryWithoutRefreshFunc(t *testing.T) {
	first := errors.New("invalid token")
	calls := 0
	policy := NewAuthRetryPolicy(nil, nil)

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return first
	})
	if !errors.Is(err, first) {
		t.Fatalf("expected the first error back, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected single attempt, got %d", calls)
	}
}

func TestAuthRetryCustomClassifier(t *testing.T) {
	refreshes := 0
	policy := NewAuthRetryPolicy(
		func(err error) bool { return err.Error() == "special" },
		func(context.Context) error {
			refreshes++
			return nil
		},
	)

	calls := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("special")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if refreshes != 1 {
		t.Fatalf("expected custom classifier to trigger refresh, got %d", refreshes)
	}
}

func TestDefaultAuthClassifier(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("401 Unauthorized"), true},
		{errors.New("HTTP 403 Forbidden"), true},
		{errors.New("Token has EXPIRED"), true},
		{errors.New("authentication backend offline"), true},
		{errors.New("disk full"), false},
		{errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		if got := DefaultAuthClassifier(tc.err); got != tc.want {
			t.Fatalf("DefaultAuthClassifier(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
