package resilience

import (
	"context"
	"log/slog"
	"strings"
)

// AuthErrorClassifier decides whether an error is an authentication-class
// failure worth a credential refresh.
type AuthErrorClassifier func(err error) bool

var authErrorIndicators = []string{
	"unauthorized",
	"authentication",
	"token",
	"expired",
	"invalid",
	"401",
	"403",
}

// DefaultAuthClassifier matches the lower-cased error text against a fixed
// indicator list. It is a heuristic over opaque third-party errors: false
// positives and negatives are possible, so backends that can read status
// codes should supply their own classifier.
func DefaultAuthClassifier(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, indicator := range authErrorIndicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}

// AuthRetryPolicy executes an operation and, when the failure is classified
// as an authentication failure, refreshes credentials once and retries once.
type AuthRetryPolicy struct {
	Classify AuthErrorClassifier
	Refresh  func(ctx context.Context) error
}

func NewAuthRetryPolicy(classify AuthErrorClassifier, refresh func(ctx context.Context) error) *AuthRetryPolicy {
	if classify == nil {
		classify = DefaultAuthClassifier
	}
	return &AuthRetryPolicy{Classify: classify, Refresh: refresh}
}

type authAttempt int

const (
	attemptInitial authAttempt = iota
	attemptAfterRefresh
)

// Do runs op through the two-step state machine
// Attempt -> (Success | RefreshAndRetry -> (Success | Fail)).
// The step enum bounds the loop structurally: there is no path back to a
// second refresh. Whenever refresh or the retry fails, the original error is
// what comes back.
func (p *AuthRetryPolicy) Do(ctx context.Context, op func(context.Context) error) error {
	var firstErr error

	for step := attemptInitial; ; step = attemptAfterRefresh {
		err := op(ctx)
		if err == nil {
			return nil
		}

		if step == attemptAfterRefresh {
			slog.Error("auth_retry_failed", "error", err, "original_error", firstErr)
			return firstErr
		}

		if !p.Classify(err) {
			return err
		}
		firstErr = err

		slog.Warn("credential_refresh_triggered", "error", err)
		if p.Refresh == nil {
			return firstErr
		}
		if refreshErr := p.Refresh(ctx); refreshErr != nil {
			slog.Error("credential_refresh_failed", "error", refreshErr)
			return firstErr
		}
	}
}
