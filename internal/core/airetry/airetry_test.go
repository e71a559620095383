package airetry_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/SscSPs/dailybalance/internal/apperrors"
	"github.com/SscSPs/dailybalance/internal/core/airetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		kind      airetry.Kind
		retryable bool
		showRetry bool
	}{
		{"dns failure", &net.DNSError{Err: "no such host", Name: "generativelanguage.googleapis.com"}, airetry.Network, true, true},
		{"fetch text", errors.New("TypeError: Failed to fetch"), airetry.Network, true, true},
		{"429 status", &apperrors.StatusError{StatusCode: 429, Message: "slow down"}, airetry.RateLimit, true, false},
		{"quota text", errors.New("RESOURCE_EXHAUSTED: quota exceeded"), airetry.RateLimit, true, false},
		{"401 status", &apperrors.StatusError{StatusCode: 401, Message: "bad key"}, airetry.Auth, false, false},
		{"403 in text", errors.New("request failed with status 403"), airetry.Auth, false, false},
		{"503 status", fmt.Errorf("stream: %w", &apperrors.StatusError{StatusCode: 503, Message: "overloaded"}), airetry.Server, true, true},
		{"502 text", errors.New("Bad Gateway"), airetry.Server, true, true},
		{"deadline", context.DeadlineExceeded, airetry.Timeout, true, true},
		{"timeout text", errors.New("request timed out"), airetry.Timeout, true, true},
		{"400 status", &apperrors.StatusError{StatusCode: 400, Message: "bad request"}, airetry.Unknown, false, true},
		{"plain", errors.New("boom"), airetry.Unknown, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := airetry.Classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.retryable, got.Retryable)
			assert.Equal(t, tt.showRetry, got.ShowRetry)
			assert.NotEmpty(t, got.Message)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_NilAndAlreadyClassified(t *testing.T) {
	assert.Nil(t, airetry.Classify(nil))

	inner := airetry.Classify(errors.New("status 429"))
	wrapped := fmt.Errorf("chat: %w", inner)
	assert.Same(t, inner, airetry.Classify(wrapped))
}

func TestClassify_UnknownKeepsRawTextOnlyInFallback(t *testing.T) {
	auth := airetry.Classify(&apperrors.StatusError{StatusCode: 401, Message: "secret-token-xyz"})
	assert.NotContains(t, auth.Message, "secret-token-xyz")

	unknown := airetry.Classify(errors.New("odd failure"))
	assert.Contains(t, unknown.Message, "odd failure")
}

type recordedSleep struct {
	delays []time.Duration
}

func (r *recordedSleep) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func testPolicy(rec *recordedSleep) airetry.Policy {
	p := airetry.DefaultPolicy
	p.Sleep = rec.sleep
	return p
}

func TestWithPolicy_RetriesTransientThenSucceeds(t *testing.T) {
	rec := &recordedSleep{}
	calls := 0

	got, err := airetry.WithPolicy(context.Background(), testPolicy(rec), "stream", func(ctx context.Context, attempt int) (string, error) {
		calls++
		assert.Equal(t, calls, attempt)
		if attempt < 3 {
			return "", &apperrors.StatusError{StatusCode: 503, Message: "unavailable"}
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
}

func TestWithPolicy_DoesNotRetryAuth(t *testing.T) {
	rec := &recordedSleep{}
	calls := 0

	_, err := airetry.WithPolicy(context.Background(), testPolicy(rec), "stream", func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, &apperrors.StatusError{StatusCode: 401, Message: "invalid"}
	})

	require.Error(t, err)
	var aiErr *airetry.AIError
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, airetry.Auth, aiErr.Kind)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.delays)
}

func TestWithPolicy_ExhaustsAttemptsAndReturnsClassified(t *testing.T) {
	rec := &recordedSleep{}
	raw := errors.New("connection refused")
	calls := 0

	_, err := airetry.WithPolicy(context.Background(), testPolicy(rec), "stream", func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, raw
	})

	var aiErr *airetry.AIError
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, airetry.Network, aiErr.Kind)
	assert.NotEqual(t, raw.Error(), err.Error())
	assert.Equal(t, 3, calls)
	assert.Len(t, rec.delays, 2)
}

func TestWithPolicy_StopsWhenContextDoneDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	p := airetry.Policy{MaxAttempts: 3, BaseDelay: time.Hour}

	_, err := airetry.WithPolicy(ctx, p, "stream", func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, errors.New("network down")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestPolicy_Delay(t *testing.T) {
	p := airetry.DefaultPolicy
	assert.Equal(t, time.Second, p.Delay(1))
	assert.Equal(t, 2*time.Second, p.Delay(2))
	assert.Equal(t, 4*time.Second, p.Delay(3))
}
