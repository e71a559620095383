// Package airetry classifies failures of the model provider and retries the
// transient ones.
package airetry

import (
	"context"
	"errors"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"syscall"

	"github.com/SscSPs/dailybalance/internal/apperrors"
)

// Kind is the closed taxonomy of AI request failures.
type Kind string

const (
	Network   Kind = "network"
	RateLimit Kind = "rate_limit"
	Auth      Kind = "auth"
	Server    Kind = "server"
	Timeout   Kind = "timeout"
	Unknown   Kind = "unknown"
)

// AIError is a classified failure. Message is safe to show to the user.
type AIError struct {
	Kind      Kind
	Message   string
	Retryable bool
	// ShowRetry tells the client whether to offer a manual retry button.
	ShowRetry bool
	Cause     error
}

func (e *AIError) Error() string {
	return e.Message
}

func (e *AIError) Unwrap() error {
	return e.Cause
}

var statusPattern = regexp.MustCompile(`(?i)(?:status|code|http)\D{0,10}([45]\d\d)`)

// Classify maps err onto the AIError taxonomy. Rules are checked in order:
// network, rate limit, auth, server, timeout, then unknown. A nil error yields nil
// and an already classified error is returned as is.
func Classify(err error) *AIError {
	if err == nil {
		return nil
	}
	var classified *AIError
	if errors.As(err, &classified) {
		return classified
	}

	status := statusOf(err)
	text := strings.ToLower(err.Error())

	switch {
	case isNetwork(err, text):
		return &AIError{Kind: Network, Retryable: true, ShowRetry: true, Cause: err,
			Message: "Unable to reach the AI service. Check your internet connection and try again."}
	case status == 429 || containsAny(text, "rate limit", "too many requests", "resource_exhausted", "quota"):
		return &AIError{Kind: RateLimit, Retryable: true, ShowRetry: false, Cause: err,
			Message: "The AI service is receiving too many requests. Please wait a moment."}
	case status == 401 || status == 403 || containsAny(text, "unauthorized", "unauthenticated", "permission_denied", "forbidden", "api key not valid", "invalid api key"):
		return &AIError{Kind: Auth, Retryable: false, ShowRetry: false, Cause: err,
			Message: "The AI service rejected your credentials. Update your API key in settings."}
	case status == 500 || status == 502 || status == 503 || containsAny(text, "internal server error", "bad gateway", "service unavailable"):
		return &AIError{Kind: Server, Retryable: true, ShowRetry: true, Cause: err,
			Message: "The AI service is having temporary problems. Please try again."}
	case isTimeout(err, status, text):
		return &AIError{Kind: Timeout, Retryable: true, ShowRetry: true, Cause: err,
			Message: "The AI service took too long to respond. Please try again."}
	default:
		return &AIError{Kind: Unknown, Retryable: false, ShowRetry: true, Cause: err,
			Message: "Something went wrong: " + err.Error()}
	}
}

func statusOf(err error) int {
	var statusErr *apperrors.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code >= 400 {
		return appErr.Code
	}
	if m := statusPattern.FindStringSubmatch(err.Error()); m != nil {
		code, _ := strconv.Atoi(m[1])
		return code
	}
	return 0
}

func isNetwork(err error, text string) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return false
	}
	var dnsErr *net.DNSError
	var opErr *net.OpError
	var urlErr *url.Error
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) || errors.As(err, &urlErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	return containsAny(text, "network", "connection refused", "connection reset", "no such host", "failed to fetch", "fetch failed")
}

func isTimeout(err error, status int, text string) bool {
	if errors.Is(err, context.DeadlineExceeded) || status == 504 {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return containsAny(text, "timeout", "timed out", "deadline exceeded")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
