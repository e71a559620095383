package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/dailybalance/internal/core/domain"
	"github.com/SscSPs/dailybalance/internal/core/ports/clients"
	"github.com/SscSPs/dailybalance/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Notifier clients.ChangeNotifier
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Notify publishes a data-changed event if a notifier is configured.
func (s *BaseService) Notify(ctx context.Context, userID string, date string, changeType domain.ChangeType) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Notify(ctx, domain.DataChanged{UserID: userID, Date: date, Type: changeType})
}
