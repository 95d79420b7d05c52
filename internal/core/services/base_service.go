package services

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/backoffice_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	clock func() time.Time
	cache portsrepo.ReportCache
}

// ServiceOption configures the shared parts of any service.
type ServiceOption func(*BaseService)

// WithClock overrides the wall clock, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.clock = now
	}
}

// WithReportCache plugs a report cache into the service.
func WithReportCache(cache portsrepo.ReportCache) ServiceOption {
	return func(s *BaseService) {
		s.cache = cache
	}
}

func (s *BaseService) apply(opts []ServiceOption) {
	for _, opt := range opts {
		opt(s)
	}
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

// Today returns the current UTC calendar day.
func (s *BaseService) Today() time.Time {
	y, m, d := s.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
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

// invalidateReports bumps the report cache after a ledger write. Failures are logged only.
func (s *BaseService) invalidateReports(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.LogError(ctx, err, "Failed to invalidate report cache")
	}
}

// loadReport runs loader through the report cache when one is configured.
func loadReport[T any](ctx context.Context, s *BaseService, loader func(context.Context) (T, error), keyParts ...string) (T, bool, error) {
	if s.cache == nil {
		v, err := loader(ctx)
		return v, false, err
	}
	var dest T
	stale, err := s.cache.Fetch(ctx, &dest, func(ctx context.Context) (any, error) {
		return loader(ctx)
	}, keyParts...)
	return dest, stale, err
}
