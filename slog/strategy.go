// Package slog provides logging decorators for pipeline dependencies.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/shoplens/shoplens"
)

// Ensure LoggingStrategy implements shoplens.Strategy.
var _ shoplens.Strategy = (*LoggingStrategy)(nil)

// LoggingStrategy wraps a Strategy with per-attempt logging.
type LoggingStrategy struct {
	next   shoplens.Strategy
	logger *slog.Logger
}

// NewLoggingStrategy creates a new LoggingStrategy.
func NewLoggingStrategy(next shoplens.Strategy, logger *slog.Logger) *LoggingStrategy {
	return &LoggingStrategy{next: next, logger: logger}
}

// Name delegates to the wrapped strategy.
func (s *LoggingStrategy) Name() string {
	return s.next.Name()
}

// Extract delegates to the wrapped strategy and logs the attempt.
func (s *LoggingStrategy) Extract(ctx context.Context, page *shoplens.PageContext) (rec *shoplens.ProductRecord, err error) {
	defer func(begin time.Time) {
		s.logger.Info("strategy extract",
			"strategy", s.next.Name(),
			"url", page.URL,
			"complete", rec != nil && rec.Complete(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Extract(ctx, page)
}
