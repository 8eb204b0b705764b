package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/shoplens/shoplens"
)

// Ensure LoggingInferrer implements shoplens.Inferrer.
var _ shoplens.Inferrer = (*LoggingInferrer)(nil)

// LoggingInferrer wraps an Inferrer with request logging. Inference is
// the slowest and flakiest dependency, so every call gets a line.
type LoggingInferrer struct {
	next   shoplens.Inferrer
	logger *slog.Logger
}

// NewLoggingInferrer creates a new LoggingInferrer.
func NewLoggingInferrer(next shoplens.Inferrer, logger *slog.Logger) *LoggingInferrer {
	return &LoggingInferrer{next: next, logger: logger}
}

// Infer delegates to the wrapped inferrer and logs the call.
func (i *LoggingInferrer) Infer(ctx context.Context, prompt string, image []byte) (text string, err error) {
	defer func(begin time.Time) {
		i.logger.Info("inference",
			"prompt_chars", len(prompt),
			"image_bytes", len(image),
			"response_chars", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.Infer(ctx, prompt, image)
}
