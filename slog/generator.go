package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/webclip"
)

// Ensure LoggingGenerator implements webclip.Generator.
var _ webclip.Generator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a Generator with logging. Page content is logged
// as a fingerprint only.
type LoggingGenerator struct {
	next   webclip.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next webclip.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// GenerateItem delegates to the wrapped generator and logs the operation.
func (g *LoggingGenerator) GenerateItem(ctx context.Context, req webclip.GenerateRequest) (item webclip.DraftItem, err error) {
	defer func(begin time.Time) {
		g.logger.Info("generate item",
			"url", req.URL,
			"content_bytes", len(req.PageContent),
			"content_hash", xxhash.Sum64String(req.PageContent),
			"guidance", req.Guidance != "",
			"fields", len(item),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.GenerateItem(ctx, req)
}
