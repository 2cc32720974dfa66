package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webclip"
)

// Ensure LoggingCollectionService implements webclip.CollectionService.
var _ webclip.CollectionService = (*LoggingCollectionService)(nil)

// LoggingCollectionService wraps a CollectionService with logging.
// Item values are never logged.
type LoggingCollectionService struct {
	next   webclip.CollectionService
	logger *slog.Logger
}

// NewLoggingCollectionService creates a new LoggingCollectionService.
func NewLoggingCollectionService(next webclip.CollectionService, logger *slog.Logger) *LoggingCollectionService {
	return &LoggingCollectionService{next: next, logger: logger}
}

func (s *LoggingCollectionService) ListCollections(ctx context.Context) (collections []*webclip.Collection, err error) {
	defer func(begin time.Time) {
		s.logger.Info("list collections",
			"count", len(collections),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListCollections(ctx)
}

func (s *LoggingCollectionService) FetchSchema(ctx context.Context, collectionID string) (schema *webclip.Schema, err error) {
	defer func(begin time.Time) {
		var props int
		if schema != nil {
			props = len(schema.Properties)
		}
		s.logger.Info("fetch schema",
			"collection", collectionID,
			"properties", props,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FetchSchema(ctx, collectionID)
}

func (s *LoggingCollectionService) CreateItem(ctx context.Context, collectionID string, item webclip.SanitizedItem, contentKey string) (id string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("create item",
			"collection", collectionID,
			"fields", len(item),
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateItem(ctx, collectionID, item, contentKey)
}

func (s *LoggingCollectionService) AppendContent(ctx context.Context, itemID, sourceURL, imageURL string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("append content",
			"id", itemID,
			"url", sourceURL,
			"image", imageURL != "",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.AppendContent(ctx, itemID, sourceURL, imageURL)
}
