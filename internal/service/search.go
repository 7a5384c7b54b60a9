package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/souqly/marketplace/internal/domain"
	"github.com/souqly/marketplace/internal/index"
	apperrors "github.com/souqly/marketplace/pkg/errors"
)

const (
	// DefaultSearchLimit is the number of hits returned when the caller does
	// not specify a limit.
	DefaultSearchLimit = 10
	// MaxSearchLimit caps the per-request result size.
	MaxSearchLimit = 50
)

// SearchService validates queries and translates engine outcomes into the
// API's error taxonomy. An unreachable engine is a 503, never an empty result.
type SearchService struct {
	engine index.Engine
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(engine index.Engine, logger *slog.Logger) *SearchService {
	return &SearchService{engine: engine, logger: logger}
}

// Search runs a full-text query and returns minimal product summaries. An
// empty or whitespace-only query is rejected before the engine is consulted.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]domain.ProductSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.InvalidInput("query parameter 'q' is required")
	}

	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	docs, err := s.engine.Search(ctx, query, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "search engine query failed",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.SearchUnavailable(err)
	}

	summaries := make([]domain.ProductSummary, 0, len(docs))
	for i := range docs {
		summaries = append(summaries, docs[i].Summary())
	}

	return summaries, nil
}
