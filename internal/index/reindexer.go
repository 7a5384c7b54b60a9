package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/souqly/marketplace/internal/domain"
)

// DefaultReindexBatchSize is the number of products fetched and submitted
// per batch during a full rebuild.
const DefaultReindexBatchSize = 500

// ProductSource streams product snapshots (with resolved category
// references) out of the relational store in ID order. Each call returns
// up to limit products with IDs greater than afterID; keyset pagination
// keeps the pass stable under concurrent inserts and deletes.
type ProductSource interface {
	ListBatch(ctx context.Context, afterID string, limit int) ([]domain.Product, error)
}

// Reindexer rebuilds the entire search index from the relational store. It
// is the only repair mechanism for drift accumulated from failed synchronous
// updates, and is safe to re-run at any time: later live writes win by
// upsert idempotence.
type Reindexer struct {
	engine    Engine
	source    ProductSource
	logger    *slog.Logger
	batchSize int
}

// NewReindexer creates a bulk reindexer. A batchSize <= 0 falls back to
// DefaultReindexBatchSize.
func NewReindexer(engine Engine, source ProductSource, logger *slog.Logger, batchSize int) *Reindexer {
	if batchSize <= 0 {
		batchSize = DefaultReindexBatchSize
	}
	return &Reindexer{
		engine:    engine,
		source:    source,
		logger:    logger,
		batchSize: batchSize,
	}
}

// ReindexAll refreshes the index configuration, then streams every product
// in bounded batches, maps each through the canonical document constructor,
// and submits batch upserts. It returns the number of documents submitted.
// Cancellation between batches leaves already-submitted batches intact.
func (r *Reindexer) ReindexAll(ctx context.Context) (int, error) {
	if err := r.engine.EnsureIndex(ctx, DefaultSettings()); err != nil {
		return 0, fmt.Errorf("ensure index: %w", err)
	}

	total := 0
	afterID := ""

	for {
		select {
		case <-ctx.Done():
			r.logger.WarnContext(ctx, "reindex interrupted",
				slog.Int("submitted", total),
			)
			return total, ctx.Err()
		default:
		}

		products, err := r.source.ListBatch(ctx, afterID, r.batchSize)
		if err != nil {
			return total, fmt.Errorf("list products batch after %q: %w", afterID, err)
		}
		if len(products) == 0 {
			break
		}

		docs := make([]domain.ProductDocument, 0, len(products))
		for i := range products {
			docs = append(docs, *domain.NewProductDocument(&products[i]))
		}

		if err := r.engine.UpsertBatch(ctx, docs); err != nil {
			return total, fmt.Errorf("submit batch after %q: %w", afterID, err)
		}

		total += len(docs)
		afterID = products[len(products)-1].ID
		reindexDocuments.Add(float64(len(docs)))

		if len(products) < r.batchSize {
			break
		}
	}

	r.logger.InfoContext(ctx, "reindex completed",
		slog.Int("submitted", total),
	)

	return total, nil
}
