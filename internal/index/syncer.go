package index

import (
	"context"
	"log/slog"
	"time"

	"github.com/souqly/marketplace/internal/domain"
)

// DefaultSyncTimeout bounds each engine call so a slow search backend cannot
// hang the user-facing write that triggered it.
const DefaultSyncTimeout = 3 * time.Second

// Syncer keeps the external search index consistent with product mutations.
// It is invoked synchronously after each committed write. Engine failures are
// logged and swallowed: the relational store is the source of truth and the
// index update is best-effort, repaired by a later bulk reindex.
type Syncer struct {
	engine  Engine
	logger  *slog.Logger
	timeout time.Duration
}

// NewSyncer creates a synchronizer for the given engine. A timeout <= 0
// falls back to DefaultSyncTimeout.
func NewSyncer(engine Engine, logger *slog.Logger, timeout time.Duration) *Syncer {
	if timeout <= 0 {
		timeout = DefaultSyncTimeout
	}
	return &Syncer{
		engine:  engine,
		logger:  logger,
		timeout: timeout,
	}
}

// Upsert builds the canonical document for the product snapshot and submits
// an add-or-replace keyed by its ID. Repeated upserts of the same state
// converge to the same document; ordering across snapshots is the caller's
// responsibility. Never returns an error to the caller.
func (s *Syncer) Upsert(ctx context.Context, p *domain.Product) {
	syncTotal.WithLabelValues("upsert").Inc()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc := domain.NewProductDocument(p)
	if err := s.engine.Upsert(ctx, doc); err != nil {
		syncFailures.WithLabelValues("upsert").Inc()
		s.logger.ErrorContext(ctx, "index upsert failed, document dropped until next reindex",
			slog.String("product_id", p.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.DebugContext(ctx, "product indexed",
		slog.String("product_id", p.ID),
		slog.String("title", p.Title),
	)
}

// Remove submits a delete-by-id operation. Removing a document that does not
// exist is a no-op. Never returns an error to the caller.
func (s *Syncer) Remove(ctx context.Context, id string) {
	syncTotal.WithLabelValues("remove").Inc()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.engine.Remove(ctx, id); err != nil {
		syncFailures.WithLabelValues("remove").Inc()
		s.logger.ErrorContext(ctx, "index remove failed, document orphaned until next reindex",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.DebugContext(ctx, "product removed from index",
		slog.String("product_id", id),
	)
}
