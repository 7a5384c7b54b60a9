package meilisearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/meilisearch/meilisearch-go"

	"github.com/souqly/marketplace/internal/domain"
	"github.com/souqly/marketplace/internal/index"
)

// Engine is a Meilisearch-backed implementation of the index.Engine
// interface. All concurrency control for conflicting writes to the same
// document ID is delegated to Meilisearch (last write wins).
type Engine struct {
	client    meilisearch.ServiceManager
	index     meilisearch.IndexManager
	indexName string
	logger    *slog.Logger
}

// New creates a Meilisearch engine connected to the given host. If indexName
// is empty, index.IndexName ("products") is used. The index itself is
// created lazily by EnsureIndex.
func New(host, apiKey, indexName string, logger *slog.Logger) *Engine {
	if indexName == "" {
		indexName = index.IndexName
	}

	var opts []meilisearch.Option
	if apiKey != "" {
		opts = append(opts, meilisearch.WithAPIKey(apiKey))
	}
	client := meilisearch.New(host, opts...)

	return &Engine{
		client:    client,
		index:     client.Index(indexName),
		indexName: indexName,
		logger:    logger,
	}
}

// Ping checks whether the Meilisearch instance is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	if _, err := e.client.HealthWithContext(ctx); err != nil {
		return fmt.Errorf("meilisearch health: %w", err)
	}
	return nil
}

// EnsureIndex creates the index (tolerating an already-existing one) and
// applies the attribute settings. Re-applying identical settings is a no-op
// with respect to existing documents, so this is safe on every startup.
func (e *Engine) EnsureIndex(ctx context.Context, settings index.Settings) error {
	_, err := e.client.CreateIndexWithContext(ctx, &meilisearch.IndexConfig{
		Uid:        e.indexName,
		PrimaryKey: settings.PrimaryKey,
	})
	if err != nil {
		// The index usually exists already; settings update below is the
		// authoritative step.
		e.logger.WarnContext(ctx, "index create skipped",
			slog.String("index", e.indexName),
			slog.String("error", err.Error()),
		)
	}

	_, err = e.index.UpdateSettingsWithContext(ctx, &meilisearch.Settings{
		SearchableAttributes: settings.Searchable,
		FilterableAttributes: settings.Filterable,
		SortableAttributes:   settings.Sortable,
	})
	if err != nil {
		return fmt.Errorf("meilisearch update settings: %w", err)
	}

	e.logger.InfoContext(ctx, "index settings applied",
		slog.String("index", e.indexName),
	)
	return nil
}

// Upsert submits a single add-or-replace operation keyed by document ID.
func (e *Engine) Upsert(ctx context.Context, doc *domain.ProductDocument) error {
	if _, err := e.index.AddDocumentsWithContext(ctx, []domain.ProductDocument{*doc}); err != nil {
		return fmt.Errorf("meilisearch add document: %w", err)
	}
	return nil
}

// UpsertBatch submits a batch add-or-replace operation.
func (e *Engine) UpsertBatch(ctx context.Context, docs []domain.ProductDocument) error {
	if len(docs) == 0 {
		return nil
	}
	if _, err := e.index.AddDocumentsWithContext(ctx, docs); err != nil {
		return fmt.Errorf("meilisearch add documents: %w", err)
	}
	return nil
}

// Remove submits a delete-by-id operation. Meilisearch treats deleting a
// missing document as a successful task, matching the no-op contract.
func (e *Engine) Remove(ctx context.Context, id string) error {
	if _, err := e.index.DeleteDocumentWithContext(ctx, id); err != nil {
		return fmt.Errorf("meilisearch delete document: %w", err)
	}
	return nil
}

// Search forwards the query verbatim and decodes up to limit hits, ranked
// entirely by Meilisearch.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]domain.ProductDocument, error) {
	resp, err := e.index.SearchWithContext(ctx, query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("meilisearch search: %w", err)
	}

	docs := make([]domain.ProductDocument, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			return nil, fmt.Errorf("meilisearch search: marshal hit: %w", err)
		}
		var doc domain.ProductDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("meilisearch search: decode hit: %w", err)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}
