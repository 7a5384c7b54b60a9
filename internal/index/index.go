package index

import (
	"context"

	"github.com/souqly/marketplace/internal/domain"
)

// IndexName is the search index all product documents live in.
const IndexName = "products"

// Settings declares the index schema: primary key plus the attribute lists
// the engine searches, filters, and sorts on. Applying the same settings
// twice is a no-op with respect to existing documents.
type Settings struct {
	PrimaryKey string
	Searchable []string
	Filterable []string
	Sortable   []string
}

// DefaultSettings returns the product index configuration.
func DefaultSettings() Settings {
	return Settings{
		PrimaryKey: "id",
		Searchable: []string{"title", "description", "brand", "extra_features"},
		Filterable: []string{"category", "brand", "is_ad", "is_sold", "owner_id", "selling_price", "mrp"},
		Sortable:   []string{"created_at", "updated_at", "selling_price", "mrp"},
	}
}

// Engine defines the narrow interface to the external search engine.
// Implementations exist for Meilisearch and for in-memory testing.
type Engine interface {
	// EnsureIndex creates the index if missing and applies the settings.
	// It must be safe to call on every startup.
	EnsureIndex(ctx context.Context, settings Settings) error

	// Upsert submits a single add-or-replace operation keyed by document ID.
	Upsert(ctx context.Context, doc *domain.ProductDocument) error

	// UpsertBatch submits a batch add-or-replace operation.
	UpsertBatch(ctx context.Context, docs []domain.ProductDocument) error

	// Remove submits a delete-by-id operation. Removing a document that
	// does not exist is not an error.
	Remove(ctx context.Context, id string) error

	// Search forwards the query verbatim and returns up to limit hits in
	// the engine's relevance order. Zero hits is a successful outcome.
	Search(ctx context.Context, query string, limit int) ([]domain.ProductDocument, error)
}
