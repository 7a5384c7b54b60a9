package repository

import (
	"context"

	"github.com/souqly/marketplace/internal/domain"
)

// ProductFilter holds optional criteria for listing products.
type ProductFilter struct {
	OwnerID    *string
	CategoryID *string
	Brand      *string
	IsSold     *bool
	IsActive   *bool
	Page       int
	PerPage    int
}

// ProductRepository defines persistence operations for products. All reads
// return snapshots with the category reference resolved to its name, so a
// snapshot is always complete enough to index.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	// ListBatch streams products in ID order for bulk reindexing, returning
	// up to limit rows with IDs greater than afterID (empty afterID starts
	// from the beginning). Keyset pagination keeps the pass stable when
	// rows are inserted or deleted mid-run.
	ListBatch(ctx context.Context, afterID string, limit int) ([]domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
}
