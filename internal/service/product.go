package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/souqly/marketplace/internal/domain"
	"github.com/souqly/marketplace/internal/event"
	"github.com/souqly/marketplace/internal/repository"
	apperrors "github.com/souqly/marketplace/pkg/errors"
)

// CreateProductInput holds the fields for creating a product.
type CreateProductInput struct {
	Title         string
	Description   string
	OwnerID       string
	CategoryID    *string
	Brand         string
	Images        []string
	Quantity      int
	MRP           float64
	SellingPrice  float64
	IsAd          bool
	ExtraFeatures map[string]any
}

// UpdateProductInput holds the optional fields for updating a product. Nil
// fields are left unchanged.
type UpdateProductInput struct {
	Title         *string
	Description   *string
	CategoryID    *string
	Brand         *string
	Images        []string
	Quantity      *int
	MRP           *float64
	SellingPrice  *float64
	IsAd          *bool
	IsSold        *bool
	IsActive      *bool
	ExtraFeatures map[string]any
}

// IndexSyncer mirrors committed product writes into the search index. Both
// operations are best-effort and never fail the caller.
type IndexSyncer interface {
	Upsert(ctx context.Context, p *domain.Product)
	Remove(ctx context.Context, id string)
}

// ProductService implements product lifecycle operations. Every committed
// write is followed by a synchronous best-effort index update and a Kafka
// event; neither can fail the entity operation itself.
type ProductService struct {
	repo     repository.ProductRepository
	catRepo  repository.CategoryRepository
	syncer   IndexSyncer
	producer *event.Producer
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	repo repository.ProductRepository,
	catRepo repository.CategoryRepository,
	syncer IndexSyncer,
	producer *event.Producer,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		repo:     repo,
		catRepo:  catRepo,
		syncer:   syncer,
		producer: producer,
		logger:   logger,
	}
}

// Create persists a new product, then mirrors it into the search index. The
// index write cannot fail the create: a search outage degrades discovery,
// never listing.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.CategoryID != nil {
		if _, err := s.catRepo.GetByID(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:            uuid.New().String(),
		Title:         input.Title,
		Description:   input.Description,
		OwnerID:       input.OwnerID,
		CategoryID:    input.CategoryID,
		Brand:         input.Brand,
		Images:        domain.JoinImages(input.Images),
		Quantity:      input.Quantity,
		MRP:           input.MRP,
		SellingPrice:  input.SellingPrice,
		IsAd:          input.IsAd,
		IsActive:      true,
		ExtraFeatures: input.ExtraFeatures,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	// Re-read so the snapshot carries the resolved category name for
	// indexing and the response body.
	created, err := s.repo.GetByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	s.syncer.Upsert(ctx, created)
	s.producer.ProductCreated(ctx, created)

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", created.ID),
		slog.String("owner_id", created.OwnerID),
	)

	return created, nil
}

// GetByID returns a product snapshot.
func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns products matching the filter with the total count.
func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	return s.repo.List(ctx, filter)
}

// Update applies the non-nil input fields to an existing product and mirrors
// the new snapshot into the search index. Only the owner or an admin may
// update a product.
func (s *ProductService) Update(ctx context.Context, id, actorID, actorRole string, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.OwnerID != actorID && actorRole != "admin" {
		return nil, apperrors.Forbidden("you can only modify your own products")
	}

	if input.CategoryID != nil {
		if _, err := s.catRepo.GetByID(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}
	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Images != nil {
		product.Images = domain.JoinImages(input.Images)
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.MRP != nil {
		product.MRP = *input.MRP
	}
	if input.SellingPrice != nil {
		product.SellingPrice = *input.SellingPrice
	}
	if input.IsAd != nil {
		product.IsAd = *input.IsAd
	}
	if input.IsSold != nil {
		product.IsSold = *input.IsSold
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.ExtraFeatures != nil {
		product.ExtraFeatures = input.ExtraFeatures
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.syncer.Upsert(ctx, updated)
	s.producer.ProductUpdated(ctx, updated)

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", updated.ID),
	)

	return updated, nil
}

// Delete removes a product and its search document. Only the owner or an
// admin may delete a product.
func (s *ProductService) Delete(ctx context.Context, id, actorID, actorRole string) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if product.OwnerID != actorID && actorRole != "admin" {
		return apperrors.Forbidden("you can only modify your own products")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.syncer.Remove(ctx, id)
	s.producer.ProductDeleted(ctx, id)

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}
