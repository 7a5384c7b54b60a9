package service

import (
	"context"

	"github.com/souqly/marketplace/internal/domain"
	"github.com/souqly/marketplace/internal/repository"
)

// CategoryService exposes read-only category operations.
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

// GetByID returns a single category.
func (s *CategoryService) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	return s.repo.GetByID(ctx, id)
}
