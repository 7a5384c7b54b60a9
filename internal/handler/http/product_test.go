package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqly/marketplace/internal/domain"
	"github.com/souqly/marketplace/internal/event"
	"github.com/souqly/marketplace/internal/repository"
	"github.com/souqly/marketplace/internal/service"
	apperrors "github.com/souqly/marketplace/pkg/errors"
	"github.com/souqly/marketplace/pkg/middleware"
)

type memProductRepo struct {
	products map[string]domain.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]domain.Product)}
}

func (r *memProductRepo) Create(_ context.Context, p *domain.Product) error {
	r.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	return &p, nil
}

func (r *memProductRepo) List(_ context.Context, _ repository.ProductFilter) ([]domain.Product, int, error) {
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *memProductRepo) ListBatch(_ context.Context, _ string, _ int) ([]domain.Product, error) {
	return nil, nil
}

func (r *memProductRepo) Update(_ context.Context, p *domain.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return apperrors.NotFound("product", p.ID)
	}
	r.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return apperrors.NotFound("product", id)
	}
	delete(r.products, id)
	return nil
}

type memCategoryRepo struct{}

func (memCategoryRepo) List(context.Context) ([]domain.Category, error) {
	return nil, nil
}

func (memCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	return nil, apperrors.NotFound("category", id)
}

type noopSyncer struct{}

func (noopSyncer) Upsert(context.Context, *domain.Product) {}
func (noopSyncer) Remove(context.Context, string)          {}

func newProductTestHandler(t *testing.T) (*ProductHandler, *memProductRepo) {
	t.Helper()
	repo := newMemProductRepo()
	svc := service.NewProductService(
		repo, memCategoryRepo{}, noopSyncer{},
		event.NewProducer(nil, newTestLogger()), newTestLogger(),
	)
	return NewProductHandler(svc, newTestLogger()), repo
}

func authedAs(userID, role string) func(http.Handler) http.Handler {
	return middleware.Auth(func(string) (*middleware.Claims, error) {
		return &middleware.Claims{UserID: userID, Role: role}, nil
	})
}

func TestProductHandler_Create(t *testing.T) {
	h, repo := newProductTestHandler(t)

	body := `{"title":"Blue Bicycle","selling_price":199.99,"brand":"Trek"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	authedAs("owner-1", "user")(http.HandlerFunc(h.Create)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.products, 1)
	for _, p := range repo.products {
		assert.Equal(t, "Blue Bicycle", p.Title)
		assert.Equal(t, "owner-1", p.OwnerID)
		assert.True(t, p.IsActive)
	}
}

func TestProductHandler_CreateValidation(t *testing.T) {
	h, repo := newProductTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"selling_price":10}`},
		{"title too short", `{"title":"ab","selling_price":10}`},
		{"zero price", `{"title":"A valid title","selling_price":0}`},
		{"negative quantity", `{"title":"A valid title","selling_price":10,"quantity":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(tt.body))
			req.Header.Set("Authorization", "Bearer token")
			rec := httptest.NewRecorder()

			authedAs("owner-1", "user")(http.HandlerFunc(h.Create)).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Empty(t, repo.products)
}

func TestProductHandler_GetNotFound(t *testing.T) {
	h, _ := newProductTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/7f9c1a34-0000-4000-8000-000000000001", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "7f9c1a34-0000-4000-8000-000000000001")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductHandler_GetInvalidUUID(t *testing.T) {
	h, _ := newProductTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/not-a-uuid", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
