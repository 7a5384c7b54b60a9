package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqly/marketplace/internal/domain"
	"github.com/souqly/marketplace/internal/index"
	"github.com/souqly/marketplace/internal/index/memory"
	"github.com/souqly/marketplace/internal/service"
	"github.com/souqly/marketplace/pkg/health"
	"github.com/souqly/marketplace/pkg/middleware"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   userID + "@example.com",
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

type staticSource struct {
	products    []domain.Product
	sawDeadline *bool
}

func (s *staticSource) ListBatch(ctx context.Context, afterID string, limit int) ([]domain.Product, error) {
	if s.sawDeadline != nil {
		_, ok := ctx.Deadline()
		*s.sawDeadline = ok
	}
	var out []domain.Product
	for _, p := range s.products {
		if p.ID > afterID {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func newTestRouter(t *testing.T, eng index.Engine, source index.ProductSource) http.Handler {
	t.Helper()
	log := newTestLogger()
	if source == nil {
		source = &staticSource{}
	}
	return NewRouter(RouterDeps{
		SearchService:  service.NewSearchService(eng, log),
		Reindexer:      index.NewReindexer(eng, source, log, 10),
		HealthHandler:  health.NewHandler(),
		TokenValidator: middleware.NewJWTValidator(testSecret),
		Logger:         log,
	})
}

func TestRouter_SearchRequiresAuth(t *testing.T) {
	router := newTestRouter(t, memory.New(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=bike", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_SearchWithToken(t *testing.T) {
	eng := memory.New()
	require.NoError(t, eng.Upsert(context.Background(), &domain.ProductDocument{
		ID: "p-1", Title: "Bike",
	}))
	router := newTestRouter(t, eng, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=bike", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-1", "user"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ReindexRequiresAdminRole(t *testing.T) {
	router := newTestRouter(t, memory.New(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reindex", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-1", "user"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_ReindexAsAdmin(t *testing.T) {
	eng := memory.New()
	source := &staticSource{products: []domain.Product{
		{ID: "p-1", Title: "Bike"},
		{ID: "p-2", Title: "Lamp"},
	}}
	router := newTestRouter(t, eng, source)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reindex", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "admin-1", "admin"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(2), data["indexed"])

	// The rebuild applied the index settings and made products searchable.
	require.NotNil(t, eng.Settings())
	docs, err := eng.Search(context.Background(), "lamp", 10)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestRouter_ReindexRunsWithoutRequestDeadline(t *testing.T) {
	eng := memory.New()
	sawDeadline := true
	source := &staticSource{
		products:    []domain.Product{{ID: "p-1", Title: "Bike"}},
		sawDeadline: &sawDeadline,
	}
	router := newTestRouter(t, eng, source)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reindex", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "admin-1", "admin"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// A full rebuild must be able to outlive the regular request timeout,
	// so the admin route runs without a deadline unless one is configured.
	assert.False(t, sawDeadline)
}

func TestRouter_ReindexHonorsConfiguredBound(t *testing.T) {
	eng := memory.New()
	sawDeadline := false
	source := &staticSource{
		products:    []domain.Product{{ID: "p-1", Title: "Bike"}},
		sawDeadline: &sawDeadline,
	}
	log := newTestLogger()
	router := NewRouter(RouterDeps{
		SearchService:  service.NewSearchService(eng, log),
		Reindexer:      index.NewReindexer(eng, source, log, 10),
		HealthHandler:  health.NewHandler(),
		TokenValidator: middleware.NewJWTValidator(testSecret),
		ReindexTimeout: time.Minute,
		Logger:         log,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reindex", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "admin-1", "admin"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sawDeadline)
}

func TestRouter_HealthLive(t *testing.T) {
	router := newTestRouter(t, memory.New(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
