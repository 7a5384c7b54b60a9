package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqly/marketplace/internal/domain"
	"github.com/souqly/marketplace/internal/index"
	"github.com/souqly/marketplace/internal/index/memory"
	"github.com/souqly/marketplace/internal/service"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type downEngine struct{}

func (downEngine) EnsureIndex(context.Context, index.Settings) error { return errors.New("down") }
func (downEngine) Upsert(context.Context, *domain.ProductDocument) error {
	return errors.New("down")
}
func (downEngine) UpsertBatch(context.Context, []domain.ProductDocument) error {
	return errors.New("down")
}
func (downEngine) Remove(context.Context, string) error { return errors.New("down") }
func (downEngine) Search(context.Context, string, int) ([]domain.ProductDocument, error) {
	return nil, errors.New("connection refused")
}

func newSearchHandler(t *testing.T, eng index.Engine) *SearchHandler {
	t.Helper()
	return NewSearchHandler(service.NewSearchService(eng, newTestLogger()), newTestLogger())
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSearchHandler_Search(t *testing.T) {
	eng := memory.New()
	require.NoError(t, eng.Upsert(context.Background(), &domain.ProductDocument{
		ID: "p-1", Title: "Blue Bicycle", SellingPrice: 199.99,
	}))
	h := newSearchHandler(t, eng)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=bicycle", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	products := data["products"].([]any)
	require.Len(t, products, 1)
	hit := products[0].(map[string]any)
	assert.Equal(t, "p-1", hit["id"])
	assert.Equal(t, "Blue Bicycle", hit["title"])
	assert.Equal(t, 199.99, hit["selling_price"])
	// Summaries only; the full document never leaks out.
	assert.NotContains(t, hit, "description")
	assert.NotContains(t, hit, "owner_id")
}

func TestSearchHandler_MissingQuery(t *testing.T) {
	h := newSearchHandler(t, memory.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "INVALID_INPUT", errObj["code"])
}

func TestSearchHandler_ZeroHits(t *testing.T) {
	h := newSearchHandler(t, memory.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=nomatch", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	assert.Empty(t, data["products"])
	assert.Equal(t, "no products found", data["message"])
}

func TestSearchHandler_EngineDownIs503(t *testing.T) {
	h := newSearchHandler(t, downEngine{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=bicycle", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "SEARCH_UNAVAILABLE", errObj["code"])
}

func TestSearchHandler_InvalidLimit(t *testing.T) {
	h := newSearchHandler(t, memory.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=bike&limit=abc", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
