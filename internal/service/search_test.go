package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqly/marketplace/internal/domain"
	"github.com/souqly/marketplace/internal/index"
	"github.com/souqly/marketplace/internal/index/memory"
	apperrors "github.com/souqly/marketplace/pkg/errors"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// failingEngine fails every call. It stands in for an unreachable backend.
type failingEngine struct {
	searched bool
}

func (e *failingEngine) EnsureIndex(context.Context, index.Settings) error { return errors.New("down") }
func (e *failingEngine) Upsert(context.Context, *domain.ProductDocument) error {
	return errors.New("down")
}
func (e *failingEngine) UpsertBatch(context.Context, []domain.ProductDocument) error {
	return errors.New("down")
}
func (e *failingEngine) Remove(context.Context, string) error { return errors.New("down") }
func (e *failingEngine) Search(context.Context, string, int) ([]domain.ProductDocument, error) {
	e.searched = true
	return nil, errors.New("connection refused")
}

func TestSearchService_Search(t *testing.T) {
	ctx := context.Background()
	eng := memory.New()
	require.NoError(t, eng.Upsert(ctx, &domain.ProductDocument{
		ID: "p-1", Title: "Blue Bicycle", SellingPrice: 199.99,
	}))

	svc := NewSearchService(eng, newTestLogger())

	results, err := svc.Search(ctx, "bicycle", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.ProductSummary{ID: "p-1", Title: "Blue Bicycle", SellingPrice: 199.99}, results[0])
}

func TestSearchService_EmptyQueryRejectedBeforeEngineCall(t *testing.T) {
	eng := &failingEngine{}
	svc := NewSearchService(eng, newTestLogger())

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := svc.Search(context.Background(), q, 10)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
	}

	// The engine was never consulted, so its outage is irrelevant here.
	assert.False(t, eng.searched)
}

func TestSearchService_EngineFailureIsUnavailableNotEmpty(t *testing.T) {
	svc := NewSearchService(&failingEngine{}, newTestLogger())

	results, err := svc.Search(context.Background(), "bicycle", 10)

	require.Error(t, err)
	assert.Nil(t, results)
	assert.ErrorIs(t, err, apperrors.ErrSearchUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.HTTPStatus(err))
}

func TestSearchService_ZeroHitsIsSuccess(t *testing.T) {
	svc := NewSearchService(memory.New(), newTestLogger())

	results, err := svc.Search(context.Background(), "nothing matches", 10)

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchService_LimitDefaultsAndCaps(t *testing.T) {
	ctx := context.Background()
	eng := memory.New()
	for i := 0; i < 60; i++ {
		require.NoError(t, eng.Upsert(ctx, &domain.ProductDocument{
			ID:    string(rune('a'+i%26)) + string(rune('0'+i/26)),
			Title: "widget",
		}))
	}

	svc := NewSearchService(eng, newTestLogger())

	results, err := svc.Search(ctx, "widget", 0)
	require.NoError(t, err)
	assert.Len(t, results, DefaultSearchLimit)

	results, err = svc.Search(ctx, "widget", 1000)
	require.NoError(t, err)
	assert.Len(t, results, MaxSearchLimit)
}
