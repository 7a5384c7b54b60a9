package index

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqly/marketplace/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubEngine records calls and can be configured to fail.
type stubEngine struct {
	failWrites bool

	ensured  []Settings
	upserted []domain.ProductDocument
	removed  []string
	batches  [][]domain.ProductDocument
}

func (e *stubEngine) EnsureIndex(_ context.Context, settings Settings) error {
	e.ensured = append(e.ensured, settings)
	return nil
}

func (e *stubEngine) Upsert(_ context.Context, doc *domain.ProductDocument) error {
	if e.failWrites {
		return errors.New("engine down")
	}
	e.upserted = append(e.upserted, *doc)
	return nil
}

func (e *stubEngine) UpsertBatch(_ context.Context, docs []domain.ProductDocument) error {
	if e.failWrites {
		return errors.New("engine down")
	}
	e.batches = append(e.batches, docs)
	return nil
}

func (e *stubEngine) Remove(_ context.Context, id string) error {
	if e.failWrites {
		return errors.New("engine down")
	}
	e.removed = append(e.removed, id)
	return nil
}

func (e *stubEngine) Search(_ context.Context, _ string, _ int) ([]domain.ProductDocument, error) {
	return nil, nil
}

func TestSyncer_Upsert(t *testing.T) {
	eng := &stubEngine{}
	syncer := NewSyncer(eng, newTestLogger(), time.Second)

	p := &domain.Product{ID: "p-1", Title: "Lamp", OwnerID: "o-1", SellingPrice: 10}
	syncer.Upsert(context.Background(), p)

	require.Len(t, eng.upserted, 1)
	assert.Equal(t, "p-1", eng.upserted[0].ID)
	assert.Equal(t, "Lamp", eng.upserted[0].Title)
}

func TestSyncer_Upsert_EngineFailureIsSwallowed(t *testing.T) {
	eng := &stubEngine{failWrites: true}
	syncer := NewSyncer(eng, newTestLogger(), time.Second)

	// Must not panic and must not propagate the failure in any way.
	syncer.Upsert(context.Background(), &domain.Product{ID: "p-1", Title: "Lamp"})

	assert.Empty(t, eng.upserted)
}

func TestSyncer_Remove(t *testing.T) {
	eng := &stubEngine{}
	syncer := NewSyncer(eng, newTestLogger(), time.Second)

	syncer.Remove(context.Background(), "p-9")

	assert.Equal(t, []string{"p-9"}, eng.removed)
}

func TestSyncer_Remove_EngineFailureIsSwallowed(t *testing.T) {
	eng := &stubEngine{failWrites: true}
	syncer := NewSyncer(eng, newTestLogger(), time.Second)

	syncer.Remove(context.Background(), "p-9")

	assert.Empty(t, eng.removed)
}
