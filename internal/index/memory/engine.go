package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/souqly/marketplace/internal/domain"
	"github.com/souqly/marketplace/internal/index"
)

// Engine is an in-memory implementation of the index.Engine interface with
// simple substring matching on title, description, and brand. Thread-safe.
type Engine struct {
	mu        sync.RWMutex
	documents map[string]domain.ProductDocument
	order     []string
	settings  *index.Settings
}

// New creates a new in-memory search engine.
func New() *Engine {
	return &Engine{
		documents: make(map[string]domain.ProductDocument),
	}
}

// EnsureIndex records the settings. Re-applying identical settings leaves
// existing documents untouched.
func (e *Engine) EnsureIndex(_ context.Context, settings index.Settings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.settings = &settings
	return nil
}

// Settings returns the last applied index settings, or nil if EnsureIndex
// has not been called.
func (e *Engine) Settings() *index.Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.settings
}

// Upsert adds or replaces a single document keyed by its ID.
func (e *Engine) Upsert(_ context.Context, doc *domain.ProductDocument) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store(*doc)
	return nil
}

// UpsertBatch adds or replaces multiple documents.
func (e *Engine) UpsertBatch(_ context.Context, docs []domain.ProductDocument) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range docs {
		e.store(docs[i])
	}
	return nil
}

// Remove deletes a document by ID. Missing documents are a no-op.
func (e *Engine) Remove(_ context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.documents[id]; !ok {
		return nil
	}
	delete(e.documents, id)
	for i, existing := range e.order {
		if existing == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return nil
}

// Search matches the query case-insensitively against title, description,
// and brand, returning up to limit documents in insertion order.
func (e *Engine) Search(_ context.Context, query string, limit int) ([]domain.ProductDocument, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	queryLower := strings.ToLower(query)
	matched := make([]domain.ProductDocument, 0)

	for _, id := range e.order {
		doc := e.documents[id]
		if !matches(&doc, queryLower) {
			continue
		}
		matched = append(matched, doc)
		if limit > 0 && len(matched) >= limit {
			break
		}
	}

	return matched, nil
}

// store must be called with the write lock held.
func (e *Engine) store(doc domain.ProductDocument) {
	if _, exists := e.documents[doc.ID]; !exists {
		e.order = append(e.order, doc.ID)
	}
	e.documents[doc.ID] = doc
}

func matches(doc *domain.ProductDocument, queryLower string) bool {
	if queryLower == "" {
		return true
	}
	return strings.Contains(strings.ToLower(doc.Title), queryLower) ||
		strings.Contains(strings.ToLower(doc.Description), queryLower) ||
		strings.Contains(strings.ToLower(doc.Brand), queryLower)
}
