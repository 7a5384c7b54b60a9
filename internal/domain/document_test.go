package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewProductDocument(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	updated := created.Add(2 * time.Hour)

	p := &Product{
		ID:           "7f9c1a34-0000-4000-8000-000000000001",
		Title:        "Blue Bicycle",
		Description:  "A lightly used city bike",
		OwnerID:      "owner-1",
		CategoryID:   strPtr("cat-1"),
		CategoryName: strPtr("Sports"),
		Brand:        "Trek",
		Images:       "https://img.example/a.jpg,https://img.example/b.jpg",
		Quantity:     1,
		MRP:          350.00,
		SellingPrice: 199.99,
		IsAd:         true,
		ExtraFeatures: map[string]any{
			"color": "blue",
		},
		CreatedAt: created,
		UpdatedAt: updated,
	}

	doc := NewProductDocument(p)

	assert.Equal(t, p.ID, doc.ID)
	assert.Equal(t, "Blue Bicycle", doc.Title)
	assert.Equal(t, strPtr("cat-1"), doc.Category)
	assert.Equal(t, strPtr("Sports"), doc.CategoryName)
	assert.Equal(t, []string{"https://img.example/a.jpg", "https://img.example/b.jpg"}, doc.Images)
	assert.Equal(t, 199.99, doc.SellingPrice)
	assert.True(t, doc.IsAd)
	require.NotNil(t, doc.CreatedAt)
	assert.Equal(t, "2026-03-14T09:30:00Z", *doc.CreatedAt)
	require.NotNil(t, doc.UpdatedAt)
	assert.Equal(t, "2026-03-14T11:30:00Z", *doc.UpdatedAt)
}

func TestNewProductDocument_NullableFieldsSerializeAsNull(t *testing.T) {
	p := &Product{
		ID:      "p-1",
		Title:   "Untitled",
		OwnerID: "owner-1",
	}

	doc := NewProductDocument(p)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))

	// Nullable fields must be present as explicit nulls, not omitted.
	for _, key := range []string{"category", "category_name", "created_at", "updated_at"} {
		v, ok := m[key]
		require.True(t, ok, "missing key %q", key)
		assert.Nil(t, v, "key %q should be null", key)
	}

	// Empty collections stay typed, never null.
	assert.Equal(t, []any{}, m["images"])
	assert.Equal(t, map[string]any{}, m["extra_features"])
}

func TestNewProductDocument_Idempotent(t *testing.T) {
	p := &Product{
		ID:           "p-2",
		Title:        "Lamp",
		OwnerID:      "owner-1",
		Images:       "https://img.example/lamp.jpg",
		SellingPrice: 12.50,
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	first := NewProductDocument(p)
	second := NewProductDocument(p)

	assert.Equal(t, first, second)
}

func TestProduct_ImageList(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   []string
	}{
		{"empty", "", []string{}},
		{"single", "https://a.jpg", []string{"https://a.jpg"}},
		{"multiple", "https://a.jpg,https://b.jpg", []string{"https://a.jpg", "https://b.jpg"}},
		{"trims whitespace", " https://a.jpg , https://b.jpg ", []string{"https://a.jpg", "https://b.jpg"}},
		{"skips empty segments", "https://a.jpg,,https://b.jpg,", []string{"https://a.jpg", "https://b.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Images: tt.stored}
			assert.Equal(t, tt.want, p.ImageList())
		})
	}
}

func TestProductDocument_Summary(t *testing.T) {
	doc := &ProductDocument{
		ID:           "p-3",
		Title:        "Guitar",
		Description:  "should not leak into the summary",
		SellingPrice: 450,
	}

	s := doc.Summary()
	assert.Equal(t, ProductSummary{ID: "p-3", Title: "Guitar", SellingPrice: 450}, s)
}
