package domain

import (
	"time"
)

// ProductDocument is the denormalized projection of a Product submitted to
// the search index, keyed by the stringified product ID. Nullable fields are
// pointers without omitempty so they serialize as explicit nulls and the
// index schema stays stable.
type ProductDocument struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	OwnerID       string         `json:"owner_id"`
	Category      *string        `json:"category"`
	CategoryName  *string        `json:"category_name"`
	Brand         string         `json:"brand"`
	Images        []string       `json:"images"`
	Quantity      int            `json:"quantity"`
	MRP           float64        `json:"mrp"`
	SellingPrice  float64        `json:"selling_price"`
	IsAd          bool           `json:"is_ad"`
	IsSold        bool           `json:"is_sold"`
	ExtraFeatures map[string]any `json:"extra_features"`
	CreatedAt     *string        `json:"created_at"`
	UpdatedAt     *string        `json:"updated_at"`
}

// NewProductDocument builds the canonical search document from a product
// snapshot. It is the single mapping used by both the synchronizer and the
// bulk reindexer; the document is derived purely from the entity and its
// resolved category reference.
func NewProductDocument(p *Product) *ProductDocument {
	doc := &ProductDocument{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		OwnerID:       p.OwnerID,
		Category:      p.CategoryID,
		CategoryName:  p.CategoryName,
		Brand:         p.Brand,
		Images:        p.ImageList(),
		Quantity:      p.Quantity,
		MRP:           p.MRP,
		SellingPrice:  p.SellingPrice,
		IsAd:          p.IsAd,
		IsSold:        p.IsSold,
		ExtraFeatures: p.ExtraFeatures,
		CreatedAt:     formatTimestamp(p.CreatedAt),
		UpdatedAt:     formatTimestamp(p.UpdatedAt),
	}

	if doc.ExtraFeatures == nil {
		doc.ExtraFeatures = map[string]any{}
	}

	return doc
}

// Summary projects the document down to the public search result shape.
func (d *ProductDocument) Summary() ProductSummary {
	return ProductSummary{
		ID:           d.ID,
		Title:        d.Title,
		SellingPrice: d.SellingPrice,
	}
}

func formatTimestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
