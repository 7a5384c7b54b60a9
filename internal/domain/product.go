package domain

import (
	"strings"
	"time"
)

// Product represents a marketplace listing as stored in Postgres.
// CategoryName is resolved from the categories table on read so that a
// product snapshot always carries everything the search index needs.
type Product struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	OwnerID       string         `json:"owner_id"`
	CategoryID    *string        `json:"category_id,omitempty"`
	CategoryName  *string        `json:"category_name,omitempty"`
	Brand         string         `json:"brand"`
	Images        string         `json:"images"` // comma-joined URLs, as stored
	Quantity      int            `json:"quantity"`
	MRP           float64        `json:"mrp"`
	SellingPrice  float64        `json:"selling_price"`
	IsAd          bool           `json:"is_ad"`
	IsSold        bool           `json:"is_sold"`
	IsActive      bool           `json:"is_active"`
	ExtraFeatures map[string]any `json:"extra_features,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ImageList splits the stored comma-joined image column into URLs.
// An empty column yields an empty, non-nil slice.
func (p *Product) ImageList() []string {
	if p.Images == "" {
		return []string{}
	}
	parts := strings.Split(p.Images, ",")
	urls := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}

// JoinImages is the inverse of ImageList, producing the stored column value.
func JoinImages(urls []string) string {
	return strings.Join(urls, ",")
}

// Category represents a product category.
type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
}

// ProductSummary is the minimal public projection returned by the search
// endpoint. Full entity data is never the search response payload.
type ProductSummary struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	SellingPrice float64 `json:"selling_price"`
}
