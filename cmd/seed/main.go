// Package main implements a standalone seed script that populates the
// marketplace database with realistic test data: a fixed category set and a
// configurable number of randomized products. Run a reindex afterwards to
// make the seeded products searchable.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var categories = []struct {
	name string
	slug string
}{
	{"Electronics", "electronics"},
	{"Sports", "sports"},
	{"Furniture", "furniture"},
	{"Books", "books"},
	{"Fashion", "fashion"},
	{"Vehicles", "vehicles"},
}

var adjectives = []string{"Vintage", "Brand New", "Refurbished", "Classic", "Compact", "Premium"}
var nouns = []string{"Bicycle", "Laptop", "Bookshelf", "Guitar", "Camera", "Desk Chair", "Jacket", "Scooter"}
var brands = []string{"Trek", "Lenovo", "IKEA", "Yamaha", "Canon", "Generic", ""}

func main() {
	count := 200
	if v := os.Getenv("SEED_PRODUCT_COUNT"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid SEED_PRODUCT_COUNT: %v", err)
		}
		count = parsed
	}

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("POSTGRES_USER", "marketplace"),
		getEnv("POSTGRES_PASSWORD", "marketplace"),
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_PORT", "5432"),
		getEnv("POSTGRES_DB", "marketplace"),
		getEnv("POSTGRES_SSL_MODE", "disable"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	categoryIDs := make([]string, 0, len(categories))
	for _, c := range categories {
		id := uuid.New().String()
		_, err := pool.Exec(ctx, `
			INSERT INTO categories (id, name, slug)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO NOTHING`,
			id, c.name, c.slug,
		)
		if err != nil {
			log.Fatalf("insert category %s: %v", c.slug, err)
		}

		// Re-read so re-runs reuse the existing row's ID.
		if err := pool.QueryRow(ctx,
			`SELECT id FROM categories WHERE slug = $1`, c.slug,
		).Scan(&id); err != nil {
			log.Fatalf("read category %s: %v", c.slug, err)
		}
		categoryIDs = append(categoryIDs, id)
	}
	log.Printf("seeded %d categories", len(categoryIDs))

	owners := make([]string, 10)
	for i := range owners {
		owners[i] = uuid.New().String()
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < count; i++ {
		title := fmt.Sprintf("%s %s #%d",
			adjectives[rng.Intn(len(adjectives))],
			nouns[rng.Intn(len(nouns))],
			i+1,
		)
		mrp := float64(rng.Intn(90000)+1000) / 100
		selling := mrp * (0.5 + rng.Float64()*0.5)

		var categoryID *string
		if rng.Intn(10) > 0 {
			categoryID = &categoryIDs[rng.Intn(len(categoryIDs))]
		}

		features, _ := json.Marshal(map[string]any{
			"condition": []string{"new", "used", "fair"}[rng.Intn(3)],
		})

		now := time.Now().UTC().Add(-time.Duration(rng.Intn(90*24)) * time.Hour)
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, title, description, owner_id, category_id, brand, images,
				quantity, mrp, selling_price, is_ad, is_sold, is_active, extra_features, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			uuid.New().String(),
			title,
			fmt.Sprintf("A %s in good condition, pickup preferred.", title),
			owners[rng.Intn(len(owners))],
			categoryID,
			brands[rng.Intn(len(brands))],
			fmt.Sprintf("https://img.example/%d-a.jpg,https://img.example/%d-b.jpg", i, i),
			rng.Intn(5)+1,
			mrp,
			float64(int(selling*100))/100,
			rng.Intn(10) == 0,
			rng.Intn(20) == 0,
			true,
			features,
			now,
			now,
		)
		if err != nil {
			log.Fatalf("insert product %d: %v", i, err)
		}
	}

	log.Printf("seeded %d products; POST /api/v1/admin/reindex to make them searchable", count)
}
