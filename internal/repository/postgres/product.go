package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/souqly/marketplace/internal/domain"
	"github.com/souqly/marketplace/internal/repository"
	"github.com/souqly/marketplace/pkg/database"
	apperrors "github.com/souqly/marketplace/pkg/errors"
)

const productColumns = `p.id, p.title, p.description, p.owner_id, p.category_id, c.name AS category_name,
	       p.brand, p.images, p.quantity, p.mrp, p.selling_price, p.is_ad, p.is_sold, p.is_active,
	       p.extra_features, p.created_at, p.updated_at`

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	featuresJSON, err := json.Marshal(p.ExtraFeatures)
	if err != nil {
		return fmt.Errorf("marshal extra features: %w", err)
	}

	query := `
		INSERT INTO products (id, title, description, owner_id, category_id, brand, images,
			quantity, mrp, selling_price, is_ad, is_sold, is_active, extra_features, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err = r.pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.OwnerID,
		p.CategoryID,
		p.Brand,
		p.Images,
		p.Quantity,
		p.MRP,
		p.SellingPrice,
		p.IsAd,
		p.IsSold,
		p.IsActive,
		featuresJSON,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("unknown category reference")
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product snapshot with its category name resolved.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`, productColumns)

	row := r.pool.QueryRow(ctx, query, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return p, nil
}

// List returns products matching the filter with the total count.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("p.owner_id = $%d", argIndex))
		args = append(args, *filter.OwnerID)
		argIndex++
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argIndex))
		args = append(args, *filter.CategoryID)
		argIndex++
	}
	if filter.Brand != nil {
		conditions = append(conditions, fmt.Sprintf("p.brand = $%d", argIndex))
		args = append(args, *filter.Brand)
		argIndex++
	}
	if filter.IsSold != nil {
		conditions = append(conditions, fmt.Sprintf("p.is_sold = $%d", argIndex))
		args = append(args, *filter.IsSold)
		argIndex++
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("p.is_active = $%d", argIndex))
		args = append(args, *filter.IsActive)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		%s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products   []domain.Product
		totalCount int
	)

	for rows.Next() {
		p, count, err := scanProductWithCount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		totalCount = count
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, totalCount, nil
}

// ListBatch streams products in ID order for bulk reindexing, using keyset
// pagination so concurrent inserts and deletes cannot shift the page
// boundaries and skip rows. No transaction is held across calls, so the
// store stays unlocked while the caller talks to the search engine.
func (r *ProductRepository) ListBatch(ctx context.Context, afterID string, limit int) ([]domain.Product, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if afterID == "" {
		query := fmt.Sprintf(`
			SELECT %s
			FROM products p
			LEFT JOIN categories c ON c.id = p.category_id
			ORDER BY p.id
			LIMIT $1`, productColumns)
		rows, err = r.pool.Query(ctx, query, limit)
	} else {
		query := fmt.Sprintf(`
			SELECT %s
			FROM products p
			LEFT JOIN categories c ON c.id = p.category_id
			WHERE p.id > $1
			ORDER BY p.id
			LIMIT $2`, productColumns)
		rows, err = r.pool.Query(ctx, query, afterID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list products batch: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// Update replaces the mutable fields of an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	featuresJSON, err := json.Marshal(p.ExtraFeatures)
	if err != nil {
		return fmt.Errorf("marshal extra features: %w", err)
	}

	query := `
		UPDATE products
		SET title = $2, description = $3, category_id = $4, brand = $5, images = $6,
			quantity = $7, mrp = $8, selling_price = $9, is_ad = $10, is_sold = $11,
			is_active = $12, extra_features = $13, updated_at = $14
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.CategoryID,
		p.Brand,
		p.Images,
		p.Quantity,
		p.MRP,
		p.SellingPrice,
		p.IsAd,
		p.IsSold,
		p.IsActive,
		featuresJSON,
		p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("unknown category reference")
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// Delete removes a product by ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// scanTarget is satisfied by both pgx.Row and pgx.Rows.
type scanTarget interface {
	Scan(dest ...any) error
}

func scanProduct(row scanTarget) (*domain.Product, error) {
	var (
		p            domain.Product
		featuresJSON []byte
	)

	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.OwnerID,
		&p.CategoryID,
		&p.CategoryName,
		&p.Brand,
		&p.Images,
		&p.Quantity,
		&p.MRP,
		&p.SellingPrice,
		&p.IsAd,
		&p.IsSold,
		&p.IsActive,
		&featuresJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if featuresJSON != nil {
		if err := json.Unmarshal(featuresJSON, &p.ExtraFeatures); err != nil {
			return nil, fmt.Errorf("unmarshal extra features: %w", err)
		}
	}

	return &p, nil
}

func scanProductWithCount(row scanTarget) (*domain.Product, int, error) {
	var (
		p            domain.Product
		featuresJSON []byte
		totalCount   int
	)

	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.OwnerID,
		&p.CategoryID,
		&p.CategoryName,
		&p.Brand,
		&p.Images,
		&p.Quantity,
		&p.MRP,
		&p.SellingPrice,
		&p.IsAd,
		&p.IsSold,
		&p.IsActive,
		&featuresJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
		&totalCount,
	); err != nil {
		return nil, 0, err
	}

	if featuresJSON != nil {
		if err := json.Unmarshal(featuresJSON, &p.ExtraFeatures); err != nil {
			return nil, 0, fmt.Errorf("unmarshal extra features: %w", err)
		}
	}

	return &p, totalCount, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
