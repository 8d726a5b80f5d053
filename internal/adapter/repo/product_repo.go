package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shilpsetu/aureum/internal/domain"
)

// ProductRepositoryPG implements domain.ProductRepository using PostgreSQL.
// It is the persistence gateway: payload legality is checked here, right
// before the write, so an illegal image can never reach the store.
type ProductRepositoryPG struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepositoryPG {
	return &ProductRepositoryPG{pool: pool}
}

// Create validates every image payload, assigns the id and creation
// timestamp, and inserts the record. Transport failures surface as
// ErrStoreFailure so callers can distinguish them from validation failures.
func (r *ProductRepositoryPG) Create(ctx context.Context, product *domain.Product) (string, error) {
	for i, payload := range product.Images {
		if !payload.Valid() {
			return "", &domain.PayloadFormatError{Index: i}
		}
	}

	images, err := json.Marshal(product.Images)
	if err != nil {
		return "", fmt.Errorf("%w: encode images: %v", domain.ErrStoreFailure, err)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err = r.pool.Exec(ctx, `
INSERT INTO products (id, artist_id, artist_name, name, category, price, notes, images, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10);
`, id, product.ArtistID, product.ArtistName, product.Name, product.Category, product.Price, product.Notes, images, true, now)
	if err != nil {
		return "", fmt.Errorf("%w: insert product: %v", domain.ErrStoreFailure, err)
	}

	product.ID = id
	product.IsActive = true
	product.CreatedAt = now
	product.UpdatedAt = now
	return id, nil
}

func (r *ProductRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, artist_id, artist_name, name, category, price, notes, images, is_active, created_at, updated_at
FROM products
WHERE id = $1;
`, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get product: %v", domain.ErrStoreFailure, err)
	}
	return product, nil
}

func (r *ProductRepositoryPG) ListByArtist(ctx context.Context, artistID string) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, artist_id, artist_name, name, category, price, notes, images, is_active, created_at, updated_at
FROM products
WHERE artist_id = $1 AND is_active = TRUE
ORDER BY created_at DESC;
`, artistID)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %v", domain.ErrStoreFailure, err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan product: %v", domain.ErrStoreFailure, err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list products: %v", domain.ErrStoreFailure, err)
	}
	return products, nil
}

// Update rewrites the mutable fields of an existing record. Images go through
// the same legality gate as Create.
func (r *ProductRepositoryPG) Update(ctx context.Context, product *domain.Product) error {
	for i, payload := range product.Images {
		if !payload.Valid() {
			return &domain.PayloadFormatError{Index: i}
		}
	}
	images, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("%w: encode images: %v", domain.ErrStoreFailure, err)
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE products
SET name = $2, category = $3, price = $4, notes = $5, images = $6, updated_at = NOW()
WHERE id = $1 AND is_active = TRUE;
`, product.ID, product.Name, product.Category, product.Price, product.Notes, images)
	if err != nil {
		return fmt.Errorf("%w: update product: %v", domain.ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Deactivate is the soft delete: it flips is_active rather than removing the
// record.
func (r *ProductRepositoryPG) Deactivate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE products
SET is_active = FALSE, updated_at = NOW()
WHERE id = $1 AND is_active = TRUE;
`, id)
	if err != nil {
		return fmt.Errorf("%w: deactivate product: %v", domain.ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepositoryPG) CountByArtist(ctx context.Context, artistID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM products WHERE artist_id = $1 AND is_active = TRUE;
`, artistID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: count products: %v", domain.ErrStoreFailure, err)
	}
	return count, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var product domain.Product
	var images []byte
	if err := row.Scan(
		&product.ID,
		&product.ArtistID,
		&product.ArtistName,
		&product.Name,
		&product.Category,
		&product.Price,
		&product.Notes,
		&images,
		&product.IsActive,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &product.Images); err != nil {
			return nil, err
		}
	}
	return &product, nil
}

var _ domain.ProductRepository = (*ProductRepositoryPG)(nil)
