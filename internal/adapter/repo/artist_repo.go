package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shilpsetu/aureum/internal/domain"
)

// ArtistRepositoryPG implements domain.ArtistRepository using PostgreSQL.
type ArtistRepositoryPG struct {
	pool *pgxpool.Pool
}

func NewArtistRepository(pool *pgxpool.Pool) *ArtistRepositoryPG {
	return &ArtistRepositoryPG{pool: pool}
}

func (r *ArtistRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Artist, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, name, email, region, created_at
FROM artists
WHERE id = $1;
`, id)
	var artist domain.Artist
	if err := row.Scan(&artist.ID, &artist.Name, &artist.Email, &artist.Region, &artist.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get artist: %v", domain.ErrStoreFailure, err)
	}
	return &artist, nil
}

var _ domain.ArtistRepository = (*ArtistRepositoryPG)(nil)
