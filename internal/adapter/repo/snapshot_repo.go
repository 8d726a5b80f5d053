package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shilpsetu/aureum/internal/domain"
)

// SnapshotRepositoryPG stores one analytics snapshot per artist. The record
// is overwritten on every refresh; staleness is judged solely by comparing
// the stored product count against the current one.
type SnapshotRepositoryPG struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepositoryPG {
	return &SnapshotRepositoryPG{pool: pool}
}

func (r *SnapshotRepositoryPG) Get(ctx context.Context, artistID string) (*domain.InsightsSnapshot, error) {
	row := r.pool.QueryRow(ctx, `
SELECT artist_id, product_count, insights, computed_at
FROM insight_snapshots
WHERE artist_id = $1;
`, artistID)

	var snapshot domain.InsightsSnapshot
	var insights []byte
	if err := row.Scan(&snapshot.ArtistID, &snapshot.ProductCount, &insights, &snapshot.ComputedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get snapshot: %v", domain.ErrStoreFailure, err)
	}
	if err := json.Unmarshal(insights, &snapshot.Insights); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %v", domain.ErrStoreFailure, err)
	}
	return &snapshot, nil
}

func (r *SnapshotRepositoryPG) Put(ctx context.Context, snapshot *domain.InsightsSnapshot) error {
	insights, err := json.Marshal(snapshot.Insights)
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %v", domain.ErrStoreFailure, err)
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO insight_snapshots (artist_id, product_count, insights, computed_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (artist_id) DO UPDATE
SET product_count = EXCLUDED.product_count,
    insights = EXCLUDED.insights,
    computed_at = EXCLUDED.computed_at;
`, snapshot.ArtistID, snapshot.ProductCount, insights, snapshot.ComputedAt)
	if err != nil {
		return fmt.Errorf("%w: upsert snapshot: %v", domain.ErrStoreFailure, err)
	}
	return nil
}

var _ domain.SnapshotRepository = (*SnapshotRepositoryPG)(nil)
