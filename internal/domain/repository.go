package domain

import "context"

// ProductRepository defines persistence for product records.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) (string, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	ListByArtist(ctx context.Context, artistID string) ([]Product, error)
	Update(ctx context.Context, product *Product) error
	Deactivate(ctx context.Context, id string) error
	CountByArtist(ctx context.Context, artistID string) (int, error)
}

// ArtistRepository defines access methods for seller profiles.
type ArtistRepository interface {
	GetByID(ctx context.Context, id string) (*Artist, error)
}

// SnapshotRepository persists the per-artist analytics snapshot.
type SnapshotRepository interface {
	Get(ctx context.Context, artistID string) (*InsightsSnapshot, error)
	Put(ctx context.Context, snapshot *InsightsSnapshot) error
}
