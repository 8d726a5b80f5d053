package domain

import "time"

// Artist is the seller profile referenced by products and insights.
type Artist struct {
	ID        string
	Name      string
	Email     string
	Region    string
	CreatedAt time.Time
}

// BusinessInsights is the aggregate analytics object computed for one artist.
type BusinessInsights struct {
	TotalProducts  int            `json:"total_products"`
	ActiveProducts int            `json:"active_products"`
	AveragePrice   float64        `json:"average_price"`
	CategoryCounts map[string]int `json:"category_counts"`
	Summary        string         `json:"summary"`
	Suggestions    []string       `json:"suggestions"`
}

// InsightsSnapshot is the cached analytics record keyed by artist id. It
// stores the product count at computation time; the snapshot is considered
// stale whenever the current product count differs from that integer.
type InsightsSnapshot struct {
	ArtistID     string           `json:"artist_id"`
	ProductCount int              `json:"product_count"`
	Insights     BusinessInsights `json:"insights"`
	ComputedAt   time.Time        `json:"computed_at"`
}

// Stale reports whether the snapshot no longer matches the current count.
func (s *InsightsSnapshot) Stale(currentCount int) bool {
	return s == nil || s.ProductCount != currentCount
}

// PriceAnalysis is the AI-suggested pricing range for a draft product.
type PriceAnalysis struct {
	SuggestedMin float64  `json:"suggested_min"`
	SuggestedMax float64  `json:"suggested_max"`
	Currency     string   `json:"currency"`
	Rationale    string   `json:"rationale"`
	Factors      []string `json:"factors"`
}
