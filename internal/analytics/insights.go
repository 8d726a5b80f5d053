package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shilpsetu/aureum/internal/cache"
	"github.com/shilpsetu/aureum/internal/domain"
	"github.com/shilpsetu/aureum/internal/providers/genai"
)

// TextGenerator is the generative-text collaborator used for the insight
// summary and the pricing analysis. *genai.Client satisfies it.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, jsonOutput bool) (string, error)
}

// Service computes and caches per-artist business insights. The snapshot is
// considered stale only when the artist's product count has changed since it
// was computed.
type Service struct {
	products  domain.ProductRepository
	artists   domain.ArtistRepository
	snapshots domain.SnapshotRepository
	cache     cache.Cache
	gen       TextGenerator
	logger    zerolog.Logger
}

func NewService(products domain.ProductRepository, artists domain.ArtistRepository, snapshots domain.SnapshotRepository, c cache.Cache, gen TextGenerator, logger zerolog.Logger) *Service {
	return &Service{
		products:  products,
		artists:   artists,
		snapshots: snapshots,
		cache:     c,
		gen:       gen,
		logger:    logger,
	}
}

func cacheKey(artistID string) string {
	return "insights:" + artistID
}

// Insights returns the artist's snapshot, recomputing it only when the
// current product count no longer matches the stored one.
func (s *Service) Insights(ctx context.Context, artistID string) (*domain.InsightsSnapshot, error) {
	count, err := s.products.CountByArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, cacheKey(artistID)); ok {
			var snapshot domain.InsightsSnapshot
			if json.Unmarshal(raw, &snapshot) == nil && !snapshot.Stale(count) {
				return &snapshot, nil
			}
		}
	}

	snapshot, err := s.snapshots.Get(ctx, artistID)
	if err == nil && !snapshot.Stale(count) {
		s.prime(ctx, snapshot)
		return snapshot, nil
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	return s.Refresh(ctx, artistID)
}

// Refresh recomputes the artist's insights from scratch and stores the new
// snapshot. The artist profile and product list are independent reads and
// fetched concurrently.
func (s *Service) Refresh(ctx context.Context, artistID string) (*domain.InsightsSnapshot, error) {
	var (
		wg         sync.WaitGroup
		products   []domain.Product
		artist     *domain.Artist
		productErr error
		artistErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		products, productErr = s.products.ListByArtist(ctx, artistID)
	}()
	go func() {
		defer wg.Done()
		artist, artistErr = s.artists.GetByID(ctx, artistID)
	}()
	wg.Wait()

	if productErr != nil {
		return nil, productErr
	}
	if artistErr != nil && !errors.Is(artistErr, domain.ErrNotFound) {
		return nil, artistErr
	}

	insights := aggregate(products)
	s.summarize(ctx, artist, products, &insights)

	snapshot := &domain.InsightsSnapshot{
		ArtistID:     artistID,
		ProductCount: len(products),
		Insights:     insights,
		ComputedAt:   time.Now().UTC(),
	}
	if err := s.snapshots.Put(ctx, snapshot); err != nil {
		return nil, err
	}
	s.prime(ctx, snapshot)
	return snapshot, nil
}

func (s *Service) prime(ctx context.Context, snapshot *domain.InsightsSnapshot) {
	if s.cache == nil {
		return
	}
	if raw, err := json.Marshal(snapshot); err == nil {
		s.cache.Set(ctx, cacheKey(snapshot.ArtistID), raw, 0)
	}
}

func aggregate(products []domain.Product) domain.BusinessInsights {
	insights := domain.BusinessInsights{
		TotalProducts:  len(products),
		CategoryCounts: make(map[string]int),
	}
	var priceSum float64
	for _, p := range products {
		if p.IsActive {
			insights.ActiveProducts++
		}
		insights.CategoryCounts[p.Category]++
		priceSum += p.Price
	}
	if len(products) > 0 {
		insights.AveragePrice = priceSum / float64(len(products))
	}
	return insights
}

type summaryPayload struct {
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

// summarize asks the text collaborator for a short narrative and suggestions.
// Any failure falls back to a static summary; the aggregates are always kept.
func (s *Service) summarize(ctx context.Context, artist *domain.Artist, products []domain.Product, insights *domain.BusinessInsights) {
	fallback := staticSummary(insights)
	if s.gen == nil || len(products) == 0 {
		insights.Summary = fallback.Summary
		insights.Suggestions = fallback.Suggestions
		return
	}

	raw, err := s.gen.GenerateText(ctx, buildSummaryPrompt(artist, products, insights), true)
	if err != nil {
		s.logger.Warn().Err(err).Msg("analytics: summary generation failed, using fallback")
		insights.Summary = fallback.Summary
		insights.Suggestions = fallback.Suggestions
		return
	}
	parsed, err := genai.DecodePayload[summaryPayload](raw)
	if err != nil || strings.TrimSpace(parsed.Summary) == "" {
		s.logger.Warn().Err(err).Msg("analytics: malformed summary payload, using fallback")
		insights.Summary = fallback.Summary
		insights.Suggestions = fallback.Suggestions
		return
	}
	insights.Summary = parsed.Summary
	insights.Suggestions = parsed.Suggestions
	if len(insights.Suggestions) == 0 {
		insights.Suggestions = fallback.Suggestions
	}
}

func staticSummary(insights *domain.BusinessInsights) summaryPayload {
	if insights.TotalProducts == 0 {
		return summaryPayload{
			Summary:     "No active listings yet. Add your first product to start building your shop.",
			Suggestions: []string{"List your first product with at least one clear photo and a detailed description."},
		}
	}
	return summaryPayload{
		Summary: fmt.Sprintf("You have %d active listings across %d categories at an average price of %.0f.",
			insights.ActiveProducts, len(insights.CategoryCounts), insights.AveragePrice),
		Suggestions: []string{
			"Refresh older listings with enhanced photos.",
			"Add seasonal pieces to your strongest category.",
		},
	}
}

func buildSummaryPrompt(artist *domain.Artist, products []domain.Product, insights *domain.BusinessInsights) string {
	var b strings.Builder
	b.WriteString("You are a business advisor for handmade-goods sellers. Respond strictly with JSON: ")
	b.WriteString(`{"summary":string,"suggestions":string[]}`)
	b.WriteString(". Keep the summary under three sentences and give at most four concrete suggestions.\n")
	if artist != nil {
		fmt.Fprintf(&b, "Seller: %s (region %s).\n", artist.Name, artist.Region)
	}
	fmt.Fprintf(&b, "Listings: %d active, average price %.2f.\n", insights.ActiveProducts, insights.AveragePrice)
	for category, count := range insights.CategoryCounts {
		fmt.Fprintf(&b, "- %s: %d\n", category, count)
	}
	limit := len(products)
	if limit > 10 {
		limit = 10
	}
	for _, p := range products[:limit] {
		fmt.Fprintf(&b, "Product %q at %.2f: %s\n", p.Name, p.Price, p.Notes)
	}
	return b.String()
}
