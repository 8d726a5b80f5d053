package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/shilpsetu/aureum/internal/domain"
	"github.com/shilpsetu/aureum/internal/providers/genai"
)

// PriceRequest describes the draft product being priced.
type PriceRequest struct {
	Name     string
	Category string
	Notes    string
	Price    float64
}

// AnalyzePrice asks the text collaborator for a suggested price range. A
// malformed or failed response degrades to a heuristic range around the
// artisan's own asking price instead of crashing the flow.
func (s *Service) AnalyzePrice(ctx context.Context, req PriceRequest) (*domain.PriceAnalysis, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	fallback := fallbackPriceAnalysis(req)
	if s.gen == nil {
		return fallback, nil
	}

	raw, err := s.gen.GenerateText(ctx, buildPricePrompt(req), true)
	if err != nil {
		s.logger.Warn().Err(err).Msg("analytics: price analysis failed, using fallback")
		return fallback, nil
	}
	parsed, err := genai.DecodePayload[domain.PriceAnalysis](raw)
	if err != nil || parsed.SuggestedMax <= 0 {
		s.logger.Warn().Err(err).Msg("analytics: malformed price payload, using fallback")
		return fallback, nil
	}
	if parsed.Currency == "" {
		parsed.Currency = "INR"
	}
	return &parsed, nil
}

func fallbackPriceAnalysis(req PriceRequest) *domain.PriceAnalysis {
	base := req.Price
	if base <= 0 {
		base = 500
	}
	return &domain.PriceAnalysis{
		SuggestedMin: base * 0.85,
		SuggestedMax: base * 1.25,
		Currency:     "INR",
		Rationale:    "Estimated from your asking price; the pricing service was unavailable.",
		Factors:      []string{"asking price", "handmade premium"},
	}
}

func buildPricePrompt(req PriceRequest) string {
	var b strings.Builder
	b.WriteString("You are a pricing analyst for an Indian handmade-goods marketplace. Respond strictly with JSON: ")
	b.WriteString(`{"suggested_min":number,"suggested_max":number,"currency":string,"rationale":string,"factors":string[]}`)
	b.WriteString(". Prices are in INR.\n")
	fmt.Fprintf(&b, "Product: %q, category %q.", req.Name, req.Category)
	if req.Price > 0 {
		fmt.Fprintf(&b, " Artisan's asking price: %.2f.", req.Price)
	}
	if n := strings.TrimSpace(req.Notes); n != "" {
		fmt.Fprintf(&b, " Description: %s", n)
	}
	return b.String()
}
