package copywriter

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shilpsetu/aureum/internal/providers/genai"
)

// TextGenerator is the slice of the Gemini client this provider needs.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, jsonOutput bool) (string, error)
}

// GeminiCopywriter asks the text model for listing copy and degrades to the
// chained fallback when the call or the payload fails.
type GeminiCopywriter struct {
	gen      TextGenerator
	fallback Copywriter
	logger   zerolog.Logger
}

func NewGeminiCopywriter(gen TextGenerator, fallback Copywriter, logger zerolog.Logger) *GeminiCopywriter {
	if fallback == nil {
		fallback = NewStaticCopywriter()
	}
	return &GeminiCopywriter{gen: gen, fallback: fallback, logger: logger}
}

type copyPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

func (g *GeminiCopywriter) Compose(ctx context.Context, req Request) (*Copy, error) {
	if g.gen == nil {
		return g.useFallback(ctx, req)
	}
	raw, err := g.gen.GenerateText(ctx, buildCopyPrompt(req), true)
	if err != nil {
		g.logger.Warn().Err(err).Msg("copy: generation failed, using fallback")
		return g.useFallback(ctx, req)
	}
	parsed, err := genai.DecodePayload[copyPayload](raw)
	if err != nil || strings.TrimSpace(parsed.Title) == "" {
		g.logger.Warn().Err(err).Msg("copy: malformed payload, using fallback")
		return g.useFallback(ctx, req)
	}
	return &Copy{
		Title:       parsed.Title,
		Description: parsed.Description,
		Keywords:    normalizeKeywords(parsed.Keywords, req.Category),
		Provider:    geminiProviderName,
	}, nil
}

func (g *GeminiCopywriter) useFallback(ctx context.Context, req Request) (*Copy, error) {
	result, err := g.fallback.Compose(ctx, req)
	if result != nil {
		result.Provider = staticProviderName
	}
	return result, err
}

func buildCopyPrompt(req Request) string {
	locale := req.Locale
	if locale == "" {
		locale = "en"
	}
	sb := &strings.Builder{}
	sb.WriteString("You are a marketing copywriter for an Indian artisan marketplace. Respond strictly with JSON matching this schema: ")
	sb.WriteString(`{"title":string,"description":string,"keywords":string[]}`)
	fmt.Fprintf(sb, ". Use locale '%s'. Product: name=%q, category=%q, description=%q. Write warm, concrete copy that honors the craft without exaggeration.",
		locale, req.Name, req.Category, req.Notes)
	return sb.String()
}

func normalizeKeywords(keywords []string, fallback string) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		lower := strings.ToLower(kw)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		result = append(result, kw)
	}
	if len(result) == 0 && fallback != "" {
		result = []string{strings.ToLower(fallback)}
	}
	return result
}

var _ Copywriter = (*GeminiCopywriter)(nil)
