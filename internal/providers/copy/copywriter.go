package copywriter

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Request carries the product details marketing copy is written from.
type Request struct {
	Name     string
	Category string
	Notes    string
	Locale   string
}

// Copy is the generated listing copy.
type Copy struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Provider    string   `json:"-"`
}

// Copywriter produces listing copy for a product.
type Copywriter interface {
	Compose(ctx context.Context, req Request) (*Copy, error)
}

const (
	geminiProviderName = "gemini"
	staticProviderName = "static"
)

// StaticCopywriter is the deterministic fallback used when the model is
// unreachable or returns malformed output.
type StaticCopywriter struct{}

func NewStaticCopywriter() *StaticCopywriter {
	return &StaticCopywriter{}
}

func (s *StaticCopywriter) Compose(ctx context.Context, req Request) (*Copy, error) {
	c := cases.Title(language.Und)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Handcrafted Piece"
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "handmade goods"
	}
	description := fmt.Sprintf("%s, handmade with care.", c.String(name))
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		description = fmt.Sprintf("%s %s", description, notes)
	}
	return &Copy{
		Title:       c.String(name),
		Description: description,
		Keywords:    []string{strings.ToLower(category), "handmade", "artisan"},
		Provider:    staticProviderName,
	}, nil
}

var _ Copywriter = (*StaticCopywriter)(nil)
