package form

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shilpsetu/aureum/internal/auth"
	"github.com/shilpsetu/aureum/internal/domain"
	"github.com/shilpsetu/aureum/internal/imaging"
)

// MaxImagesPerProduct bounds how many photos one listing may carry.
const MaxImagesPerProduct = 5

// Refresher receives fire-and-forget analytics refresh requests after a
// successful submit.
type Refresher interface {
	Trigger(artistID string)
}

// Controller holds and validates the in-progress product draft across the
// multi-step submission flow. One controller serves one submission session
// for one artisan; it is not safe for concurrent use, matching the single
// event flow it models.
type Controller struct {
	session   auth.Session
	guard     *imaging.Guard
	products  domain.ProductRepository
	refresher Refresher
	logger    zerolog.Logger

	draft domain.ProductDraft
}

func NewController(session auth.Session, guard *imaging.Guard, products domain.ProductRepository, refresher Refresher, logger zerolog.Logger) *Controller {
	if guard == nil {
		guard = imaging.NewGuard()
	}
	return &Controller{
		session:   session,
		guard:     guard,
		products:  products,
		refresher: refresher,
		logger:    logger,
	}
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() domain.ProductDraft {
	d := c.draft
	d.Images = append([]domain.ImagePayload(nil), c.draft.Images...)
	return d
}

// UpdateField sets one scalar field. Unknown fields and malformed values are
// validation errors; no other state is touched.
func (c *Controller) UpdateField(name, value string) error {
	switch name {
	case "name":
		c.draft.Name = strings.TrimSpace(value)
	case "category":
		if value != "" && !domain.KnownCategory(value) {
			return &domain.ValidationError{Field: "category", Reason: "is not a recognized category"}
		}
		c.draft.Category = value
	case "price":
		price, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
			return &domain.ValidationError{Field: "price", Reason: "must be a number"}
		}
		if price <= 0 {
			return &domain.ValidationError{Field: "price", Reason: "must be greater than zero"}
		}
		c.draft.Price = price
	case "notes":
		c.draft.Notes = strings.TrimSpace(value)
	default:
		return &domain.ValidationError{Field: name, Reason: "is not a draft field"}
	}
	return nil
}

// AddImages appends payloads to the draft. Payloads that are not valid
// images, that exceed the raw upload limit, or that would push the draft
// past the image cap, are rejected with a user-facing error rather than a
// fault. Uploads under the raw limit but past the persistence ceiling are
// compressed on the way in.
func (c *Controller) AddImages(payloads []domain.ImagePayload) error {
	if len(c.draft.Images)+len(payloads) > MaxImagesPerProduct {
		return &domain.ValidationError{
			Field:  "images",
			Reason: fmt.Sprintf("a listing can carry at most %d images", MaxImagesPerProduct),
		}
	}
	for _, p := range payloads {
		if !p.Valid() {
			return &domain.ValidationError{Field: "images", Reason: "unsupported image type (use JPEG, PNG, GIF, or WebP)"}
		}
		if p.DecodedSize() > imaging.MaxRawImageBytes {
			return &domain.ValidationError{Field: "images", Reason: "exceeds the 5 MB upload limit"}
		}
		if c.guard.IsOversized(p) {
			compressed, err := c.guard.Compress(p, imaging.DefaultQuality)
			if err != nil {
				return &domain.ValidationError{Field: "images", Reason: "image could not be processed"}
			}
			p = compressed
		}
		c.draft.Images = append(c.draft.Images, p)
	}
	return nil
}

// RemoveImage drops one entry, preserving the order of the rest.
func (c *Controller) RemoveImage(index int) error {
	if index < 0 || index >= len(c.draft.Images) {
		return &domain.ValidationError{Field: "images", Reason: "index out of range"}
	}
	c.draft.Images = append(c.draft.Images[:index], c.draft.Images[index+1:]...)
	return nil
}

// ReorderImage moves one entry so the user can choose the main image
// (index 0).
func (c *Controller) ReorderImage(from, to int) error {
	n := len(c.draft.Images)
	if from < 0 || from >= n || to < 0 || to >= n {
		return &domain.ValidationError{Field: "images", Reason: "index out of range"}
	}
	if from == to {
		return nil
	}
	img := c.draft.Images[from]
	rest := append(c.draft.Images[:from], c.draft.Images[from+1:]...)
	c.draft.Images = append(rest[:to], append([]domain.ImagePayload{img}, rest[to:]...)...)
	return nil
}

// AcceptEnhancement replaces the image at index with its approved enhanced
// version, compressing first if the enhanced output is oversized.
func (c *Controller) AcceptEnhancement(index int, enhanced domain.ImagePayload) error {
	if index < 0 || index >= len(c.draft.Images) {
		return &domain.ValidationError{Field: "images", Reason: "index out of range"}
	}
	if !enhanced.Valid() {
		return &domain.PayloadFormatError{Index: index}
	}
	if c.guard.IsOversized(enhanced) {
		compressed, err := c.guard.Compress(enhanced, imaging.DefaultQuality)
		if err != nil {
			return err
		}
		enhanced = compressed
	}
	c.draft.Images[index] = enhanced
	return nil
}

// Validate returns the first failing rule, or nil when the draft is ready to
// submit. It is re-run inside Submit regardless of earlier field checks.
func (c *Controller) Validate() error {
	switch {
	case strings.TrimSpace(c.draft.Name) == "":
		return &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	case strings.TrimSpace(c.draft.Category) == "":
		return &domain.ValidationError{Field: "category", Reason: "must be selected"}
	case c.draft.Price <= 0:
		return &domain.ValidationError{Field: "price", Reason: "must be greater than zero"}
	case strings.TrimSpace(c.draft.Notes) == "":
		return &domain.ValidationError{Field: "notes", Reason: "must not be empty"}
	case len(c.draft.Images) == 0:
		return &domain.ValidationError{Field: "images", Reason: "at least one image is required"}
	}
	return nil
}

// Submit validates, runs the size-guard gate, writes the product, resets the
// draft, and schedules the background analytics refresh. On any failure the
// draft is left intact so the user can correct and retry.
func (c *Controller) Submit(ctx context.Context) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if err := c.guard.Check(c.draft.Images); err != nil {
		return "", err
	}

	product := &domain.Product{
		ArtistID:   c.session.ArtistID,
		ArtistName: c.session.ArtistName,
		Name:       c.draft.Name,
		Category:   c.draft.Category,
		Price:      c.draft.Price,
		Notes:      c.draft.Notes,
		Images:     append([]domain.ImagePayload(nil), c.draft.Images...),
		IsActive:   true,
	}
	id, err := c.products.Create(ctx, product)
	if err != nil {
		return "", err
	}

	c.draft = domain.ProductDraft{}
	if c.refresher != nil {
		c.refresher.Trigger(c.session.ArtistID)
	}
	c.logger.Info().
		Str("product_id", id).
		Str("artist_id", c.session.ArtistID).
		Msg("form: product submitted")
	return id, nil
}
