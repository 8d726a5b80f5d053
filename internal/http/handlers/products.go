package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shilpsetu/aureum/internal/domain"
	"github.com/shilpsetu/aureum/internal/form"
	"github.com/shilpsetu/aureum/internal/middleware"
	"github.com/shilpsetu/aureum/pkg/zip"
)

type productPayload struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    float64  `json:"price"`
	Notes    string   `json:"notes"`
	Images   []string `json:"images"`
}

type productResponse struct {
	ID         string    `json:"id"`
	ArtistID   string    `json:"artist_id"`
	ArtistName string    `json:"artist_name"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Price      float64   `json:"price"`
	Notes      string    `json:"notes"`
	Images     []string  `json:"images"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toProductResponse(p *domain.Product) productResponse {
	images := make([]string, len(p.Images))
	for i, img := range p.Images {
		images[i] = string(img)
	}
	return productResponse{
		ID:         p.ID,
		ArtistID:   p.ArtistID,
		ArtistName: p.ArtistName,
		Name:       p.Name,
		Category:   p.Category,
		Price:      p.Price,
		Notes:      p.Notes,
		Images:     images,
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toPayloads(images []string) []domain.ImagePayload {
	out := make([]domain.ImagePayload, len(images))
	for i, s := range images {
		out[i] = domain.ImagePayload(s)
	}
	return out
}

// ProductsCreate runs the submitted draft through the form controller so
// the HTTP path and the interactive flow share one validation and
// size-guard gate.
func (a *App) ProductsCreate(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}
	var req productPayload
	if !a.decode(r, &req) {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	ctrl := form.NewController(sess, a.Guard, a.Products, a.Refresher, a.Logger)
	fields := []struct{ name, value string }{
		{"name", req.Name},
		{"category", req.Category},
		{"price", strconv.FormatFloat(req.Price, 'f', -1, 64)},
		{"notes", req.Notes},
	}
	for _, f := range fields {
		if err := ctrl.UpdateField(f.name, f.value); err != nil {
			a.domainError(w, err)
			return
		}
	}
	if err := ctrl.AddImages(toPayloads(req.Images)); err != nil {
		a.domainError(w, err)
		return
	}
	id, err := ctrl.Submit(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]string{"id": id})
}

func (a *App) ProductsList(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}
	products, err := a.Products.ListByArtist(r.Context(), sess.ArtistID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]productResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) ProductGet(w http.ResponseWriter, r *http.Request) {
	product, ok := a.ownedProduct(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, toProductResponse(product))
}

// ProductUpdate applies a full replacement of the mutable fields. The same
// field and payload rules as creation apply.
func (a *App) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	product, ok := a.ownedProduct(w, r)
	if !ok {
		return
	}
	var req productPayload
	if !a.decode(r, &req) {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name == "" {
		a.domainError(w, &domain.ValidationError{Field: "name", Reason: "must not be empty"})
		return
	}
	if !domain.KnownCategory(req.Category) {
		a.domainError(w, &domain.ValidationError{Field: "category", Reason: "is not a recognized category"})
		return
	}
	if req.Price <= 0 {
		a.domainError(w, &domain.ValidationError{Field: "price", Reason: "must be greater than zero"})
		return
	}
	if req.Notes == "" {
		a.domainError(w, &domain.ValidationError{Field: "notes", Reason: "must not be empty"})
		return
	}
	images := toPayloads(req.Images)
	if len(images) == 0 {
		a.domainError(w, &domain.ValidationError{Field: "images", Reason: "at least one image is required"})
		return
	}
	if len(images) > form.MaxImagesPerProduct {
		a.domainError(w, &domain.ValidationError{
			Field:  "images",
			Reason: fmt.Sprintf("a listing can carry at most %d images", form.MaxImagesPerProduct),
		})
		return
	}
	if err := a.Guard.Check(images); err != nil {
		a.domainError(w, err)
		return
	}

	product.Name = req.Name
	product.Category = req.Category
	product.Price = req.Price
	product.Notes = req.Notes
	product.Images = images
	if err := a.Products.Update(r.Context(), product); err != nil {
		a.domainError(w, err)
		return
	}
	if a.Refresher != nil {
		a.Refresher.Trigger(product.ArtistID)
	}
	a.json(w, http.StatusOK, toProductResponse(product))
}

// ProductDelete deactivates the listing; the record stays for the artisan's
// own history and analytics.
func (a *App) ProductDelete(w http.ResponseWriter, r *http.Request) {
	product, ok := a.ownedProduct(w, r)
	if !ok {
		return
	}
	if err := a.Products.Deactivate(r.Context(), product.ID); err != nil {
		a.domainError(w, err)
		return
	}
	if a.Refresher != nil {
		a.Refresher.Trigger(product.ArtistID)
	}
	a.json(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

// ProductImagesZip streams the product's inline images as a zip download.
// Remote-URL images have no local bytes and are skipped.
func (a *App) ProductImagesZip(w http.ResponseWriter, r *http.Request) {
	product, ok := a.ownedProduct(w, r)
	if !ok {
		return
	}
	var entries []zip.Entry
	for i, img := range product.Images {
		if !img.IsInline() {
			continue
		}
		data, err := img.Decode()
		if err != nil {
			continue
		}
		entries = append(entries, zip.Entry{
			Name: fmt.Sprintf("%s-%d", product.ID, i+1),
			MIME: img.MIME(),
			Data: data,
		})
	}
	if len(entries) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "product has no downloadable images")
		return
	}
	archive := zip.Archive(entries)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=product-%s.zip", product.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

// ownedProduct loads the {id} product and enforces that it belongs to the
// session's artist. Foreign products read as not found, not forbidden.
func (a *App) ownedProduct(w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return nil, false
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id required")
		return nil, false
	}
	product, err := a.Products.GetByID(r.Context(), id)
	if err != nil {
		a.domainError(w, err)
		return nil, false
	}
	if product.ArtistID != sess.ArtistID {
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
		return nil, false
	}
	return product, true
}
