package handlers

import (
	"net/http"

	"github.com/shilpsetu/aureum/internal/domain"
	"github.com/shilpsetu/aureum/internal/enhance"
)

type enhanceRequest struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Notes    string   `json:"notes"`
	Images   []string `json:"images"`
}

type enhanceResponse struct {
	Results   []domain.EnhancementResult `json:"results"`
	Succeeded int                        `json:"succeeded"`
}

// ImagesEnhance runs the batch enhancement flow and returns one result per
// input image, in input order. Partial failure is a 200 with per-image
// errors; only total upfront failure is an error response.
func (a *App) ImagesEnhance(w http.ResponseWriter, r *http.Request) {
	var req enhanceRequest
	if !a.decode(r, &req) {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	outcome, err := a.Enhancer.EnhanceBatch(r.Context(), enhance.BatchRequest{
		ProductName: req.Name,
		Category:    req.Category,
		Notes:       req.Notes,
		Images:      toPayloads(req.Images),
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, enhanceResponse{
		Results:   outcome.Results,
		Succeeded: outcome.Succeeded,
	})
}
