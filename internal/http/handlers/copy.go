package handlers

import (
	"net/http"

	"github.com/shilpsetu/aureum/internal/middleware"
	copywriter "github.com/shilpsetu/aureum/internal/providers/copy"
)

type copyRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

type copyResponse struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Provider    string   `json:"provider"`
}

// CopyCompose writes listing copy for a draft product in the request's
// detected locale.
func (a *App) CopyCompose(w http.ResponseWriter, r *http.Request) {
	var req copyRequest
	if !a.decode(r, &req) {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name == "" {
		a.error(w, http.StatusUnprocessableEntity, "validation_failed", "validation: name must not be empty")
		return
	}
	result, err := a.Copywriter.Compose(r.Context(), copywriter.Request{
		Name:     req.Name,
		Category: req.Category,
		Notes:    req.Notes,
		Locale:   middleware.LocaleFromContext(r.Context()),
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, copyResponse{
		Title:       result.Title,
		Description: result.Description,
		Keywords:    result.Keywords,
		Provider:    result.Provider,
	})
}
