package handlers

import (
	"net/http"

	"github.com/shilpsetu/aureum/internal/analytics"
	"github.com/shilpsetu/aureum/internal/middleware"
)

// InsightsGet serves the artisan's business snapshot, recomputing only when
// the stored one has gone stale.
func (a *App) InsightsGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}
	snapshot, err := a.Insights.Insights(r.Context(), sess.ArtistID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, snapshot)
}

// InsightsRefresh forces a recompute regardless of staleness.
func (a *App) InsightsRefresh(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}
	snapshot, err := a.Insights.Refresh(r.Context(), sess.ArtistID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, snapshot)
}

type priceRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Notes    string  `json:"notes"`
	Price    float64 `json:"price"`
}

// PriceAnalyze suggests a price range for a draft listing.
func (a *App) PriceAnalyze(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if !a.decode(r, &req) {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	analysis, err := a.Insights.AnalyzePrice(r.Context(), analytics.PriceRequest{
		Name:     req.Name,
		Category: req.Category,
		Notes:    req.Notes,
		Price:    req.Price,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, analysis)
}
