package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shilpsetu/aureum/internal/auth"
	"github.com/shilpsetu/aureum/internal/domain"
	"github.com/shilpsetu/aureum/internal/middleware"
)

type loginRequest struct {
	ArtistID string `json:"artist_id"`
	Email    string `json:"email"`
}

type loginResponse struct {
	Token      string `json:"token"`
	ArtistID   string `json:"artist_id"`
	ArtistName string `json:"artist_name"`
	Locale     string `json:"locale"`
}

// Login verifies the artisan against their registered email and issues a
// bearer session token.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !a.decode(r, &req) {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ArtistID == "" || req.Email == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "artist_id and email are required")
		return
	}
	artist, err := a.Artists.GetByID(r.Context(), req.ArtistID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusUnauthorized, "unauthorized", "unknown artist")
			return
		}
		a.domainError(w, err)
		return
	}
	if !strings.EqualFold(strings.TrimSpace(req.Email), artist.Email) {
		a.error(w, http.StatusUnauthorized, "unauthorized", "email does not match")
		return
	}

	sess := auth.Session{
		ArtistID:   artist.ID,
		ArtistName: artist.Name,
		Locale:     middleware.LocaleFromContext(r.Context()),
	}
	token, err := a.Sessions.Issue(sess)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.Logger.Info().
		Str("artist_id", artist.ID).
		Str("country", middleware.CountryFromContext(r.Context())).
		Msg("auth: artist logged in")
	a.json(w, http.StatusOK, loginResponse{
		Token:      token,
		ArtistID:   sess.ArtistID,
		ArtistName: sess.ArtistName,
		Locale:     sess.Locale,
	})
}

// Logout revokes the presented token for its remaining lifetime.
func (a *App) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing authorization")
		return
	}
	if err := a.Sessions.Logout(r.Context(), token); err != nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid session")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}
	artist, err := a.Artists.GetByID(r.Context(), sess.ArtistID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"artist_id": artist.ID,
		"name":      artist.Name,
		"email":     artist.Email,
		"region":    artist.Region,
		"locale":    sess.Locale,
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
