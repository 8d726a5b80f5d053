package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/shilpsetu/aureum/internal/analytics"
	"github.com/shilpsetu/aureum/internal/auth"
	"github.com/shilpsetu/aureum/internal/domain"
	"github.com/shilpsetu/aureum/internal/enhance"
	"github.com/shilpsetu/aureum/internal/form"
	"github.com/shilpsetu/aureum/internal/imaging"
	copywriter "github.com/shilpsetu/aureum/internal/providers/copy"
)

// App bundles the handler dependencies. All routes hang off method
// receivers so wiring stays in one place.
type App struct {
	Logger     zerolog.Logger
	Products   domain.ProductRepository
	Artists    domain.ArtistRepository
	Sessions   *auth.Manager
	Enhancer   *enhance.Orchestrator
	Guard      *imaging.Guard
	Insights   *analytics.Service
	Refresher  form.Refresher
	Copywriter copywriter.Copywriter
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	a.json(w, status, body)
}

func (a *App) decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

// domainError maps errors from the service layer onto HTTP responses.
// Validation-class errors carry their message to the user verbatim;
// infrastructure failures do not.
func (a *App) domainError(w http.ResponseWriter, err error) {
	var (
		ve *domain.ValidationError
		pe *domain.PayloadFormatError
		se *domain.SizeLimitError
	)
	switch {
	case errors.As(err, &ve):
		a.error(w, http.StatusUnprocessableEntity, "validation_failed", ve.Error())
	case errors.As(err, &pe):
		a.error(w, http.StatusUnprocessableEntity, "invalid_image_payload", pe.Error())
	case errors.As(err, &se):
		a.error(w, http.StatusRequestEntityTooLarge, "image_too_large", se.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "not allowed")
	case errors.Is(err, domain.ErrProviderFailure):
		a.error(w, http.StatusBadGateway, "provider_unavailable", "the generative service is unavailable, please try again later")
	default:
		a.Logger.Error().Err(err).Msg("handlers: internal error")
		a.error(w, http.StatusInternalServerError, "internal", "something went wrong")
	}
}
