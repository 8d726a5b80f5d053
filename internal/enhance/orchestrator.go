package enhance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/shilpsetu/aureum/internal/domain"
	"github.com/shilpsetu/aureum/internal/providers/genai"
)

// Collaborator is the external generative-image service the orchestrator
// talks to. *genai.Client satisfies it.
type Collaborator interface {
	Probe(ctx context.Context) error
	EditImage(ctx context.Context, req genai.ImageEditRequest) (*genai.EditedImage, error)
}

// Options configures an Orchestrator.
type Options struct {
	Client Collaborator
	// Pace bounds the request rate against the collaborator. A nil limiter
	// defaults to one request per second with no burst headroom.
	Pace        *rate.Limiter
	CallTimeout time.Duration
	Logger      zerolog.Logger
}

// Orchestrator runs the per-image enhancement batch: one connectivity probe,
// then strictly sequential paced calls, one categorized result per input.
type Orchestrator struct {
	client      Collaborator
	pace        *rate.Limiter
	callTimeout time.Duration
	logger      zerolog.Logger
}

// BatchRequest is an ordered set of images plus the product context that
// disambiguates what the model is looking at.
type BatchRequest struct {
	ProductName string
	Category    string
	Notes       string
	Images      []domain.ImagePayload
}

// BatchOutcome holds one result per input image, in input order.
type BatchOutcome struct {
	Results   []domain.EnhancementResult
	Succeeded int
}

// AllFailed reports total batch failure, which callers surface differently
// from partial success.
func (o *BatchOutcome) AllFailed() bool {
	return o.Succeeded == 0 && len(o.Results) > 0
}

const defaultCallTimeout = 30 * time.Second

func NewOrchestrator(opts Options) *Orchestrator {
	pace := opts.Pace
	if pace == nil {
		pace = rate.NewLimiter(rate.Every(time.Second), 1)
	}
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &Orchestrator{
		client:      opts.Client,
		pace:        pace,
		callTimeout: timeout,
		logger:      opts.Logger,
	}
}

// EnhanceBatch enhances every image in the request. Notes are required: they
// are the only signal disambiguating product identity for the model. The
// probe failing aborts the whole batch before any per-image call. Individual
// failures never short-circuit the rest of the batch.
func (o *Orchestrator) EnhanceBatch(ctx context.Context, req BatchRequest) (*BatchOutcome, error) {
	if strings.TrimSpace(req.Notes) == "" {
		return nil, &domain.ValidationError{Field: "notes", Reason: "must not be empty before enhancement"}
	}
	if len(req.Images) == 0 {
		return nil, &domain.ValidationError{Field: "images", Reason: "at least one image is required"}
	}

	probeCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	err := o.client.Probe(probeCtx)
	cancel()
	if err != nil {
		o.logger.Warn().Err(err).Msg("enhance: connectivity probe failed, aborting batch")
		return nil, fmt.Errorf("%w: enhancement service unreachable", domain.ErrProviderFailure)
	}

	prompt := BuildPrompt(req.ProductName, req.Category, req.Notes)
	outcome := &BatchOutcome{Results: make([]domain.EnhancementResult, len(req.Images))}

	for i, payload := range req.Images {
		if err := o.pace.Wait(ctx); err != nil {
			// Context gone; mark this and all remaining images failed.
			for j := i; j < len(req.Images); j++ {
				outcome.Results[j] = domain.EnhancementResult{Success: false, Error: "enhancement cancelled"}
			}
			return outcome, nil
		}
		outcome.Results[i] = o.enhanceOne(ctx, prompt, payload)
		if outcome.Results[i].Success {
			outcome.Succeeded++
		}
	}

	o.logger.Info().
		Int("images", len(req.Images)).
		Int("succeeded", outcome.Succeeded).
		Msg("enhance: batch finished")
	return outcome, nil
}

func (o *Orchestrator) enhanceOne(ctx context.Context, prompt string, payload domain.ImagePayload) domain.EnhancementResult {
	if !payload.IsInline() {
		return domain.EnhancementResult{Success: false, Error: "only freshly uploaded images can be enhanced"}
	}
	data, err := payload.Decode()
	if err != nil {
		return domain.EnhancementResult{Success: false, Error: "image could not be decoded"}
	}

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	edited, err := o.client.EditImage(callCtx, genai.ImageEditRequest{
		Prompt:    prompt,
		ImageData: data,
		MIME:      payload.MIME(),
	})
	if err != nil {
		o.logger.Warn().Err(err).Msg("enhance: per-image call failed")
		return domain.EnhancementResult{Success: false, Error: err.Error()}
	}
	return domain.EnhancementResult{
		Success:  true,
		Enhanced: domain.NewInlinePayload(edited.MIME, edited.Data),
	}
}
