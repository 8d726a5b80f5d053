package enhance

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/shilpsetu/aureum/internal/domain"
	"github.com/shilpsetu/aureum/internal/providers/genai"
)

type fakeCollaborator struct {
	probeErr error
	editErr  func(call int) error
	calls    int
}

func (f *fakeCollaborator) Probe(ctx context.Context) error {
	return f.probeErr
}

func (f *fakeCollaborator) EditImage(ctx context.Context, req genai.ImageEditRequest) (*genai.EditedImage, error) {
	f.calls++
	if f.editErr != nil {
		if err := f.editErr(f.calls); err != nil {
			return nil, err
		}
	}
	return &genai.EditedImage{Data: []byte("enhanced"), MIME: "image/jpeg"}, nil
}

func newTestOrchestrator(client Collaborator) *Orchestrator {
	return NewOrchestrator(Options{
		Client: client,
		Pace:   rate.NewLimiter(rate.Inf, 1),
		Logger: zerolog.Nop(),
	})
}

func inlineJPEG(t *testing.T) domain.ImagePayload {
	t.Helper()
	return domain.NewInlinePayload("image/jpeg", []byte("jpeg-bytes"))
}

func TestEnhanceBatchOneResultPerImageInOrder(t *testing.T) {
	client := &fakeCollaborator{}
	o := newTestOrchestrator(client)

	img := inlineJPEG(t)
	outcome, err := o.EnhanceBatch(context.Background(), BatchRequest{
		ProductName: "Terracotta Vase",
		Category:    "Pottery & Ceramics",
		Notes:       "hand-thrown, natural glaze",
		Images:      []domain.ImagePayload{img, img, img},
	})
	if err != nil {
		t.Fatalf("EnhanceBatch: %v", err)
	}
	if len(outcome.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(outcome.Results))
	}
	if outcome.Succeeded != 3 {
		t.Fatalf("succeeded = %d, want 3", outcome.Succeeded)
	}
	for i, res := range outcome.Results {
		if !res.Success {
			t.Fatalf("result %d failed: %s", i, res.Error)
		}
		if !res.Enhanced.IsInline() {
			t.Fatalf("result %d: expected inline enhanced payload, got %q", i, res.Enhanced)
		}
	}
	if client.calls != 3 {
		t.Fatalf("edit calls = %d, want 3", client.calls)
	}
}

func TestEnhanceBatchEmptyNotesRejected(t *testing.T) {
	client := &fakeCollaborator{}
	o := newTestOrchestrator(client)

	_, err := o.EnhanceBatch(context.Background(), BatchRequest{
		ProductName: "Vase",
		Notes:       "   ",
		Images:      []domain.ImagePayload{inlineJPEG(t)},
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if client.calls != 0 {
		t.Fatal("no provider call should happen without notes")
	}
}

func TestEnhanceBatchProbeFailureAbortsBeforeAnyCall(t *testing.T) {
	client := &fakeCollaborator{probeErr: errors.New("dial tcp: timeout")}
	o := newTestOrchestrator(client)

	_, err := o.EnhanceBatch(context.Background(), BatchRequest{
		Notes:  "notes",
		Images: []domain.ImagePayload{inlineJPEG(t), inlineJPEG(t)},
	})
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("edit calls = %d, want 0 after failed probe", client.calls)
	}
}

func TestEnhanceBatchPartialFailureContinues(t *testing.T) {
	client := &fakeCollaborator{editErr: func(call int) error {
		if call == 2 {
			return errors.New("model declined: content policy")
		}
		return nil
	}}
	o := newTestOrchestrator(client)

	img := inlineJPEG(t)
	outcome, err := o.EnhanceBatch(context.Background(), BatchRequest{
		Notes:  "notes",
		Images: []domain.ImagePayload{img, img, img},
	})
	if err != nil {
		t.Fatalf("EnhanceBatch: %v", err)
	}
	want := []bool{true, false, true}
	for i, res := range outcome.Results {
		if res.Success != want[i] {
			t.Fatalf("result %d success = %v, want %v", i, res.Success, want[i])
		}
	}
	if outcome.Succeeded != 2 {
		t.Fatalf("succeeded = %d, want 2", outcome.Succeeded)
	}
	if outcome.AllFailed() {
		t.Fatal("partial success must not read as total failure")
	}
}

func TestEnhanceBatchRemoteImagesFailIndividually(t *testing.T) {
	client := &fakeCollaborator{}
	o := newTestOrchestrator(client)

	outcome, err := o.EnhanceBatch(context.Background(), BatchRequest{
		Notes: "notes",
		Images: []domain.ImagePayload{
			"https://cdn.example.com/photo.jpg",
			inlineJPEG(t),
		},
	})
	if err != nil {
		t.Fatalf("EnhanceBatch: %v", err)
	}
	if outcome.Results[0].Success {
		t.Fatal("remote image should not be sent for enhancement")
	}
	if !outcome.Results[1].Success {
		t.Fatalf("inline image should succeed: %s", outcome.Results[1].Error)
	}
	if client.calls != 1 {
		t.Fatalf("edit calls = %d, want 1", client.calls)
	}
}

func TestEnhanceBatchCancelledContextMarksRemaining(t *testing.T) {
	client := &fakeCollaborator{}
	o := NewOrchestrator(Options{
		Client: client,
		// a slow pace so the second wait observes the cancelled context
		Pace:   rate.NewLimiter(rate.Every(time.Hour), 1),
		Logger: zerolog.Nop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	img := inlineJPEG(t)
	outcome, err := o.EnhanceBatch(ctx, BatchRequest{
		Notes:  "notes",
		Images: []domain.ImagePayload{img, img},
	})
	if err != nil {
		t.Fatalf("EnhanceBatch: %v", err)
	}
	if len(outcome.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(outcome.Results))
	}
	last := outcome.Results[1]
	if last.Success || !strings.Contains(last.Error, "cancelled") {
		t.Fatalf("remaining image should be marked cancelled, got %+v", last)
	}
}
