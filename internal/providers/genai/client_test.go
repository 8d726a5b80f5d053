package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/shilpsetu/aureum/internal/domain"
)

type roundTripFunc func(r *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient(Options{
		APIKey:     "test-key",
		HTTPClient: &http.Client{Transport: rt},
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Options{}); err == nil {
		t.Fatal("expected an error without an api key")
	}
}

func TestEditImageReturnsInlineResult(t *testing.T) {
	edited := []byte("edited-image-bytes")
	var captured geminiGenerateContentRequest

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Fatalf("api key header = %q", got)
		}
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash-image:generateContent") {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		resp := geminiGenerateContentResponse{Candidates: []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{{
				InlineData: &geminiInlineData{
					MimeType: "image/png",
					Data:     base64.StdEncoding.EncodeToString(edited),
				},
			}}},
		}}}
		out, _ := json.Marshal(resp)
		return jsonResponse(http.StatusOK, string(out)), nil
	})

	result, err := client.EditImage(context.Background(), ImageEditRequest{
		Prompt:    "brighten",
		ImageData: []byte("original"),
		MIME:      "image/jpeg",
	})
	if err != nil {
		t.Fatalf("EditImage: %v", err)
	}
	if !bytes.Equal(result.Data, edited) {
		t.Fatal("edited bytes do not round-trip")
	}
	if result.MIME != "image/png" {
		t.Fatalf("MIME = %q, want image/png", result.MIME)
	}

	// the request must carry both the instruction and the inline image
	parts := captured.Contents[0].Parts
	if len(parts) != 2 || parts[0].Text != "brighten" || parts[1].InlineData == nil {
		t.Fatalf("unexpected request parts: %+v", parts)
	}
	if parts[1].InlineData.MimeType != "image/jpeg" {
		t.Fatalf("inline mime = %q", parts[1].InlineData.MimeType)
	}
}

func TestEditImageTextOnlyAnswerIsRefusal(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		resp := geminiGenerateContentResponse{Candidates: []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{{Text: "I cannot edit this image."}}},
		}}}
		out, _ := json.Marshal(resp)
		return jsonResponse(http.StatusOK, string(out)), nil
	})

	_, err := client.EditImage(context.Background(), ImageEditRequest{
		Prompt:    "p",
		ImageData: []byte("x"),
		MIME:      "image/jpeg",
	})
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
	if !strings.Contains(err.Error(), "model declined") {
		t.Fatalf("refusal should carry the model's explanation: %v", err)
	}
}

func TestEditImageSurfacesAPIError(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota exceeded"}}`), nil
	})

	_, err := client.EditImage(context.Background(), ImageEditRequest{
		Prompt:    "p",
		ImageData: []byte("x"),
		MIME:      "image/jpeg",
	})
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("error should include the API message: %v", err)
	}
}

func TestProbe(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash:generateContent") {
			t.Fatalf("probe should hit the text model, got %q", r.URL.Path)
		}
		return jsonResponse(http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"pong"}]}}]}`), nil
	})
	if err := client.Probe(context.Background()); err != nil {
		t.Fatalf("Probe: %v", err)
	}
}

func TestProbeFailure(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})
	if err := client.Probe(context.Background()); !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
}

func TestGenerateTextJSONMode(t *testing.T) {
	var captured geminiGenerateContentRequest
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		return jsonResponse(http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"{\"ok\":true}"}]}}]}`), nil
	})

	text, err := client.GenerateText(context.Background(), "summarize", true)
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if text != `{"ok":true}` {
		t.Fatalf("text = %q", text)
	}
	if captured.GenerationConfig.ResponseMimeType != "application/json" {
		t.Fatal("json mode should constrain the response MIME type")
	}
}
