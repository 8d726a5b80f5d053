package imaging

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shilpsetu/aureum/internal/domain"
)

// MaxRawImageBytes is the per-file ceiling for a freshly selected upload.
const MaxRawImageBytes = 5 << 20

// Encode reads a user-selected image and wraps it as an inline payload usable
// both for preview and for transmission to the enhancement collaborator. The
// MIME type is sniffed from the content rather than trusted from the caller.
func Encode(r io.Reader) (domain.ImagePayload, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxRawImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrImageRead, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", domain.ErrImageRead)
	}
	if len(data) > MaxRawImageBytes {
		return "", &domain.ValidationError{Field: "image", Reason: "exceeds the 5 MB upload limit"}
	}

	mime, ok := DetectImageMIME(data)
	if !ok {
		return "", &domain.ValidationError{Field: "image", Reason: "unsupported format (use JPEG, PNG, GIF, or WebP)"}
	}
	return domain.NewInlinePayload(mime, data), nil
}

// DetectImageMIME sniffs the content type and reports whether it is one of
// the accepted upload formats.
func DetectImageMIME(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	mime := strings.ToLower(strings.TrimSpace(http.DetectContentType(data)))
	if mime == "image/jpg" {
		mime = "image/jpeg"
	}
	_, ok := domain.AllowedImageMIMEs[mime]
	return mime, ok
}
