package domain

import (
	"encoding/base64"
	"strings"
)

// ImagePayload is either an inline-encoded image (a data URI carrying its own
// MIME type) or an absolute URL pointing at a remote image. Any other string
// is invalid and rejected before persistence.
type ImagePayload string

// AllowedImageMIMEs lists the upload formats accepted by the marketplace.
var AllowedImageMIMEs = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

func (p ImagePayload) IsInline() bool {
	return strings.HasPrefix(string(p), "data:image/")
}

func (p ImagePayload) IsRemote() bool {
	s := string(p)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Valid reports whether the payload takes one of the two legal forms.
func (p ImagePayload) Valid() bool {
	if p.IsInline() {
		mime, _, ok := p.splitInline()
		if !ok {
			return false
		}
		_, allowed := AllowedImageMIMEs[mime]
		return allowed
	}
	return p.IsRemote()
}

// MIME returns the embedded MIME type for inline payloads and "" otherwise.
func (p ImagePayload) MIME() string {
	mime, _, _ := p.splitInline()
	return mime
}

// Decode returns the raw image bytes of an inline payload.
func (p ImagePayload) Decode() ([]byte, error) {
	_, encoded, ok := p.splitInline()
	if !ok {
		return nil, ErrImageRead
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrImageRead
	}
	return data, nil
}

// DecodedSize estimates the decoded byte size of an inline payload without
// decoding it. Base64 inflates by roughly a third, so the estimate is the
// encoded length scaled by 3/4. Remote payloads report zero.
func (p ImagePayload) DecodedSize() int {
	_, encoded, ok := p.splitInline()
	if !ok {
		return 0
	}
	return len(encoded) * 3 / 4
}

// NewInlinePayload builds a data URI payload from raw image bytes.
func NewInlinePayload(mime string, data []byte) ImagePayload {
	return ImagePayload("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data))
}

func (p ImagePayload) splitInline() (mime, encoded string, ok bool) {
	s := string(p)
	if !strings.HasPrefix(s, "data:") {
		return "", "", false
	}
	rest := s[len("data:"):]
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return "", "", false
	}
	return rest[:sep], rest[sep+len(";base64,"):], true
}
