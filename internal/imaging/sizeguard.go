package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/shilpsetu/aureum/internal/domain"
)

const (
	// PersistCeilingBytes is the maximum decoded size an image may have at
	// the moment of write. It leaves a buffer under the store's 1 MB
	// document-field limit.
	PersistCeilingBytes = 800 * 1024

	// compressMaxDim bounds the longer edge after recompression.
	compressMaxDim = 600

	// DefaultQuality is the JPEG quality factor used for recompression.
	DefaultQuality = 70
)

// Guard enforces the persistence size ceiling on image payloads.
type Guard struct {
	CeilingBytes int
	MaxDimension int
}

// NewGuard returns a Guard with the stock ceiling and dimension bound.
func NewGuard() *Guard {
	return &Guard{CeilingBytes: PersistCeilingBytes, MaxDimension: compressMaxDim}
}

// IsOversized reports whether the payload's estimated decoded size exceeds
// the persistence ceiling. Remote URL payloads are never oversized.
func (g *Guard) IsOversized(payload domain.ImagePayload) bool {
	return payload.DecodedSize() > g.ceiling()
}

// Compress downsamples the payload into the dimension bound and re-encodes it
// as JPEG at the given quality. An image already within the ceiling and the
// bound passes through untouched, so repeated compression converges. The
// result is never larger than the input.
func (g *Guard) Compress(payload domain.ImagePayload, quality int) (domain.ImagePayload, error) {
	if !payload.IsInline() {
		return payload, nil
	}
	data, err := payload.Decode()
	if err != nil {
		return "", err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: decode image: %v", domain.ErrImageRead, err)
	}

	bounds := img.Bounds()
	maxDim := g.MaxDimension
	if maxDim <= 0 {
		maxDim = compressMaxDim
	}
	withinBound := bounds.Dx() <= maxDim && bounds.Dy() <= maxDim
	if withinBound && len(data) <= g.ceiling() {
		return payload, nil
	}

	if !withinBound {
		img = downscale(img, maxDim)
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("%w: encode image: %v", domain.ErrImageRead, err)
	}
	if buf.Len() >= len(data) {
		return payload, nil
	}
	return domain.NewInlinePayload("image/jpeg", buf.Bytes()), nil
}

// Check verifies every image against the ceiling and returns a SizeLimitError
// naming the offending indices. It never truncates or drops an image.
func (g *Guard) Check(images []domain.ImagePayload) error {
	var offending []int
	for i, payload := range images {
		if g.IsOversized(payload) {
			offending = append(offending, i)
		}
	}
	if len(offending) > 0 {
		return &domain.SizeLimitError{Indices: offending}
	}
	return nil
}

func (g *Guard) ceiling() int {
	if g.CeilingBytes > 0 {
		return g.CeilingBytes
	}
	return PersistCeilingBytes
}

// downscale resamples the image so its longer edge equals maxDim, preserving
// aspect ratio. Nearest-neighbor is sufficient for thumbnail-grade output.
func downscale(src image.Image, maxDim int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}

	var outW, outH int
	if w >= h {
		outW = maxDim
		outH = h * maxDim / w
	} else {
		outH = maxDim
		outW = w * maxDim / h
	}
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	for y := 0; y < outH; y++ {
		sy := bounds.Min.Y + y*h/outH
		for x := 0; x < outW; x++ {
			sx := bounds.Min.X + x*w/outW
			dst.Set(x, y, src.At(sx, sy))
		}
	}
	return dst
}
