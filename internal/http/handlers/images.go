package handlers

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/shilpsetu/aureum/internal/imaging"
)

type uploadResponse struct {
	Image string `json:"image"`
	MIME  string `json:"mime"`
	Bytes int    `json:"bytes"`
}

// ImagesUpload accepts a freshly selected photo, either as a multipart form
// with an "image" field or as a raw request body, and returns the inline
// payload the draft flow works with. The MIME type is sniffed from the
// content; the declared Content-Type is never trusted.
func (a *App) ImagesUpload(w http.ResponseWriter, r *http.Request) {
	file, err := uploadReader(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "missing image file")
		return
	}
	defer file.Close()

	payload, err := imaging.Encode(file)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, uploadResponse{
		Image: string(payload),
		MIME:  payload.MIME(),
		Bytes: payload.DecodedSize(),
	})
}

func uploadReader(r *http.Request) (io.ReadCloser, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && strings.HasPrefix(mediaType, "multipart/") {
		file, _, err := r.FormFile("image")
		if err != nil {
			return nil, err
		}
		return file, nil
	}
	return r.Body, nil
}
