package zip

import (
	"archive/zip"
	"bytes"
	"strings"
)

type Entry struct {
	Name string
	MIME string
	Data []byte
}

var extByMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Archive packs the entries into one in-memory zip, appending a file
// extension derived from each entry's MIME type.
func Archive(entries []Entry) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, e := range entries {
		if len(e.Data) == 0 {
			continue
		}
		name := e.Name
		if ext, ok := extByMIME[strings.ToLower(e.MIME)]; ok && !strings.HasSuffix(name, ext) {
			name += ext
		}
		w, err := zw.Create(name)
		if err != nil {
			continue
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil
		}
	}
	_ = zw.Close()
	return buf.Bytes()
}
