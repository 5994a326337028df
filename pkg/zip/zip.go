// Package zip bundles catalog pages into a downloadable archive.
package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Page is one named file placed in the archive. Order is preserved, so callers
// pass pages in catalog order (cover first, thank-you last).
type Page struct {
	Filename string
	Data     []byte
}

// Archive writes all pages into a zip held in memory. Catalog archives top out
// around a few hundred megabytes at the highest quality tier, which is fine to
// buffer before streaming to the client.
func Archive(pages []Page) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, page := range pages {
		w, err := zw.Create(page.Filename)
		if err != nil {
			return nil, fmt.Errorf("create archive entry %s: %w", page.Filename, err)
		}
		if _, err := w.Write(page.Data); err != nil {
			return nil, fmt.Errorf("write archive entry %s: %w", page.Filename, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
