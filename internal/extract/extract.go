// Package extract turns statement PDFs into plain text.
package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dslipak/pdf"
)

// Options bounds which pages are extracted. Pages are 1-based; zero means
// unbounded on that side.
type Options struct {
	PageMin int
	PageMax int
}

// Text reads the PDF at path and returns its embedded text, pages in
// document order.
func Text(path string, opts Options) (string, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}

	if opts.PageMin == 0 && opts.PageMax == 0 {
		body, err := r.GetPlainText()
		if err != nil {
			return "", fmt.Errorf("extracting text from %s: %w", path, err)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(body); err != nil {
			return "", fmt.Errorf("reading text from %s: %w", path, err)
		}
		return buf.String(), nil
	}

	first, last := opts.PageMin, opts.PageMax
	if first == 0 {
		first = 1
	}
	if last == 0 || last > r.NumPage() {
		last = r.NumPage()
	}

	var buf strings.Builder
	for n := first; n <= last; n++ {
		page := r.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extracting page %d of %s: %w", n, path, err)
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

// SidecarPath returns the .txt path next to a statement file:
// statements/jan.pdf -> statements/jan.txt.
func SidecarPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".txt"
}

// WriteSidecar writes extracted text to the statement's sidecar .txt file
// and returns the path written.
func WriteSidecar(path, text string) (string, error) {
	out := SidecarPath(path)
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", out, err)
	}
	return out, nil
}
