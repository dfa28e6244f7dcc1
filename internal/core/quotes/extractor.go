// Package quotes holds the built-in quote themes and the extraction of
// user-uploaded quote files into plain quote lines.
package quotes

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// Extractor turns an uploaded file into one quote per non-empty line.
// Plain text is split directly; anything else (pdf, docx, ...) goes
// through docconv first.
type Extractor struct{}

func NewExtractor() *Extractor { return &Extractor{} }

// Extract returns the trimmed non-empty lines of the upload, in file
// order. contentType is the multipart Content-Type header; filename is
// used as a fallback hint when the header is missing or generic.
func (e *Extractor) Extract(data []byte, contentType, filename string) ([]string, error) {
	if isPlainText(contentType, filename) {
		return splitLines(string(data)), nil
	}

	res, err := docconv.Convert(bytes.NewReader(data), contentType, false)
	if err != nil {
		return nil, fmt.Errorf("extract %q (%s): %w", filename, contentType, err)
	}
	return splitLines(res.Body), nil
}

func isPlainText(contentType, filename string) bool {
	if strings.HasPrefix(contentType, "text/plain") {
		return true
	}
	if contentType == "" || contentType == "application/octet-stream" {
		return strings.EqualFold(filepath.Ext(filename), ".txt")
	}
	return false
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
