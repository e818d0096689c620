// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/pioc-engine/internal/container"
)

const imagePoppler = "poppler-utils:latest"

// pdftotextCmd reads the PDF from stdin and writes UTF-8 text to stdout.
// pdftotext terminates every page with a form feed.
var pdftotextCmd = []string{"pdftotext", "-enc", "UTF-8", "-", "-"}

// PdftotextConverter extracts page text by piping PDFs through poppler's
// pdftotext inside a container. It depends on a container.Runtime (docker
// or podman) injected at construction time.
type PdftotextConverter struct {
	runtime container.Runtime
}

// NewPdftotextConverter verifies that the poppler image exists locally
// before returning.
func NewPdftotextConverter(rt container.Runtime) (*PdftotextConverter, error) {
	if err := rt.ImageExists(imagePoppler); err != nil {
		return nil, fmt.Errorf("poppler image not available in %s: %w", rt.Name(), err)
	}
	return &PdftotextConverter{runtime: rt}, nil
}

// Pages runs pdftotext over the PDF and splits its output on form feeds.
func (p *PdftotextConverter) Pages(pdfPath string) ([]string, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := p.runtime.Run(imagePoppler, pdftotextCmd, f, &out); err != nil {
		return nil, fmt.Errorf("converting %s with pdftotext: %w", pdfPath, err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("pdftotext produced empty output for %s", pdfPath)
	}

	return splitFormFeeds(out.String()), nil
}

// splitFormFeeds splits pdftotext output into pages, dropping the empty
// element after the final form feed.
func splitFormFeeds(s string) []string {
	pages := strings.Split(s, "\f")
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}
