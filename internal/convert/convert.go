// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert reads the plain text of each page of a PDF report with
// pluggable backends. Pages that carry no text (scanned images) come back
// as empty strings so page indices stay aligned with the document.
package convert

import (
	"fmt"

	"github.com/pdiddy/pioc-engine/internal/container"
	"github.com/pdiddy/pioc-engine/pkg/types"
)

// Converter returns the plain text of every page of a PDF. Different
// backends (pdfcpu, pdftotext) implement this interface.
type Converter interface {
	// Pages reads the PDF at pdfPath and returns one string per page in
	// document order.
	Pages(pdfPath string) ([]string, error)
}

// New builds the converter selected by cfg. A positive CacheTTL wraps the
// backend in a CachedConverter.
func New(cfg types.ConversionConfig) (Converter, error) {
	var c Converter
	switch cfg.Backend {
	case types.BackendPdfcpu, "":
		c = NewPdfcpuConverter()
	case types.BackendPdftotext:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		pc, err := NewPdftotextConverter(rt)
		if err != nil {
			return nil, err
		}
		c = pc
	default:
		return nil, fmt.Errorf("unknown conversion backend %q (want %s or %s)",
			cfg.Backend, types.BackendPdfcpu, types.BackendPdftotext)
	}

	if cfg.CacheTTL > 0 {
		c = NewCachedConverter(c, cfg.CacheTTL)
	}
	return c, nil
}
