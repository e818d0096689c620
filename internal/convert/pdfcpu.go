// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PdfcpuConverter extracts page text in-process with pdfcpu by decoding each
// page's content stream and reading its text-showing operators. It handles
// literal strings in simple fonts; pages set in composite fonts (hex glyph
// strings) come back empty.
type PdfcpuConverter struct {
	conf *model.Configuration
}

// NewPdfcpuConverter returns a converter that does not touch pdfcpu's
// user configuration directory.
func NewPdfcpuConverter() *PdfcpuConverter {
	api.DisableConfigDir()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PdfcpuConverter{conf: conf}
}

// Pages reads the PDF at pdfPath and returns the text of every page.
func (p *PdfcpuConverter) Pages(pdfPath string) ([]string, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, p.conf)
	if err != nil {
		return nil, fmt.Errorf("reading PDF %s: %w", pdfPath, err)
	}
	if ctx.PageCount == 0 {
		return nil, fmt.Errorf("PDF %s has no pages", pdfPath)
	}

	pages := make([]string, ctx.PageCount)
	for i := range pages {
		pages[i] = pageText(ctx, i+1)
	}
	return pages, nil
}

// pageText returns the text of a 1-based page, or "" when the page has no
// readable content stream.
func pageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil || r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	return textFromContent(string(data))
}

var (
	// contentOpRe matches the text-showing and line-positioning operators
	// of a content stream: [..] TJ, (..) Tj, (..) ', (..) ", tx ty Td/TD,
	// T* and ET.
	contentOpRe = regexp.MustCompile(
		`\[((?:\\.|[^\]\\])*)\]\s*TJ` +
			`|\(((?:\\.|[^)\\])*)\)\s*(Tj|'|")` +
			`|(-?\d*\.?\d+)\s+(-?\d*\.?\d+)\s+T[dD]\b` +
			`|T\*` +
			`|\bET\b`)

	// arrayElemRe matches the elements of a TJ array: strings and kerning.
	arrayElemRe = regexp.MustCompile(`\(((?:\\.|[^)\\])*)\)|(-?\d*\.?\d+)`)
)

// kernSpace is the TJ displacement (thousandths of text space) at or
// beyond which a gap is treated as a word space.
const kernSpace = -200

// textFromContent turns a decoded content stream into plain text. Line
// moves become newlines so the extractor's normaliser sees the layout.
func textFromContent(stream string) string {
	var b strings.Builder

	newline := func() {
		s := b.String()
		if len(s) > 0 && s[len(s)-1] != '\n' {
			b.WriteByte('\n')
		}
	}
	space := func() {
		s := b.String()
		if len(s) > 0 && s[len(s)-1] != ' ' && s[len(s)-1] != '\n' {
			b.WriteByte(' ')
		}
	}

	for _, m := range contentOpRe.FindAllStringSubmatch(stream, -1) {
		op := m[0]
		switch {
		case strings.HasPrefix(op, "["):
			for _, e := range arrayElemRe.FindAllStringSubmatch(m[1], -1) {
				if strings.HasPrefix(e[0], "(") {
					b.WriteString(decodeLiteral(e[1]))
					continue
				}
				if k, err := strconv.ParseFloat(e[2], 64); err == nil && k <= kernSpace {
					space()
				}
			}
		case strings.HasPrefix(op, "("):
			if m[3] != "Tj" {
				newline()
			}
			b.WriteString(decodeLiteral(m[2]))
		case strings.HasSuffix(op, "Td") || strings.HasSuffix(op, "TD"):
			ty, _ := strconv.ParseFloat(m[5], 64)
			tx, _ := strconv.ParseFloat(m[4], 64)
			if ty != 0 {
				newline()
			} else if tx != 0 {
				space()
			}
		default: // T* or ET
			newline()
		}
	}

	return strings.TrimSpace(b.String())
}

// decodeLiteral resolves the escape sequences of a PDF literal string.
func decodeLiteral(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 == len(raw) {
			b.WriteByte(c)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b', 'f':
			// backspace and form feed carry no text
		case '\n':
			// line continuation
		case '0', '1', '2', '3', '4', '5', '6', '7':
			val := int(raw[i] - '0')
			for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			b.WriteByte(byte(val))
		default:
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}
