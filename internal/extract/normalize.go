// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// lineBreakRe matches runs of line-break characters, including CRLF pairs,
// form feeds and the Unicode line and paragraph separators.
var lineBreakRe = regexp.MustCompile(`[\r\n\v\f\x{0085}\x{2028}\x{2029}]+`)

// Normalize collapses every run of line breaks in a page into a single
// space, so a category phrase and its figure split across lines land on
// one line. With nfkc set the text is first NFKC-normalised, which maps
// non-breaking spaces to spaces and ligatures such as "ﬁ" to "fi".
func Normalize(page string, nfkc bool) string {
	if nfkc {
		page = norm.NFKC.String(page)
	}
	return lineBreakRe.ReplaceAllString(page, " ")
}
