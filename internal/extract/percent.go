// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/pioc-engine/pkg/types"
)

// percentPattern captures the number of a percent token; the trailing %
// follows the group.
const percentPattern = `(\d{1,3}(?:\.\d+)?)%`

// ParsePercent converts a token such as "3.9%" to its magnitude. The percent
// sign is optional; anything that is not a finite decimal number reports
// false and is treated as unresolved.
func ParsePercent(token string) (types.Percent, bool) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(token), "%"))
	if s == "" {
		return types.Missing(), false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return types.Missing(), false
	}
	return types.PercentOf(v), true
}
