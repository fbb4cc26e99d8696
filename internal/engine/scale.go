package engine

import (
	"fmt"
	"math"
)

// Common culinary fractions used when formatting scaled amounts.
var culinaryFractions = []struct {
	value float64
	text  string
}{
	{0.25, "1/4"},
	{1.0 / 3.0, "1/3"},
	{0.5, "1/2"},
	{2.0 / 3.0, "2/3"},
	{0.75, "3/4"},
}

// fractionTolerance is how close a fractional part must be to a table
// entry to be displayed as that fraction.
const fractionTolerance = 0.05

// ScaleAmount formats amount × multiplier for display: whole numbers
// print bare, fractional parts near a common culinary fraction print as
// that fraction ("1 1/2"), and anything else falls back to one decimal
// place. Scaling by 1.0 reproduces the unscaled display exactly.
func ScaleAmount(amount, multiplier float64) string {
	v := amount * multiplier
	if v < 0 {
		v = 0
	}

	whole := math.Floor(v)
	frac := v - whole

	if frac < fractionTolerance {
		if whole == 0 {
			// Amounts like "to taste" carry a zero quantity.
			return "0"
		}
		return fmt.Sprintf("%d", int(whole))
	}
	if frac > 1-fractionTolerance {
		return fmt.Sprintf("%d", int(whole)+1)
	}

	for _, f := range culinaryFractions {
		if math.Abs(frac-f.value) <= fractionTolerance {
			if whole == 0 {
				return f.text
			}
			return fmt.Sprintf("%d %s", int(whole), f.text)
		}
	}

	return fmt.Sprintf("%.1f", v)
}
