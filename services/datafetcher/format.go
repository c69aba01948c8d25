package datafetcher

import (
	"fmt"
	"math"
	"strings"
)

// formatFloatWithCommas renders f with the given decimals and thousands
// separators, matching the display style of the seeded snapshot values.
func formatFloatWithCommas(f float64, decimals int) string {
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	pow := math.Pow10(decimals)
	f = math.Round(f*pow) / pow

	s := fmt.Sprintf("%.*f", decimals, f)
	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]
	var frac string
	if len(parts) == 2 {
		frac = parts[1]
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/3 + 1)
	b.WriteString(sign)

	if len(intPart) <= 3 {
		b.WriteString(intPart)
	} else {
		rem := len(intPart) % 3
		if rem == 0 {
			rem = 3
		}
		b.WriteString(intPart[:rem])
		for i := rem; i < len(intPart); i += 3 {
			b.WriteByte(',')
			b.WriteString(intPart[i : i+3])
		}
	}

	if decimals > 0 {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// signedCommas is formatFloatWithCommas with an explicit "+" on
// non-negative values, the convention for change and percent fields.
func signedCommas(f float64, decimals int) string {
	s := formatFloatWithCommas(f, decimals)
	if f >= 0 {
		return "+" + s
	}
	return s
}
