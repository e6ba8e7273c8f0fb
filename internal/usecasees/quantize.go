package usecasees

import (
	"math"
	"strconv"
	"strings"
)

// quantize floors raw to the nearest multiple of step. The exchange rejects
// values that are not aligned to the instrument increment, and rounding up a
// quantity could exceed the available balance.
func quantize(raw, step float64) float64 {
	if step <= 0 {
		return raw
	}

	return math.Floor(raw/step) * step
}

// stepDecimals derives the number of fractional digits implied by step,
// e.g. 0.001 -> 3, 1 -> 0.
func stepDecimals(step float64) int {
	if step <= 0 {
		return 0
	}

	s := strconv.FormatFloat(step, 'f', -1, 64)

	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}

	return 0
}

// formatQuantized renders the quantized value with exactly the digits the
// increment allows, which is the form the exchange expects on the wire.
func formatQuantized(raw, step float64) string {
	return strconv.FormatFloat(quantize(raw, step), 'f', stepDecimals(step), 64)
}
