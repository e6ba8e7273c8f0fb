package indicators

import (
	"errors"
	"fmt"
)

var ErrInsufficientData = errors.New("not enough closes to compute EMA")

// EMA computes the exponential moving average over closes ordered oldest
// first. The seed is the arithmetic mean of the first period closes, then
// each later close c advances the value with ema = c*k + ema*(1-k) where
// k = 2/(period+1). The caller must already have dropped the still-forming
// candle, otherwise the result drifts between calls within one candle.
func EMA(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("EMA period %d: must be positive", period)
	}

	if len(closes) < period {
		return 0, fmt.Errorf("EMA period %d with %d closes: %w", period, len(closes), ErrInsufficientData)
	}

	var seed float64
	for _, c := range closes[:period] {
		seed += c
	}
	ema := seed / float64(period)

	k := 2.0 / float64(period+1)
	for _, c := range closes[period:] {
		ema = c*k + ema*(1-k)
	}

	return ema, nil
}
