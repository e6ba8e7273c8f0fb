package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackingID(t *testing.T) {
	assert.Equal(t, "FUT_BTCUSDT_4h_EMA21_BUY", TrackingID(MarketFutures, "BTCUSDT", "4h", 21, SideBuy))
	assert.Equal(t, "SPOT_ETHUSDT_1d_EMA200_SELL", TrackingID(MarketSpot, "ETHUSDT", "1d", 200, SideSell))
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "BTCUSDT", NormalizeSymbol("btc"))
	assert.Equal(t, "BTCUSDT", NormalizeSymbol("BTCUSDT"))
	assert.Equal(t, "ETHUSDT", NormalizeSymbol("ethusdt"))
}

func TestNormalizeInterval(t *testing.T) {
	for in, want := range map[string]string{
		"15m":   "15m",
		"15min": "15m",
		"4h":    "4h",
		"1D":    "1d",
		"1w":    "1w",
		"1M":    "1M",
	} {
		out, err := NormalizeInterval(in)
		assert.NoError(t, err)
		assert.Equal(t, want, out)
	}

	_, err := NormalizeInterval("7h")
	assert.Error(t, err)
}

func TestTrackedOrderValidate(t *testing.T) {
	valid := func() *TrackedOrder {
		return &TrackedOrder{
			ID:        "FUT_BTCUSDT_4h_EMA21_BUY",
			Market:    MarketFutures,
			Symbol:    "BTCUSDT",
			Interval:  "4h",
			EMAPeriod: 21,
			Side:      SideBuy,
			Quantity:  0.5,
		}
	}

	t.Run("valid order passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("unsupported period", func(t *testing.T) {
		o := valid()
		o.EMAPeriod = 33

		assert.Error(t, o.Validate())
	})

	t.Run("bad side", func(t *testing.T) {
		o := valid()
		o.Side = "HOLD"

		assert.Error(t, o.Validate())
	})

	t.Run("non positive quantity", func(t *testing.T) {
		o := valid()
		o.Quantity = 0

		assert.Error(t, o.Validate())
	})

	t.Run("bad margin mode", func(t *testing.T) {
		o := valid()
		o.MarginMode = "HALF"

		assert.Error(t, o.Validate())
	})

	t.Run("spot ignores futures fields", func(t *testing.T) {
		o := valid()
		o.Market = MarketSpot
		o.MarginMode = "HALF"

		assert.NoError(t, o.Validate())
	})
}
