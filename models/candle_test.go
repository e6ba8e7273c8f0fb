package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const klinesPayload = `[
	[1660000000000,"23100.10","23250.00","23050.00","23200.50","104.5",1660014399999,"2412000.0",1500,"52.1","1200000.0","0"],
	[1660014400000,"23200.50","23300.00","23150.00","23180.00","88.2",1660028799999,"2044000.0",1400,"44.0","1020000.0","0"]
]`

func TestParseKlines(t *testing.T) {
	t.Run("decodes rows oldest first", func(t *testing.T) {
		candles, err := ParseKlines([]byte(klinesPayload))
		assert.NoError(t, err)
		assert.Len(t, candles, 2)

		assert.Equal(t, int64(1660000000000), candles[0].OpenTime.UnixMilli())
		assert.Equal(t, int64(1660014399999), candles[0].CloseTime.UnixMilli())
		assert.Equal(t, 23100.10, candles[0].OpenPrice)
		assert.Equal(t, 23250.00, candles[0].MaxPrice)
		assert.Equal(t, 23050.00, candles[0].MinPrice)
		assert.Equal(t, 23200.50, candles[0].ClosePrice)
	})

	t.Run("short row is an error", func(t *testing.T) {
		_, err := ParseKlines([]byte(`[[1660000000000,"1","2"]]`))
		assert.Error(t, err)
	})

	t.Run("garbage is an error", func(t *testing.T) {
		_, err := ParseKlines([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
		assert.Error(t, err)
	})
}

func TestCloses(t *testing.T) {
	candles, err := ParseKlines([]byte(klinesPayload))
	assert.NoError(t, err)

	t.Run("still forming candle is dropped", func(t *testing.T) {
		now := time.UnixMilli(1660014400001)

		assert.Equal(t, []float64{23200.50}, Closes(candles, now))
	})

	t.Run("all closed candles survive", func(t *testing.T) {
		now := time.UnixMilli(1660028800000)

		assert.Equal(t, []float64{23200.50, 23180.00}, Closes(candles, now))
	})
}

func TestCandleTrend(t *testing.T) {
	assert.Equal(t, TrendUp, (&Candle{OpenPrice: 1, ClosePrice: 2}).Trend())
	assert.Equal(t, TrendDown, (&Candle{OpenPrice: 2, ClosePrice: 1}).Trend())
	assert.Equal(t, TrendMiddle, (&Candle{OpenPrice: 1, ClosePrice: 1}).Trend())
}
