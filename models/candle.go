package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Candle is one closed kline as returned by the exchange. Kline rows arrive
// as mixed arrays: [openTime, open, high, low, close, volume, closeTime, ...].
type Candle struct {
	OpenTime   time.Time
	CloseTime  time.Time
	OpenPrice  float64
	MaxPrice   float64
	MinPrice   float64
	ClosePrice float64
}

type Trend string

const (
	TrendUp     Trend = "UP"
	TrendDown   Trend = "DOWN"
	TrendMiddle Trend = "MIDDLE"
)

func (c *Candle) Trend() Trend {
	switch true {
	case c.ClosePrice > c.OpenPrice:
		return TrendUp
	case c.ClosePrice < c.OpenPrice:
		return TrendDown
	default:
		return TrendMiddle
	}
}

// Closed reports whether the candle finished forming at the given moment.
func (c *Candle) Closed(now time.Time) bool {
	return !c.CloseTime.After(now)
}

// klineField renders a kline array element regardless of whether the
// exchange sent it as a number or a quoted string.
func klineField(v interface{}) (string, error) {
	switch out := v.(type) {
	case json.Number:
		return out.String(), nil
	case string:
		return out, nil
	}

	return "", fmt.Errorf("kline field has type %T", v)
}

func klineFloat(v interface{}) (float64, error) {
	s, err := klineField(v)
	if err != nil {
		return 0, err
	}

	return strconv.ParseFloat(s, 64)
}

func klineInt(v interface{}) (int64, error) {
	s, err := klineField(v)
	if err != nil {
		return 0, err
	}

	return strconv.ParseInt(s, 10, 64)
}

// ParseKlines decodes the raw kline payload, oldest candle first.
func ParseKlines(body []byte) ([]Candle, error) {
	var rows [][]interface{}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return nil, err
	}

	out := make([]Candle, 0, len(rows))
	for _, row := range rows {
		if len(row) < 7 {
			return nil, fmt.Errorf("kline row has %d fields", len(row))
		}

		openTime, err := klineInt(row[0])
		if err != nil {
			return nil, err
		}

		closeTime, err := klineInt(row[6])
		if err != nil {
			return nil, err
		}

		open, err := klineFloat(row[1])
		if err != nil {
			return nil, err
		}

		max, err := klineFloat(row[2])
		if err != nil {
			return nil, err
		}

		min, err := klineFloat(row[3])
		if err != nil {
			return nil, err
		}

		cls, err := klineFloat(row[4])
		if err != nil {
			return nil, err
		}

		out = append(out, Candle{
			OpenTime:   time.UnixMilli(openTime),
			CloseTime:  time.UnixMilli(closeTime),
			OpenPrice:  open,
			MaxPrice:   max,
			MinPrice:   min,
			ClosePrice: cls,
		})
	}

	return out, nil
}

// Closes extracts close prices of the candles already finished at now,
// preserving order. The still-forming candle must never feed the indicator.
func Closes(candles []Candle, now time.Time) []float64 {
	out := make([]float64, 0, len(candles))
	for i := range candles {
		if !candles[i].Closed(now) {
			continue
		}
		out = append(out, candles[i].ClosePrice)
	}

	return out
}
