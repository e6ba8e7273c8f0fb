package models

import (
	"fmt"
	"strings"
	"time"
)

type MarketKind string

const (
	MarketSpot    MarketKind = "SPOT"
	MarketFutures MarketKind = "FUTURES"
)

const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	MarginModeIsolated = "ISOLATED"
	MarginModeCrossed  = "CROSSED"

	PositionSideLong  = "LONG"
	PositionSideShort = "SHORT"
	PositionSideBoth  = "BOTH"

	TrackedOrderStatusActive = "ACTIVE"
)

var (
	SupportedEMAPeriods = []int{21, 55, 100, 200}

	SupportedIntervals = map[string]string{
		"15m":   "15m",
		"15min": "15m",
		"1h":    "1h",
		"4h":    "4h",
		"1d":    "1d",
		"1D":    "1d",
		"1w":    "1w",
		"1W":    "1w",
		"1M":    "1M",
	}
)

// TrackedOrder is the persisted intent: keep one limit order for symbol/side
// pinned to EMA(period) on the given interval. RemoteOrderID is the exchange
// order currently backing the intent, 0 when none is known.
type TrackedOrder struct {
	ID            string     `db:"id"`
	Market        MarketKind `db:"market"`
	Symbol        string     `db:"symbol"`
	Interval      string     `db:"interval"`
	EMAPeriod     int        `db:"ema_period"`
	Side          string     `db:"side"`
	Quantity      float64    `db:"quantity"`
	Leverage      int        `db:"leverage"`
	MarginMode    string     `db:"margin_mode"`
	PositionSide  string     `db:"position_side"`
	RemoteOrderID int64      `db:"remote_order_id"`
	Status        string     `db:"status"`
	ErrorNotified bool       `db:"error_notified"`
	CreatedAt     time.Time  `db:"created_at"`
}

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// TrackingID builds the stable identity of an intent. Two intents that differ
// only in quantity map to the same id on purpose.
func TrackingID(market MarketKind, symbol, interval string, emaPeriod int, side string) string {
	prefix := "FUT"
	if market == MarketSpot {
		prefix = "SPOT"
	}

	return fmt.Sprintf("%s_%s_%s_EMA%d_%s", prefix, symbol, interval, emaPeriod, side)
}

// NormalizeSymbol upper-cases and appends the USDT quote when only the base
// asset is given.
func NormalizeSymbol(symbol string) string {
	symbol = strings.ToUpper(symbol)
	if !strings.HasSuffix(symbol, "USDT") {
		symbol += "USDT"
	}

	return symbol
}

func NormalizeInterval(interval string) (string, error) {
	if out, ok := SupportedIntervals[interval]; ok {
		return out, nil
	}

	if out, ok := SupportedIntervals[strings.ToLower(interval)]; ok {
		return out, nil
	}

	return "", &ValidationError{Field: "interval", Msg: fmt.Sprintf("%q is not supported", interval)}
}

func (o *TrackedOrder) Bound() bool {
	return o.RemoteOrderID != 0
}

func (o *TrackedOrder) Validate() error {
	switch o.Market {
	case MarketSpot, MarketFutures:
	default:
		return &ValidationError{Field: "market", Msg: fmt.Sprintf("%q is not a market kind", o.Market)}
	}

	if o.Symbol == "" {
		return &ValidationError{Field: "symbol", Msg: "empty"}
	}

	if _, err := NormalizeInterval(o.Interval); err != nil {
		return err
	}

	supported := false
	for _, p := range SupportedEMAPeriods {
		if o.EMAPeriod == p {
			supported = true
			break
		}
	}
	if !supported {
		return &ValidationError{Field: "ema_period", Msg: fmt.Sprintf("must be one of %v", SupportedEMAPeriods)}
	}

	if o.Side != SideBuy && o.Side != SideSell {
		return &ValidationError{Field: "side", Msg: "must be BUY or SELL"}
	}

	if o.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Msg: "must be positive"}
	}

	if o.Market == MarketFutures {
		if o.Leverage < 0 {
			return &ValidationError{Field: "leverage", Msg: "must be positive"}
		}

		switch o.MarginMode {
		case "", MarginModeIsolated, MarginModeCrossed:
		default:
			return &ValidationError{Field: "margin_mode", Msg: "must be ISOLATED or CROSSED"}
		}

		switch o.PositionSide {
		case "", PositionSideLong, PositionSideShort, PositionSideBoth:
		default:
			return &ValidationError{Field: "position_side", Msg: "must be LONG, SHORT or BOTH"}
		}
	}

	return nil
}
