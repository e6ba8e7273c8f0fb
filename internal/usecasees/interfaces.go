package usecasees

import (
	"emabot/internal/usecasees/structs"
	"emabot/models"
)

//go:generate mockery --case=snake --name=ExchangeGateway

// ExchangeGateway hides the REST surface of the exchange behind the handful
// of calls the tracker and the bot commands need.
type ExchangeGateway interface {
	LatestCloses(market models.MarketKind, symbol, interval string) ([]float64, error)
	LastPrice(market models.MarketKind, symbol string) (float64, error)
	OpenOrders(market models.MarketKind, symbol string) ([]structs.Order, error)
	OrderStatus(market models.MarketKind, symbol string, orderID int64) (*structs.Order, error)
	PlaceLimitOrder(order *models.TrackedOrder, price string) (int64, error)
	CancelOrder(market models.MarketKind, symbol string, orderID int64) error
	QuantizePrice(market models.MarketKind, symbol string, raw float64) (float64, string)
	PositionModes(symbol string) (int, string, error)
	Balances(market models.MarketKind) (map[string]float64, error)
}
