package structs

// Order is the exchange's view of a single order, shared by the open-orders
// and order-status endpoints on both markets.
type Order struct {
	Symbol        string `json:"symbol"`
	OrderId       int64  `json:"orderId"`
	ClientOrderId string `json:"clientOrderId"`
	Price         string `json:"price"`
	AvgPrice      string `json:"avgPrice"`
	OrigQty       string `json:"origQty"`
	ExecutedQty   string `json:"executedQty"`
	Status        string `json:"status"`
	TimeInForce   string `json:"timeInForce"`
	Type          string `json:"type"`
	Side          string `json:"side"`
	PositionSide  string `json:"positionSide"`
	Time          int64  `json:"time"`
	UpdateTime    int64  `json:"updateTime"`
}

// LimitOrder is the place-order response.
type LimitOrder struct {
	Symbol        string `json:"symbol"`
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	TransactTime  int64  `json:"transactTime"`
	Price         string `json:"price"`
	OrigQty       string `json:"origQty"`
	ExecutedQty   string `json:"executedQty"`
	Status        string `json:"status"`
	TimeInForce   string `json:"timeInForce"`
	Type          string `json:"type"`
	Side          string `json:"side"`
	PositionSide  string `json:"positionSide"`
}

type Err struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

type ServerTime struct {
	ServerTime int64 `json:"serverTime"`
}

type TickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

type ExchangeInfo struct {
	Symbols []ExchangeSymbol `json:"symbols"`
}

type ExchangeSymbol struct {
	Symbol  string           `json:"symbol"`
	Filters []ExchangeFilter `json:"filters"`
}

type ExchangeFilter struct {
	FilterType string `json:"filterType"`
	TickSize   string `json:"tickSize"`
	StepSize   string `json:"stepSize"`
}

// SymbolFilters is the parsed, cached form of the instrument increments.
type SymbolFilters struct {
	TickSize float64
	StepSize float64
}

type PositionRisk struct {
	Symbol       string `json:"symbol"`
	Leverage     string `json:"leverage"`
	MarginType   string `json:"marginType"`
	PositionSide string `json:"positionSide"`
}

type FuturesBalance struct {
	Asset            string `json:"asset"`
	Balance          string `json:"balance"`
	AvailableBalance string `json:"availableBalance"`
}

type SpotAccount struct {
	Balances []struct {
		Asset  string `json:"asset"`
		Free   string `json:"free"`
		Locked string `json:"locked"`
	} `json:"balances"`
}
