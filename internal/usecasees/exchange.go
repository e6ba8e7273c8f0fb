package usecasees

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"emabot/internal/controllers"
	"emabot/internal/usecasees/structs"
	"emabot/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	recvWindow = "60000"

	// klineLimit covers the longest supported EMA warm-up with room to spare.
	klineLimit = "1500"

	spotTimeURLPath     = "/api/v3/time"
	spotKlinesURLPath   = "/api/v3/klines"
	spotTickerURLPath   = "/api/v3/ticker/price"
	spotOrderURLPath    = "/api/v3/order"
	spotOpenOrdersPath  = "/api/v3/openOrders"
	spotExchangeInfoURL = "/api/v3/exchangeInfo"
	spotAccountURLPath  = "/api/v3/account"

	futuresTimeURLPath     = "/fapi/v1/time"
	futuresKlinesURLPath   = "/fapi/v1/klines"
	futuresTickerURLPath   = "/fapi/v1/ticker/price"
	futuresOrderURLPath    = "/fapi/v1/order"
	futuresOpenOrdersPath  = "/fapi/v1/openOrders"
	futuresExchangeInfoURL = "/fapi/v1/exchangeInfo"
	futuresBalanceURLPath  = "/fapi/v2/balance"
	futuresLeverageURLPath = "/fapi/v1/leverage"
	futuresMarginTypePath  = "/fapi/v1/marginType"
	futuresPositionRiskURL = "/fapi/v2/positionRisk"

	filterTypePrice   = "PRICE_FILTER"
	filterTypeLotSize = "LOT_SIZE"

	// fallbackStep is used when exchangeInfo is unavailable.
	fallbackStep = 0.01
)

type exchangeUseCase struct {
	clientController controllers.ClientCtrl
	cryptoController controllers.CryptoCtrl

	spotURL    string
	futuresURL string

	timeOffsets   map[models.MarketKind]int64
	timeOffsetsMu sync.RWMutex

	filters   map[string]structs.SymbolFilters
	filtersMu sync.RWMutex

	logger *logrus.Logger
}

func NewExchangeUseCase(
	clientController controllers.ClientCtrl,
	cryptoController controllers.CryptoCtrl,
	spotURL string,
	futuresURL string,
	logger *logrus.Logger,
) *exchangeUseCase {
	return &exchangeUseCase{
		clientController: clientController,
		cryptoController: cryptoController,
		spotURL:          spotURL,
		futuresURL:       futuresURL,
		timeOffsets:      map[models.MarketKind]int64{},
		filters:          map[string]structs.SymbolFilters{},
		logger:           logger,
	}
}

func (u *exchangeUseCase) baseURL(market models.MarketKind) string {
	if market == models.MarketFutures {
		return u.futuresURL
	}

	return u.spotURL
}

func (u *exchangeUseCase) buildURL(market models.MarketKind, path string, q url.Values) (*url.URL, error) {
	out, err := url.Parse(u.baseURL(market))
	if err != nil {
		return nil, errors.Wrapf(err, "parse base url %s", u.baseURL(market))
	}

	out.Path = path
	out.RawQuery = q.Encode()

	return out, nil
}

// publicSend performs an unsigned GET against a market-data endpoint.
func (u *exchangeUseCase) publicSend(market models.MarketKind, path string, q url.Values) ([]byte, error) {
	reqURL, err := u.buildURL(market, path, q)
	if err != nil {
		return nil, err
	}

	return u.clientController.Send(http.MethodGet, reqURL, nil, false)
}

// signedSend stamps the query with recvWindow, timestamp and the HMAC
// signature before sending.
func (u *exchangeUseCase) signedSend(method string, market models.MarketKind, path string, q url.Values) ([]byte, error) {
	q.Set("recvWindow", recvWindow)
	q.Set("timestamp", strconv.FormatInt(u.timestamp(market), 10))

	sig := u.cryptoController.GetSignature(q.Encode())
	q.Set("signature", sig)

	reqURL, err := u.buildURL(market, path, q)
	if err != nil {
		return nil, err
	}

	return u.clientController.Send(method, reqURL, nil, true)
}

func (u *exchangeUseCase) timestamp(market models.MarketKind) int64 {
	u.timeOffsetsMu.RLock()
	offset := u.timeOffsets[market]
	u.timeOffsetsMu.RUnlock()

	return time.Now().UnixMilli() + offset
}

// SyncTime aligns the local clock with the exchange so signed requests stay
// inside the recvWindow.
func (u *exchangeUseCase) SyncTime(market models.MarketKind) error {
	path := spotTimeURLPath
	if market == models.MarketFutures {
		path = futuresTimeURLPath
	}

	req, err := u.publicSend(market, path, url.Values{})
	if err != nil {
		return err
	}

	var out structs.ServerTime
	if err := json.Unmarshal(req, &out); err != nil {
		return errors.Wrap(err, "unmarshal server time")
	}

	u.timeOffsetsMu.Lock()
	u.timeOffsets[market] = out.ServerTime - time.Now().UnixMilli()
	u.timeOffsetsMu.Unlock()

	return nil
}

func (u *exchangeUseCase) LatestCloses(market models.MarketKind, symbol, interval string) ([]float64, error) {
	path := spotKlinesURLPath
	if market == models.MarketFutures {
		path = futuresKlinesURLPath
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", klineLimit)

	req, err := u.publicSend(market, path, q)
	if err != nil {
		return nil, err
	}

	candles, err := models.ParseKlines(req)
	if err != nil {
		return nil, err
	}

	return models.Closes(candles, time.Now()), nil
}

func (u *exchangeUseCase) LastPrice(market models.MarketKind, symbol string) (float64, error) {
	path := spotTickerURLPath
	if market == models.MarketFutures {
		path = futuresTickerURLPath
	}

	q := url.Values{}
	q.Set("symbol", symbol)

	req, err := u.publicSend(market, path, q)
	if err != nil {
		return 0, err
	}

	var out structs.TickerPrice
	if err := json.Unmarshal(req, &out); err != nil {
		return 0, errors.Wrap(err, "unmarshal ticker price")
	}

	price, err := strconv.ParseFloat(out.Price, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse price %q", out.Price)
	}

	return price, nil
}

func (u *exchangeUseCase) OpenOrders(market models.MarketKind, symbol string) ([]structs.Order, error) {
	path := spotOpenOrdersPath
	if market == models.MarketFutures {
		path = futuresOpenOrdersPath
	}

	q := url.Values{}
	q.Set("symbol", symbol)

	req, err := u.signedSend(http.MethodGet, market, path, q)
	if err != nil {
		return nil, err
	}

	var out []structs.Order
	if err := json.Unmarshal(req, &out); err != nil {
		return nil, errors.Wrap(err, "unmarshal open orders")
	}

	return out, nil
}

func (u *exchangeUseCase) OrderStatus(market models.MarketKind, symbol string, orderID int64) (*structs.Order, error) {
	path := spotOrderURLPath
	if market == models.MarketFutures {
		path = futuresOrderURLPath
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("orderId", strconv.FormatInt(orderID, 10))

	req, err := u.signedSend(http.MethodGet, market, path, q)
	if err != nil {
		return nil, err
	}

	var out structs.Order
	if err := json.Unmarshal(req, &out); err != nil {
		return nil, errors.Wrap(err, "unmarshal order status")
	}

	return &out, nil
}

func (u *exchangeUseCase) CancelOrder(market models.MarketKind, symbol string, orderID int64) error {
	path := spotOrderURLPath
	if market == models.MarketFutures {
		path = futuresOrderURLPath
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("orderId", strconv.FormatInt(orderID, 10))

	_, err := u.signedSend(http.MethodDelete, market, path, q)

	return err
}

func (u *exchangeUseCase) PlaceLimitOrder(order *models.TrackedOrder, price string) (int64, error) {
	if order.Market == models.MarketFutures {
		if err := u.prepareFutures(order); err != nil {
			return 0, err
		}
	}

	path := spotOrderURLPath
	if order.Market == models.MarketFutures {
		path = futuresOrderURLPath
	}

	q := url.Values{}
	q.Set("symbol", order.Symbol)
	q.Set("side", order.Side)
	q.Set("type", "LIMIT")
	q.Set("timeInForce", "GTC")
	q.Set("quantity", u.formatQuantity(order))
	q.Set("price", price)

	if order.Market == models.MarketFutures && order.PositionSide != "" && order.PositionSide != models.PositionSideBoth {
		q.Set("positionSide", order.PositionSide)
	}

	req, err := u.signedSend(http.MethodPost, order.Market, path, q)
	if err != nil {
		return 0, err
	}

	var out structs.LimitOrder
	if err := json.Unmarshal(req, &out); err != nil {
		return 0, errors.Wrap(err, "unmarshal place order")
	}

	if out.OrderID == 0 {
		return 0, errors.New(fmt.Sprintf("place order: empty orderId; resp %s;", req))
	}

	return out.OrderID, nil
}

// prepareFutures makes sure leverage and margin mode match the intent before
// a futures order is placed. Both calls are skipped when the account already
// matches, and the exchange's redundant-change errors are tolerated.
func (u *exchangeUseCase) prepareFutures(order *models.TrackedOrder) error {
	if order.Leverage == 0 && order.MarginMode == "" {
		return nil
	}

	curLeverage, curMarginMode, err := u.PositionModes(order.Symbol)
	if err != nil {
		return err
	}

	if order.Leverage > 0 && order.Leverage != curLeverage {
		q := url.Values{}
		q.Set("symbol", order.Symbol)
		q.Set("leverage", strconv.Itoa(order.Leverage))

		if _, err := u.signedSend(http.MethodPost, models.MarketFutures, futuresLeverageURLPath, q); err != nil &&
			!errors.Is(err, controllers.ErrRedundantModeChange) {
			return errors.Wrap(err, "set leverage")
		}
	}

	if order.MarginMode != "" && !strings.EqualFold(order.MarginMode, curMarginMode) {
		q := url.Values{}
		q.Set("symbol", order.Symbol)
		q.Set("marginType", order.MarginMode)

		if _, err := u.signedSend(http.MethodPost, models.MarketFutures, futuresMarginTypePath, q); err != nil &&
			!errors.Is(err, controllers.ErrRedundantModeChange) {
			return errors.Wrap(err, "set margin type")
		}
	}

	return nil
}

// PositionModes reports the account's current leverage and margin mode for a
// futures symbol.
func (u *exchangeUseCase) PositionModes(symbol string) (int, string, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	req, err := u.signedSend(http.MethodGet, models.MarketFutures, futuresPositionRiskURL, q)
	if err != nil {
		return 0, "", err
	}

	var out []structs.PositionRisk
	if err := json.Unmarshal(req, &out); err != nil {
		return 0, "", errors.Wrap(err, "unmarshal position risk")
	}

	if len(out) == 0 {
		return 0, "", errors.New(fmt.Sprintf("position risk: empty response for %s", symbol))
	}

	leverage, err := strconv.Atoi(out[0].Leverage)
	if err != nil {
		return 0, "", errors.Wrapf(err, "parse leverage %q", out[0].Leverage)
	}

	return leverage, strings.ToUpper(out[0].MarginType), nil
}

func (u *exchangeUseCase) QuantizePrice(market models.MarketKind, symbol string, raw float64) (float64, string) {
	filters, err := u.symbolFilters(market, symbol)
	if err != nil {
		u.logger.
			WithError(err).
			WithField("symbol", symbol).
			Warn("exchangeInfo unavailable, quantizing with fallback step")

		price := quantize(raw, fallbackStep)

		return price, fmt.Sprintf("%.2f", price)
	}

	return quantize(raw, filters.TickSize), formatQuantized(raw, filters.TickSize)
}

func (u *exchangeUseCase) formatQuantity(order *models.TrackedOrder) string {
	filters, err := u.symbolFilters(order.Market, order.Symbol)
	if err != nil || filters.StepSize <= 0 {
		return strconv.FormatFloat(order.Quantity, 'f', -1, 64)
	}

	return formatQuantized(order.Quantity, filters.StepSize)
}

func (u *exchangeUseCase) symbolFilters(market models.MarketKind, symbol string) (structs.SymbolFilters, error) {
	key := fmt.Sprintf("%s_%s", market, symbol)

	u.filtersMu.RLock()
	cached, ok := u.filters[key]
	u.filtersMu.RUnlock()

	if ok {
		return cached, nil
	}

	path := spotExchangeInfoURL
	if market == models.MarketFutures {
		path = futuresExchangeInfoURL
	}

	q := url.Values{}
	q.Set("symbol", symbol)

	req, err := u.publicSend(market, path, q)
	if err != nil {
		return structs.SymbolFilters{}, err
	}

	var out structs.ExchangeInfo
	if err := json.Unmarshal(req, &out); err != nil {
		return structs.SymbolFilters{}, errors.Wrap(err, "unmarshal exchange info")
	}

	for _, s := range out.Symbols {
		if s.Symbol != symbol {
			continue
		}

		var filters structs.SymbolFilters

		for _, f := range s.Filters {
			switch f.FilterType {
			case filterTypePrice:
				filters.TickSize, err = strconv.ParseFloat(f.TickSize, 64)
			case filterTypeLotSize:
				filters.StepSize, err = strconv.ParseFloat(f.StepSize, 64)
			}

			if err != nil {
				return structs.SymbolFilters{}, errors.Wrapf(err, "parse filter %s", f.FilterType)
			}
		}

		u.filtersMu.Lock()
		u.filters[key] = filters
		u.filtersMu.Unlock()

		return filters, nil
	}

	return structs.SymbolFilters{}, errors.New(fmt.Sprintf("exchange info: symbol %s not found", symbol))
}

func (u *exchangeUseCase) Balances(market models.MarketKind) (map[string]float64, error) {
	if market == models.MarketFutures {
		req, err := u.signedSend(http.MethodGet, market, futuresBalanceURLPath, url.Values{})
		if err != nil {
			return nil, err
		}

		var out []structs.FuturesBalance
		if err := json.Unmarshal(req, &out); err != nil {
			return nil, errors.Wrap(err, "unmarshal futures balance")
		}

		balances := map[string]float64{}
		for _, b := range out {
			v, err := strconv.ParseFloat(b.AvailableBalance, 64)
			if err != nil {
				continue
			}

			if v > 0 {
				balances[b.Asset] = v
			}
		}

		return balances, nil
	}

	req, err := u.signedSend(http.MethodGet, market, spotAccountURLPath, url.Values{})
	if err != nil {
		return nil, err
	}

	var out structs.SpotAccount
	if err := json.Unmarshal(req, &out); err != nil {
		return nil, errors.Wrap(err, "unmarshal spot account")
	}

	balances := map[string]float64{}
	for _, b := range out.Balances {
		v, err := strconv.ParseFloat(b.Free, 64)
		if err != nil {
			continue
		}

		if v > 0 {
			balances[b.Asset] = v
		}
	}

	return balances, nil
}
