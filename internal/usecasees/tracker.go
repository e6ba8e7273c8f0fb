package usecasees

import (
	"fmt"
	"math"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"emabot/internal/controllers"
	"emabot/internal/indicators"
	mongoRepo "emabot/internal/repository/mongo"
	mongoStructs "emabot/internal/repository/mongo/structs"
	"emabot/internal/repository/postgres"
	"emabot/internal/usecasees/structs"
	"emabot/models"

	"github.com/google/uuid"
	"github.com/ic2hrmk/promtail"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	OrderStatusNew             = "NEW"
	OrderStatusPartiallyFilled = "PARTIALLY_FILLED"
	OrderStatusFilled          = "FILLED"
	OrderStatusCanceled        = "CANCELED"
	OrderStatusExpired         = "EXPIRED"

	// DefaultThreshold is the relative price drift that triggers a replace.
	DefaultThreshold = 0.003

	// cancelSettleDelay gives the exchange time to release the reserved
	// balance between a cancel and the re-place.
	cancelSettleDelay = 300 * time.Millisecond
)

var (
	ErrAlreadyRunning = errors.New("tracker already running")
	ErrNotRunning     = errors.New("tracker not running")
)

type trackerUseCase struct {
	exchange ExchangeGateway

	tgmController controllers.TgmCtrl

	orderRepo    postgres.TrackedOrderRepo
	settingsRepo mongoRepo.SettingsRepo

	metrics  map[structs.MetricConst]prometheus.Counter
	promTail promtail.Client

	cron          *cron.Cron
	checkInterval time.Duration

	mu      sync.Mutex
	entryID cron.EntryID

	settleDelay time.Duration

	logger *logrus.Logger
}

func NewTrackerUseCase(
	exchange ExchangeGateway,
	tgmController controllers.TgmCtrl,
	orderRepo postgres.TrackedOrderRepo,
	settingsRepo mongoRepo.SettingsRepo,
	metrics map[structs.MetricConst]prometheus.Counter,
	promTail promtail.Client,
	cronScheduler *cron.Cron,
	checkInterval time.Duration,
	logger *logrus.Logger,
) *trackerUseCase {
	return &trackerUseCase{
		exchange:      exchange,
		tgmController: tgmController,
		orderRepo:     orderRepo,
		settingsRepo:  settingsRepo,
		metrics:       metrics,
		promTail:      promTail,
		cron:          cronScheduler,
		checkInterval: checkInterval,
		settleDelay:   cancelSettleDelay,
		logger:        logger,
	}
}

// Start schedules the reconciliation pass. The schedule wraps the job with
// SkipIfStillRunning, so a slow pass never overlaps the next one.
func (u *trackerUseCase) Start() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.entryID != 0 {
		return ErrAlreadyRunning
	}

	entryID, err := u.cron.AddJob(
		fmt.Sprintf("@every %s", u.checkInterval),
		cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(u.reconcileAll)),
	)
	if err != nil {
		return err
	}

	u.entryID = entryID
	u.cron.Start()

	return nil
}

func (u *trackerUseCase) Stop() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.entryID == 0 {
		return ErrNotRunning
	}

	u.cron.Remove(u.entryID)
	u.entryID = 0

	return nil
}

func (u *trackerUseCase) Running() bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.entryID != 0
}

// reconcileAll runs one pass over every active intent. A failure on one
// intent never blocks the others.
func (u *trackerUseCase) reconcileAll() {
	sessionID := uuid.NewString()
	log := u.logger.WithField("session", sessionID)

	orders, err := u.orderRepo.GetActive()
	if err != nil {
		log.WithError(err).Error(string(debug.Stack()))
		u.lokiErrorf("tracker: load active orders: %+v", err)

		return
	}

	u.lokiDebugf("tracker: session %s: reconciling %d orders", sessionID, len(orders))

	for i := range orders {
		order := &orders[i]

		settings := u.loadSettings(order.Symbol)
		if !settings.Enabled {
			continue
		}

		if err := u.reconcile(order, settings.Threshold); err != nil {
			log.
				WithField("id", order.ID).
				WithError(err).
				Error(string(debug.Stack()))
			u.lokiErrorf("tracker: %s: %+v", order.ID, err)
		}
	}
}

func (u *trackerUseCase) loadSettings(symbol string) *mongoStructs.Settings {
	settings, err := u.settingsRepo.Load(symbol)
	if err != nil {
		if !errors.Is(err, mongoRepo.ErrNoDocuments) {
			u.logger.WithError(err).WithField("symbol", symbol).Debug("settings lookup failed")
		}

		return &mongoStructs.Settings{Symbol: symbol, Threshold: DefaultThreshold, Enabled: true}
	}

	if settings.Threshold <= 0 {
		settings.Threshold = DefaultThreshold
	}

	return settings
}

// reconcile drives one intent toward its target state: a single open limit
// order resting within threshold of the current EMA value.
func (u *trackerUseCase) reconcile(order *models.TrackedOrder, threshold float64) error {
	closes, err := u.exchange.LatestCloses(order.Market, order.Symbol, order.Interval)
	if err != nil {
		u.notifyFault(order, fmt.Sprintf("market data fetch failed: %v", err))

		return err
	}

	emaValue, err := indicators.EMA(closes, order.EMAPeriod)
	if err != nil {
		u.notifyFault(order, fmt.Sprintf("EMA%d not computable: %v", order.EMAPeriod, err))

		return err
	}

	target, targetStr := u.exchange.QuantizePrice(order.Market, order.Symbol, emaValue)
	if target <= 0 {
		err := errors.New(fmt.Sprintf("target price %s is not positive", targetStr))
		u.notifyFault(order, err.Error())

		return err
	}

	// Informational only; notifications carry it, decisions never do.
	lastPrice, err := u.exchange.LastPrice(order.Market, order.Symbol)
	if err != nil {
		u.logger.WithError(err).WithField("id", order.ID).Debug("last price unavailable")
		lastPrice = 0
	}

	if !order.Bound() {
		return u.createOrder(order, targetStr, lastPrice)
	}

	openOrders, err := u.exchange.OpenOrders(order.Market, order.Symbol)
	if err != nil {
		u.notifyFault(order, fmt.Sprintf("open orders fetch failed: %v", err))

		return err
	}

	current := findOrder(openOrders, order.RemoteOrderID)
	if current == nil {
		return u.resolveMissing(order, targetStr, lastPrice)
	}

	currentPrice, err := strconv.ParseFloat(current.Price, 64)
	if err != nil {
		u.notifyFault(order, fmt.Sprintf("order %d has unparsable price %q", order.RemoteOrderID, current.Price))

		return errors.Wrapf(err, "parse price %q", current.Price)
	}

	if math.Abs(currentPrice-target)/target <= threshold {
		return u.clearFault(order)
	}

	return u.replaceOrder(order, currentPrice, target, targetStr, lastPrice)
}

// resolveMissing handles a bound intent whose order left the open set. A fill
// retires the intent; any terminal or unknown state means the intent still
// stands and gets a fresh order.
func (u *trackerUseCase) resolveMissing(order *models.TrackedOrder, targetStr string, lastPrice float64) error {
	status, err := u.exchange.OrderStatus(order.Market, order.Symbol, order.RemoteOrderID)
	if err != nil && !errors.Is(err, controllers.ErrUnknownOrder) {
		u.notifyFault(order, fmt.Sprintf("status lookup for order %d failed: %v", order.RemoteOrderID, err))

		return err
	}

	if err == nil && status.Status == OrderStatusFilled {
		return u.retireFilled(order, status)
	}

	remoteStatus := "UNKNOWN"
	if err == nil {
		remoteStatus = status.Status
	}

	prevOrderID := order.RemoteOrderID

	// The dead order no longer backs the intent. Drop the handle before the
	// re-place so a failed create cannot leave a stale id behind.
	if err := u.orderRepo.SetRemoteOrderID(order.ID, 0); err != nil {
		return err
	}
	order.RemoteOrderID = 0

	u.send(fmt.Sprintf(
		"[ Order Canceled ]\n"+
			"ID:\t%s\n"+
			"OrderId:\t%d\n"+
			"Status:\t%s\n"+
			"The order left the book without filling, a replacement follows.",
		order.ID,
		prevOrderID,
		remoteStatus,
	))

	return u.createOrder(order, targetStr, lastPrice)
}

func (u *trackerUseCase) retireFilled(order *models.TrackedOrder, status *structs.Order) error {
	fillPrice := status.AvgPrice
	if fillPrice == "" || fillPrice == "0" {
		fillPrice = status.Price
	}

	u.send(fmt.Sprintf(
		"[ Order Filled ]\n"+
			"ID:\t%s\n"+
			"Side:\t%s\n"+
			"Quantity:\t%v\n"+
			"Price:\t%s",
		order.ID,
		order.Side,
		order.Quantity,
		fillPrice,
	))

	u.inc(structs.MetricOrderFilled)

	return u.orderRepo.Remove(order.ID)
}

func (u *trackerUseCase) createOrder(order *models.TrackedOrder, targetStr string, lastPrice float64) error {
	orderID, err := u.exchange.PlaceLimitOrder(order, targetStr)
	if err != nil {
		u.notifyFault(order, fmt.Sprintf("create at %s failed: %v", targetStr, err))

		return err
	}

	if err := u.orderRepo.SetRemoteOrderID(order.ID, orderID); err != nil {
		return err
	}
	order.RemoteOrderID = orderID

	if err := u.clearFault(order); err != nil {
		return err
	}

	u.send(fmt.Sprintf(
		"[ Order Created ]\n"+
			"ID:\t%s\n"+
			"Side:\t%s\n"+
			"Quantity:\t%v\n"+
			"Price:\t%s\n"+
			"Actual Price:\t%.8v",
		order.ID,
		order.Side,
		order.Quantity,
		targetStr,
		lastPrice,
	))

	u.inc(structs.MetricOrderCreated)

	return nil
}

// replaceOrder moves the resting order to the new target. The exchange has no
// atomic amend, so this is cancel then create; a create failure after the
// cancel leaves the intent unbacked, which is the one state worth shouting
// about.
func (u *trackerUseCase) replaceOrder(order *models.TrackedOrder, oldPrice, target float64, targetStr string, lastPrice float64) error {
	prevOrderID := order.RemoteOrderID

	if err := u.exchange.CancelOrder(order.Market, order.Symbol, order.RemoteOrderID); err != nil {
		if errors.Is(err, controllers.ErrUnknownOrder) {
			// The order left the book between the snapshot and the cancel.
			// A fill retires the intent; anything else keeps the handle so
			// the next pass resolves it through the missing-order branch.
			status, stErr := u.exchange.OrderStatus(order.Market, order.Symbol, order.RemoteOrderID)
			if stErr == nil && status.Status == OrderStatusFilled {
				return u.retireFilled(order, status)
			}

			u.notifyFault(order, fmt.Sprintf("cancel failed: order %d is gone but not filled", order.RemoteOrderID))

			return err
		}

		u.notifyFault(order, fmt.Sprintf("cancel of order %d failed: %v", order.RemoteOrderID, err))

		return err
	}

	time.Sleep(u.settleDelay)

	orderID, err := u.exchange.PlaceLimitOrder(order, targetStr)
	if err != nil {
		if repoErr := u.orderRepo.SetRemoteOrderID(order.ID, 0); repoErr != nil {
			u.logger.WithError(repoErr).WithField("id", order.ID).Error(string(debug.Stack()))
		}
		order.RemoteOrderID = 0

		u.inc(structs.MetricReplaceGap)
		u.notifyFault(order, fmt.Sprintf(
			"URGENT: order %d was canceled but the replacement at %s failed: %v. No open order backs this intent until the next pass.",
			prevOrderID, targetStr, err,
		))

		return err
	}

	if err := u.orderRepo.SetRemoteOrderID(order.ID, orderID); err != nil {
		return err
	}
	order.RemoteOrderID = orderID

	if err := u.clearFault(order); err != nil {
		return err
	}

	direction := "↑"
	if target < oldPrice {
		direction = "↓"
	}

	u.send(fmt.Sprintf(
		"[ Order Updated ]\n"+
			"ID:\t%s\n"+
			"Price:\t%.8v -> %s\n"+
			"Actual Price:\t%.8v\n"+
			"Diff:\t%s %.2f%%",
		order.ID,
		oldPrice,
		targetStr,
		lastPrice,
		direction,
		math.Abs(target-oldPrice)/oldPrice*100,
	))

	u.inc(structs.MetricOrderUpdated)

	return nil
}

// notifyFault sends one failure message per fault streak. Repeats are
// suppressed until a pass succeeds for this intent.
func (u *trackerUseCase) notifyFault(order *models.TrackedOrder, reason string) {
	if order.ErrorNotified {
		return
	}

	u.send(fmt.Sprintf(
		"[ Order Failed ]\n"+
			"ID:\t%s\n"+
			"Reason:\t%s",
		order.ID,
		reason,
	))

	if err := u.orderRepo.SetErrorNotified(order.ID, true); err != nil {
		u.logger.WithError(err).WithField("id", order.ID).Error(string(debug.Stack()))

		return
	}
	order.ErrorNotified = true

	u.inc(structs.MetricOrderFailed)
}

func (u *trackerUseCase) clearFault(order *models.TrackedOrder) error {
	if !order.ErrorNotified {
		return nil
	}

	if err := u.orderRepo.SetErrorNotified(order.ID, false); err != nil {
		return err
	}
	order.ErrorNotified = false

	return nil
}

func (u *trackerUseCase) send(text string) {
	if err := u.tgmController.Send(text); err != nil {
		u.logger.WithError(err).Error(string(debug.Stack()))
	}
}

func (u *trackerUseCase) inc(metric structs.MetricConst) {
	if counter, ok := u.metrics[metric]; ok {
		counter.Inc()
	}
}

func (u *trackerUseCase) lokiErrorf(format string, args ...interface{}) {
	if u.promTail != nil {
		u.promTail.Errorf(format, args...)
	}
}

func (u *trackerUseCase) lokiDebugf(format string, args ...interface{}) {
	if u.promTail != nil {
		u.promTail.Debugf(format, args...)
	}
}

func findOrder(orders []structs.Order, orderID int64) *structs.Order {
	for i := range orders {
		if orders[i].OrderId == orderID {
			return &orders[i]
		}
	}

	return nil
}
