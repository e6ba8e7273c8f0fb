package usecasees

import (
	"io/ioutil"
	"strings"
	"testing"
	"time"

	"emabot/internal/controllers"
	ctrlMocks "emabot/internal/controllers/mocks"
	mongoMocks "emabot/internal/repository/mongo/mocks"
	mongoStructs "emabot/internal/repository/mongo/structs"
	"emabot/internal/repository/postgres"
	repoMocks "emabot/internal/repository/postgres/mocks"
	usecaseMocks "emabot/internal/usecasees/mocks"
	"emabot/internal/usecasees/structs"
	"emabot/models"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testTracker(
	exchange ExchangeGateway,
	tgm controllers.TgmCtrl,
	orderRepo postgres.TrackedOrderRepo,
	settingsRepo *mongoMocks.SettingsRepo,
) *trackerUseCase {
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)

	metrics := map[structs.MetricConst]prometheus.Counter{}
	for _, m := range []structs.MetricConst{
		structs.MetricOrderCreated,
		structs.MetricOrderUpdated,
		structs.MetricOrderFilled,
		structs.MetricOrderFailed,
		structs.MetricReplaceGap,
	} {
		metrics[m] = prometheus.NewCounter(prometheus.CounterOpts{Name: m.ToString()})
	}

	tracker := NewTrackerUseCase(
		exchange,
		tgm,
		orderRepo,
		settingsRepo,
		metrics,
		nil,
		cron.New(),
		time.Minute,
		logger,
	)
	tracker.settleDelay = 0

	return tracker
}

func testOrder(remoteOrderID int64) *models.TrackedOrder {
	return &models.TrackedOrder{
		ID:            "FUT_BTCUSDT_4h_EMA100_BUY",
		Market:        models.MarketFutures,
		Symbol:        "BTCUSDT",
		Interval:      "4h",
		EMAPeriod:     100,
		Side:          models.SideBuy,
		Quantity:      0.5,
		RemoteOrderID: remoteOrderID,
		Status:        models.TrackedOrderStatusActive,
	}
}

// flatCloses yields a series whose EMA is exactly level for any period.
func flatCloses(level float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = level
	}

	return out
}

func TestTrackerReconcile(t *testing.T) {
	t.Run("order within threshold is left alone", func(t *testing.T) {
		exchange := usecaseMocks.NewExchangeGateway(t)
		tgm := ctrlMocks.NewTgmCtrl(t)
		orderRepo := repoMocks.NewTrackedOrderRepo(t)
		settingsRepo := mongoMocks.NewSettingsRepo(t)

		order := testOrder(77)

		exchange.On("LatestCloses", models.MarketFutures, "BTCUSDT", "4h").Return(flatCloses(100, 300), nil)
		exchange.On("QuantizePrice", models.MarketFutures, "BTCUSDT", mock.AnythingOfType("float64")).Return(float64(100), "100.00")
		exchange.On("LastPrice", models.MarketFutures, "BTCUSDT").Return(100.3, nil)
		exchange.On("OpenOrders", models.MarketFutures, "BTCUSDT").Return([]structs.Order{
			{OrderId: 77, Price: "100.2", Status: OrderStatusNew},
		}, nil)

		tracker := testTracker(exchange, tgm, orderRepo, settingsRepo)

		assert.NoError(t, tracker.reconcile(order, DefaultThreshold))
		assert.Equal(t, int64(77), order.RemoteOrderID)
	})

	t.Run("drifted order is replaced", func(t *testing.T) {
		exchange := usecaseMocks.NewExchangeGateway(t)
		tgm := ctrlMocks.NewTgmCtrl(t)
		orderRepo := repoMocks.NewTrackedOrderRepo(t)
		settingsRepo := mongoMocks.NewSettingsRepo(t)

		order := testOrder(77)

		exchange.On("LatestCloses", models.MarketFutures, "BTCUSDT", "4h").Return(flatCloses(100, 300), nil)
		exchange.On("QuantizePrice", models.MarketFutures, "BTCUSDT", mock.AnythingOfType("float64")).Return(float64(100), "100.00")
		exchange.On("LastPrice", models.MarketFutures, "BTCUSDT").Return(100.3, nil)
		exchange.On("OpenOrders", models.MarketFutures, "BTCUSDT").Return([]structs.Order{
			{OrderId: 77, Price: "102", Status: OrderStatusNew},
		}, nil)
		exchange.On("CancelOrder", models.MarketFutures, "BTCUSDT", int64(77)).Return(nil)
		exchange.On("PlaceLimitOrder", order, "100.00").Return(int64(78), nil)

		orderRepo.On("SetRemoteOrderID", order.ID, int64(78)).Return(nil)
		tgm.On("Send", mock.AnythingOfType("string")).Return(nil).Once()

		tracker := testTracker(exchange, tgm, orderRepo, settingsRepo)

		assert.NoError(t, tracker.reconcile(order, DefaultThreshold))
		assert.Equal(t, int64(78), order.RemoteOrderID)
	})

	t.Run("create failure after cancel clears the handle and notifies once", func(t *testing.T) {
		exchange := usecaseMocks.NewExchangeGateway(t)
		tgm := ctrlMocks.NewTgmCtrl(t)
		orderRepo := repoMocks.NewTrackedOrderRepo(t)
		settingsRepo := mongoMocks.NewSettingsRepo(t)

		order := testOrder(77)
		placeErr := errors.New("insufficient balance")

		exchange.On("LatestCloses", models.MarketFutures, "BTCUSDT", "4h").Return(flatCloses(100, 300), nil)
		exchange.On("QuantizePrice", models.MarketFutures, "BTCUSDT", mock.AnythingOfType("float64")).Return(float64(100), "100.00")
		exchange.On("LastPrice", models.MarketFutures, "BTCUSDT").Return(100.3, nil)
		exchange.On("OpenOrders", models.MarketFutures, "BTCUSDT").Return([]structs.Order{
			{OrderId: 77, Price: "102", Status: OrderStatusNew},
		}, nil).Once()
		exchange.On("CancelOrder", models.MarketFutures, "BTCUSDT", int64(77)).Return(nil)
		exchange.On("PlaceLimitOrder", order, "100.00").Return(int64(0), placeErr).Twice()

		orderRepo.On("SetRemoteOrderID", order.ID, int64(0)).Return(nil)
		orderRepo.On("SetErrorNotified", order.ID, true).Return(nil).Once()
		tgm.On("Send", mock.AnythingOfType("string")).Return(nil).Once()

		tracker := testTracker(exchange, tgm, orderRepo, settingsRepo)

		assert.Error(t, tracker.reconcile(order, DefaultThreshold))
		assert.False(t, order.Bound())
		assert.True(t, order.ErrorNotified)

		// The next pass retries the create and must not notify again.
		assert.Error(t, tracker.reconcile(order, DefaultThreshold))
		tgm.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("filled order retires the intent", func(t *testing.T) {
		exchange := usecaseMocks.NewExchangeGateway(t)
		tgm := ctrlMocks.NewTgmCtrl(t)
		orderRepo := repoMocks.NewTrackedOrderRepo(t)
		settingsRepo := mongoMocks.NewSettingsRepo(t)

		order := testOrder(77)

		exchange.On("LatestCloses", models.MarketFutures, "BTCUSDT", "4h").Return(flatCloses(100, 300), nil)
		exchange.On("QuantizePrice", models.MarketFutures, "BTCUSDT", mock.AnythingOfType("float64")).Return(float64(100), "100.00")
		exchange.On("LastPrice", models.MarketFutures, "BTCUSDT").Return(100.3, nil)
		exchange.On("OpenOrders", models.MarketFutures, "BTCUSDT").Return([]structs.Order{}, nil)
		exchange.On("OrderStatus", models.MarketFutures, "BTCUSDT", int64(77)).Return(&structs.Order{
			OrderId:  77,
			Status:   OrderStatusFilled,
			AvgPrice: "99.5",
		}, nil)

		orderRepo.On("Remove", order.ID).Return(nil)
		tgm.On("Send", mock.AnythingOfType("string")).Return(nil).Once()

		tracker := testTracker(exchange, tgm, orderRepo, settingsRepo)

		assert.NoError(t, tracker.reconcile(order, DefaultThreshold))
	})

	t.Run("externally canceled order is re-created", func(t *testing.T) {
		exchange := usecaseMocks.NewExchangeGateway(t)
		tgm := ctrlMocks.NewTgmCtrl(t)
		orderRepo := repoMocks.NewTrackedOrderRepo(t)
		settingsRepo := mongoMocks.NewSettingsRepo(t)

		order := testOrder(77)

		exchange.On("LatestCloses", models.MarketFutures, "BTCUSDT", "4h").Return(flatCloses(100, 300), nil)
		exchange.On("QuantizePrice", models.MarketFutures, "BTCUSDT", mock.AnythingOfType("float64")).Return(float64(100), "100.00")
		exchange.On("LastPrice", models.MarketFutures, "BTCUSDT").Return(100.3, nil)
		exchange.On("OpenOrders", models.MarketFutures, "BTCUSDT").Return([]structs.Order{}, nil)
		exchange.On("OrderStatus", models.MarketFutures, "BTCUSDT", int64(77)).Return(&structs.Order{
			OrderId: 77,
			Status:  OrderStatusCanceled,
		}, nil)
		exchange.On("PlaceLimitOrder", order, "100.00").Return(int64(91), nil)

		orderRepo.On("SetRemoteOrderID", order.ID, int64(0)).Return(nil).Once()
		orderRepo.On("SetRemoteOrderID", order.ID, int64(91)).Return(nil).Once()
		tgm.On("Send", mock.MatchedBy(func(text string) bool {
			return strings.HasPrefix(text, "[ Order Canceled ]")
		})).Return(nil).Once()
		tgm.On("Send", mock.MatchedBy(func(text string) bool {
			return strings.HasPrefix(text, "[ Order Created ]")
		})).Return(nil).Once()

		tracker := testTracker(exchange, tgm, orderRepo, settingsRepo)

		assert.NoError(t, tracker.reconcile(order, DefaultThreshold))
		assert.Equal(t, int64(91), order.RemoteOrderID)
	})

	t.Run("dead order with a failing re-create leaves no handle", func(t *testing.T) {
		exchange := usecaseMocks.NewExchangeGateway(t)
		tgm := ctrlMocks.NewTgmCtrl(t)
		orderRepo := repoMocks.NewTrackedOrderRepo(t)
		settingsRepo := mongoMocks.NewSettingsRepo(t)

		order := testOrder(77)
		placeErr := errors.New("rejected")

		exchange.On("LatestCloses", models.MarketFutures, "BTCUSDT", "4h").Return(flatCloses(100, 300), nil)
		exchange.On("QuantizePrice", models.MarketFutures, "BTCUSDT", mock.AnythingOfType("float64")).Return(float64(100), "100.00")
		exchange.On("LastPrice", models.MarketFutures, "BTCUSDT").Return(100.3, nil)
		exchange.On("OpenOrders", models.MarketFutures, "BTCUSDT").Return([]structs.Order{}, nil)
		exchange.On("OrderStatus", models.MarketFutures, "BTCUSDT", int64(77)).Return(&structs.Order{
			OrderId: 77,
			Status:  OrderStatusCanceled,
		}, nil)
		exchange.On("PlaceLimitOrder", order, "100.00").Return(int64(0), placeErr)

		orderRepo.On("SetRemoteOrderID", order.ID, int64(0)).Return(nil).Once()
		orderRepo.On("SetErrorNotified", order.ID, true).Return(nil).Once()
		tgm.On("Send", mock.AnythingOfType("string")).Return(nil).Twice()

		tracker := testTracker(exchange, tgm, orderRepo, settingsRepo)

		assert.Error(t, tracker.reconcile(order, DefaultThreshold))
		assert.Equal(t, int64(0), order.RemoteOrderID)
		assert.False(t, order.Bound())
	})

	t.Run("unknown order on cancel falls back to a status lookup", func(t *testing.T) {
		exchange := usecaseMocks.NewExchangeGateway(t)
		tgm := ctrlMocks.NewTgmCtrl(t)
		orderRepo := repoMocks.NewTrackedOrderRepo(t)
		settingsRepo := mongoMocks.NewSettingsRepo(t)

		order := testOrder(77)

		exchange.On("LatestCloses", models.MarketFutures, "BTCUSDT", "4h").Return(flatCloses(100, 300), nil)
		exchange.On("QuantizePrice", models.MarketFutures, "BTCUSDT", mock.AnythingOfType("float64")).Return(float64(100), "100.00")
		exchange.On("LastPrice", models.MarketFutures, "BTCUSDT").Return(100.3, nil)
		exchange.On("OpenOrders", models.MarketFutures, "BTCUSDT").Return([]structs.Order{
			{OrderId: 77, Price: "102", Status: OrderStatusNew},
		}, nil)
		exchange.On("CancelOrder", models.MarketFutures, "BTCUSDT", int64(77)).
			Return(errors.Wrap(controllers.ErrUnknownOrder, "Unknown order sent."))
		exchange.On("OrderStatus", models.MarketFutures, "BTCUSDT", int64(77)).Return(&structs.Order{
			OrderId:  77,
			Status:   OrderStatusFilled,
			AvgPrice: "101.7",
		}, nil)

		orderRepo.On("Remove", order.ID).Return(nil)
		tgm.On("Send", mock.AnythingOfType("string")).Return(nil).Once()

		tracker := testTracker(exchange, tgm, orderRepo, settingsRepo)

		assert.NoError(t, tracker.reconcile(order, DefaultThreshold))
	})

	t.Run("unbound intent gets a fresh order", func(t *testing.T) {
		exchange := usecaseMocks.NewExchangeGateway(t)
		tgm := ctrlMocks.NewTgmCtrl(t)
		orderRepo := repoMocks.NewTrackedOrderRepo(t)
		settingsRepo := mongoMocks.NewSettingsRepo(t)

		order := testOrder(0)

		exchange.On("LatestCloses", models.MarketFutures, "BTCUSDT", "4h").Return(flatCloses(100, 300), nil)
		exchange.On("QuantizePrice", models.MarketFutures, "BTCUSDT", mock.AnythingOfType("float64")).Return(float64(100), "100.00")
		exchange.On("LastPrice", models.MarketFutures, "BTCUSDT").Return(100.3, nil)
		exchange.On("PlaceLimitOrder", order, "100.00").Return(int64(42), nil)

		orderRepo.On("SetRemoteOrderID", order.ID, int64(42)).Return(nil)
		tgm.On("Send", mock.AnythingOfType("string")).Return(nil).Once()

		tracker := testTracker(exchange, tgm, orderRepo, settingsRepo)

		assert.NoError(t, tracker.reconcile(order, DefaultThreshold))
		assert.Equal(t, int64(42), order.RemoteOrderID)
	})

	t.Run("create failure is notified once per streak", func(t *testing.T) {
		exchange := usecaseMocks.NewExchangeGateway(t)
		tgm := ctrlMocks.NewTgmCtrl(t)
		orderRepo := repoMocks.NewTrackedOrderRepo(t)
		settingsRepo := mongoMocks.NewSettingsRepo(t)

		order := testOrder(0)
		placeErr := errors.New("rejected")

		exchange.On("LatestCloses", models.MarketFutures, "BTCUSDT", "4h").Return(flatCloses(100, 300), nil)
		exchange.On("QuantizePrice", models.MarketFutures, "BTCUSDT", mock.AnythingOfType("float64")).Return(float64(100), "100.00")
		exchange.On("LastPrice", models.MarketFutures, "BTCUSDT").Return(100.3, nil)
		exchange.On("PlaceLimitOrder", order, "100.00").Return(int64(0), placeErr).Twice()

		orderRepo.On("SetErrorNotified", order.ID, true).Return(nil).Once()
		tgm.On("Send", mock.AnythingOfType("string")).Return(nil).Once()

		tracker := testTracker(exchange, tgm, orderRepo, settingsRepo)

		assert.Error(t, tracker.reconcile(order, DefaultThreshold))
		assert.Error(t, tracker.reconcile(order, DefaultThreshold))
		tgm.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("recovery after a fault clears the suppression flag", func(t *testing.T) {
		exchange := usecaseMocks.NewExchangeGateway(t)
		tgm := ctrlMocks.NewTgmCtrl(t)
		orderRepo := repoMocks.NewTrackedOrderRepo(t)
		settingsRepo := mongoMocks.NewSettingsRepo(t)

		order := testOrder(0)
		order.ErrorNotified = true

		exchange.On("LatestCloses", models.MarketFutures, "BTCUSDT", "4h").Return(flatCloses(100, 300), nil)
		exchange.On("QuantizePrice", models.MarketFutures, "BTCUSDT", mock.AnythingOfType("float64")).Return(float64(100), "100.00")
		exchange.On("LastPrice", models.MarketFutures, "BTCUSDT").Return(100.3, nil)
		exchange.On("PlaceLimitOrder", order, "100.00").Return(int64(5), nil)

		orderRepo.On("SetRemoteOrderID", order.ID, int64(5)).Return(nil)
		orderRepo.On("SetErrorNotified", order.ID, false).Return(nil)
		tgm.On("Send", mock.AnythingOfType("string")).Return(nil).Once()

		tracker := testTracker(exchange, tgm, orderRepo, settingsRepo)

		assert.NoError(t, tracker.reconcile(order, DefaultThreshold))
		assert.False(t, order.ErrorNotified)
	})

	t.Run("too few closes for the period is a fault", func(t *testing.T) {
		exchange := usecaseMocks.NewExchangeGateway(t)
		tgm := ctrlMocks.NewTgmCtrl(t)
		orderRepo := repoMocks.NewTrackedOrderRepo(t)
		settingsRepo := mongoMocks.NewSettingsRepo(t)

		order := testOrder(0)

		exchange.On("LatestCloses", models.MarketFutures, "BTCUSDT", "4h").Return(flatCloses(100, 10), nil)

		orderRepo.On("SetErrorNotified", order.ID, true).Return(nil)
		tgm.On("Send", mock.AnythingOfType("string")).Return(nil).Once()

		tracker := testTracker(exchange, tgm, orderRepo, settingsRepo)

		assert.Error(t, tracker.reconcile(order, DefaultThreshold))
	})
}

func TestTrackerReconcileAll(t *testing.T) {
	t.Run("disabled symbol is skipped", func(t *testing.T) {
		exchange := usecaseMocks.NewExchangeGateway(t)
		tgm := ctrlMocks.NewTgmCtrl(t)
		orderRepo := repoMocks.NewTrackedOrderRepo(t)
		settingsRepo := mongoMocks.NewSettingsRepo(t)

		orderRepo.On("GetActive").Return([]models.TrackedOrder{*testOrder(77)}, nil)
		settingsRepo.On("Load", "BTCUSDT").Return(&mongoStructs.Settings{
			Symbol:    "BTCUSDT",
			Threshold: DefaultThreshold,
			Enabled:   false,
		}, nil)

		tracker := testTracker(exchange, tgm, orderRepo, settingsRepo)

		tracker.reconcileAll()
	})
}

func TestTrackerLifecycle(t *testing.T) {
	exchange := usecaseMocks.NewExchangeGateway(t)
	tgm := ctrlMocks.NewTgmCtrl(t)
	orderRepo := repoMocks.NewTrackedOrderRepo(t)
	settingsRepo := mongoMocks.NewSettingsRepo(t)

	tracker := testTracker(exchange, tgm, orderRepo, settingsRepo)
	defer tracker.cron.Stop()

	assert.False(t, tracker.Running())

	assert.NoError(t, tracker.Start())
	assert.True(t, tracker.Running())
	assert.ErrorIs(t, tracker.Start(), ErrAlreadyRunning)

	assert.NoError(t, tracker.Stop())
	assert.False(t, tracker.Running())
	assert.ErrorIs(t, tracker.Stop(), ErrNotRunning)
}
