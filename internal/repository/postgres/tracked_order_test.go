package postgres_test

import (
	"testing"

	"emabot/internal/repository/postgres"
	"emabot/models"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	_ "github.com/mattn/go-sqlite3"
)

func initRepo(t *testing.T) *postgres.TrackedOrderRepository {
	conn, err := sqlx.Connect("sqlite3", ":memory:")
	assert.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	repo := postgres.NewTrackedOrderRepository(conn)
	assert.NoError(t, repo.Migrate())

	return repo
}

func newOrder() *models.TrackedOrder {
	return &models.TrackedOrder{
		ID:           models.TrackingID(models.MarketFutures, "BTCUSDT", "4h", 21, models.SideBuy),
		Market:       models.MarketFutures,
		Symbol:       "BTCUSDT",
		Interval:     "4h",
		EMAPeriod:    21,
		Side:         models.SideBuy,
		Quantity:     0.001,
		Leverage:     10,
		MarginMode:   models.MarginModeCrossed,
		PositionSide: models.PositionSideLong,
	}
}

func Test_TrackedOrderStore(t *testing.T) {
	repo := initRepo(t)
	order := newOrder()

	t.Run("Store", func(t *testing.T) {
		assert.NoError(t, repo.Store(order))
	})

	t.Run("duplicate id is rejected without mutation", func(t *testing.T) {
		dup := newOrder()
		dup.Quantity = 99

		assert.ErrorIs(t, repo.Store(dup), postgres.ErrAlreadyExists)

		stored, err := repo.GetByID(order.ID)
		assert.NoError(t, err)
		assert.Equal(t, 0.001, stored.Quantity)
	})

	t.Run("GetByID", func(t *testing.T) {
		out, err := repo.GetByID(order.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.MarketFutures, out.Market)
		assert.Equal(t, models.TrackedOrderStatusActive, out.Status)
		assert.False(t, out.Bound())
	})

	t.Run("GetByID not found", func(t *testing.T) {
		_, err := repo.GetByID("FUT_ETHUSDT_1h_EMA55_SELL")
		assert.ErrorIs(t, err, postgres.ErrNotFound)
	})

	t.Run("SetRemoteOrderID", func(t *testing.T) {
		assert.NoError(t, repo.SetRemoteOrderID(order.ID, 123456))

		out, err := repo.GetByID(order.ID)
		assert.NoError(t, err)
		assert.Equal(t, int64(123456), out.RemoteOrderID)
		assert.True(t, out.Bound())
	})

	t.Run("SetErrorNotified", func(t *testing.T) {
		assert.NoError(t, repo.SetErrorNotified(order.ID, true))

		out, err := repo.GetByID(order.ID)
		assert.NoError(t, err)
		assert.True(t, out.ErrorNotified)

		assert.NoError(t, repo.SetErrorNotified(order.ID, false))

		out, err = repo.GetByID(order.ID)
		assert.NoError(t, err)
		assert.False(t, out.ErrorNotified)
	})

	t.Run("GetActive", func(t *testing.T) {
		orders, err := repo.GetActive()
		assert.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("Remove", func(t *testing.T) {
		assert.NoError(t, repo.Remove(order.ID))

		_, err := repo.GetByID(order.ID)
		assert.ErrorIs(t, err, postgres.ErrNotFound)

		orders, err := repo.GetActive()
		assert.NoError(t, err)
		assert.Len(t, orders, 0)
	})
}
