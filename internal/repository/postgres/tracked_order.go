package postgres

import (
	"database/sql"
	"time"

	"emabot/models"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var (
	ErrAlreadyExists = errors.New("tracked order already exists")
	ErrNotFound      = errors.New("tracked order not found")
)

// The DDL sticks to types both lib/pq and go-sqlite3 accept, so the same
// repository runs against either driver.
const trackedOrdersSchema = `
CREATE TABLE IF NOT EXISTS tracked_orders (
	id              TEXT PRIMARY KEY,
	market          TEXT NOT NULL,
	symbol          TEXT NOT NULL,
	interval        TEXT NOT NULL,
	ema_period      INTEGER NOT NULL,
	side            TEXT NOT NULL,
	quantity        DOUBLE PRECISION NOT NULL,
	leverage        INTEGER NOT NULL DEFAULT 0,
	margin_mode     TEXT NOT NULL DEFAULT '',
	position_side   TEXT NOT NULL DEFAULT '',
	remote_order_id BIGINT NOT NULL DEFAULT 0,
	status          TEXT NOT NULL DEFAULT 'ACTIVE',
	error_notified  BOOLEAN NOT NULL DEFAULT FALSE,
	created_at      TIMESTAMP NOT NULL
)`

const trackedOrderColumns = `id, market, symbol, interval, ema_period, side, quantity,
	leverage, margin_mode, position_side, remote_order_id, status, error_notified, created_at`

type TrackedOrderRepository struct {
	conn *sqlx.DB
}

func NewTrackedOrderRepository(conn *sqlx.DB) *TrackedOrderRepository {
	return &TrackedOrderRepository{
		conn: conn,
	}
}

func (r *TrackedOrderRepository) Migrate() error {
	if _, err := r.conn.Exec(trackedOrdersSchema); err != nil {
		return err
	}

	return nil
}

func (r *TrackedOrderRepository) Store(m *models.TrackedOrder) error {
	if _, err := r.GetByID(m.ID); err == nil {
		return errors.Wrap(ErrAlreadyExists, m.ID)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if m.Status == "" {
		m.Status = models.TrackedOrderStatusActive
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	if _, err := r.conn.NamedExec(`INSERT INTO tracked_orders
		(id, market, symbol, interval, ema_period, side, quantity, leverage, margin_mode, position_side, remote_order_id, status, error_notified, created_at)
		VALUES (:id, :market, :symbol, :interval, :ema_period, :side, :quantity, :leverage, :margin_mode, :position_side, :remote_order_id, :status, :error_notified, :created_at)`, m); err != nil {
		return err
	}

	return nil
}

func (r *TrackedOrderRepository) GetByID(id string) (*models.TrackedOrder, error) {
	var order models.TrackedOrder

	if err := r.conn.QueryRowx("SELECT "+trackedOrderColumns+" FROM tracked_orders WHERE id = $1 LIMIT 1", id).StructScan(&order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, id)
		}

		return nil, err
	}

	return &order, nil
}

func (r *TrackedOrderRepository) GetActive() ([]models.TrackedOrder, error) {
	var orders []models.TrackedOrder

	if err := r.conn.Select(&orders, "SELECT "+trackedOrderColumns+" FROM tracked_orders WHERE status = $1 ORDER BY created_at;", models.TrackedOrderStatusActive); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *TrackedOrderRepository) GetAll() ([]models.TrackedOrder, error) {
	var orders []models.TrackedOrder

	if err := r.conn.Select(&orders, "SELECT "+trackedOrderColumns+" FROM tracked_orders ORDER BY created_at;"); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *TrackedOrderRepository) SetRemoteOrderID(id string, orderID int64) error {
	if _, err := r.conn.Exec("UPDATE tracked_orders SET remote_order_id = $1 WHERE id = $2;", orderID, id); err != nil {
		return err
	}

	return nil
}

func (r *TrackedOrderRepository) SetErrorNotified(id string, notified bool) error {
	if _, err := r.conn.Exec("UPDATE tracked_orders SET error_notified = $1 WHERE id = $2;", notified, id); err != nil {
		return err
	}

	return nil
}

func (r *TrackedOrderRepository) Remove(id string) error {
	if _, err := r.conn.Exec("DELETE FROM tracked_orders WHERE id = $1;", id); err != nil {
		return err
	}

	return nil
}
