package postgres

import (
	"emabot/models"
)

//go:generate mockery --case=snake --name=TrackedOrderRepo

type TrackedOrderRepo interface {
	Store(m *models.TrackedOrder) error
	GetByID(id string) (*models.TrackedOrder, error)
	GetActive() ([]models.TrackedOrder, error)
	GetAll() ([]models.TrackedOrder, error)
	SetRemoteOrderID(id string, orderID int64) error
	SetErrorNotified(id string, notified bool) error
	Remove(id string) error
}
