package mongo

import (
	"emabot/internal/repository/mongo/structs"
)

//go:generate mockery --case=snake --name=SettingsRepo

type SettingsRepo interface {
	Load(symbol string) (*structs.Settings, error)
	Upsert(settings *structs.Settings) error
}
