package mongo

import (
	"context"

	"emabot/internal/repository/mongo/structs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoDocuments is re-exported so callers can fall back to defaults without
// importing the driver.
var ErrNoDocuments = mongo.ErrNoDocuments

type SettingsRepository struct {
	conn       *mongo.Client
	collection *mongo.Collection
}

func NewSettingsRepository(conn *mongo.Client, dbName string) *SettingsRepository {
	collection := conn.Database(dbName).Collection("symbols")

	return &SettingsRepository{conn: conn, collection: collection}
}

func (r *SettingsRepository) Load(symbol string) (*structs.Settings, error) {
	var result structs.Settings

	if err := r.collection.FindOne(context.TODO(), bson.D{{Key: "symbol", Value: symbol}}).Decode(&result); err != nil {
		return &result, err
	}

	return &result, nil
}

func (r *SettingsRepository) Upsert(settings *structs.Settings) error {
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(
		context.TODO(),
		bson.D{{Key: "symbol", Value: settings.Symbol}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "symbol", Value: settings.Symbol},
			{Key: "threshold", Value: settings.Threshold},
			{Key: "enabled", Value: settings.Enabled},
		}}},
		opts,
	)
	if err != nil {
		return err
	}

	return nil
}
