package structs

import "go.mongodb.org/mongo-driver/bson/primitive"

// Settings are the per-symbol tracker tunables the operator can adjust at
// runtime without restarting the bot.
type Settings struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Symbol    string             `bson:"symbol"`
	Threshold float64            `bson:"threshold"`
	Enabled   bool               `bson:"enabled"`
}
