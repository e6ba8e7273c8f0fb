package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramApiToken string
	TelegramChatID   string

	BinanceApiKey    string
	BinanceSecretKey string

	BinanceSpotUrl    string
	BinanceFuturesUrl string

	DBDriver string
	DBDsn    string

	Mongo *Mongo

	LokiHost string
	HTTPAddr string
	LogLevel string

	CheckInterval time.Duration
}

type Mongo struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

var ErrEnvNotFound = errors.New("err env not found")

func (a *App) loadConfig(confFileName string) error {
	var cfg Config
	var mongo Mongo

	err := godotenv.Load(confFileName)
	if err != nil {
		return err
	}

	if cfg.TelegramApiToken, err = cfg.set("TELEGRAM_API_TOKEN"); err != nil {
		return err
	}

	if cfg.TelegramChatID, err = cfg.set("TELEGRAM_CHAT_ID"); err != nil {
		return err
	}

	if cfg.BinanceApiKey, err = cfg.set("BINANCE_API_KEY"); err != nil {
		return err
	}

	if cfg.BinanceSecretKey, err = cfg.set("BINANCE_SECRET_KEY"); err != nil {
		return err
	}

	cfg.BinanceSpotUrl = cfg.setDefault("BINANCE_SPOT_URL", "https://api.binance.com")
	cfg.BinanceFuturesUrl = cfg.setDefault("BINANCE_FUTURES_URL", "https://fapi.binance.com")

	cfg.DBDriver = cfg.setDefault("DB_DRIVER", "sqlite3")
	cfg.DBDsn = cfg.setDefault("DB_DSN", "./store.db")

	if mongo.Host, err = cfg.set("MONGO_HOST"); err != nil {
		return err
	}

	mongo.Port = cfg.setDefault("MONGO_PORT", "27017")

	if mongo.User, err = cfg.set("MONGO_USER"); err != nil {
		return err
	}

	if mongo.Password, err = cfg.set("MONGO_PASSWORD"); err != nil {
		return err
	}

	if mongo.DBName, err = cfg.set("MONGO_DBNAME"); err != nil {
		return err
	}

	cfg.LokiHost = cfg.setDefault("LOKI_HOST", "loki:3100")
	cfg.HTTPAddr = cfg.setDefault("HTTP_ADDR", ":8080")
	cfg.LogLevel = cfg.setDefault("LOG_LEVEL", "INFO")

	if cfg.CheckInterval, err = time.ParseDuration(cfg.setDefault("CHECK_INTERVAL", "1m")); err != nil {
		return err
	}

	cfg.Mongo = &mongo

	a.Config = &cfg

	return nil
}

func (m *Mongo) DSN() string {
	return fmt.Sprintf("mongodb://%s:%s", m.Host, m.Port)
}

func (c *Config) set(key string) (string, error) {
	if os.Getenv(key) == "" {
		return "", ErrEnvNotFound
	}

	return os.Getenv(key), nil
}

func (c *Config) setDefault(key, def string) string {
	if out := os.Getenv(key); out != "" {
		return out
	}

	return def
}
