package main

import (
	"flag"
	"fmt"
	"strconv"
	"sync"

	api "emabot/internal/api/http"
	"emabot/internal/controllers"
	mongoRepo "emabot/internal/repository/mongo"
	"emabot/internal/repository/postgres"
	"emabot/internal/usecasees"
	"emabot/models"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
)

func main() {
	var app App
	var confFileName string

	flag.StringVar(&confFileName, "config", ".env", "")
	flag.Parse()

	app.Name = appName

	if err := app.loadConfig(confFileName); err != nil {
		panic(err)
	}

	app.initLogger()

	if err := app.initTgBot(); err != nil {
		panic(err)
	}

	if err := app.InitDB(); err != nil {
		panic(err)
	}

	if err := app.initMongo(); err != nil {
		panic(err)
	}

	if err := app.initLoki(); err != nil {
		panic(err)
	}

	app.initHTTPClient()
	app.InitMetrics()

	chatID, err := strconv.ParseInt(app.Config.TelegramChatID, 10, 64)
	if err != nil {
		panic(err)
	}

	orderRepo := postgres.NewTrackedOrderRepository(app.DB)
	if err := orderRepo.Migrate(); err != nil {
		panic(err)
	}

	settingsRepo := mongoRepo.NewSettingsRepository(app.Mongo, app.Config.Mongo.DBName)

	clientController := controllers.NewClientController(
		app.HTTPClient,
		app.Config.BinanceApiKey,
		app.Logger,
	)
	cryptoController := controllers.NewCryptoController(
		app.Config.BinanceSecretKey,
	)
	tgmController := controllers.NewTgmController(
		app.TGM,
		chatID,
	)

	exchange := usecasees.NewExchangeUseCase(
		clientController,
		cryptoController,
		app.Config.BinanceSpotUrl,
		app.Config.BinanceFuturesUrl,
		app.Logger,
	)

	for _, market := range []models.MarketKind{models.MarketSpot, models.MarketFutures} {
		if err := exchange.SyncTime(market); err != nil {
			app.Logger.WithError(err).Errorf("time sync for %s failed", market)
		}
	}

	tracker := usecasees.NewTrackerUseCase(
		exchange,
		tgmController,
		orderRepo,
		settingsRepo,
		app.Metrics.Tracker,
		app.PromTail,
		cron.New(),
		app.Config.CheckInterval,
		app.Logger,
	)

	if err := tracker.Start(); err != nil {
		panic(err)
	}

	tgmUseCase := usecasees.NewTgmUseCase(
		exchange,
		tracker,
		tgmController,
		orderRepo,
		settingsRepo,
		app.Logger,
	)

	go tgmUseCase.CommandProcessor()

	orders, err := orderRepo.GetAll()
	if err != nil {
		app.Logger.Error(err)
	}

	var spotCount, futuresCount int
	for _, o := range orders {
		if o.Market == models.MarketSpot {
			spotCount++
		} else {
			futuresCount++
		}
	}

	if err := tgmController.Send(fmt.Sprintf(
		"[ Bot Started ]\n"+
			"Futures:\t%d\n"+
			"Spot:\t%d\n"+
			"Interval:\t%s",
		futuresCount,
		spotCount,
		app.Config.CheckInterval,
	)); err != nil {
		app.Logger.Error(err)
	}

	f := fiber.New()

	middleware := api.NewMiddleware(app.Name, f)
	middleware.UseMetrics()

	api.RegisterHTTPEndpoints(f, app.Logger)

	go func() {
		if err := f.Listen(app.Config.HTTPAddr); err != nil {
			app.Logger.Error(err)
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	wg.Wait()
}
