package usecasees

import (
	"fmt"
	"runtime/debug"
	"sort"
	"strconv"
	"strings"

	"emabot/internal/controllers"
	"emabot/internal/indicators"
	mongoRepo "emabot/internal/repository/mongo"
	mongoStructs "emabot/internal/repository/mongo/structs"
	"emabot/internal/repository/postgres"
	"emabot/internal/usecasees/structs"
	"emabot/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const helpText = `/add <symbol> <interval> <ema> <side> <quantity> [spot] - track a new order
/bind <symbol> <interval> <ema> <side> [orderId] [spot] - adopt an open order
/remove <id> - stop tracking and cancel the order
/list - tracked orders
/ema <symbol> <interval> [spot] - EMA values vs last price
/price <symbol> [spot] - last price
/balance [spot] - free balances
/threshold <symbol> <percent> - set the replace threshold
/status - tracker state
/start_bot - start the tracker
/stop_bot - stop the tracker
/ping - liveness check`

type tgmUseCase struct {
	exchange ExchangeGateway
	tracker  *trackerUseCase

	tgmController controllers.TgmCtrl

	orderRepo    postgres.TrackedOrderRepo
	settingsRepo mongoRepo.SettingsRepo

	logger *logrus.Logger
}

func NewTgmUseCase(
	exchange ExchangeGateway,
	tracker *trackerUseCase,
	tgmController controllers.TgmCtrl,
	orderRepo postgres.TrackedOrderRepo,
	settingsRepo mongoRepo.SettingsRepo,
	logger *logrus.Logger,
) *tgmUseCase {
	return &tgmUseCase{
		exchange:      exchange,
		tracker:       tracker,
		tgmController: tgmController,
		orderRepo:     orderRepo,
		settingsRepo:  settingsRepo,
		logger:        logger,
	}
}

// CommandProcessor consumes bot updates until the channel closes. Commands
// from foreign chats are dropped.
func (u *tgmUseCase) CommandProcessor() {
	for update := range u.tgmController.GetUpdates() {
		if update.Message == nil || !update.Message.IsCommand() {
			continue
		}

		if !u.tgmController.CheckChatID(update.Message.Chat.ID) {
			continue
		}

		args := strings.Fields(update.Message.CommandArguments())

		var err error

		switch update.Message.Command() {
		case "start", "help":
			err = u.tgmController.Send(helpText)
		case "ping":
			err = u.tgmController.Send("pong")
		case "add":
			err = u.addProc(args)
		case "bind":
			err = u.bindProc(args)
		case "remove":
			err = u.removeProc(args)
		case "list":
			err = u.listProc()
		case "ema":
			err = u.emaProc(args)
		case "price":
			err = u.priceProc(args)
		case "balance":
			err = u.balanceProc(args)
		case "threshold":
			err = u.thresholdProc(args)
		case "status":
			err = u.statusProc()
		case "start_bot":
			err = u.startProc()
		case "stop_bot":
			err = u.stopProc()
		}

		if err != nil {
			u.logger.
				WithField("command", update.Message.Command()).
				WithError(err).
				Error(string(debug.Stack()))
		}
	}
}

// marketFromArgs strips a trailing "spot" selector; futures is the default.
func marketFromArgs(args []string) ([]string, models.MarketKind) {
	if len(args) > 0 && strings.EqualFold(args[len(args)-1], "spot") {
		return args[:len(args)-1], models.MarketSpot
	}

	return args, models.MarketFutures
}

func (u *tgmUseCase) reply(text string) error {
	return u.tgmController.Send(text)
}

func (u *tgmUseCase) replyErr(err error) error {
	return u.tgmController.Send(fmt.Sprintf("[ Error ]\n%v", err))
}

func (u *tgmUseCase) addProc(args []string) error {
	args, market := marketFromArgs(args)

	if len(args) != 5 {
		return u.reply("usage: /add <symbol> <interval> <ema> <side> <quantity> [spot]")
	}

	order, err := u.buildOrder(market, args[0], args[1], args[2], args[3], args[4])
	if err != nil {
		return u.replyErr(err)
	}

	if err := u.orderRepo.Store(order); err != nil {
		if errors.Is(err, postgres.ErrAlreadyExists) {
			return u.reply(fmt.Sprintf("%s is already tracked, /remove it first", order.ID))
		}

		return u.replyErr(err)
	}

	return u.reply(fmt.Sprintf(
		"[ Tracking Added ]\n"+
			"ID:\t%s\n"+
			"Quantity:\t%v\n"+
			"An order will be placed on the next pass.",
		order.ID,
		order.Quantity,
	))
}

func (u *tgmUseCase) bindProc(args []string) error {
	args, market := marketFromArgs(args)

	var wantOrderID int64
	if len(args) == 5 {
		parsed, err := strconv.ParseInt(args[4], 10, 64)
		if err != nil {
			return u.replyErr(errors.Wrapf(err, "orderId %q", args[4]))
		}

		wantOrderID = parsed
		args = args[:4]
	}

	if len(args) != 4 {
		return u.reply("usage: /bind <symbol> <interval> <ema> <side> [orderId] [spot]")
	}

	order, err := u.buildOrder(market, args[0], args[1], args[2], args[3], "0")
	if err != nil {
		return u.replyErr(err)
	}

	openOrders, err := u.exchange.OpenOrders(market, order.Symbol)
	if err != nil {
		return u.replyErr(err)
	}

	var candidates []structs.Order
	for _, o := range openOrders {
		if o.Side != order.Side {
			continue
		}

		if wantOrderID != 0 && o.OrderId != wantOrderID {
			continue
		}

		candidates = append(candidates, o)
	}

	switch {
	case len(candidates) == 0:
		return u.reply(fmt.Sprintf("no open %s orders on %s to bind", order.Side, order.Symbol))
	case len(candidates) > 1:
		var out strings.Builder
		out.WriteString(fmt.Sprintf("%d open orders match, rerun with an orderId:\n", len(candidates)))
		for _, o := range candidates {
			out.WriteString(fmt.Sprintf("%d\t%s @ %s\n", o.OrderId, o.OrigQty, o.Price))
		}

		return u.reply(out.String())
	}

	remote := candidates[0]

	order.RemoteOrderID = remote.OrderId
	order.Quantity, err = strconv.ParseFloat(remote.OrigQty, 64)
	if err != nil {
		return u.replyErr(errors.Wrapf(err, "origQty %q", remote.OrigQty))
	}

	if remote.PositionSide != "" {
		order.PositionSide = remote.PositionSide
	}

	if market == models.MarketFutures {
		leverage, marginMode, err := u.exchange.PositionModes(order.Symbol)
		if err != nil {
			u.logger.WithError(err).WithField("symbol", order.Symbol).Debug("position modes unavailable")
		} else {
			order.Leverage = leverage
			order.MarginMode = marginMode
		}
	}

	if err := order.Validate(); err != nil {
		return u.replyErr(err)
	}

	if err := u.orderRepo.Store(order); err != nil {
		if !errors.Is(err, postgres.ErrAlreadyExists) {
			return u.replyErr(err)
		}

		// Rebinding an existing intent replaces it wholesale.
		if err := u.orderRepo.Remove(order.ID); err != nil {
			return u.replyErr(err)
		}

		if err := u.orderRepo.Store(order); err != nil {
			return u.replyErr(err)
		}
	}

	return u.reply(fmt.Sprintf(
		"[ Order Bound ]\n"+
			"ID:\t%s\n"+
			"OrderId:\t%d\n"+
			"Quantity:\t%v\n"+
			"Price:\t%s",
		order.ID,
		order.RemoteOrderID,
		order.Quantity,
		remote.Price,
	))
}

func (u *tgmUseCase) buildOrder(market models.MarketKind, symbol, interval, ema, side, quantity string) (*models.TrackedOrder, error) {
	normalizedInterval, err := models.NormalizeInterval(interval)
	if err != nil {
		return nil, err
	}

	emaPeriod, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(ema), "EMA"))
	if err != nil {
		return nil, errors.Wrapf(err, "ema %q", ema)
	}

	qty, err := strconv.ParseFloat(quantity, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "quantity %q", quantity)
	}

	order := &models.TrackedOrder{
		Market:    market,
		Symbol:    models.NormalizeSymbol(symbol),
		Interval:  normalizedInterval,
		EMAPeriod: emaPeriod,
		Side:      strings.ToUpper(side),
		Quantity:  qty,
		Status:    models.TrackedOrderStatusActive,
	}
	order.ID = models.TrackingID(order.Market, order.Symbol, order.Interval, order.EMAPeriod, order.Side)

	if qty == 0 {
		// Bind adopts the quantity from the exchange order later.
		return order, nil
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	return order, nil
}

func (u *tgmUseCase) removeProc(args []string) error {
	if len(args) != 1 {
		return u.reply("usage: /remove <id>")
	}

	order, err := u.orderRepo.GetByID(args[0])
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return u.reply(fmt.Sprintf("%s is not tracked", args[0]))
		}

		return u.replyErr(err)
	}

	if order.Bound() {
		if err := u.exchange.CancelOrder(order.Market, order.Symbol, order.RemoteOrderID); err != nil &&
			!errors.Is(err, controllers.ErrUnknownOrder) {
			return u.replyErr(err)
		}
	}

	if err := u.orderRepo.Remove(order.ID); err != nil {
		return u.replyErr(err)
	}

	return u.reply(fmt.Sprintf("[ Tracking Removed ]\nID:\t%s", order.ID))
}

func (u *tgmUseCase) listProc() error {
	orders, err := u.orderRepo.GetAll()
	if err != nil {
		return u.replyErr(err)
	}

	if len(orders) == 0 {
		return u.reply("nothing is tracked, /add something")
	}

	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })

	var out strings.Builder
	out.WriteString("[ Tracked Orders ]\n")

	for _, o := range orders {
		state := "pending"
		if o.Bound() {
			state = fmt.Sprintf("order %d", o.RemoteOrderID)
		}
		if o.ErrorNotified {
			state += ", failing"
		}

		out.WriteString(fmt.Sprintf("%s\tqty %v\t%s\n", o.ID, o.Quantity, state))
	}

	return u.reply(out.String())
}

func (u *tgmUseCase) emaProc(args []string) error {
	args, market := marketFromArgs(args)

	if len(args) != 2 {
		return u.reply("usage: /ema <symbol> <interval> [spot]")
	}

	symbol := models.NormalizeSymbol(args[0])

	interval, err := models.NormalizeInterval(args[1])
	if err != nil {
		return u.replyErr(err)
	}

	closes, err := u.exchange.LatestCloses(market, symbol, interval)
	if err != nil {
		return u.replyErr(err)
	}

	price, err := u.exchange.LastPrice(market, symbol)
	if err != nil {
		return u.replyErr(err)
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("[ %s %s ]\nPrice:\t%v\n", symbol, interval, price))

	for _, period := range models.SupportedEMAPeriods {
		value, err := indicators.EMA(closes, period)
		if err != nil {
			out.WriteString(fmt.Sprintf("EMA%d:\tn/a\n", period))
			continue
		}

		out.WriteString(fmt.Sprintf("EMA%d:\t%.8v (%+.2f%%)\n", period, value, (price-value)/value*100))
	}

	return u.reply(out.String())
}

func (u *tgmUseCase) priceProc(args []string) error {
	args, market := marketFromArgs(args)

	if len(args) != 1 {
		return u.reply("usage: /price <symbol> [spot]")
	}

	symbol := models.NormalizeSymbol(args[0])

	price, err := u.exchange.LastPrice(market, symbol)
	if err != nil {
		return u.replyErr(err)
	}

	return u.reply(fmt.Sprintf("%s:\t%v", symbol, price))
}

func (u *tgmUseCase) balanceProc(args []string) error {
	_, market := marketFromArgs(args)

	balances, err := u.exchange.Balances(market)
	if err != nil {
		return u.replyErr(err)
	}

	if len(balances) == 0 {
		return u.reply("no free balances")
	}

	assets := make([]string, 0, len(balances))
	for asset := range balances {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	var out strings.Builder
	out.WriteString(fmt.Sprintf("[ %s Balance ]\n", market))

	for _, asset := range assets {
		out.WriteString(fmt.Sprintf("%s:\t%v\n", asset, balances[asset]))
	}

	return u.reply(out.String())
}

func (u *tgmUseCase) thresholdProc(args []string) error {
	if len(args) != 2 {
		return u.reply("usage: /threshold <symbol> <percent>")
	}

	symbol := models.NormalizeSymbol(args[0])

	percent, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return u.replyErr(errors.Wrapf(err, "percent %q", args[1]))
	}

	if percent <= 0 || percent >= 100 {
		return u.reply("percent must be in (0, 100)")
	}

	if err := u.settingsRepo.Upsert(&mongoStructs.Settings{
		Symbol:    symbol,
		Threshold: percent / 100,
		Enabled:   true,
	}); err != nil {
		return u.replyErr(err)
	}

	return u.reply(fmt.Sprintf("%s threshold set to %v%%", symbol, percent))
}

func (u *tgmUseCase) statusProc() error {
	orders, err := u.orderRepo.GetAll()
	if err != nil {
		return u.replyErr(err)
	}

	state := "stopped"
	if u.tracker.Running() {
		state = "running"
	}

	bound := 0
	for _, o := range orders {
		if o.Bound() {
			bound++
		}
	}

	return u.reply(fmt.Sprintf(
		"[ Status ]\n"+
			"Tracker:\t%s\n"+
			"Tracked:\t%d\n"+
			"Bound:\t%d",
		state,
		len(orders),
		bound,
	))
}

func (u *tgmUseCase) startProc() error {
	if err := u.tracker.Start(); err != nil {
		if errors.Is(err, ErrAlreadyRunning) {
			return u.reply("tracker is already running")
		}

		return u.replyErr(err)
	}

	return u.reply("tracker started")
}

func (u *tgmUseCase) stopProc() error {
	if err := u.tracker.Stop(); err != nil {
		if errors.Is(err, ErrNotRunning) {
			return u.reply("tracker is not running")
		}

		return u.replyErr(err)
	}

	return u.reply("tracker stopped")
}
