package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/splittally/tally-backend/internal/bootstrap"
	"github.com/splittally/tally-backend/internal/config"
	"github.com/splittally/tally-backend/internal/handlers"
	"github.com/splittally/tally-backend/internal/response"
	"github.com/splittally/tally-backend/internal/router"
	"github.com/splittally/tally-backend/internal/services"
	"github.com/splittally/tally-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	mention := cfg.BotMention
	if mention == "" {
		mention = "@" + bs.Telegram.Username()
	}

	// stores
	cstore := store.NewChatStore(bs.Firestore)
	ustore := store.NewUserStore(bs.Firestore)
	pstore := store.NewPendingStore(bs.Firestore)
	lstore := store.NewLedgerStore(bs.Firestore)

	// services
	catserv := services.NewCategoryService(cstore, lstore, services.CategoryConfig{
		Defaults:        cfg.DefaultCategories,
		Currencies:      cfg.Currencies,
		Timezones:       cfg.Timezones,
		DefaultCurrency: cfg.DefaultCurrency,
	})
	enserv := services.NewEntryService(pstore, lstore, catserv, bs.Telegram, mention)
	edserv := services.NewEditService(lstore, catserv, bs.Telegram, mention)
	seserv := services.NewSettlementService(lstore, services.SettlementConfig{
		DefaultTimezone: cfg.DefaultTimezone,
		DefaultCurrency: cfg.DefaultCurrency,
	})
	events := services.NewEventRouter(cstore, ustore, catserv, enserv, edserv, seserv, bs.Telegram)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Events = events

	// router
	r := router.NewRouter(deps, bs.WebhookSecret, bs.Log)
	bs.Log.Info("listening", "port", cfg.Port, "bot", mention)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
