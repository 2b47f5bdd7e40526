// Package app assembles the geo-notes bot: configuration, storage,
// services, the conversation engine and the Telegram runtime options.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"geonotes/core/bootstrap"
	"geonotes/core/metrics"
	coretelegram "geonotes/core/telegram"
	"geonotes/core/telegram/router"
	"geonotes/internal/bot"
	"geonotes/internal/flow"
	"geonotes/internal/repository"
	"geonotes/internal/service"
)

// App carries the assembled application.
type App struct {
	cfg *Config
	db  *sqlx.DB
	bot *bot.Bot
}

// New bootstraps infrastructure and wires the application graph.
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Core,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	settings := service.NewSettings(repository.NewUsers(res.DB), service.Defaults{
		ListSize: cfg.Bot.DefaultListSize,
		Radius:   cfg.Bot.DefaultRadiusMeters,
	})
	places := service.NewPlaces(repository.NewPlaces(res.DB))
	friends := service.NewFriends(repository.NewFriends(res.DB))

	ttl := time.Duration(cfg.Bot.SessionTTLMinutes) * time.Minute
	engine := flow.NewEngine(flow.NewStore(ttl))

	return &App{
		cfg: cfg,
		db:  res.DB,
		bot: bot.New(engine, places, friends, settings),
	}, nil
}

// TelegramRunOptions builds the runtime wiring for the shared runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.bot.RegisterCommands(reg)

	routes := router.MessageRoutes(a.bot.Manager(), reg, router.MessageOptions{
		Location: a.bot.HandleNearby,
	})
	routes = append(routes, router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID:       a.cfg.Core.Telegram.AdminID,
		OnAdminReject: a.bot.HandleDenied,
	})...)

	return coretelegram.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			if rt.Dispatcher != nil {
				a.bot.SetSendErrorCounter(rt.Dispatcher.ErrorCount)
			}
			if a.cfg.Metrics.Enabled {
				metrics.Register()
				go metrics.Serve(ctx, a.cfg.Metrics.Addr)
			}
			return nil
		},
		OnStop: func(context.Context, coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
