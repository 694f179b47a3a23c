package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/festival-schedule/internal/config"
	"github.com/iliyamo/festival-schedule/internal/database"
	"github.com/iliyamo/festival-schedule/internal/handler"
	appLog "github.com/iliyamo/festival-schedule/internal/log"
	"github.com/iliyamo/festival-schedule/internal/queue"
	"github.com/iliyamo/festival-schedule/internal/refresh"
	"github.com/iliyamo/festival-schedule/internal/repository"
	"github.com/iliyamo/festival-schedule/internal/router"
	"github.com/iliyamo/festival-schedule/internal/schedule"
	"github.com/iliyamo/festival-schedule/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		appLog.Error("failed to load config", err)
		os.Exit(1)
	}
	appLog.Setup(appLog.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	if err := run(cfg); err != nil {
		appLog.Error("server stopped", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	db, err := database.Open(database.Params{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	store := repository.NewStore(db)
	builder := schedule.NewBuilder(schedule.NewExtractor(schedule.ExtractOptions{
		Location:          cfg.Location,
		SynthesizeUndated: cfg.SynthesizeUndated,
	}))

	subscriber := queue.NewSubscriber(cfg.AMQPURL)
	defer subscriber.Close()

	board := refresh.New(store, builder, refresh.WithSubscriber(subscriber))
	defer board.Close()

	date := cfg.DisplayDate
	if date == "" {
		date = time.Now().In(cfg.Location).Format("2006-01-02")
	}
	if err := board.SetTargetDate(date); err != nil {
		return err
	}
	if cfg.RefreshCron != "" {
		stop, err := refresh.StartPeriodic(board, cfg.RefreshCron)
		if err != nil {
			return err
		}
		defer stop()
	}

	rdb := config.NewRedisClient(config.RedisOptions())
	if rdb == nil {
		appLog.Warn("redis unavailable, cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Health: &handler.HealthHandler{DB: db},
		Schedule: &handler.ScheduleHandler{
			Store:    store,
			Builder:  builder,
			Location: cfg.Location,
		},
		Display: &handler.DisplayHandler{Board: board},
		Changes: &handler.ChangeHandler{Publisher: service.NewChangePublisher(cfg.AMQPURL)},
	}, router.Options{
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		appLog.Info("listening", "addr", addr, "env", cfg.Env, "display_date", date)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		appLog.Info("signal received, shutting down")
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	return e.Shutdown(shutdownCtx)
}
