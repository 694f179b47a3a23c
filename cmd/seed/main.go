// Command seed loads a YAML fixture of activities and films into MySQL and
// announces each change on the change exchange, so running display boards
// pick the new content up.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/iliyamo/festival-schedule/internal/config"
	"github.com/iliyamo/festival-schedule/internal/database"
	appLog "github.com/iliyamo/festival-schedule/internal/log"
	"github.com/iliyamo/festival-schedule/internal/model"
	"github.com/iliyamo/festival-schedule/internal/queue"
	"github.com/iliyamo/festival-schedule/internal/repository"
	"github.com/iliyamo/festival-schedule/internal/service"
)

func main() {
	path := flag.String("file", "fixtures/festival.yaml", "YAML fixture to load")
	publish := flag.Bool("publish", true, "publish change events after writing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		appLog.Error("failed to load config", err)
		os.Exit(1)
	}
	appLog.Setup(appLog.Options{Level: cfg.LogLevel})

	f, err := os.Open(*path)
	if err != nil {
		appLog.Error("open fixture", err, "path", *path)
		os.Exit(1)
	}
	fx, err := readFixture(f)
	f.Close()
	if err != nil {
		appLog.Error("read fixture", err, "path", *path)
		os.Exit(1)
	}

	db, err := database.Open(database.Params{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		appLog.Error("open database", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	events, err := seed(ctx, repository.NewStore(db), fx)
	if err != nil {
		appLog.Error("seed failed", err)
		os.Exit(1)
	}
	appLog.Info("fixture loaded", "activities", len(fx.Activities), "films", len(fx.Films))

	if !*publish {
		return
	}
	pub := service.NewChangePublisher(cfg.AMQPURL)
	for _, ev := range events {
		if err := pub.Publish(ctx, ev); err != nil {
			appLog.Warn("change not announced", "routing_key", ev.RoutingKey(), "err", err)
		}
	}
}

// seed writes fx and returns one change event per written document.
func seed(ctx context.Context, store *repository.Store, fx fixture) ([]queue.ChangeEvent, error) {
	var events []queue.ChangeEvent
	for _, a := range fx.Activities {
		if err := store.Activities.Upsert(ctx, a.model()); err != nil {
			return events, err
		}
		events = append(events, queue.NewChangeEvent(model.CollectionActivities, a.EventDate, a.ID))
	}
	for _, f := range fx.Films {
		doc, status, publication, err := f.document()
		if err != nil {
			return events, err
		}
		if err := store.Films.Upsert(ctx, f.ID, status, publication, doc); err != nil {
			return events, err
		}
		events = append(events, queue.NewChangeEvent(model.CollectionFilms, "", f.ID))
	}
	return events, nil
}
