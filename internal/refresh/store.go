// Package refresh keeps the schedule of one selected festival day up to
// date: it fetches both sources, rebuilds on change notifications and
// discards results that a newer request has superseded.
package refresh

import (
	"context"

	"github.com/iliyamo/festival-schedule/internal/model"
)

// DataStore provides the published records the schedule is built from.
type DataStore interface {
	// ListActivities returns published, public activities of date.
	ListActivities(ctx context.Context, date string) ([]model.Activity, error)
	// ListFilms returns published, public films.
	ListFilms(ctx context.Context) ([]model.FilmRecord, error)
}

// Subscription delivers payload-free change signals until closed.
type Subscription interface {
	Events() <-chan struct{}
	Close() error
}

// Subscriber opens change subscriptions scoped to a collection and date.
type Subscriber interface {
	Subscribe(ctx context.Context, collection model.Collection, date string) (Subscription, error)
}
