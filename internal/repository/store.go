package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/festival-schedule/internal/model"
)

// Store bundles the repositories the schedule engine reads from.  It
// satisfies refresh.DataStore.
type Store struct {
	Activities *ActivityRepo
	Films      *FilmRepo
}

// NewStore builds a Store over db.
func NewStore(db *sql.DB) *Store {
	return &Store{
		Activities: NewActivityRepo(db),
		Films:      NewFilmRepo(db),
	}
}

// ListActivities returns the published, public activities of date.
func (s *Store) ListActivities(ctx context.Context, date string) ([]model.Activity, error) {
	return s.Activities.ListPublishedByDate(ctx, date)
}

// ListFilms returns the published, public films.
func (s *Store) ListFilms(ctx context.Context) ([]model.FilmRecord, error) {
	return s.Films.ListPublished(ctx)
}
