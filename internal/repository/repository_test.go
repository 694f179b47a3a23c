package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/festival-schedule/internal/model"
)

var activityRowColumns = []string{
	"id", "name", "description", "tags", "start_time", "end_time", "event_date",
	"venue", "capacity", "registered", "speakers", "organizers", "image_url",
	"status", "is_public",
}

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func TestListActivitiesByDate(t *testing.T) {
	store, mock := newMock(t)
	rows := sqlmock.NewRows(activityRowColumns).
		AddRow("a1", "Opening Night", "", []byte(`["Ceremony"," VIP "]`), "18:00", "20:00", "2025-09-26",
			"Stage Zone", 300, 120, []byte(`["Host"]`), nil, "", "published", true).
		AddRow("a2", "Pitching", "desc", []byte(`not json`), "9:30", "", "2025-09-26",
			"expo", 0, 0, nil, []byte(`["Film Office"]`), "https://img/x.jpg", "published", true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM activities")).
		WithArgs("2025-09-26").
		WillReturnRows(rows)

	got, err := store.ListActivities(context.Background(), "2025-09-26")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, model.Activity{
		ID: "a1", Name: "Opening Night", Tags: []string{"Ceremony", "VIP"},
		StartTime: "18:00", EndTime: "20:00", EventDate: "2025-09-26", Venue: "Stage Zone",
		Capacity: 300, Registered: 120, Speakers: []string{"Host"},
		Status: "published", IsPublic: true,
	}, got[0])
	assert.Nil(t, got[1].Tags)
	assert.Equal(t, []string{"Film Office"}, got[1].Organizers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActivitiesPropagatesQueryError(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM activities")).WillReturnError(errors.New("connection refused"))

	_, err := store.ListActivities(context.Background(), "2025-09-26")
	assert.EqualError(t, err, "connection refused")
}

func TestListFilmsSkipsMalformedDocuments(t *testing.T) {
	store, mock := newMock(t)
	rows := sqlmock.NewRows([]string{"id", "doc"}).
		AddRow("f1", []byte(`{"title": "Hunger", "screenings": []}`)).
		AddRow("f2", []byte(`{broken`)).
		AddRow("f3", []byte(`{"title": "Legacy", "screeningDate1": "2025-09-26"}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, doc FROM films WHERE status = ? AND publication_status = ?")).
		WithArgs(FilmStatusPublished, FilmVisibilityPublic).
		WillReturnRows(rows)

	got, err := store.ListFilms(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "f1", got[0].ID)
	assert.Equal(t, "f3", got[1].ID)
	require.Len(t, got[1].Slots, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityUpsert(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO activities")).
		WithArgs("a1", "Panel", "", `["Talk"]`, "10:00", "11:00", "2025-09-26", "market",
			0, 0, nil, nil, "", "published", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Activities.Upsert(context.Background(), model.Activity{
		ID: "a1", Name: "Panel", Tags: []string{"Talk"}, StartTime: "10:00", EndTime: "11:00",
		EventDate: "2025-09-26", Venue: "market", Status: "published", IsPublic: true,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	err = store.Activities.Upsert(context.Background(), model.Activity{Name: "no id"})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestFilmUpsertValidatesDocument(t *testing.T) {
	store, mock := newMock(t)
	doc := `{"title": "Hunger", "screenings": []}`
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO films")).
		WithArgs("f1", FilmStatusPublished, FilmVisibilityPublic, doc).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Films.Upsert(context.Background(), "f1", FilmStatusPublished, FilmVisibilityPublic, []byte(doc)))
	assert.NoError(t, mock.ExpectationsWereMet())

	err := store.Films.Upsert(context.Background(), "f2", FilmStatusPublished, FilmVisibilityPublic, []byte(`[]`))
	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}
