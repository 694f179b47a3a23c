package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/festival-schedule/internal/handler"
	"github.com/iliyamo/festival-schedule/internal/model"
	"github.com/iliyamo/festival-schedule/internal/queue"
	"github.com/iliyamo/festival-schedule/internal/refresh"
	"github.com/iliyamo/festival-schedule/internal/schedule"
)

type emptyStore struct{}

func (emptyStore) ListActivities(context.Context, string) ([]model.Activity, error) { return nil, nil }
func (emptyStore) ListFilms(context.Context) ([]model.FilmRecord, error)            { return nil, nil }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, queue.ChangeEvent) error { return nil }

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	b := schedule.NewBuilder(nil)
	coord := refresh.New(emptyStore{}, b)
	t.Cleanup(func() { coord.Close() })

	e := echo.New()
	Register(e, Handlers{
		Health:   &handler.HealthHandler{},
		Schedule: &handler.ScheduleHandler{Store: emptyStore{}, Builder: b},
		Display:  &handler.DisplayHandler{Board: coord},
		Changes:  &handler.ChangeHandler{Publisher: nopPublisher{}},
	}, Options{JWTSecret: "s3cret"})
	return e
}

func TestRoutes(t *testing.T) {
	e := newServer(t)
	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/v1/schedule?date=2025-09-26", http.StatusOK},
		{http.MethodGet, "/v1/schedule.ics?date=2025-09-26", http.StatusOK},
		{http.MethodGet, "/v1/display", http.StatusOK},
		{http.MethodPut, "/v1/display/date", http.StatusUnauthorized},
		{http.MethodPost, "/v1/display/refresh", http.StatusUnauthorized},
		{http.MethodPost, "/v1/admin/changes", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
