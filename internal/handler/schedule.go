// Package handler exposes the schedule over HTTP.  Public endpoints build
// the schedule of a requested date on demand; the display endpoints read
// and steer the long-lived refresh coordinator.
package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/festival-schedule/internal/export"
	appLog "github.com/iliyamo/festival-schedule/internal/log"
	"github.com/iliyamo/festival-schedule/internal/model"
	"github.com/iliyamo/festival-schedule/internal/refresh"
	"github.com/iliyamo/festival-schedule/internal/schedule"
)

const dateLayout = "2006-01-02"

// ScheduleHandler serves stateless schedule reads.
type ScheduleHandler struct {
	Store    refresh.DataStore
	Builder  *schedule.Builder
	Location *time.Location   // festival time zone; today is taken here
	Now      func() time.Time // defaults to time.Now
}

// ScheduleResponse is the body of GET /v1/schedule.
type ScheduleResponse struct {
	Date        string               `json:"date"`
	Items       []model.ScheduleItem `json:"items"`
	GeneratedAt time.Time            `json:"generated_at"`
}

func (h *ScheduleHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// date reads ?date=, defaulting to today in the festival zone.
func (h *ScheduleHandler) date(c echo.Context) (string, bool) {
	d := c.QueryParam("date")
	if d == "" {
		loc := h.Location
		if loc == nil {
			loc = time.Local
		}
		return h.now().In(loc).Format(dateLayout), true
	}
	if _, err := time.Parse(dateLayout, d); err != nil {
		return "", false
	}
	return d, true
}

func badDate(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
}

func upstreamUnavailable(c echo.Context) error {
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "upstream_unavailable"})
}

// GetSchedule returns the ordered schedule of ?date=YYYY-MM-DD.
func (h *ScheduleHandler) GetSchedule(c echo.Context) error {
	date, ok := h.date(c)
	if !ok {
		return badDate(c)
	}
	items, err := refresh.Load(c.Request().Context(), h.Store, h.Builder, date)
	if err != nil {
		appLog.Error("schedule request failed", err, "date", date)
		return upstreamUnavailable(c)
	}
	return c.JSON(http.StatusOK, ScheduleResponse{Date: date, Items: items, GeneratedAt: h.now().UTC()})
}

// GetCalendar returns the schedule of ?date= as text/calendar.
func (h *ScheduleHandler) GetCalendar(c echo.Context) error {
	date, ok := h.date(c)
	if !ok {
		return badDate(c)
	}
	items, err := refresh.Load(c.Request().Context(), h.Store, h.Builder, date)
	if err != nil {
		appLog.Error("calendar request failed", err, "date", date)
		return upstreamUnavailable(c)
	}
	body, err := export.Calendar(date, items, h.Location, h.now().UTC())
	if err != nil {
		appLog.Error("calendar export failed", err, "date", date)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="schedule-`+date+`.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
