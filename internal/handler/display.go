package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/festival-schedule/internal/refresh"
)

// Display is the part of refresh.Coordinator the display endpoints use.
type Display interface {
	Snapshot() refresh.Snapshot
	SetTargetDate(date string) error
	ForceRefresh() error
}

// DisplayHandler exposes the live display board.
type DisplayHandler struct {
	Board Display
}

// GetDisplay returns the current snapshot, including while loading and
// after a failed refresh.
func (h *DisplayHandler) GetDisplay(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Board.Snapshot())
}

type setDateRequest struct {
	Date string `json:"date"`
}

// SetDate switches the board to another date.  The switch happens in the
// background, so the response is 202.
func (h *DisplayHandler) SetDate(c echo.Context) error {
	var req setDateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Board.SetTargetDate(req.Date); err != nil {
		return displayError(c, err)
	}
	return c.JSON(http.StatusAccepted, echo.Map{"date": req.Date})
}

// Refresh rebuilds the board's schedule, also retrying after a failure.
func (h *DisplayHandler) Refresh(c echo.Context) error {
	if err := h.Board.ForceRefresh(); err != nil {
		return displayError(c, err)
	}
	return c.JSON(http.StatusAccepted, echo.Map{"status": "refreshing"})
}

func displayError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, refresh.ErrInvalidDate):
		return badDate(c)
	case errors.Is(err, refresh.ErrNoDate):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no date selected"})
	case errors.Is(err, refresh.ErrClosed):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "shutting down"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
