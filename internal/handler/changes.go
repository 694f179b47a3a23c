package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/festival-schedule/internal/model"
	"github.com/iliyamo/festival-schedule/internal/queue"
)

// ChangePublisher sends change events to subscribers.
type ChangePublisher interface {
	Publish(ctx context.Context, ev queue.ChangeEvent) error
}

// ChangeHandler lets the content management side announce edits.
type ChangeHandler struct {
	Publisher ChangePublisher
}

type changeRequest struct {
	Collection string `json:"collection"`
	Date       string `json:"date"`
	ID         string `json:"id"`
}

// PostChange publishes a change of one document.  date is optional; without
// it every watcher of the collection is notified.
func (h *ChangeHandler) PostChange(c echo.Context) error {
	var req changeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	coll := model.Collection(req.Collection)
	if !coll.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown collection"})
	}
	if req.Date != "" {
		if _, err := time.Parse(dateLayout, req.Date); err != nil {
			return badDate(c)
		}
	}

	ev := queue.NewChangeEvent(coll, req.Date, req.ID)
	if err := h.Publisher.Publish(c.Request().Context(), ev); err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "broker_unavailable"})
	}
	return c.JSON(http.StatusAccepted, echo.Map{"routing_key": ev.RoutingKey()})
}
