// Package queue carries schedule change notifications over RabbitMQ.
// Changes are published to a topic exchange with the routing key
// "<collection>.<date>", or "<collection>.all" when a change is not tied
// to one date (a film edit may move any of its screenings).
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/festival-schedule/internal/model"
)

// ChangeExchange is the durable topic exchange change events go through.
const ChangeExchange = "schedule.changes"

// allDates is the routing key suffix for changes not scoped to one date.
const allDates = "all"

// ChangeEvent announces that a document in a collection was created,
// edited or deleted.  Subscribers only use it as a signal; the payload is
// informational.
type ChangeEvent struct {
	EventID    string           `json:"event_id"`
	Collection model.Collection `json:"collection"`
	Date       string           `json:"date,omitempty"`
	ID         string           `json:"id,omitempty"`
	ChangedAt  string           `json:"changed_at"`
}

// NewChangeEvent stamps a change of document id in coll for date (may be
// empty) with the current UTC time.
func NewChangeEvent(coll model.Collection, date, id string) ChangeEvent {
	return ChangeEvent{
		EventID:    uuid.NewString(),
		Collection: coll,
		Date:       date,
		ID:         id,
		ChangedAt:  time.Now().UTC().Format(time.RFC3339),
	}
}

// RoutingKey returns the topic the event is published under.
func (e ChangeEvent) RoutingKey() string {
	if e.Date == "" {
		return string(e.Collection) + "." + allDates
	}
	return string(e.Collection) + "." + e.Date
}

// BindingKeys returns the topics a watcher of coll on date must bind.
func BindingKeys(coll model.Collection, date string) []string {
	return []string{
		string(coll) + "." + date,
		string(coll) + "." + allDates,
	}
}
