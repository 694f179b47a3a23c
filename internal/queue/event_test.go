package queue

import (
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/festival-schedule/internal/model"
)

func TestRoutingKeys(t *testing.T) {
	ev := NewChangeEvent(model.CollectionActivities, "2025-09-26", "a1")
	assert.Equal(t, "activities.2025-09-26", ev.RoutingKey())
	assert.Len(t, ev.EventID, 36)
	_, err := time.Parse(time.RFC3339, ev.ChangedAt)
	require.NoError(t, err)

	film := NewChangeEvent(model.CollectionFilms, "", "f1")
	assert.Equal(t, "films.all", film.RoutingKey())

	keys := BindingKeys(model.CollectionFilms, "2025-09-26")
	assert.Equal(t, []string{"films.2025-09-26", "films.all"}, keys)
	assert.Contains(t, keys, film.RoutingKey())
}

func TestDrainCoalescesSignals(t *testing.T) {
	sub := &subscription{
		coll:   model.CollectionActivities,
		date:   "2025-09-26",
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	deliveries := make(chan amqp.Delivery, 3)
	deliveries <- amqp.Delivery{Body: []byte(`{"collection":"activities","date":"2025-09-26","id":"a1"}`)}
	deliveries <- amqp.Delivery{Body: []byte(`not json`)}
	deliveries <- amqp.Delivery{Body: []byte(`{}`)}
	close(deliveries)

	sub.drain(deliveries)

	assert.Len(t, sub.events, 1)
	<-sub.events
	assert.Len(t, sub.events, 0)
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	sub := &subscription{events: make(chan struct{}, 1), done: make(chan struct{})}
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())
	assert.True(t, sub.closed())
}
