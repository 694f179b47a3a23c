package refresh

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/festival-schedule/internal/model"
	"github.com/iliyamo/festival-schedule/internal/schedule"
)

const (
	day1 = "2025-09-26"
	day2 = "2025-09-27"
)

// fakeStore serves activities per date.  A gate makes ListActivities block
// until the gate is closed, ignoring ctx like a transport that cannot be
// aborted.
type fakeStore struct {
	mu         sync.Mutex
	activities map[string][]model.Activity
	films      []model.FilmRecord
	gates      map[string]chan struct{}
	err        error
	calls      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		activities: map[string][]model.Activity{},
		gates:      map[string]chan struct{}{},
	}
}

func (s *fakeStore) gate(date string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := make(chan struct{})
	s.gates[date] = g
	return g
}

func (s *fakeStore) set(date string, acts ...model.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities[date] = acts
}

func (s *fakeStore) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *fakeStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *fakeStore) ListActivities(_ context.Context, date string) ([]model.Activity, error) {
	s.mu.Lock()
	s.calls++
	g := s.gates[date]
	delete(s.gates, date)
	s.mu.Unlock()

	if g != nil {
		<-g
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]model.Activity(nil), s.activities[date]...), nil
}

func (s *fakeStore) ListFilms(_ context.Context) ([]model.FilmRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.FilmRecord(nil), s.films...), nil
}

type fakeSub struct {
	collection model.Collection
	date       string
	ch         chan struct{}
	closes     atomic.Int32
}

func (f *fakeSub) Events() <-chan struct{} { return f.ch }

func (f *fakeSub) Close() error {
	f.closes.Add(1)
	return nil
}

type fakeSubscriber struct {
	mu   sync.Mutex
	subs []*fakeSub
}

func (f *fakeSubscriber) Subscribe(_ context.Context, coll model.Collection, date string) (Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &fakeSub{collection: coll, date: date, ch: make(chan struct{}, 1)}
	f.subs = append(f.subs, s)
	return s, nil
}

func (f *fakeSubscriber) all() []*fakeSub {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakeSub(nil), f.subs...)
}

func activity(id, start string) model.Activity {
	return model.Activity{ID: id, Name: id, StartTime: start, EndTime: "23:00", Venue: "stage-zone"}
}

func newTestCoordinator(store DataStore, opts ...Option) *Coordinator {
	b := schedule.NewBuilder(schedule.NewExtractor(schedule.ExtractOptions{Location: time.UTC, SynthesizeUndated: true}))
	return New(store, b, opts...)
}

func itemIDs(items []model.ScheduleItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func TestSetTargetDateLoadsSchedule(t *testing.T) {
	store := newFakeStore()
	store.set(day1, activity("a1", "10:00"))
	store.films = []model.FilmRecord{{ID: "f1", Title: "Undated"}}
	stamp := time.Date(2025, 9, 26, 8, 0, 0, 0, time.UTC)

	c := newTestCoordinator(store, WithClock(func() time.Time { return stamp }))
	defer c.Close()

	assert.Equal(t, StateIdle, c.Snapshot().State)
	require.NoError(t, c.SetTargetDate(day1))
	c.wait()

	snap := c.Snapshot()
	assert.Equal(t, day1, snap.Date)
	assert.Equal(t, StateReady, snap.State)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
	assert.Equal(t, stamp, snap.LastUpdated)
	assert.Equal(t, []string{"activity:a1", "film:f1:1"}, itemIDs(snap.Items))
}

func TestSetSameDateIsNoop(t *testing.T) {
	store := newFakeStore()
	c := newTestCoordinator(store)
	defer c.Close()

	require.NoError(t, c.SetTargetDate(day1))
	c.wait()
	require.NoError(t, c.SetTargetDate(day1))
	c.wait()
	assert.Equal(t, 1, store.callCount())
}

func TestStaleLoadNeverOverwritesNewerDate(t *testing.T) {
	store := newFakeStore()
	store.set(day1, activity("old", "10:00"))
	store.set(day2, activity("new", "11:00"))
	g1 := store.gate(day1)
	g2 := store.gate(day2)

	c := newTestCoordinator(store)
	defer c.Close()

	require.NoError(t, c.SetTargetDate(day1))
	require.NoError(t, c.SetTargetDate(day2))
	assert.True(t, c.Snapshot().Loading)

	// Newer load resolves first, the stale one afterwards.
	close(g2)
	require.Eventually(t, func() bool { return c.Snapshot().State == StateReady }, time.Second, 5*time.Millisecond)
	close(g1)
	c.wait()

	snap := c.Snapshot()
	assert.Equal(t, day2, snap.Date)
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, []string{"activity:new"}, itemIDs(snap.Items))
}

func TestFailureKeepsPreviousItems(t *testing.T) {
	store := newFakeStore()
	store.set(day1, activity("a1", "10:00"))
	c := newTestCoordinator(store)
	defer c.Close()

	require.NoError(t, c.SetTargetDate(day1))
	c.wait()
	require.Equal(t, StateReady, c.Snapshot().State)

	store.setErr(errors.New("db unavailable"))
	require.NoError(t, c.ForceRefresh())
	c.wait()

	snap := c.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Contains(t, snap.Error, "db unavailable")
	assert.Equal(t, []string{"activity:a1"}, itemIDs(snap.Items))

	// Manual retry recovers.
	store.setErr(nil)
	store.set(day1, activity("a1", "10:00"), activity("a2", "12:00"))
	require.NoError(t, c.ForceRefresh())
	c.wait()

	snap = c.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Empty(t, snap.Error)
	assert.Equal(t, []string{"activity:a1", "activity:a2"}, itemIDs(snap.Items))
}

func TestDateChangeClearsItemsOfPreviousDate(t *testing.T) {
	store := newFakeStore()
	store.set(day1, activity("a1", "10:00"))
	c := newTestCoordinator(store)
	defer c.Close()

	require.NoError(t, c.SetTargetDate(day1))
	c.wait()
	g := store.gate(day2)
	require.NoError(t, c.SetTargetDate(day2))

	snap := c.Snapshot()
	assert.Equal(t, day2, snap.Date)
	assert.True(t, snap.Loading)
	assert.Empty(t, snap.Items)
	close(g)
	c.wait()
}

func TestUpstreamChangeTriggersFullRebuild(t *testing.T) {
	store := newFakeStore()
	store.set(day1, activity("a1", "10:00"))
	subs := &fakeSubscriber{}
	c := newTestCoordinator(store, WithSubscriber(subs))
	defer c.Close()

	require.NoError(t, c.SetTargetDate(day1))
	c.wait()
	require.Eventually(t, func() bool { return len(subs.all()) == 2 }, time.Second, 5*time.Millisecond)

	got := subs.all()
	assert.Equal(t, model.CollectionActivities, got[0].collection)
	assert.Equal(t, model.CollectionFilms, got[1].collection)
	assert.Equal(t, day1, got[0].date)

	store.set(day1, activity("a1", "10:00"), activity("a9", "09:00"))
	got[0].ch <- struct{}{}

	require.Eventually(t, func() bool {
		snap := c.Snapshot()
		return snap.State == StateReady && len(snap.Items) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"activity:a9", "activity:a1"}, itemIDs(c.Snapshot().Items))
}

func TestChangeIgnoredWhileInError(t *testing.T) {
	store := newFakeStore()
	subs := &fakeSubscriber{}
	c := newTestCoordinator(store, WithSubscriber(subs))
	defer c.Close()

	store.setErr(errors.New("down"))
	require.NoError(t, c.SetTargetDate(day1))
	c.wait()
	require.Equal(t, StateError, c.Snapshot().State)
	require.Eventually(t, func() bool { return len(subs.all()) == 2 }, time.Second, 5*time.Millisecond)

	calls := store.callCount()
	subs.all()[1].ch <- struct{}{}
	time.Sleep(50 * time.Millisecond)
	c.wait()
	assert.Equal(t, calls, store.callCount())
	assert.Equal(t, StateError, c.Snapshot().State)
}

func TestSubscriptionsClosedExactlyOnce(t *testing.T) {
	store := newFakeStore()
	subs := &fakeSubscriber{}
	c := newTestCoordinator(store, WithSubscriber(subs))

	require.NoError(t, c.SetTargetDate(day1))
	require.Eventually(t, func() bool { return len(subs.all()) == 2 }, time.Second, 5*time.Millisecond)
	first := subs.all()

	require.NoError(t, c.SetTargetDate(day2))
	require.Eventually(t, func() bool { return len(subs.all()) == 4 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		return first[0].closes.Load() == 1 && first[1].closes.Load() == 1
	}, time.Second, 5*time.Millisecond)

	second := subs.all()[2:]
	for _, s := range second {
		assert.Equal(t, day2, s.date)
		assert.Equal(t, int32(0), s.closes.Load())
	}

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	c.wait()

	for _, s := range subs.all() {
		assert.Equal(t, int32(1), s.closes.Load(), "%s %s", s.collection, s.date)
	}
}

func TestCloseDiscardsInFlightLoad(t *testing.T) {
	store := newFakeStore()
	store.set(day1, activity("a1", "10:00"))
	g := store.gate(day1)
	c := newTestCoordinator(store)

	require.NoError(t, c.SetTargetDate(day1))
	require.NoError(t, c.Close())
	close(g)
	c.wait()

	snap := c.Snapshot()
	assert.Equal(t, StateLoading, snap.State)
	assert.Empty(t, snap.Items)
	assert.ErrorIs(t, c.SetTargetDate(day2), ErrClosed)
	assert.ErrorIs(t, c.ForceRefresh(), ErrClosed)
}

func TestInputValidation(t *testing.T) {
	c := newTestCoordinator(newFakeStore())
	defer c.Close()

	assert.ErrorIs(t, c.SetTargetDate("26/09/2025"), ErrInvalidDate)
	assert.ErrorIs(t, c.ForceRefresh(), ErrNoDate)
}

func TestStateMarshalsByName(t *testing.T) {
	b, err := StateReady.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ready", string(b))
	assert.Equal(t, "idle", StateIdle.String())
}
