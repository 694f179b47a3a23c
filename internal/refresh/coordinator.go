package refresh

import (
	"context"
	"errors"
	"sync"
	"time"

	appLog "github.com/iliyamo/festival-schedule/internal/log"
	"github.com/iliyamo/festival-schedule/internal/model"
	"github.com/iliyamo/festival-schedule/internal/schedule"
)

var (
	// ErrClosed is returned by operations on a closed Coordinator.
	ErrClosed = errors.New("refresh: coordinator closed")
	// ErrInvalidDate is returned for a target date not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("refresh: invalid date")
	// ErrNoDate is returned when refreshing before any date was selected.
	ErrNoDate = errors.New("refresh: no target date")
)

const defaultFetchTimeout = 30 * time.Second

// State is the lifecycle state of a Coordinator.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// MarshalText renders the state by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is a consistent copy of the coordinator's visible state.
type Snapshot struct {
	Date        string               `json:"date"`
	State       State                `json:"state"`
	Items       []model.ScheduleItem `json:"items"`
	Loading     bool                 `json:"loading"`
	Error       string               `json:"error,omitempty"`
	LastUpdated time.Time            `json:"last_updated"`
}

// Coordinator owns the schedule of one selected date.  Every refresh is a
// full rebuild; a generation counter makes sure only the newest fetch may
// publish its result.
type Coordinator struct {
	store        DataStore
	builder      *schedule.Builder
	subscriber   Subscriber
	now          func() time.Time
	fetchTimeout time.Duration

	mu          sync.Mutex
	gen         uint64
	date        string
	state       State
	items       []model.ScheduleItem
	errMsg      string
	lastUpdated time.Time
	cancelFetch context.CancelFunc
	watch       *watchSet
	closed      bool

	inflight sync.WaitGroup
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithSubscriber enables live updates through s.
func WithSubscriber(s Subscriber) Option {
	return func(c *Coordinator) { c.subscriber = s }
}

// WithClock replaces time.Now for last-updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithFetchTimeout bounds a single load.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// New returns an idle Coordinator.  It panics when store or b is nil.
func New(store DataStore, b *schedule.Builder, opts ...Option) *Coordinator {
	if store == nil || b == nil {
		panic("refresh: nil store or builder passed to New")
	}
	c := &Coordinator{
		store:        store,
		builder:      b,
		now:          time.Now,
		fetchTimeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTargetDate switches the coordinator to date.  It returns immediately;
// the new schedule is loaded in the background.  Setting the current date
// again is a no-op.
func (c *Coordinator) SetTargetDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if date == c.date && c.state != StateIdle {
		return nil
	}

	old := c.watch
	c.date = date
	c.items = nil
	c.errMsg = ""
	c.lastUpdated = time.Time{}
	c.watch = nil
	if c.subscriber != nil {
		c.watch = newWatchSet()
		go c.openWatch(c.watch, date)
	}
	if old != nil {
		go old.close()
	}

	appLog.Info("schedule target date changed", "date", date)
	c.startLocked()
	return nil
}

// ForceRefresh rebuilds the schedule of the current date.  It also serves
// as the manual retry after a failed load.
func (c *Coordinator) ForceRefresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.date == "" {
		return ErrNoDate
	}
	c.startLocked()
	return nil
}

// Snapshot returns the current visible state.  The prior items stay
// visible while loading and after a failed load of the same date.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]model.ScheduleItem, len(c.items))
	copy(items, c.items)
	return Snapshot{
		Date:        c.date,
		State:       c.state,
		Items:       items,
		Loading:     c.state == StateLoading,
		Error:       c.errMsg,
		LastUpdated: c.lastUpdated,
	}
}

// Close tears down subscriptions and discards any in-flight load.  It is
// safe to call more than once.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.gen++
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
	w := c.watch
	c.watch = nil
	c.mu.Unlock()

	if w != nil {
		w.close()
	}
	return nil
}

// upstreamChanged handles a change signal for date.  Only the active date
// in Ready or Loading state triggers a rebuild.
func (c *Coordinator) upstreamChanged(collection model.Collection, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || date != c.date {
		return
	}
	if c.state != StateReady && c.state != StateLoading {
		appLog.Debug("change ignored", "collection", collection, "date", date, "state", c.state)
		return
	}
	appLog.Info("upstream change, rebuilding schedule", "collection", collection, "date", date)
	c.startLocked()
}

// startLocked supersedes any in-flight load and starts a new one.  c.mu
// must be held.
func (c *Coordinator) startLocked() {
	if c.cancelFetch != nil {
		c.cancelFetch()
	}
	c.gen++
	gen, date := c.gen, c.date
	c.state = StateLoading

	ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
	c.cancelFetch = cancel
	c.inflight.Add(1)
	go c.fetch(ctx, cancel, gen, date)
}

func (c *Coordinator) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, date string) {
	defer c.inflight.Done()
	defer cancel()

	items, err := Load(ctx, c.store, c.builder, date)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen {
		appLog.Debug("discarding superseded schedule load", "date", date, "gen", gen, "current", c.gen)
		return
	}
	c.cancelFetch = nil
	if err != nil {
		c.state = StateError
		c.errMsg = err.Error()
		appLog.Error("schedule load failed", err, "date", date, "kept_items", len(c.items))
		return
	}
	c.state = StateReady
	c.items = items
	c.errMsg = ""
	c.lastUpdated = c.now()
	appLog.Info("schedule ready", "date", date, "items", len(items))
}

// wait blocks until every started load has returned.
func (c *Coordinator) wait() {
	c.inflight.Wait()
}

func (c *Coordinator) openWatch(w *watchSet, date string) {
	for _, coll := range model.Collections {
		sub, err := c.subscriber.Subscribe(w.ctx, coll, date)
		if err != nil {
			if w.ctx.Err() == nil {
				appLog.Error("change subscription failed", err, "collection", coll, "date", date)
			}
			continue
		}
		if !w.add(sub) {
			return
		}
		go c.forward(w, sub, coll, date)
	}
}

func (c *Coordinator) forward(w *watchSet, sub Subscription, coll model.Collection, date string) {
	for {
		select {
		case _, ok := <-sub.Events():
			if !ok {
				return
			}
			c.upstreamChanged(coll, date)
		case <-w.ctx.Done():
			return
		}
	}
}

// watchSet holds the subscriptions of one date.  close releases each of
// them exactly once, including ones added after close.
type watchSet struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	subs   []Subscription
	closed bool
}

func newWatchSet() *watchSet {
	ctx, cancel := context.WithCancel(context.Background())
	return &watchSet{ctx: ctx, cancel: cancel}
}

// add registers sub, or closes it right away when the set is already
// closed.  It reports whether sub was kept.
func (w *watchSet) add(sub Subscription) bool {
	w.mu.Lock()
	if !w.closed {
		w.subs = append(w.subs, sub)
		w.mu.Unlock()
		return true
	}
	w.mu.Unlock()
	closeSub(sub)
	return false
}

func (w *watchSet) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	subs := w.subs
	w.subs = nil
	w.mu.Unlock()

	w.cancel()
	for _, s := range subs {
		closeSub(s)
	}
}

func closeSub(s Subscription) {
	if err := s.Close(); err != nil {
		appLog.Error("closing change subscription", err)
	}
}
