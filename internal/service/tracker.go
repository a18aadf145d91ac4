package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jask/trackmysleep/internal/database/repository"
	"github.com/jask/trackmysleep/internal/logging"
)

var (
	// ErrClosed is returned by every Tracker operation after Close.
	ErrClosed = errors.New("tracker closed")
	// ErrNoOpenNight is returned by StopTracking when nothing is being tracked.
	ErrNoOpenNight = errors.New("no night is being tracked")
	// ErrAlreadyTracking is returned by StartTracking while a night is open.
	ErrAlreadyTracking = errors.New("a night is already being tracked")
)

// NightStore is the persistence the Tracker works against.
type NightStore interface {
	// Tonight returns the most recent night, open or closed, or nil.
	Tonight(ctx context.Context) (*repository.Night, error)
	All(ctx context.Context) ([]repository.Night, error)
	Insert(ctx context.Context, n *repository.Night) error
	Update(ctx context.Context, n repository.Night) error
	Clear(ctx context.Context) error
}

// State is a snapshot of what the tracker screen shows.
type State struct {
	// Tonight is the open night, nil when nothing is being tracked.
	Tonight *repository.Night
	// Nights is the history, newest first.
	Nights []repository.Night

	StartVisible bool
	StopVisible  bool
	ClearVisible bool
}

func newState(tonight *repository.Night, nights []repository.Night) State {
	s := State{
		StartVisible: tonight == nil,
		StopVisible:  tonight != nil,
		ClearVisible: len(nights) > 0,
	}
	if tonight != nil {
		n := *tonight
		s.Tonight = &n
	}
	if len(nights) > 0 {
		s.Nights = append([]repository.Night(nil), nights...)
	}
	return s
}

// EventKind tells consumers what a one-shot event asks for.
type EventKind int

const (
	// EventNavigateToQuality asks the UI to open the quality screen for Event.Night.
	EventNavigateToQuality EventKind = iota + 1
	// EventShowSnackbar asks the UI to confirm that the history was cleared.
	EventShowSnackbar
)

func (k EventKind) String() string {
	switch k {
	case EventNavigateToQuality:
		return "navigate_to_quality"
	case EventShowSnackbar:
		return "show_snackbar"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is delivered once on the Events channel.
type Event struct {
	ID    uuid.UUID
	Kind  EventKind
	Night repository.Night // set for EventNavigateToQuality
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(t *Tracker) { t.log = log }
}

// WithEventBuffer sets how many undelivered events are kept before new ones
// are dropped.
func WithEventBuffer(n int) Option {
	return func(t *Tracker) { t.eventBuffer = n }
}

type job struct {
	ctx context.Context
	fn  func(ctx context.Context) error
	res chan error
}

// Tracker coordinates the night being tracked with the store. Operations are
// executed one at a time on a worker goroutine and awaited by the caller;
// State, Subscribe and Events can be used from any goroutine.
type Tracker struct {
	store       NightStore
	now         func() time.Time
	log         logrus.FieldLogger
	eventBuffer int

	jobs      chan job
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	mu      sync.Mutex
	closed  bool
	tonight *repository.Night
	nights  []repository.Night
	subs    map[int]chan State
	nextSub int

	events chan Event
}

// NewTracker starts a tracker over store. Call Init to load the current
// night and Close when done.
func NewTracker(store NightStore, opts ...Option) *Tracker {
	t := &Tracker{
		store:       store,
		now:         time.Now,
		log:         logging.Discard(),
		eventBuffer: 8,
		jobs:        make(chan job),
		done:        make(chan struct{}),
		subs:        map[int]chan State{},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.events = make(chan Event, t.eventBuffer)

	t.wg.Add(1)
	go t.work()
	return t
}

func (t *Tracker) work() {
	defer t.wg.Done()
	for {
		select {
		case <-t.done:
			return
		case j := <-t.jobs:
			j.res <- j.fn(j.ctx)
		}
	}
}

// run hands fn to the worker and waits for it. A job the worker accepted runs
// to completion even if ctx is cancelled while waiting.
func (t *Tracker) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	select {
	case <-t.done:
		return ErrClosed
	default:
	}

	res := make(chan error, 1)
	select {
	case t.jobs <- job{ctx: ctx, fn: fn, res: res}:
	case <-t.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-res:
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Init loads the open night and the history from the store.
func (t *Tracker) Init(ctx context.Context) error {
	return t.run(ctx, "init", t.reload)
}

// Refresh reloads both values, e.g. after a night was rated elsewhere.
func (t *Tracker) Refresh(ctx context.Context) error {
	return t.run(ctx, "refresh", t.reload)
}

// StartTracking opens a new night starting now.
func (t *Tracker) StartTracking(ctx context.Context) (repository.Night, error) {
	var started repository.Night
	err := t.run(ctx, "start tracking", func(ctx context.Context) error {
		if cur, err := t.tonightFromStore(ctx); err != nil {
			return err
		} else if cur != nil {
			return ErrAlreadyTracking
		}

		night := repository.NewNight(t.now())
		if err := t.store.Insert(ctx, &night); err != nil {
			return err
		}
		if err := t.reload(ctx); err != nil {
			return err
		}
		started = night
		t.log.WithFields(logrus.Fields{"night_id": night.ID, "start": night.Start}).Info("night started")
		return nil
	})
	return started, err
}

// StopTracking closes the open night at now and emits
// EventNavigateToQuality with it.
func (t *Tracker) StopTracking(ctx context.Context) (repository.Night, error) {
	var stopped repository.Night
	err := t.run(ctx, "stop tracking", func(ctx context.Context) error {
		t.mu.Lock()
		cached := t.tonight
		t.mu.Unlock()
		if cached == nil {
			return ErrNoOpenNight
		}

		// another process sharing the database may have stopped it already
		cur, err := t.tonightFromStore(ctx)
		if err != nil {
			return err
		}
		if cur == nil || cur.ID != cached.ID {
			if err := t.reload(ctx); err != nil {
				return err
			}
			t.log.WithField("night_id", cached.ID).Warn("night was closed elsewhere, not stopping")
			return ErrNoOpenNight
		}

		night := *cur
		end := t.now().UTC().Truncate(time.Millisecond)
		if !end.After(night.Start) {
			// End == Start would read back as still open
			end = night.Start.Add(time.Millisecond)
		}
		night.End = end
		if err := t.store.Update(ctx, night); err != nil {
			return err
		}

		nights, err := t.store.All(ctx)
		if err != nil {
			return err
		}
		t.set(nil, nights)
		stopped = night
		t.log.WithFields(logrus.Fields{"night_id": night.ID, "duration": night.Duration().String()}).Info("night stopped")
		t.emit(Event{Kind: EventNavigateToQuality, Night: night})
		return nil
	})
	return stopped, err
}

// Clear deletes every night and emits EventShowSnackbar.
func (t *Tracker) Clear(ctx context.Context) error {
	return t.run(ctx, "clear", func(ctx context.Context) error {
		if err := t.store.Clear(ctx); err != nil {
			return err
		}
		t.set(nil, nil)
		t.log.Info("nights cleared")
		t.emit(Event{Kind: EventShowSnackbar})
		return nil
	})
}

// State returns the current snapshot.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return newState(t.tonight, t.nights)
}

// Subscribe returns a channel that always holds the latest State; older
// undelivered snapshots are replaced. The channel starts with the current
// State and is closed by cancel or Close.
func (t *Tracker) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		close(ch)
		return ch, func() {}
	}
	id := t.nextSub
	t.nextSub++
	t.subs[id] = ch
	ch <- newState(t.tonight, t.nights)

	return ch, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if c, ok := t.subs[id]; ok {
			delete(t.subs, id)
			close(c)
		}
	}
}

// Events returns the one-shot event channel. Receiving an event consumes it.
// The channel is closed by Close.
func (t *Tracker) Events() <-chan Event { return t.events }

// Close stops the worker. Operations already accepted finish first; later
// ones return ErrClosed.
func (t *Tracker) Close() {
	t.closeOnce.Do(func() {
		close(t.done)
		t.wg.Wait()

		t.mu.Lock()
		t.closed = true
		for id, ch := range t.subs {
			delete(t.subs, id)
			close(ch)
		}
		t.mu.Unlock()
		close(t.events)
	})
}

func (t *Tracker) reload(ctx context.Context) error {
	tonight, err := t.tonightFromStore(ctx)
	if err != nil {
		return err
	}
	nights, err := t.store.All(ctx)
	if err != nil {
		return err
	}
	t.set(tonight, nights)
	return nil
}

// tonightFromStore returns the most recent night only while it is open.
func (t *Tracker) tonightFromStore(ctx context.Context) (*repository.Night, error) {
	n, err := t.store.Tonight(ctx)
	if err != nil || n == nil {
		return nil, err
	}
	if !n.Open() {
		return nil, nil
	}
	return n, nil
}

func (t *Tracker) set(tonight *repository.Night, nights []repository.Night) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tonight = tonight
	t.nights = nights
	s := newState(tonight, nights)
	for _, ch := range t.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

func (t *Tracker) emit(ev Event) {
	ev.ID = uuid.New()
	select {
	case t.events <- ev:
	default:
		t.log.WithFields(logrus.Fields{"event": ev.Kind.String(), "event_id": ev.ID}).Warn("event buffer full, dropping event")
	}
}
