package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sofs91/InspectWise3.0/internal/realtime"
)

// Entity is a row with a stable id.
type Entity interface {
	GetID() string
}

// Backend is the remote table a Store mirrors.
type Backend[T Entity, D, P any] interface {
	List(ctx context.Context, organizationID string) ([]T, error)
	Create(ctx context.Context, draft D) (T, error)
	Update(ctx context.Context, id string, patch P) (T, error)
	Delete(ctx context.Context, id, organizationID string) error
}

// Names are used in the fixed error messages.
type Names struct {
	Singular string
	Plural   string
}

// DefaultEchoWindow is how long a local delete suppresses a late insert event for the same id.
const DefaultEchoWindow = 5 * time.Second

// State is a point-in-time copy of a store.
type State[T any] struct {
	Items   []T     `json:"items"`
	Loading bool    `json:"loading"`
	Error   *string `json:"error"`
}

// Store is an optimistic cache of one organization-scoped table. Local
// mutations patch the cache from the backend's canonical row, realtime
// events reconcile it with changes made elsewhere. Items are newest first
// and are only re-sorted by Fetch.
type Store[T Entity, D, P any] struct {
	table   string
	names   Names
	backend Backend[T, D, P]
	feed    realtime.Feed

	mu      sync.Mutex
	items   []T
	loading bool
	err     *string

	// ids deleted locally, with the time the tag expires
	echoes map[string]time.Time
	window time.Duration
	now    func() time.Time

	subMu sync.Mutex
	sub   *realtime.Subscription
	done  chan struct{}
}

// Option configures a Store.
type Option func(*options)

type options struct {
	window time.Duration
	now    func() time.Time
}

// WithEchoWindow sets how long a locally deleted id ignores insert events.
func WithEchoWindow(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.window = d
		}
	}
}

// WithClock replaces time.Now for echo tag expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New returns an empty store for table. Call Fetch and SubscribeToChanges to fill it.
func New[T Entity, D, P any](table string, names Names, backend Backend[T, D, P], feed realtime.Feed, opts ...Option) *Store[T, D, P] {
	o := options{window: DefaultEchoWindow, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T, D, P]{
		table:   table,
		names:   names,
		backend: backend,
		feed:    feed,
		items:   []T{},
		echoes:  make(map[string]time.Time),
		window:  o.window,
		now:     o.now,
	}
}

func (s *Store[T, D, P]) Fetch(ctx context.Context, organizationID string) {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	items, err := s.backend.List(ctx, organizationID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		slog.Error("fetch failed", "table", s.table, "organization_id", organizationID, "err", err)
		s.setError("Failed to fetch " + s.names.Plural)
		return
	}
	if items == nil {
		items = []T{}
	}
	s.items = items
}

func (s *Store[T, D, P]) Add(ctx context.Context, draft D) (T, error) {
	s.clearError()

	created, err := s.backend.Create(ctx, draft)
	if err != nil {
		msg := "Failed to create " + s.names.Singular
		s.fail(msg, err)
		return created, fmt.Errorf("%s: %w", msg, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(created.GetID()) < 0 {
		s.items = append([]T{created}, s.items...)
	}
	return created, nil
}

func (s *Store[T, D, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	s.clearError()

	updated, err := s.backend.Update(ctx, id, patch)
	if err != nil {
		msg := "Failed to update " + s.names.Singular
		s.fail(msg, err)
		return updated, fmt.Errorf("%s: %w", msg, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.items[i] = updated
	}
	return updated, nil
}

func (s *Store[T, D, P]) Delete(ctx context.Context, id, organizationID string) error {
	s.clearError()

	if err := s.backend.Delete(ctx, id, organizationID); err != nil {
		msg := "Failed to delete " + s.names.Singular
		s.fail(msg, err)
		return fmt.Errorf("%s: %w", msg, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tag(id)
	s.remove(id)
	return nil
}

// SubscribeToChanges replaces any open subscription with one for organizationID.
func (s *Store[T, D, P]) SubscribeToChanges(ctx context.Context, organizationID string) error {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.closeSubscription()

	sub, err := s.feed.Subscribe(ctx, s.table, organizationID)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", s.table, err)
	}
	done := make(chan struct{})
	s.sub, s.done = sub, done

	go func() {
		defer close(done)
		for ev := range sub.Events() {
			s.apply(ev)
		}
	}()
	return nil
}

func (s *Store[T, D, P]) UnsubscribeFromChanges() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.closeSubscription()
}

// Subscribed reports whether a subscription is open and still delivering.
func (s *Store[T, D, P]) Subscribed() bool {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.sub == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *Store[T, D, P]) closeSubscription() {
	if s.sub == nil {
		return
	}
	s.sub.Close()
	<-s.done
	s.sub, s.done = nil, nil
}

func (s *Store[T, D, P]) Snapshot() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]T, len(s.items))
	copy(items, s.items)
	state := State[T]{Items: items, Loading: s.loading}
	if s.err != nil {
		msg := *s.err
		state.Error = &msg
	}
	return state
}

func (s *Store[T, D, P]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

// Prune drops echo tags whose window has passed.
func (s *Store[T, D, P]) Prune() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
}

func (s *Store[T, D, P]) apply(ev realtime.Event) {
	switch ev.Type {
	case realtime.EventInsert:
		item, err := decode[T](ev.Record)
		if err != nil {
			slog.Error("bad realtime record", "table", s.table, "event", ev.Type, "err", err)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pruneLocked()
		if _, deleted := s.echoes[item.GetID()]; deleted {
			delete(s.echoes, item.GetID())
			return
		}
		if s.indexOf(item.GetID()) < 0 {
			s.items = append([]T{item}, s.items...)
		}
	case realtime.EventUpdate:
		item, err := decode[T](ev.Record)
		if err != nil {
			slog.Error("bad realtime record", "table", s.table, "event", ev.Type, "err", err)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if i := s.indexOf(item.GetID()); i >= 0 {
			s.items[i] = item
		}
	case realtime.EventDelete:
		id := ev.ID
		if id == "" {
			var old struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(ev.OldRecord, &old); err != nil {
				slog.Error("bad realtime record", "table", s.table, "event", ev.Type, "err", err)
				return
			}
			id = old.ID
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.remove(id)
	default:
		slog.Warn("unknown realtime event", "table", s.table, "event", ev.Type)
	}
}

func decode[T any](raw json.RawMessage) (T, error) {
	var item T
	if len(raw) == 0 {
		return item, fmt.Errorf("empty record")
	}
	err := json.Unmarshal(raw, &item)
	return item, err
}

func (s *Store[T, D, P]) tag(id string) {
	s.pruneLocked()
	s.echoes[id] = s.now().Add(s.window)
}

func (s *Store[T, D, P]) pruneLocked() {
	now := s.now()
	for id, expires := range s.echoes {
		if !now.Before(expires) {
			delete(s.echoes, id)
		}
	}
}

func (s *Store[T, D, P]) indexOf(id string) int {
	for i, item := range s.items {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}

func (s *Store[T, D, P]) remove(id string) {
	if i := s.indexOf(id); i >= 0 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
	}
}

func (s *Store[T, D, P]) clearError() {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
}

func (s *Store[T, D, P]) fail(msg string, err error) {
	slog.Error(msg, "table", s.table, "err", err)
	s.mu.Lock()
	s.setError(msg)
	s.mu.Unlock()
}

func (s *Store[T, D, P]) setError(msg string) {
	s.err = &msg
}
