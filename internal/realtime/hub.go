package realtime

import (
	"context"
	"log/slog"
	"sync"
)

const defaultBuffer = 64

// Hub fans events out to in-process subscribers. Delivery never blocks the
// publisher: a subscriber whose buffer is full loses the event.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
	closed bool
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
	}
}

func topic(table, organizationID string) string {
	return table + ":" + organizationID
}

func (h *Hub) Subscribe(ctx context.Context, table, organizationID string) (*Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}

	key := topic(table, organizationID)
	sub := &Subscription{
		Table:          table,
		OrganizationID: organizationID,
		events:         make(chan Event, h.buffer),
	}
	sub.cancel = func() { h.remove(key, sub) }

	if h.subs[key] == nil {
		h.subs[key] = make(map[*Subscription]struct{})
	}
	h.subs[key][sub] = struct{}{}
	return sub, nil
}

func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	for sub := range h.subs[topic(ev.Table, ev.OrganizationID)] {
		select {
		case sub.events <- ev:
		default:
			slog.Warn("dropping realtime event for slow subscriber",
				"table", ev.Table, "organization_id", ev.OrganizationID, "id", ev.ID)
		}
	}
	return nil
}

// Subscribers reports the number of open subscriptions on a topic.
func (h *Hub) Subscribers(table, organizationID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[topic(table, organizationID)])
}

// Close ends every subscription. Later Subscribe and Publish calls fail with ErrClosed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for key, set := range h.subs {
		for sub := range set {
			close(sub.events)
		}
		delete(h.subs, key)
	}
}

func (h *Hub) remove(key string, sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[key]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	close(sub.events)
	if len(set) == 0 {
		delete(h.subs, key)
	}
}

// Subscription is a live channel of events. The events channel is closed
// when the subscription or its hub is closed.
type Subscription struct {
	Table          string
	OrganizationID string

	events chan Event
	once   sync.Once
	cancel func()
}

func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}
