package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Channel is the NOTIFY channel written by the row_changes triggers.
const Channel = "row_changes"

// notification is the trigger payload. Rows are not inlined because NOTIFY
// payloads are capped at 8000 bytes.
type notification struct {
	Event          EventType `json:"event"`
	Table          string    `json:"table"`
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
}

// watched lists the tables whose rows may be loaded by name.
var watched = map[string]string{
	TableTemplates:      `SELECT row_to_json(t) FROM templates t WHERE id = $1`,
	TableConfigurations: `SELECT row_to_json(t) FROM configurations t WHERE id = $1`,
}

// Listener turns Postgres notifications into Events on a Publisher.
type Listener struct {
	pool    *pgxpool.Pool
	out     Publisher
	backoff time.Duration
}

func NewListener(pool *pgxpool.Pool, out Publisher) *Listener {
	return &Listener{pool: pool, out: out, backoff: time.Second}
}

// Run listens until ctx is done, reconnecting after connection failures.
func (l *Listener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		slog.Error("realtime listener stopped, reconnecting", "err", err, "backoff", l.backoff)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.backoff):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{Channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	slog.Info("realtime listener started", "channel", Channel)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		ev, err := l.resolve(ctx, []byte(n.Payload))
		if err != nil {
			slog.Error("failed to resolve notification", "payload", n.Payload, "err", err)
			continue
		}
		if err := l.out.Publish(ctx, ev); err != nil {
			slog.Error("failed to publish change", "table", ev.Table, "id", ev.ID, "err", err)
		}
	}
}

var errSkipped = errors.New("row no longer exists")

func (l *Listener) resolve(ctx context.Context, payload []byte) (Event, error) {
	ev, query, err := parseNotification(payload)
	if err != nil {
		return Event{}, err
	}
	if ev.Type == EventDelete {
		return ev, nil
	}

	var record []byte
	err = l.pool.QueryRow(ctx, query, ev.ID).Scan(&record)
	if errors.Is(err, pgx.ErrNoRows) {
		return Event{}, fmt.Errorf("%s %s: %w", ev.Table, ev.ID, errSkipped)
	}
	if err != nil {
		return Event{}, fmt.Errorf("load %s %s: %w", ev.Table, ev.ID, err)
	}
	ev.Record = record
	return ev, nil
}

// parseNotification validates a trigger payload and returns the event shell
// along with the row query for its table.
func parseNotification(payload []byte) (Event, string, error) {
	var n notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return Event{}, "", fmt.Errorf("decode payload: %w", err)
	}
	query, ok := watched[n.Table]
	if !ok {
		return Event{}, "", fmt.Errorf("unwatched table %q", n.Table)
	}
	switch n.Event {
	case EventInsert, EventUpdate, EventDelete:
	default:
		return Event{}, "", fmt.Errorf("unknown event %q", n.Event)
	}
	if n.ID == "" || n.OrganizationID == "" {
		return Event{}, "", errors.New("payload without id or organization_id")
	}

	ev := Event{
		Type:           n.Event,
		Table:          n.Table,
		OrganizationID: n.OrganizationID,
		ID:             n.ID,
	}
	return ev, query, nil
}
