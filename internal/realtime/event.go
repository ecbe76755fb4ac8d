package realtime

import (
	"context"
	"encoding/json"
	"errors"
)

type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

const (
	TableTemplates      = "templates"
	TableConfigurations = "configurations"
)

var ErrClosed = errors.New("realtime: feed closed")

// Event is one row change. Record holds the new row for insert and update,
// OldRecord the previous row where known; delete events always carry ID.
type Event struct {
	Type           EventType       `json:"type"`
	Table          string          `json:"table"`
	OrganizationID string          `json:"organization_id"`
	ID             string          `json:"id"`
	Record         json.RawMessage `json:"record,omitempty"`
	OldRecord      json.RawMessage `json:"old_record,omitempty"`
}

// Feed hands out subscriptions to row changes of one table for one organization.
type Feed interface {
	Subscribe(ctx context.Context, table, organizationID string) (*Subscription, error)
}

// Publisher accepts events produced by a change source.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}
