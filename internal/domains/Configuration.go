package domains

import "time"

// Configuration is a reusable named option list owned by an organization.
type Configuration struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	Options        []string  `db:"options" json:"options"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

func (c Configuration) GetID() string { return c.ID }

type ConfigurationCreate struct {
	Name           string   `json:"name"`
	OrganizationID string   `json:"organization_id"`
	Options        []string `json:"options"`
}

type ConfigurationUpdate struct {
	Name    *string  `json:"name,omitempty"`
	Options []string `json:"options,omitempty"`
}
