package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/realtime"
	"github.com/sofs91/InspectWise3.0/internal/storage"
	"github.com/sofs91/InspectWise3.0/internal/workspace"
)

type memTemplates struct {
	mu   sync.Mutex
	rows []domains.Template
}

func (m *memTemplates) ListTemplates(_ context.Context, organizationID string) ([]domains.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domains.Template
	for _, t := range m.rows {
		if t.OrganizationID == organizationID {
			out = append([]domains.Template{t}, out...)
		}
	}
	return out, nil
}

func (m *memTemplates) CreateTemplate(_ context.Context, draft domains.TemplateCreate) (domains.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := domains.Template{
		ID:             uuid.NewString(),
		Name:           draft.Name,
		OrganizationID: draft.OrganizationID,
		Questions:      draft.Questions,
		CreatedAt:      time.Now(),
	}
	m.rows = append(m.rows, t)
	return t, nil
}

func (m *memTemplates) UpdateTemplate(_ context.Context, id, organizationID string, patch domains.TemplateUpdate) (domains.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.rows {
		if t.ID != id || t.OrganizationID != organizationID {
			continue
		}
		if patch.Name != nil {
			t.Name = *patch.Name
		}
		if patch.Questions != nil {
			t.Questions = patch.Questions
		}
		m.rows[i] = t
		return t, nil
	}
	return domains.Template{}, fmt.Errorf("update template: %w", storage.ErrNotFound)
}

func (m *memTemplates) DeleteTemplate(_ context.Context, id, organizationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.rows {
		if t.ID == id && t.OrganizationID == organizationID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			break
		}
	}
	return nil
}

type memConfigurations struct {
	mu   sync.Mutex
	rows []domains.Configuration
}

func (m *memConfigurations) ListConfigurations(_ context.Context, organizationID string) ([]domains.Configuration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domains.Configuration
	for _, c := range m.rows {
		if c.OrganizationID == organizationID {
			out = append([]domains.Configuration{c}, out...)
		}
	}
	return out, nil
}

func (m *memConfigurations) CreateConfiguration(_ context.Context, draft domains.ConfigurationCreate) (domains.Configuration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := domains.Configuration{ID: uuid.NewString(), Name: draft.Name, OrganizationID: draft.OrganizationID, Options: draft.Options}
	m.rows = append(m.rows, c)
	return c, nil
}

func (m *memConfigurations) UpdateConfiguration(_ context.Context, id, organizationID string, patch domains.ConfigurationUpdate) (domains.Configuration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.rows {
		if c.ID != id || c.OrganizationID != organizationID {
			continue
		}
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Options != nil {
			c.Options = patch.Options
		}
		m.rows[i] = c
		return c, nil
	}
	return domains.Configuration{}, fmt.Errorf("update configuration: %w", storage.ErrNotFound)
}

func (m *memConfigurations) DeleteConfiguration(_ context.Context, id, organizationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.rows {
		if c.ID == id && c.OrganizationID == organizationID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			break
		}
	}
	return nil
}

func newWorkspaces(t *testing.T) *workspace.Registry {
	t.Helper()
	hub := realtime.NewHub(8)
	r := workspace.NewRegistry(&memTemplates{}, &memConfigurations{}, hub)
	t.Cleanup(func() {
		r.Close()
		hub.Close()
	})
	return r
}
