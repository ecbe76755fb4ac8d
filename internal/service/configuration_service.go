package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/storage"
	"github.com/sofs91/InspectWise3.0/internal/store"
)

type ConfigurationService struct {
	workspaces Workspaces
}

func NewConfigurationService(workspaces Workspaces) *ConfigurationService {
	return &ConfigurationService{workspaces: workspaces}
}

func (s *ConfigurationService) List(ctx context.Context, organizationID string) (store.State[domains.Configuration], error) {
	ws, err := openWorkspace(ctx, s.workspaces, organizationID)
	if err != nil {
		return store.State[domains.Configuration]{}, err
	}
	return ws.Configurations.Snapshot(), nil
}

func (s *ConfigurationService) Get(ctx context.Context, organizationID, id string) (domains.Configuration, error) {
	ws, err := openWorkspace(ctx, s.workspaces, organizationID)
	if err != nil {
		return domains.Configuration{}, err
	}
	c, ok := ws.Configurations.Get(id)
	if !ok {
		return domains.Configuration{}, ErrConfigurationNotFound
	}
	return c, nil
}

func (s *ConfigurationService) Create(ctx context.Context, organizationID string, draft domains.ConfigurationCreate) (domains.Configuration, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		return domains.Configuration{}, invalid("configuration name is required")
	}
	options, err := cleanOptions(draft.Options)
	if err != nil {
		return domains.Configuration{}, err
	}
	draft.Options = options
	draft.OrganizationID = organizationID

	ws, err := openWorkspace(ctx, s.workspaces, organizationID)
	if err != nil {
		return domains.Configuration{}, err
	}
	return ws.Configurations.Add(ctx, draft)
}

func (s *ConfigurationService) Update(ctx context.Context, organizationID, id string, patch domains.ConfigurationUpdate) (domains.Configuration, error) {
	if !validID(id) {
		return domains.Configuration{}, ErrConfigurationNotFound
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return domains.Configuration{}, invalid("configuration name is required")
		}
		patch.Name = &name
	}
	if patch.Options != nil {
		options, err := cleanOptions(patch.Options)
		if err != nil {
			return domains.Configuration{}, err
		}
		patch.Options = options
	}

	ws, err := openWorkspace(ctx, s.workspaces, organizationID)
	if err != nil {
		return domains.Configuration{}, err
	}
	updated, err := ws.Configurations.Update(ctx, id, patch)
	if errors.Is(err, storage.ErrNotFound) {
		return domains.Configuration{}, ErrConfigurationNotFound
	}
	return updated, err
}

func (s *ConfigurationService) Delete(ctx context.Context, organizationID, id string) error {
	if !validID(id) {
		return ErrConfigurationNotFound
	}
	ws, err := openWorkspace(ctx, s.workspaces, organizationID)
	if err != nil {
		return err
	}
	return ws.Configurations.Delete(ctx, id, organizationID)
}

// cleanOptions trims options and drops blanks; duplicates are rejected.
func cleanOptions(options []string) ([]string, error) {
	out := make([]string, 0, len(options))
	seen := make(map[string]struct{}, len(options))
	for _, o := range options {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if _, dup := seen[o]; dup {
			return nil, invalid("duplicate option %q", o)
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out, nil
}
