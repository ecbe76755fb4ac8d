package workspace

import (
	"context"
	"fmt"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/storage"
)

type TemplateProvider interface {
	ListTemplates(ctx context.Context, organizationID string) ([]domains.Template, error)
	CreateTemplate(ctx context.Context, draft domains.TemplateCreate) (domains.Template, error)
	UpdateTemplate(ctx context.Context, id, organizationID string, patch domains.TemplateUpdate) (domains.Template, error)
	DeleteTemplate(ctx context.Context, id, organizationID string) error
}

type ConfigurationProvider interface {
	ListConfigurations(ctx context.Context, organizationID string) ([]domains.Configuration, error)
	CreateConfiguration(ctx context.Context, draft domains.ConfigurationCreate) (domains.Configuration, error)
	UpdateConfiguration(ctx context.Context, id, organizationID string, patch domains.ConfigurationUpdate) (domains.Configuration, error)
	DeleteConfiguration(ctx context.Context, id, organizationID string) error
}

// templateBackend pins every call to one organization.
type templateBackend struct {
	provider       TemplateProvider
	organizationID string
}

func (b templateBackend) List(ctx context.Context, organizationID string) ([]domains.Template, error) {
	if err := b.check(organizationID); err != nil {
		return nil, err
	}
	return b.provider.ListTemplates(ctx, organizationID)
}

func (b templateBackend) Create(ctx context.Context, draft domains.TemplateCreate) (domains.Template, error) {
	draft.OrganizationID = b.organizationID
	return b.provider.CreateTemplate(ctx, draft)
}

func (b templateBackend) Update(ctx context.Context, id string, patch domains.TemplateUpdate) (domains.Template, error) {
	return b.provider.UpdateTemplate(ctx, id, b.organizationID, patch)
}

func (b templateBackend) Delete(ctx context.Context, id, organizationID string) error {
	if err := b.check(organizationID); err != nil {
		return err
	}
	return b.provider.DeleteTemplate(ctx, id, organizationID)
}

func (b templateBackend) check(organizationID string) error {
	return checkOrganization(b.organizationID, organizationID)
}

type configurationBackend struct {
	provider       ConfigurationProvider
	organizationID string
}

func (b configurationBackend) List(ctx context.Context, organizationID string) ([]domains.Configuration, error) {
	if err := checkOrganization(b.organizationID, organizationID); err != nil {
		return nil, err
	}
	return b.provider.ListConfigurations(ctx, organizationID)
}

func (b configurationBackend) Create(ctx context.Context, draft domains.ConfigurationCreate) (domains.Configuration, error) {
	draft.OrganizationID = b.organizationID
	return b.provider.CreateConfiguration(ctx, draft)
}

func (b configurationBackend) Update(ctx context.Context, id string, patch domains.ConfigurationUpdate) (domains.Configuration, error) {
	return b.provider.UpdateConfiguration(ctx, id, b.organizationID, patch)
}

func (b configurationBackend) Delete(ctx context.Context, id, organizationID string) error {
	if err := checkOrganization(b.organizationID, organizationID); err != nil {
		return err
	}
	return b.provider.DeleteConfiguration(ctx, id, organizationID)
}

func checkOrganization(want, got string) error {
	if want != got {
		return fmt.Errorf("organization %q outside workspace %q: %w", got, want, storage.ErrNotFound)
	}
	return nil
}
