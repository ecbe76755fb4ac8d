package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/storage"
	"github.com/sofs91/InspectWise3.0/internal/store"
)

type TemplateService struct {
	workspaces Workspaces
}

func NewTemplateService(workspaces Workspaces) *TemplateService {
	return &TemplateService{
		workspaces: workspaces,
	}
}

func (h *TemplateService) List(ctx context.Context, organizationID string) (store.State[domains.Template], error) {
	ws, err := openWorkspace(ctx, h.workspaces, organizationID)
	if err != nil {
		return store.State[domains.Template]{}, err
	}
	return ws.Templates.Snapshot(), nil
}

func (h *TemplateService) Get(ctx context.Context, organizationID, id string) (domains.Template, error) {
	ws, err := openWorkspace(ctx, h.workspaces, organizationID)
	if err != nil {
		return domains.Template{}, err
	}
	template, ok := ws.Templates.Get(id)
	if !ok {
		return domains.Template{}, ErrTemplateNotFound
	}
	return template, nil
}

func (h *TemplateService) Create(ctx context.Context, organizationID string, draft domains.TemplateCreate) (domains.Template, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		return domains.Template{}, invalid("template name is required")
	}
	questions, err := domains.NormalizeQuestions(draft.Questions)
	if err != nil {
		return domains.Template{}, invalid("%v", err)
	}
	draft.Questions = questions
	draft.OrganizationID = organizationID

	ws, err := openWorkspace(ctx, h.workspaces, organizationID)
	if err != nil {
		return domains.Template{}, err
	}
	created, err := ws.Templates.Add(ctx, draft)
	if err != nil {
		return domains.Template{}, err
	}
	slog.Info("template created", "organization_id", organizationID, "id", created.ID)
	return created, nil
}

func (h *TemplateService) Update(ctx context.Context, organizationID, id string, patch domains.TemplateUpdate) (domains.Template, error) {
	if !validID(id) {
		return domains.Template{}, ErrTemplateNotFound
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return domains.Template{}, invalid("template name is required")
		}
		patch.Name = &name
	}
	if patch.Questions != nil {
		questions, err := domains.NormalizeQuestions(patch.Questions)
		if err != nil {
			return domains.Template{}, invalid("%v", err)
		}
		patch.Questions = questions
	}

	ws, err := openWorkspace(ctx, h.workspaces, organizationID)
	if err != nil {
		return domains.Template{}, err
	}
	updated, err := ws.Templates.Update(ctx, id, patch)
	if errors.Is(err, storage.ErrNotFound) {
		return domains.Template{}, ErrTemplateNotFound
	}
	return updated, err
}

func (h *TemplateService) Delete(ctx context.Context, organizationID, id string) error {
	if !validID(id) {
		return ErrTemplateNotFound
	}
	ws, err := openWorkspace(ctx, h.workspaces, organizationID)
	if err != nil {
		return err
	}
	return ws.Templates.Delete(ctx, id, organizationID)
}
