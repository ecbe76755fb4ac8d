package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sofs91/InspectWise3.0/internal/workspace"
)

// Workspaces resolves an organization's caches.
type Workspaces interface {
	Get(ctx context.Context, organizationID string) (*workspace.Workspace, error)
}

func openWorkspace(ctx context.Context, workspaces Workspaces, organizationID string) (*workspace.Workspace, error) {
	if organizationID == "" {
		return nil, ErrNoOrganization
	}
	ws, err := workspaces.Get(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("open workspace: %w", err)
	}
	return ws, nil
}

// validID reports whether id can name a stored row. Anything else cannot
// exist and is answered as not found without touching the store.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
