package providers

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/storage"
)

type OrganizationProvider struct {
	db *pgxpool.Pool
}

func NewOrganizationProvider(pg *pgxpool.Pool) *OrganizationProvider {
	return &OrganizationProvider{db: pg}
}

const organizationColumns = `id, name, created_at, updated_at`

// CreateOrganization inserts the organization and makes userID its admin in one transaction.
func (s *OrganizationProvider) CreateOrganization(ctx context.Context, name string, userID string) (domains.Organization, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domains.Organization{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
        INSERT INTO organizations (name) VALUES ($1)
        RETURNING `+organizationColumns, name)
	if err != nil {
		return domains.Organization{}, mapError("insert organization", err, storage.ErrConflict)
	}
	org, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.Organization])
	if err != nil {
		return domains.Organization{}, mapError("insert organization", err, storage.ErrConflict)
	}

	tag, err := tx.Exec(ctx, `
        UPDATE profiles
        SET organization_id = $1, role = $2, updated_at = NOW()
        WHERE id = $3`, org.ID, domains.RoleAdmin, userID)
	if err != nil {
		return domains.Organization{}, mapError("update profile", err, storage.ErrConflict)
	}
	if tag.RowsAffected() == 0 {
		return domains.Organization{}, storage.ErrUserNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return domains.Organization{}, fmt.Errorf("commit: %w", err)
	}
	return org, nil
}

func (s *OrganizationProvider) JoinOrganization(ctx context.Context, organizationID string, userID string) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE profiles
        SET organization_id = o.id, role = $2, updated_at = NOW()
        FROM organizations o
        WHERE o.id = $1 AND profiles.id = $3`, organizationID, domains.RoleUser, userID)
	if err != nil {
		return mapError("join organization", err, storage.ErrConflict)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("join organization: %w", storage.ErrNotFound)
	}
	return nil
}

func (s *OrganizationProvider) GetOrganization(ctx context.Context, id string) (domains.Organization, error) {
	rows, err := s.db.Query(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = $1`, id)
	if err != nil {
		return domains.Organization{}, mapError("get organization", err, storage.ErrConflict)
	}
	org, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.Organization])
	if err != nil {
		return domains.Organization{}, mapError("get organization", err, storage.ErrConflict)
	}
	return org, nil
}
