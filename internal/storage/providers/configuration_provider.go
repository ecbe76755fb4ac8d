package providers

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/storage"
)

type ConfigurationProvider struct {
	db *pgxpool.Pool
}

func NewConfigurationProvider(pg *pgxpool.Pool) *ConfigurationProvider {
	return &ConfigurationProvider{db: pg}
}

const configurationColumns = `id, name, organization_id, options, created_at, updated_at`

func (s *ConfigurationProvider) ListConfigurations(ctx context.Context, organizationID string) ([]domains.Configuration, error) {
	rows, err := s.db.Query(ctx, `
        SELECT `+configurationColumns+`
        FROM configurations
        WHERE organization_id = $1
        ORDER BY created_at DESC`, organizationID)
	if err != nil {
		return nil, mapError("list configurations", err, storage.ErrConflict)
	}
	configurations, err := pgx.CollectRows(rows, pgx.RowToStructByName[domains.Configuration])
	if err != nil {
		return nil, mapError("list configurations", err, storage.ErrConflict)
	}
	return configurations, nil
}

func (s *ConfigurationProvider) CreateConfiguration(ctx context.Context, draft domains.ConfigurationCreate) (domains.Configuration, error) {
	options := draft.Options
	if options == nil {
		options = []string{}
	}
	rows, err := s.db.Query(ctx, `
        INSERT INTO configurations (name, organization_id, options)
        VALUES ($1, $2, $3)
        RETURNING `+configurationColumns, draft.Name, draft.OrganizationID, options)
	if err != nil {
		return domains.Configuration{}, mapError("insert configuration", err, storage.ErrConflict)
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.Configuration])
	if err != nil {
		return domains.Configuration{}, mapError("insert configuration", err, storage.ErrConflict)
	}
	return created, nil
}

func (s *ConfigurationProvider) UpdateConfiguration(ctx context.Context, id, organizationID string, patch domains.ConfigurationUpdate) (domains.Configuration, error) {
	var options any
	if patch.Options != nil {
		options = patch.Options
	}
	rows, err := s.db.Query(ctx, `
        UPDATE configurations
        SET
            name = COALESCE($1, name),
            options = COALESCE($2::text[], options),
            updated_at = NOW()
        WHERE id = $3 AND organization_id = $4
        RETURNING `+configurationColumns, patch.Name, options, id, organizationID)
	if err != nil {
		return domains.Configuration{}, mapError("update configuration", err, storage.ErrConflict)
	}
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.Configuration])
	if err != nil {
		return domains.Configuration{}, mapError("update configuration", err, storage.ErrConflict)
	}
	return updated, nil
}

func (s *ConfigurationProvider) DeleteConfiguration(ctx context.Context, id, organizationID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM configurations WHERE id = $1 AND organization_id = $2`, id, organizationID)
	return mapError("delete configuration", err, storage.ErrConflict)
}
