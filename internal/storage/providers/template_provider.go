package providers

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/storage"
)

type TemplateProvider struct {
	db *pgxpool.Pool
}

func NewTemplateProvider(pg *pgxpool.Pool) *TemplateProvider {
	return &TemplateProvider{
		db: pg,
	}
}

const templateColumns = `id, name, organization_id, questions, created_at, updated_at`

func (s *TemplateProvider) ListTemplates(ctx context.Context, organizationID string) ([]domains.Template, error) {
	rows, err := s.db.Query(ctx, `
        SELECT `+templateColumns+`
        FROM templates
        WHERE organization_id = $1
        ORDER BY created_at DESC`, organizationID)
	if err != nil {
		return nil, mapError("list templates", err, storage.ErrConflict)
	}
	templates, err := pgx.CollectRows(rows, pgx.RowToStructByName[domains.Template])
	if err != nil {
		return nil, mapError("list templates", err, storage.ErrConflict)
	}
	return templates, nil
}

func (s *TemplateProvider) CreateTemplate(ctx context.Context, draft domains.TemplateCreate) (domains.Template, error) {
	rows, err := s.db.Query(ctx, `
        INSERT INTO templates (name, organization_id, questions)
        VALUES ($1, $2, $3)
        RETURNING `+templateColumns, draft.Name, draft.OrganizationID, draft.Questions)
	if err != nil {
		return domains.Template{}, mapError("insert template", err, storage.ErrConflict)
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.Template])
	if err != nil {
		return domains.Template{}, mapError("insert template", err, storage.ErrConflict)
	}
	return created, nil
}

func (s *TemplateProvider) UpdateTemplate(ctx context.Context, id, organizationID string, patch domains.TemplateUpdate) (domains.Template, error) {
	var questions any
	if patch.Questions != nil {
		questions = patch.Questions
	}
	rows, err := s.db.Query(ctx, `
        UPDATE templates
        SET
            name = COALESCE($1, name),
            questions = COALESCE($2::jsonb, questions),
            updated_at = NOW()
        WHERE id = $3 AND organization_id = $4
        RETURNING `+templateColumns, patch.Name, questions, id, organizationID)
	if err != nil {
		return domains.Template{}, mapError("update template", err, storage.ErrConflict)
	}
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.Template])
	if err != nil {
		return domains.Template{}, mapError("update template", err, storage.ErrConflict)
	}
	return updated, nil
}

// DeleteTemplate is scoped by organization so a guessed id cannot reach
// another tenant's row. Deleting a missing row is not an error.
func (s *TemplateProvider) DeleteTemplate(ctx context.Context, id, organizationID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM templates WHERE id = $1 AND organization_id = $2`, id, organizationID)
	return mapError("delete template", err, storage.ErrConflict)
}
