package providers

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/storage"
)

type ProfileProvider struct {
	db *pgxpool.Pool
}

func NewProfileProvider(db *pgxpool.Pool) *ProfileProvider {
	return &ProfileProvider{
		db: db,
	}
}

const profileColumns = `id, email, full_name, organization_id, role, created_at, updated_at`

func (u *ProfileProvider) GetProfile(ctx context.Context, id string) (domains.UserProfile, error) {
	rows, err := u.db.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	if err != nil {
		return domains.UserProfile{}, mapError("get profile", err, storage.ErrConflict)
	}
	profile, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.UserProfile])
	if err != nil {
		return domains.UserProfile{}, mapError("get profile", err, storage.ErrConflict)
	}
	return profile, nil
}

func (u *ProfileProvider) ListMembers(ctx context.Context, organizationID string) ([]domains.UserProfile, error) {
	rows, err := u.db.Query(ctx, `
        SELECT `+profileColumns+`
        FROM profiles
        WHERE organization_id = $1
        ORDER BY full_name`, organizationID)
	if err != nil {
		return nil, mapError("list members", err, storage.ErrConflict)
	}
	members, err := pgx.CollectRows(rows, pgx.RowToStructByName[domains.UserProfile])
	if err != nil {
		return nil, mapError("list members", err, storage.ErrConflict)
	}
	return members, nil
}
