package providers

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/storage"
)

type AuthProvider struct {
	db *pgxpool.Pool
}

func NewAuthProvider(pg *pgxpool.Pool) *AuthProvider {
	return &AuthProvider{
		db: pg,
	}
}

const accountColumns = `id, email, full_name, organization_id, role, passhash, created_at, updated_at`

func (s *AuthProvider) SaveUser(ctx context.Context, passHash string, user domains.Registration) (domains.UserProfile, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domains.UserProfile{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
        INSERT INTO profiles (email, full_name, role, passhash)
        VALUES ($1, $2, $3, $4)
        RETURNING `+accountColumns, user.Email, user.FullName, domains.RoleUser, passHash)
	if err != nil {
		return domains.UserProfile{}, mapError("insert profile", err, storage.ErrUserExist)
	}
	account, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.Account])
	if err != nil {
		return domains.UserProfile{}, mapError("insert profile", err, storage.ErrUserExist)
	}
	if err := tx.Commit(ctx); err != nil {
		return domains.UserProfile{}, fmt.Errorf("commit: %w", err)
	}
	return account.UserProfile, nil
}

func (s *AuthProvider) GetUserByEmail(ctx context.Context, email string) (domains.Account, error) {
	return s.getAccount(ctx, `lower(email) = lower($1)`, email)
}

func (s *AuthProvider) GetUserByID(ctx context.Context, id string) (domains.Account, error) {
	return s.getAccount(ctx, `id = $1`, id)
}

func (s *AuthProvider) getAccount(ctx context.Context, where string, arg string) (domains.Account, error) {
	rows, err := s.db.Query(ctx, `SELECT `+accountColumns+` FROM profiles WHERE `+where, arg)
	if err != nil {
		return domains.Account{}, mapError("get profile", err, storage.ErrConflict)
	}
	account, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.Account])
	if err != nil {
		return domains.Account{}, mapError("get profile", err, storage.ErrConflict)
	}
	return account, nil
}

func (s *AuthProvider) UpdatePassword(ctx context.Context, id string, passHash string) error {
	tag, err := s.db.Exec(ctx, `UPDATE profiles SET passhash = $1, updated_at = NOW() WHERE id = $2`, passHash, id)
	if err != nil {
		return mapError("update password", err, storage.ErrConflict)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}
