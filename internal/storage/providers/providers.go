package providers

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sofs91/InspectWise3.0/internal/storage"
)

type Providers struct {
	AuthProvider          *AuthProvider
	ProfileProvider       *ProfileProvider
	OrganizationProvider  *OrganizationProvider
	TemplateProvider      *TemplateProvider
	ConfigurationProvider *ConfigurationProvider
}

func New(db *pgxpool.Pool) *Providers {
	return &Providers{
		AuthProvider:          NewAuthProvider(db),
		ProfileProvider:       NewProfileProvider(db),
		OrganizationProvider:  NewOrganizationProvider(db),
		TemplateProvider:      NewTemplateProvider(db),
		ConfigurationProvider: NewConfigurationProvider(db),
	}
}

const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

// mapError translates pgx errors into storage sentinels, keeping the original in the chain.
func mapError(op string, err error, onConflict error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w", op, onConflict)
		case invalidTextRepresentation:
			// a malformed uuid names no row
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
