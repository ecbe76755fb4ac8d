package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/storage"
)

type OrganizationProvider interface {
	CreateOrganization(ctx context.Context, name string, userID string) (domains.Organization, error)
	JoinOrganization(ctx context.Context, organizationID string, userID string) error
	GetOrganization(ctx context.Context, id string) (domains.Organization, error)
}

type OrganizationService struct {
	provider OrganizationProvider
	profiles ProfileProvider
}

func NewOrganizationService(provider OrganizationProvider, profiles ProfileProvider) *OrganizationService {
	return &OrganizationService{provider: provider, profiles: profiles}
}

// Create makes a new organization with userID as its admin.
func (s *OrganizationService) Create(ctx context.Context, name string, userID string) (domains.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domains.Organization{}, invalid("organization name is required")
	}
	if err := s.requireUnaffiliated(ctx, userID); err != nil {
		return domains.Organization{}, err
	}

	org, err := s.provider.CreateOrganization(ctx, name, userID)
	if err != nil {
		slog.Error("create organization failed", "user_id", userID, "err", err)
		return domains.Organization{}, err
	}
	slog.Info("organization created", "id", org.ID, "admin", userID)
	return org, nil
}

// Join adds userID to an existing organization as a regular user.
func (s *OrganizationService) Join(ctx context.Context, organizationID string, userID string) error {
	if strings.TrimSpace(organizationID) == "" {
		return invalid("organization id is required")
	}
	if err := s.requireUnaffiliated(ctx, userID); err != nil {
		return err
	}
	err := s.provider.JoinOrganization(ctx, organizationID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrOrganizationNotFound
	}
	if err != nil {
		slog.Error("join organization failed", "organization_id", organizationID, "user_id", userID, "err", err)
		return err
	}
	slog.Info("organization joined", "id", organizationID, "user_id", userID)
	return nil
}

func (s *OrganizationService) Get(ctx context.Context, id string) (domains.Organization, error) {
	org, err := s.provider.GetOrganization(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return domains.Organization{}, ErrOrganizationNotFound
	}
	return org, err
}

func (s *OrganizationService) requireUnaffiliated(ctx context.Context, userID string) error {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if profile.OrganizationID != nil {
		return ErrAlreadyInOrganization
	}
	return nil
}
