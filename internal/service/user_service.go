package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/storage"
)

type ProfileService struct {
	provider ProfileProvider
}

type ProfileProvider interface {
	GetProfile(ctx context.Context, id string) (domains.UserProfile, error)
	ListMembers(ctx context.Context, organizationID string) ([]domains.UserProfile, error)
}

func NewProfileService(provider ProfileProvider) *ProfileService {
	return &ProfileService{
		provider: provider,
	}
}

func (u *ProfileService) Profile(ctx context.Context, id string) (domains.UserProfile, error) {
	profile, err := u.provider.GetProfile(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return domains.UserProfile{}, storage.ErrUserNotFound
	}
	if err != nil {
		return domains.UserProfile{}, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

func (u *ProfileService) Members(ctx context.Context, organizationID string) ([]domains.UserProfile, error) {
	if organizationID == "" {
		return nil, ErrNoOrganization
	}
	members, err := u.provider.ListMembers(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	if members == nil {
		members = []domains.UserProfile{}
	}
	return members, nil
}
