// Package auth resolves actor capability within a guild. The platform
// administrator flag is ground truth for admin; moderator capability comes
// from the registered moderator role set, and admin implies moderator.
package auth

import (
	"context"
	"errors"
	"slices"

	"github.com/dsemenov-dev/dutymeter/internal/database"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
)

type Authorizer struct {
	repository domain.ModRoleRepository
	platform   domain.Platform
}

func NewAuthorizer(repository domain.ModRoleRepository, platform domain.Platform) Authorizer {
	return Authorizer{repository: repository, platform: platform}
}

// Resolve returns the capability held by the actor in the guild.
func (a Authorizer) Resolve(ctx context.Context, guildID string, actorID string) (domain.Privilege, error) {
	isAdmin, errAdmin := a.platform.HasAdminPermission(ctx, guildID, actorID)
	if errAdmin != nil {
		return domain.PNone, errors.Join(errAdmin, domain.ErrExternalAction)
	}

	if isAdmin {
		return domain.PAdmin, nil
	}

	modRoles, errRoles := a.repository.Roles(ctx, guildID)
	if errRoles != nil && !errors.Is(errRoles, database.ErrNoResult) {
		return domain.PNone, errRoles
	}

	if len(modRoles) == 0 {
		return domain.PNone, nil
	}

	memberRoles, errMember := a.platform.MemberRoles(ctx, guildID, actorID)
	if errMember != nil {
		return domain.PNone, errors.Join(errMember, domain.ErrExternalAction)
	}

	for _, roleID := range memberRoles {
		if slices.Contains(modRoles, roleID) {
			return domain.PModerator, nil
		}
	}

	return domain.PNone, nil
}

// RequireModerator fails with ErrPermissionDenied before any side effect when
// the actor holds neither moderator nor admin capability.
func (a Authorizer) RequireModerator(ctx context.Context, guildID string, actorID string) error {
	return a.require(ctx, guildID, actorID, domain.PModerator)
}

func (a Authorizer) RequireAdmin(ctx context.Context, guildID string, actorID string) error {
	return a.require(ctx, guildID, actorID, domain.PAdmin)
}

func (a Authorizer) require(ctx context.Context, guildID string, actorID string, level domain.Privilege) error {
	privilege, errResolve := a.Resolve(ctx, guildID, actorID)
	if errResolve != nil {
		return errResolve
	}

	if privilege < level {
		return domain.ErrPermissionDenied
	}

	return nil
}

// RegisterModRole grants moderator capability to a platform role.
func (a Authorizer) RegisterModRole(ctx context.Context, guildID string, roleID string) error {
	return a.repository.Add(ctx, guildID, roleID)
}

func (a Authorizer) UnregisterModRole(ctx context.Context, guildID string, roleID string) error {
	return a.repository.Remove(ctx, guildID, roleID)
}

func (a Authorizer) ModRoles(ctx context.Context, guildID string) ([]string, error) {
	roles, errRoles := a.repository.Roles(ctx, guildID)
	if errRoles != nil && !errors.Is(errRoles, database.ErrNoResult) {
		return nil, errRoles
	}

	return roles, nil
}
