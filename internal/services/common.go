package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/apierr"
	"github.com/medtrace/pathlab-backend/internal/repos"
	"github.com/medtrace/pathlab-backend/internal/types"
)

// UserRef is the user shape carried in responses and event payloads.
type UserRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func userToRef(u *types.AppUser) *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{
		ID:        u.ID.String(),
		Name:      u.DisplayName(),
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}

func lookupRef(ctx context.Context, tx *gorm.DB, userRepo repos.UserRepo, id *uuid.UUID) *UserRef {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	user, err := userRepo.GetByID(ctx, tx, *id)
	if err != nil {
		return nil
	}
	return userToRef(user)
}

// refPayload renders user refs for event metadata, in the order given.
func refPayload(users []*types.AppUser) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(users))
	for _, u := range users {
		out = append(out, map[string]interface{}{
			"id":   u.ID.String(),
			"name": u.DisplayName(),
		})
	}
	return out
}

// requireTenantUsers validates that every id belongs to the tenant, failing
// fast with the first offending id. Reconciliation relies on this running
// before any diff is applied.
func requireTenantUsers(ctx context.Context, tx *gorm.DB, userRepo repos.UserRepo, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*types.AppUser, error) {
	users, err := userRepo.ListInTenant(ctx, tx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*types.AppUser, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, apierr.Validation("user %s not found in tenant", id)
		}
	}
	return byID, nil
}

func mapNotFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound(format, args...)
	}
	return err
}
