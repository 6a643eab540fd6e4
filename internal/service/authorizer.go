// Package service holds the business rules of the forum: ownership and lock
// checks, reactions and ratings, listings and notification fan-out.
package service

import (
	"context"
	"fmt"

	"wiseadvice/internal/models"
	"wiseadvice/internal/repository"
)

// Authorizer centralizes role and lock checks. Every mutating service method
// goes through it after loading its target.
type Authorizer struct {
	users repository.UserRepository
}

// NewAuthorizer creates an Authorizer that resolves roles through users.
func NewAuthorizer(users repository.UserRepository) *Authorizer {
	return &Authorizer{users: users}
}

// IsAdmin looks up the actor's current role. Unknown users are not admins.
func (a *Authorizer) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin(), nil
}

// RequireOwnerOrAdmin fails with FORBIDDEN unless the actor owns the entity
// or is an admin.
func (a *Authorizer) RequireOwnerOrAdmin(ctx context.Context, actorID, ownerID uint, action string) error {
	if actorID != 0 && actorID == ownerID {
		return nil
	}
	admin, err := a.IsAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError(fmt.Sprintf("You are not allowed to %s", action))
	}
	return nil
}

// RequireAdmin fails with FORBIDDEN for non-admins.
func (a *Authorizer) RequireAdmin(ctx context.Context, actorID uint) error {
	admin, err := a.IsAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError("Admin access required")
	}
	return nil
}

// RequireUnlockedOrAdmin lets admins through a lock.
func (a *Authorizer) RequireUnlockedOrAdmin(ctx context.Context, actorID uint, locked bool, what string) error {
	if !locked {
		return nil
	}
	admin, err := a.IsAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError(fmt.Sprintf("This %s is locked", what))
	}
	return nil
}

// RequireUnlocked rejects any actor, admins included.
func (a *Authorizer) RequireUnlocked(locked bool, what string) error {
	if locked {
		return models.NewForbiddenError(fmt.Sprintf("This %s is locked", what))
	}
	return nil
}
