package auth

import "github.com/google/uuid"

// AuthorizeMutation decides whether actor may mutate a resource owned by
// ownerID. Pure comparison: no hierarchy, no admin override, no group
// ownership. Callers must check resource existence before calling this so a
// denied actor cannot learn whether another user's resource exists.
func AuthorizeMutation(ownerID uuid.UUID, actor *User) error {
	if actor == nil || actor.ID == uuid.Nil || ownerID != actor.ID {
		return ErrNotResourceOwner
	}
	return nil
}
