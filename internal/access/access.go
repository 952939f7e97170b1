// Package access decides whether an actor may act on a recipient, message,
// mailing or sending attempt.
package access

import (
	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/pkg/errors"
)

const deniedMessage = "you do not have permission to perform this action"

// Actor is the authenticated user as seen by access checks.
type Actor struct {
	ID          uuid.UUID
	Email       string
	Superuser   bool
	Roles       []string
	Permissions map[string]struct{}
}

func NewActor(id uuid.UUID, email string, superuser bool, roles, permissions []string) *Actor {
	a := &Actor{
		ID:          id,
		Email:       email,
		Superuser:   superuser,
		Roles:       roles,
		Permissions: make(map[string]struct{}, len(permissions)),
	}
	for _, p := range permissions {
		a.Permissions[p] = struct{}{}
	}
	return a
}

// Elevated reports whether the actor is a superuser or belongs to any role.
func (a *Actor) Elevated() bool {
	return a != nil && (a.Superuser || len(a.Roles) > 0)
}

// HasPermission is true for superusers and for holders of the named permission.
func (a *Actor) HasPermission(permission string) bool {
	if a == nil {
		return false
	}
	if a.Superuser {
		return true
	}
	_, ok := a.Permissions[permission]
	return ok
}

// Target is one of *model.Recipient, *model.Message, *model.Mailing or
// *model.SendingAttempt. Any other value is denied.
type Target interface {
	Owner() *uuid.UUID
}

func ownerOf(target Target) (owner *uuid.UUID, known bool) {
	switch t := target.(type) {
	case *model.Recipient:
		if t != nil {
			return t.Owner(), true
		}
	case *model.Message:
		if t != nil {
			return t.Owner(), true
		}
	case *model.Mailing:
		if t != nil {
			return t.Owner(), true
		}
	case *model.SendingAttempt:
		if t != nil {
			return t.Owner(), true
		}
	}
	return nil, false
}

// CanAccess applies, in order: owner allow, orphan allow for non-elevated
// actors, then the permission check. An empty permission denies.
func CanAccess(actor *Actor, target Target, permission string) bool {
	if actor == nil || target == nil {
		return false
	}
	owner, known := ownerOf(target)
	if !known {
		return false
	}
	if owner != nil && *owner == actor.ID {
		return true
	}
	if owner == nil && !actor.Elevated() {
		return true
	}
	if permission != "" {
		return actor.HasPermission(permission)
	}
	return false
}

func Authorize(actor *Actor, target Target, permission string) error {
	if !CanAccess(actor, target, permission) {
		return errors.Forbidden(deniedMessage)
	}
	return nil
}

// CanCreate lets ordinary users create freely; elevated actors need the add permission.
func CanCreate(actor *Actor, permission string) bool {
	if actor == nil {
		return false
	}
	if !actor.Elevated() {
		return true
	}
	return actor.HasPermission(permission)
}

func AuthorizeCreate(actor *Actor, permission string) error {
	if !CanCreate(actor, permission) {
		return errors.Forbidden(deniedMessage)
	}
	return nil
}

// ListScope returns the filter for list queries: everything for holders of
// the view permission, the actor's own records otherwise. Non-elevated
// actors also see orphaned records, matching CanAccess.
func ListScope(actor *Actor, viewPermission string) model.ListFilter {
	if actor.HasPermission(viewPermission) {
		return model.ListFilter{}
	}
	if actor == nil {
		id := uuid.Nil
		return model.ListFilter{OwnerID: &id}
	}
	id := actor.ID
	return model.ListFilter{OwnerID: &id, IncludeOrphans: !actor.Elevated()}
}
