package access

import (
	"github.com/angelmondragon/tvshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tvshop-backend/pkg/errors"
	"github.com/google/uuid"
)

// Actor is the authenticated caller of a storefront operation.
type Actor struct {
	UserID    uuid.UUID
	Role      enums.Role
	SessionID string
}

// IsAnonymous reports whether no user identity is attached.
func (a Actor) IsAnonymous() bool {
	return a.UserID == uuid.Nil
}

// Checker answers permission questions about an actor.
type Checker interface {
	IsAdministrator(actor Actor) bool
	Owns(ownerID uuid.UUID, actor Actor) bool
}

// RoleChecker grants administration from the token role and ownership from the user id.
type RoleChecker struct{}

// NewRoleChecker returns the token-role backed checker.
func NewRoleChecker() RoleChecker {
	return RoleChecker{}
}

func (RoleChecker) IsAdministrator(actor Actor) bool {
	return !actor.IsAnonymous() && actor.Role == enums.RoleAdmin
}

func (RoleChecker) Owns(ownerID uuid.UUID, actor Actor) bool {
	return !actor.IsAnonymous() && ownerID != uuid.Nil && ownerID == actor.UserID
}

// CanView reports whether the actor may see a record owned by ownerID.
func CanView(checker Checker, ownerID uuid.UUID, actor Actor) bool {
	return checker.IsAdministrator(actor) || checker.Owns(ownerID, actor)
}

// EnsureVisible hides records the actor may not see behind a not found error,
// so callers cannot probe for ids that belong to someone else.
func EnsureVisible(checker Checker, ownerID uuid.UUID, actor Actor, resource string) error {
	if CanView(checker, ownerID, actor) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, resource+" not found")
}

// RequireAdministrator rejects non-admin actors.
func RequireAdministrator(checker Checker, actor Actor) error {
	if actor.IsAnonymous() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if !checker.IsAdministrator(actor) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "administrator role required")
	}
	return nil
}
