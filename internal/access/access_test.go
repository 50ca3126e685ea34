package access

import (
	"testing"

	"github.com/angelmondragon/tvshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tvshop-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRoleChecker(t *testing.T) {
	checker := NewRoleChecker()
	owner := uuid.New()

	customer := Actor{UserID: owner, Role: enums.RoleCustomer}
	admin := Actor{UserID: uuid.New(), Role: enums.RoleAdmin}
	stranger := Actor{UserID: uuid.New(), Role: enums.RoleCustomer}

	require.False(t, checker.IsAdministrator(customer))
	require.True(t, checker.IsAdministrator(admin))
	require.False(t, checker.IsAdministrator(Actor{Role: enums.RoleAdmin}))

	require.True(t, checker.Owns(owner, customer))
	require.False(t, checker.Owns(owner, stranger))
	require.False(t, checker.Owns(uuid.Nil, Actor{}))
}

func TestEnsureVisible(t *testing.T) {
	checker := NewRoleChecker()
	owner := uuid.New()

	require.NoError(t, EnsureVisible(checker, owner, Actor{UserID: owner, Role: enums.RoleCustomer}, "order"))
	require.NoError(t, EnsureVisible(checker, owner, Actor{UserID: uuid.New(), Role: enums.RoleAdmin}, "order"))

	err := EnsureVisible(checker, owner, Actor{UserID: uuid.New(), Role: enums.RoleCustomer}, "order")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestRequireAdministrator(t *testing.T) {
	checker := NewRoleChecker()

	require.True(t, pkgerrors.Is(RequireAdministrator(checker, Actor{}), pkgerrors.CodeUnauthorized))
	require.True(t, pkgerrors.Is(RequireAdministrator(checker, Actor{UserID: uuid.New(), Role: enums.RoleCustomer}), pkgerrors.CodeForbidden))
	require.NoError(t, RequireAdministrator(checker, Actor{UserID: uuid.New(), Role: enums.RoleAdmin}))
}
