package user

import (
	"credit-engine/internal/pkg/apperrors"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppUser(t *testing.T) {
	customerID := uuid.New()

	t.Run("hashes the password and trims the username", func(t *testing.T) {
		u, err := NewAppUser("  jane  ", "s3cret-pass", RoleCustomer, &customerID)

		require.NoError(t, err)
		assert.Equal(t, "jane", u.Username)
		assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
		assert.True(t, u.CheckPassword("s3cret-pass"))
		assert.False(t, u.CheckPassword("wrong-pass"))
		assert.Equal(t, customerID, *u.CustomerID)
	})

	t.Run("admins need no customer", func(t *testing.T) {
		u, err := NewAppUser("root", "administrator", RoleAdmin, nil)

		require.NoError(t, err)
		assert.Nil(t, u.CustomerID)
	})

	tests := []struct {
		name       string
		username   string
		password   string
		role       Role
		customerID *uuid.UUID
		field      string
	}{
		{"empty username", " ", "longenough", RoleAdmin, nil, "username"},
		{"short password", "bob", "short", RoleAdmin, nil, "password"},
		{"unknown role", "bob", "longenough", Role("AUDITOR"), nil, "role"},
		{"customer without link", "bob", "longenough", RoleCustomer, nil, "customerId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAppUser(tt.username, tt.password, tt.role, tt.customerID)

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			var vErr *apperrors.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}
