package postgres

import (
	"context"
	"credit-engine/internal/domain/user"
	"credit-engine/internal/pkg/apperrors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserRepo(t *testing.T) (context.Context, *UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}
	return context.Background(), NewUserRepository(mockPool, logger), mockPool
}

func TestUserRepositorySave(t *testing.T) {
	customerID := uuid.New()
	u := &user.AppUser{ID: uuid.New(), Username: "jane", PasswordHash: "$2a$10$hash", Role: user.RoleCustomer, CustomerID: &customerID}
	query := regexp.QuoteMeta("INSERT INTO app_users (id, username, password_hash, role, customer_id, created_at)")

	t.Run("inserts the user", func(t *testing.T) {
		ctx, repo, mockPool := setupUserRepo(t)
		defer mockPool.Close()
		now := time.Now()

		mockPool.ExpectQuery(query).
			WithArgs(u.ID, u.Username, u.PasswordHash, "CUSTOMER", u.CustomerID).
			WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

		require.NoError(t, repo.Save(ctx, u))
		assert.Equal(t, now, u.CreatedAt)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("duplicate username", func(t *testing.T) {
		ctx, repo, mockPool := setupUserRepo(t)
		defer mockPool.Close()

		mockPool.ExpectQuery(query).
			WithArgs(u.ID, u.Username, u.PasswordHash, "CUSTOMER", u.CustomerID).
			WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "app_users_username_key"})

		err := repo.Save(ctx, u)

		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	})

	t.Run("nil user", func(t *testing.T) {
		ctx, repo, mockPool := setupUserRepo(t)
		defer mockPool.Close()

		assert.ErrorIs(t, repo.Save(ctx, nil), apperrors.ErrInvalidArgument)
	})
}

func TestUserRepositoryFindByUsername(t *testing.T) {
	query := regexp.QuoteMeta("FROM app_users WHERE username = $1")
	columns := []string{"id", "username", "password_hash", "role", "customer_id", "created_at"}

	t.Run("admin without customer", func(t *testing.T) {
		ctx, repo, mockPool := setupUserRepo(t)
		defer mockPool.Close()
		id := uuid.New()

		mockPool.ExpectQuery(query).
			WithArgs("admin").
			WillReturnRows(pgxmock.NewRows(columns).AddRow(id, "admin", "$2a$10$hash", "ADMIN", nil, time.Now()))

		got, err := repo.FindByUsername(ctx, "admin")

		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, user.RoleAdmin, got.Role)
		assert.Nil(t, got.CustomerID)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("customer with link", func(t *testing.T) {
		ctx, repo, mockPool := setupUserRepo(t)
		defer mockPool.Close()
		customerID := uuid.New()

		mockPool.ExpectQuery(query).
			WithArgs("jane").
			WillReturnRows(pgxmock.NewRows(columns).AddRow(uuid.New(), "jane", "$2a$10$hash", "CUSTOMER", &customerID, time.Now()))

		got, err := repo.FindByUsername(ctx, "jane")

		require.NoError(t, err)
		require.NotNil(t, got.CustomerID)
		assert.Equal(t, customerID, *got.CustomerID)
	})

	t.Run("unknown user", func(t *testing.T) {
		ctx, repo, mockPool := setupUserRepo(t)
		defer mockPool.Close()

		mockPool.ExpectQuery(query).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)

		_, err := repo.FindByUsername(ctx, "ghost")

		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}
