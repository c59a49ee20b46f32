package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/user"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"
)

type UserRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(db DBPool, logger *slog.Logger) *UserRepository {
	if db == nil {
		panic("DBPool cannot be nil for UserRepository")
	}
	return &UserRepository{
		db:     db,
		logger: logger.With("component", "UserRepository"),
	}
}

func (r *UserRepository) Save(ctx context.Context, u *user.AppUser) error {
	if u == nil {
		return fmt.Errorf("%w: user cannot be nil", apperrors.ErrInvalidArgument)
	}

	query := `
        INSERT INTO app_users (id, username, password_hash, role, customer_id, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING created_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query, u.ID, u.Username, u.PasswordHash, string(u.Role), u.CustomerID).Scan(&u.CreatedAt)
	monitoring.RecordDBQuery("InsertUser", queryStatus(err), time.Since(start))

	if err != nil {
		r.logger.WarnContext(ctx, "Failed to insert user", slog.String("username", u.Username), slog.Any("error", err))
		return translateDBError(err, user.ErrUserNotFound, r.logger)
	}
	return nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.AppUser, error) {
	query := `SELECT id, username, password_hash, role, customer_id, created_at FROM app_users WHERE username = $1`

	var (
		u    user.AppUser
		role string
	)
	start := time.Now()
	err := r.db.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.CustomerID, &u.CreatedAt)
	monitoring.RecordDBQuery("FindUserByUsername", queryStatus(err), time.Since(start))

	if err != nil {
		return nil, translateDBError(err, user.ErrUserNotFound, r.logger)
	}
	u.Role = user.Role(role)
	return &u, nil
}
