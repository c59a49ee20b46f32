package user

import (
	"credit-engine/internal/pkg/apperrors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

const minPasswordLength = 8

// AppUser is a login identity. Customer users are bound to exactly one customer record.
type AppUser struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Role         Role
	CustomerID   *uuid.UUID
	CreatedAt    time.Time
}

func NewAppUser(username, password string, role Role, customerID *uuid.UUID) (*AppUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.NewValidationError("username", "username cannot be empty")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("role", fmt.Sprintf("unknown role %q", role))
	}
	if role == RoleCustomer && customerID == nil {
		return nil, apperrors.NewValidationError("customerId", "customer users must be linked to a customer")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hashing password: %w", apperrors.ErrInternalServer, err)
	}

	return &AppUser{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CustomerID:   customerID,
		CreatedAt:    time.Now(),
	}, nil
}

func (u *AppUser) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
