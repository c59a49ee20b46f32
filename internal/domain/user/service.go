package user

import (
	"context"
	"credit-engine/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTokenTTL = 24 * time.Hour

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *AppUser
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Register(ctx context.Context, username, password string, role Role, customerID *uuid.UUID) (*AppUser, error)
	// EnsureAdmin creates the admin account unless a user with that name already exists.
	EnsureAdmin(ctx context.Context, username, password string) error
}

var _ AuthService = (*authService)(nil)

type authService struct {
	repo     Repository
	secret   string
	tokenTTL time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

func NewAuthService(repo Repository, secret string, tokenTTL time.Duration, logger *slog.Logger) AuthService {
	if repo == nil {
		panic("user repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &authService{
		repo:     repo,
		secret:   secret,
		tokenTTL: tokenTTL,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "authService")),
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	logCtx := s.logger.With(slog.String("username", username))

	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username", "username and password are required")
	}

	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			logCtx.WarnContext(ctx, "Login attempt for unknown user")
			return nil, ErrInvalidCredentials
		}
		logCtx.ErrorContext(ctx, "Repository error loading user", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !u.CheckPassword(password) {
		logCtx.WarnContext(ctx, "Login attempt with wrong password")
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	token, err := IssueToken(u, s.secret, s.tokenTTL, now)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to sign token", slog.Any("error", err))
		return nil, err
	}

	logCtx.InfoContext(ctx, "User logged in", slog.String("role", string(u.Role)))
	return &LoginResult{Token: token, ExpiresAt: now.Add(s.tokenTTL), User: u}, nil
}

func (s *authService) Register(ctx context.Context, username, password string, role Role, customerID *uuid.UUID) (*AppUser, error) {
	u, err := NewAppUser(username, password, role, customerID)
	if err != nil {
		return nil, err
	}
	logCtx := s.logger.With(slog.String("username", u.Username), slog.String("role", string(role)))

	if err := s.repo.Save(ctx, u); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			logCtx.WarnContext(ctx, "Username already registered")
			return nil, ErrUsernameTaken
		}
		logCtx.ErrorContext(ctx, "Repository failed to save user", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	logCtx.InfoContext(ctx, "User registered", slog.String("userID", u.ID.String()))
	return u, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "Admin user already present", slog.String("username", username))
		return nil
	case !errors.Is(err, ErrUserNotFound):
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	if _, err := s.Register(ctx, username, password, RoleAdmin, nil); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	s.logger.InfoContext(ctx, "Bootstrap admin user created", slog.String("username", username))
	return nil
}
