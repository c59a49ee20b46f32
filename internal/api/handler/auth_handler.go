package handler

import (
	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/domain/user"
	"credit-engine/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"net/http"
)

type AuthHandler struct {
	service user.AuthService
	logger  *slog.Logger
}

func NewAuthHandler(s user.AuthService, l *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: s,
		logger:  l.With("component", "AuthHandler"),
	}
}

// Login exchanges a username and password for a bearer token.
//
// @Summary Log in
// @Description Verifies credentials and returns a signed JWT carrying the user's role and, for customers, the customer id.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse "Token issued"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 401 {object} dto.ErrorResponse "Invalid username or password"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode login request", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	res, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoginResponse(res))
}
