package handler

import (
	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/domain/user"
	"credit-engine/internal/pkg/apperrors"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError

	switch {
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		status, message = http.StatusForbidden, "You are not allowed to access this resource."
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.Is(err, apperrors.ErrAlreadyExists), errors.Is(err, apperrors.ErrConflict):
		status, message = http.StatusConflict, "The resource was changed by another request."
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			message = "Resource already exists."
		}
	case errors.Is(err, apperrors.ErrBusinessRule):
		status, message = http.StatusUnprocessableEntity, err.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	respondJSON(w, status, dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	})
}

func uuidFromURL(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return uuid.Nil, apperrors.NewValidationError(param, param+" not found in URL path")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError(param, fmt.Sprintf("invalid %s format: %s", param, raw))
	}
	return id, nil
}

// authorizeCustomer checks that the caller may see data owned by customerID.
func authorizeCustomer(r *http.Request, customerID uuid.UUID) error {
	claims, ok := user.PrincipalFrom(r.Context())
	if !ok {
		return fmt.Errorf("%w: no authenticated principal", apperrors.ErrUnauthorized)
	}
	if !claims.CanAccessCustomer(customerID) {
		return fmt.Errorf("%w: %s may not access customer %s", apperrors.ErrForbidden, claims.Subject, customerID)
	}
	return nil
}
