package handler

import (
	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/user"
	"credit-engine/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

type CustomerHandler struct {
	service customer.CustomerService
	auth    user.AuthService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, auth user.AuthService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		auth:    auth,
		logger:  l.With("component", "CustomerHandler"),
	}
}

// CreateCustomer handles POST /customers
// @Summary Create a new customer
// @Description Creates a customer with a credit limit. When username and password are supplied a CUSTOMER login bound to the new record is created as well.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer creation request"
// @Success 201 {object} dto.CustomerResponse "Customer successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an admin"
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Failure 500 {object} dto.ErrorResponse "Internal server error during creation"
// @Router /customers [post]
// @Security BearerAuth
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create customer request")

	var req dto.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if req.WantsLogin() && h.auth == nil {
		respondError(w, fmt.Errorf("%w: customer logins are not enabled", apperrors.ErrInvalidArgument))
		return
	}

	createdCustomer, err := h.service.CreateNewCustomer(r.Context(), req.Name, req.Surname, req.CreditLimit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to create customer", slog.Any("error", err))
		respondError(w, err)
		return
	}
	resp := dto.NewCustomerResponse(createdCustomer)

	if req.WantsLogin() {
		// The customer row is already committed; a failed login leaves it without credentials.
		login, err := h.auth.Register(r.Context(), req.Username, req.Password, user.RoleCustomer, &createdCustomer.ID)
		if err != nil {
			h.logger.WarnContext(r.Context(), "Customer created but login registration failed",
				slog.String("customerID", resp.ID), slog.Any("error", err))
			respondError(w, err)
			return
		}
		resp.Username = login.Username
	}

	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.String("customerID", resp.ID))
	respondJSON(w, http.StatusCreated, resp)
}

// GetCustomer handles GET /customers/{customerID}
// @Summary Retrieve customer details
// @Description Returns the customer's credit limit, used and available credit. Customers may only read their own record.
// @Tags Customers
// @Produce json
// @Param customerID path string true "Customer ID" Format(uuid)
// @Success 200 {object} dto.CustomerResponse "Customer details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own this customer"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [get]
// @Security BearerAuth
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuidFromURL(r, "customerID")
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}
	if err := authorizeCustomer(r, customerID); err != nil {
		h.logger.WarnContext(r.Context(), "Customer access denied", slog.Any("error", err))
		respondError(w, err)
		return
	}

	domainCustomer, err := h.service.GetCustomer(r.Context(), customerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, customer.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(domainCustomer))
}
