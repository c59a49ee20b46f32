package handler

import (
	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/domain/user"
	"credit-engine/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

// CreateLoan issues a loan against a customer's credit limit.
//
// @Summary Create a new loan
// @Description Reserves the principal from the customer's available credit and generates equal monthly installments starting on the first day of next month.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.CreateLoanRequest true "Loan creation request payload"
// @Success 201 {object} dto.CreateLoanResponse "Loan successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid amount, interest rate or installment count"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 422 {object} dto.ErrorResponse "Insufficient credit limit"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [post]
// @Security BearerAuth
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, apperrors.NewValidationError("customerId", err.Error()))
		return
	}

	created, err := h.service.CreateLoan(r.Context(), req.CustomerID, req.Amount, req.InterestRate, req.NumberOfInstallments)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewCreateLoanResponse(created))
}

// ListLoans lists a customer's loans.
//
// @Summary List loans of a customer
// @Description Lists loans for customerId, optionally filtered by installment count and paid status. Customers may omit customerId to list their own loans.
// @Tags Loans
// @Produce json
// @Param customerId query string false "Customer ID (required for admins)" Format(uuid)
// @Param numberOfInstallments query int false "Filter by installment count"
// @Param isPaid query bool false "Filter by paid status"
// @Success 200 {array} dto.LoanResponse "Loans of the customer"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own this customer"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [get]
// @Security BearerAuth
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	customerID, err := h.customerFromQuery(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := authorizeCustomer(r, customerID); err != nil {
		h.logger.WarnContext(r.Context(), "Loan listing denied", slog.Any("error", err))
		respondError(w, err)
		return
	}

	filter, err := parseListFilter(r)
	if err != nil {
		respondError(w, err)
		return
	}

	loans, err := h.service.ListLoans(r.Context(), customerID, filter)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanListResponse(loans))
}

// ListInstallments returns the repayment schedule of a loan.
//
// @Summary List installments of a loan
// @Description Returns every installment of the loan ordered by due date.
// @Tags Loans
// @Produce json
// @Param loanID path string true "Loan ID" Format(uuid)
// @Success 200 {array} dto.InstallmentResponse "Installments of the loan"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own this loan"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/installments [get]
// @Security BearerAuth
func (h *LoanHandler) ListInstallments(w http.ResponseWriter, r *http.Request) {
	loanID, ok := h.authorizedLoan(w, r)
	if !ok {
		return
	}

	installments, err := h.service.ListInstallments(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewInstallmentListResponse(installments))
}

// PayLoan pays as many installments as the amount covers.
//
// @Summary Pay loan installments
// @Description Pays unpaid installments due within the next three calendar months, earliest first, as long as the remaining amount covers a whole installment. Early payments earn a discount and late payments a penalty of 0.001 per day.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path string true "Loan ID" Format(uuid)
// @Param request body dto.PayLoanRequest true "Payment request payload"
// @Success 200 {object} dto.PaymentResponse "Payment processed"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID or amount"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own this loan"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Installment was paid concurrently"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/pay [post]
// @Security BearerAuth
func (h *LoanHandler) PayLoan(w http.ResponseWriter, r *http.Request) {
	loanID, ok := h.authorizedLoan(w, r)
	if !ok {
		return
	}

	var req dto.PayLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	settlement, err := h.service.PayInstallments(r.Context(), loanID, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPaymentResponse(settlement))
}

// authorizedLoan resolves the loan in the path and checks the caller owns it. It writes the
// error response itself and reports false when the request must stop.
func (h *LoanHandler) authorizedLoan(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	loanID, err := uuidFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return uuid.Nil, false
	}

	l, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return uuid.Nil, false
	}
	if err := authorizeCustomer(r, l.CustomerID); err != nil {
		h.logger.WarnContext(r.Context(), "Loan access denied", slog.String("loanID", loanID.String()), slog.Any("error", err))
		respondError(w, err)
		return uuid.Nil, false
	}
	return loanID, true
}

func (h *LoanHandler) customerFromQuery(r *http.Request) (uuid.UUID, error) {
	raw := r.URL.Query().Get("customerId")
	if raw == "" {
		if claims, ok := user.PrincipalFrom(r.Context()); ok && claims.CustomerID != nil && !claims.IsAdmin() {
			return *claims.CustomerID, nil
		}
		return uuid.Nil, apperrors.NewValidationError("customerId", "customerId query parameter is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError("customerId", fmt.Sprintf("invalid customerId format: %s", raw))
	}
	return id, nil
}

func parseListFilter(r *http.Request) (loan.ListFilter, error) {
	var filter loan.ListFilter
	q := r.URL.Query()

	if raw := q.Get("numberOfInstallments"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, apperrors.NewValidationError("numberOfInstallments", fmt.Sprintf("invalid numberOfInstallments: %s", raw))
		}
		filter.NumberOfInstallments = &n
	}
	if raw := q.Get("isPaid"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, apperrors.NewValidationError("isPaid", fmt.Sprintf("invalid isPaid: %s", raw))
		}
		filter.IsPaid = &b
	}
	return filter, nil
}
