package handler

import (
	"context"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/domain/user"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateLoan(ctx context.Context, customerID uuid.UUID, principal, interestRate decimal.Decimal, numberOfInstallments int) (*loan.CreatedLoan, error) {
	args := m.Called(ctx, customerID, principal, interestRate, numberOfInstallments)
	if created, ok := args.Get(0).(*loan.CreatedLoan); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID uuid.UUID) (*loan.Loan, error) {
	args := m.Called(ctx, loanID)
	if l, ok := args.Get(0).(*loan.Loan); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) ListLoans(ctx context.Context, customerID uuid.UUID, filter loan.ListFilter) ([]loan.Loan, error) {
	args := m.Called(ctx, customerID, filter)
	if loans, ok := args.Get(0).([]loan.Loan); ok {
		return loans, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) ListInstallments(ctx context.Context, loanID uuid.UUID) ([]loan.Installment, error) {
	args := m.Called(ctx, loanID)
	if installments, ok := args.Get(0).([]loan.Installment); ok {
		return installments, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) PayInstallments(ctx context.Context, loanID uuid.UUID, amount decimal.Decimal) (*loan.Settlement, error) {
	args := m.Called(ctx, loanID, amount)
	if s, ok := args.Get(0).(*loan.Settlement); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) OverdueReport(ctx context.Context) (loan.OverdueSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(loan.OverdueSummary), args.Error(1)
}

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) CreateNewCustomer(ctx context.Context, name, surname string, creditLimit decimal.Decimal) (*customer.Customer, error) {
	args := m.Called(ctx, name, surname, creditLimit)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, customerID uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, customerID)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) ReserveCredit(ctx context.Context, tx pgx.Tx, customerID uuid.UUID, amount decimal.Decimal) (*customer.Customer, error) {
	args := m.Called(ctx, tx, customerID, amount)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*user.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if res, ok := args.Get(0).(*user.LoginResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, username, password string, role user.Role, customerID *uuid.UUID) (*user.AppUser, error) {
	args := m.Called(ctx, username, password, role, customerID)
	if u, ok := args.Get(0).(*user.AppUser); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	return m.Called(ctx, username, password).Error(0)
}

func adminPrincipal() *user.Claims {
	return &user.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "admin"},
		Role:             user.RoleAdmin,
	}
}

func customerPrincipal(customerID uuid.UUID) *user.Claims {
	return &user.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "ada"},
		Role:             user.RoleCustomer,
		CustomerID:       &customerID,
	}
}

// withRequest attaches the principal and chi URL params (key, value pairs) to r.
func withRequest(r *http.Request, principal *user.Claims, params ...string) *http.Request {
	ctx := r.Context()
	if principal != nil {
		ctx = user.WithPrincipal(ctx, principal)
	}
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

func decimalEq(s string) any {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}
