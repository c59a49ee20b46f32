package customer

import (
	"context"
	"credit-engine/internal/event"
	"credit-engine/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const customerNotFound = "Customer not found by repository"

type CustomerService interface {
	CreateNewCustomer(ctx context.Context, name, surname string, creditLimit decimal.Decimal) (*Customer, error)
	GetCustomer(ctx context.Context, customerID uuid.UUID) (*Customer, error)
	// ReserveCredit locks the customer row in tx and books amount against the credit limit.
	ReserveCredit(ctx context.Context, tx pgx.Tx, customerID uuid.UUID, amount decimal.Decimal) (*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, publisher event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}
	if publisher == nil {
		publisher = event.NoopPublisher{}
	}

	return &customerService{
		repo:   repo,
		pub:    publisher,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) CreateNewCustomer(ctx context.Context, name, surname string, creditLimit decimal.Decimal) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to create new customer")

	name = strings.TrimSpace(name)
	surname = strings.TrimSpace(surname)
	if name == "" {
		s.logger.WarnContext(ctx, "Validation failed: name is empty")
		return nil, apperrors.NewValidationError("name", "customer name cannot be empty")
	}
	if surname == "" {
		s.logger.WarnContext(ctx, "Validation failed: surname is empty")
		return nil, apperrors.NewValidationError("surname", "customer surname cannot be empty")
	}
	if creditLimit.IsNegative() {
		s.logger.WarnContext(ctx, "Validation failed: negative credit limit", slog.String("creditLimit", creditLimit.String()))
		return nil, apperrors.NewValidationError("creditLimit", "credit limit cannot be negative")
	}
	if !creditLimit.Equal(creditLimit.Round(2)) {
		s.logger.WarnContext(ctx, "Validation failed: credit limit below cent precision", slog.String("creditLimit", creditLimit.String()))
		return nil, apperrors.NewValidationError("creditLimit", "credit limit cannot have more than 2 decimal places")
	}

	customer := NewCustomer(name, surname, creditLimit)
	logCtx := s.logger.With(slog.String("customerID", customer.ID.String()))

	if err := s.repo.Save(ctx, customer); err != nil {
		logCtx.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	createdEvent := event.CustomerCreatedEvent{
		CustomerID:  customer.ID,
		Name:        customer.Name,
		Surname:     customer.Surname,
		CreditLimit: customer.CreditLimit,
		Timestamp:   time.Now(),
	}
	if pubErr := s.pub.PublishCustomerCreated(ctx, createdEvent); pubErr != nil {
		logCtx.ErrorContext(ctx, "Customer created, but FAILED to publish creation event", slog.Any("error", pubErr))
	}

	logCtx.InfoContext(ctx, "Successfully created new customer")
	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID uuid.UUID) (*Customer, error) {
	logCtx := s.logger.With(slog.String("customerID", customerID.String()))
	logCtx.InfoContext(ctx, "Attempting to get customer by ID")

	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, customerNotFound)
			return nil, ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %s: %w", customerID, err)
	}

	return customer, nil
}

func (s *customerService) ReserveCredit(ctx context.Context, tx pgx.Tx, customerID uuid.UUID, amount decimal.Decimal) (*Customer, error) {
	logCtx := s.logger.With(slog.String("customerID", customerID.String()), slog.String("amount", amount.String()))
	logCtx.InfoContext(ctx, "Attempting to reserve credit")

	customer, err := s.repo.FindByIDForUpdateInTx(ctx, tx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, customerNotFound)
			return nil, ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Repository error locking customer", slog.Any("error", err))
		return nil, fmt.Errorf("cannot load customer %s to reserve credit: %w", customerID, err)
	}

	if err := customer.Reserve(amount); err != nil {
		logCtx.WarnContext(ctx, "Credit reservation refused",
			slog.String("creditLimit", customer.CreditLimit.String()),
			slog.String("usedCreditLimit", customer.UsedCreditLimit.String()),
			slog.Any("error", err))
		return nil, err
	}

	if err := s.repo.UpdateUsedCreditInTx(ctx, tx, customer); err != nil {
		logCtx.ErrorContext(ctx, "Repository failed to persist used credit", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save used credit for customer %s: %w", customerID, err)
	}

	logCtx.InfoContext(ctx, "Credit reserved", slog.String("usedCreditLimit", customer.UsedCreditLimit.String()))
	return customer, nil
}
