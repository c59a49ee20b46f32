package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const customerColumns = `id, name, surname, credit_limit, used_credit_limit, created_at, updated_at`

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.String("customerID", cust.ID.String()))

	query := `
        INSERT INTO customers (id, name, surname, credit_limit, used_credit_limit, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING created_at, updated_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		cust.ID,
		cust.Name,
		cust.Surname,
		cust.CreditLimit,
		cust.UsedCreditLimit,
	).Scan(&cust.CreatedAt, &cust.UpdatedAt)
	monitoring.RecordDBQuery("InsertCustomer", queryStatus(err), time.Since(start))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return translateDBError(err, customer.ErrNotFound, r.logger)
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.String("customerID", cust.ID.String()))
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID uuid.UUID) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	start := time.Now()
	cust, err := scanCustomer(r.db.QueryRow(ctx, query, customerID))
	monitoring.RecordDBQuery("FindCustomerByID", queryStatus(err), time.Since(start))

	if err != nil {
		r.logger.WarnContext(ctx, "Failed to find customer by ID", slog.String("customerID", customerID.String()), slog.Any("error", err))
		return nil, translateDBError(err, customer.ErrNotFound, r.logger)
	}
	return cust, nil
}

func (r *CustomerRepository) FindByIDForUpdateInTx(ctx context.Context, tx pgx.Tx, customerID uuid.UUID) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 FOR UPDATE`

	start := time.Now()
	cust, err := scanCustomer(tx.QueryRow(ctx, query, customerID))
	monitoring.RecordDBQuery("LockCustomer", queryStatus(err), time.Since(start))

	if err != nil {
		r.logger.WarnContext(ctx, "Failed to lock customer", slog.String("customerID", customerID.String()), slog.Any("error", err))
		return nil, translateDBError(err, customer.ErrNotFound, r.logger)
	}
	return cust, nil
}

func (r *CustomerRepository) UpdateUsedCreditInTx(ctx context.Context, tx pgx.Tx, cust *customer.Customer) error {
	query := `
        UPDATE customers
        SET used_credit_limit = $1, updated_at = NOW()
        WHERE id = $2`

	start := time.Now()
	cmdTag, err := tx.Exec(ctx, query, cust.UsedCreditLimit, cust.ID)
	monitoring.RecordDBQuery("UpdateUsedCredit", queryStatus(err), time.Since(start))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update used credit", slog.String("customerID", cust.ID.String()), slog.Any("error", err))
		return translateDBError(err, customer.ErrNotFound, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Update affected zero rows, customer likely not found", slog.String("customerID", cust.ID.String()))
		return customer.ErrNotFound
	}
	return nil
}

func scanCustomer(row rowScanner) (*customer.Customer, error) {
	var cust customer.Customer
	err := row.Scan(
		&cust.ID,
		&cust.Name,
		&cust.Surname,
		&cust.CreditLimit,
		&cust.UsedCreditLimit,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}
