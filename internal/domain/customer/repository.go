package customer

import (
	"context"
	"credit-engine/internal/pkg/apperrors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound = fmt.Errorf("%w: customer not found", apperrors.ErrNotFound)

	ErrInsufficientCreditLimit = fmt.Errorf("%w: insufficient credit limit", apperrors.ErrBusinessRule)
)

type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID uuid.UUID) (*Customer, error)

	FindByIDForUpdateInTx(ctx context.Context, tx pgx.Tx, customerID uuid.UUID) (*Customer, error)

	UpdateUsedCreditInTx(ctx context.Context, tx pgx.Tx, customer *Customer) error
}
