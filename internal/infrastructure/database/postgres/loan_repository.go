package postgres

import (
	"context"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

const (
	loanColumns        = `id, customer_id, loan_amount, number_of_installments, interest_rate, create_date, is_paid, updated_at`
	installmentColumns = `id, loan_id, amount, paid_amount, due_date, payment_date, is_paid`
)

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

func (r *LoanRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return tx, nil
}

func (r *LoanRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LoanRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LoanRepository) CreateLoanInTx(ctx context.Context, tx pgx.Tx, newLoan *loan.Loan, installments []loan.Installment) error {
	loanSQL := `
        INSERT INTO loans (id, customer_id, loan_amount, number_of_installments, interest_rate, create_date, is_paid, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        RETURNING updated_at`

	start := time.Now()
	err := tx.QueryRow(ctx, loanSQL,
		newLoan.ID, newLoan.CustomerID, newLoan.LoanAmount, newLoan.NumberOfInstallments.Int(),
		newLoan.InterestRate, newLoan.CreateDate, newLoan.IsPaid,
	).Scan(&newLoan.UpdatedAt)
	monitoring.RecordDBQuery("InsertLoan", queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "error", err)
		return fmt.Errorf("%w: failed to insert loan: %w", apperrors.ErrDatabase, err)
	}
	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", newLoan.ID)

	if len(installments) == 0 {
		return nil
	}

	installmentSQL := `
        INSERT INTO loan_installments (id, loan_id, amount, paid_amount, due_date, payment_date, is_paid)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	batch := &pgx.Batch{}
	for _, inst := range installments {
		batch.Queue(installmentSQL, inst.ID, inst.LoanID, inst.Amount, inst.PaidAmount, inst.DueDate, inst.PaymentDate, inst.IsPaid)
	}

	start = time.Now()
	results := tx.SendBatch(ctx, batch)
	for i := range installments {
		if _, err = results.Exec(); err != nil {
			results.Close()
			monitoring.RecordDBQuery("InsertInstallments", "error", time.Since(start))
			r.logger.ErrorContext(ctx, "Failed executing installment batch insert", "error", err, "entry_index", i, "loan_id", newLoan.ID)
			return fmt.Errorf("%w: failed inserting installment %d: %w", apperrors.ErrDatabase, i+1, err)
		}
	}
	err = results.Close()
	monitoring.RecordDBQuery("InsertInstallments", queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed closing installment batch results", "error", err, "loan_id", newLoan.ID)
		return fmt.Errorf("%w: closing batch results failed: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Loan installments created in DB", "loan_id", newLoan.ID, "num_entries", len(installments))
	return nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID uuid.UUID) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	start := time.Now()
	l, err := scanLoan(r.db.QueryRow(ctx, query, loanID))
	monitoring.RecordDBQuery("GetLoanByID", queryStatus(err), time.Since(start))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
		}
		return nil, translateDBError(err, loan.ErrLoanNotFound, r.logger)
	}
	return l, nil
}

func (r *LoanRepository) GetLoanForUpdateInTx(ctx context.Context, tx pgx.Tx, loanID uuid.UUID) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

	start := time.Now()
	l, err := scanLoan(tx.QueryRow(ctx, query, loanID))
	monitoring.RecordDBQuery("LockLoan", queryStatus(err), time.Since(start))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found for update", "loan_id", loanID)
		}
		return nil, translateDBError(err, loan.ErrLoanNotFound, r.logger)
	}
	return l, nil
}

func (r *LoanRepository) ListLoansByCustomerID(ctx context.Context, customerID uuid.UUID, filter loan.ListFilter) ([]loan.Loan, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1`)
	args := []any{customerID}
	if filter.NumberOfInstallments != nil {
		args = append(args, *filter.NumberOfInstallments)
		fmt.Fprintf(&sb, " AND number_of_installments = $%d", len(args))
	}
	if filter.IsPaid != nil {
		args = append(args, *filter.IsPaid)
		fmt.Fprintf(&sb, " AND is_paid = $%d", len(args))
	}
	sb.WriteString(" ORDER BY create_date ASC, id ASC")

	start := time.Now()
	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		monitoring.RecordDBQuery("ListLoansByCustomerID", "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to query loans", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]loan.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan row", "customer_id", customerID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, *l)
	}
	err = rows.Err()
	monitoring.RecordDBQuery("ListLoansByCustomerID", queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan rows", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return loans, nil
}

func (r *LoanRepository) GetInstallmentsByLoanID(ctx context.Context, loanID uuid.UUID) ([]loan.Installment, error) {
	return r.queryInstallments(ctx, r.db, "GetInstallmentsByLoanID", loanID)
}

func (r *LoanRepository) GetInstallmentsByLoanIDInTx(ctx context.Context, tx pgx.Tx, loanID uuid.UUID) ([]loan.Installment, error) {
	return r.queryInstallments(ctx, tx, "GetInstallmentsByLoanIDInTx", loanID)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *LoanRepository) queryInstallments(ctx context.Context, q querier, queryName string, loanID uuid.UUID) ([]loan.Installment, error) {
	query := `
        SELECT ` + installmentColumns + `
        FROM loan_installments
        WHERE loan_id = $1
        ORDER BY due_date ASC, id ASC`

	start := time.Now()
	rows, err := q.Query(ctx, query, loanID)
	if err != nil {
		monitoring.RecordDBQuery(queryName, "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to query installments", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	installments := make([]loan.Installment, 0)
	for rows.Next() {
		var inst loan.Installment
		err := rows.Scan(
			&inst.ID, &inst.LoanID, &inst.Amount, &inst.PaidAmount,
			&inst.DueDate, &inst.PaymentDate, &inst.IsPaid,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan installment row", "loan_id", loanID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		installments = append(installments, inst)
	}

	err = rows.Err()
	monitoring.RecordDBQuery(queryName, queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Error iterating installment rows", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return installments, nil
}

func (r *LoanRepository) MarkInstallmentPaidInTx(ctx context.Context, tx pgx.Tx, inst *loan.Installment) error {
	sql := `
        UPDATE loan_installments
        SET paid_amount = $1, payment_date = $2, is_paid = TRUE
        WHERE id = $3 AND loan_id = $4 AND is_paid = FALSE`

	start := time.Now()
	cmdTag, err := tx.Exec(ctx, sql, inst.PaidAmount, inst.PaymentDate, inst.ID, inst.LoanID)
	monitoring.RecordDBQuery("MarkInstallmentPaid", queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update installment", "installment_id", inst.ID, "loan_id", inst.LoanID, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Installment update affected zero rows", "installment_id", inst.ID, "loan_id", inst.LoanID)
		return fmt.Errorf("%w: installment %s is missing or already paid", apperrors.ErrConflict, inst.ID)
	}
	return nil
}

func (r *LoanRepository) MarkLoanPaidInTx(ctx context.Context, tx pgx.Tx, loanID uuid.UUID) error {
	sql := `UPDATE loans SET is_paid = TRUE, updated_at = NOW() WHERE id = $1 AND is_paid = FALSE`

	start := time.Now()
	cmdTag, err := tx.Exec(ctx, sql, loanID)
	monitoring.RecordDBQuery("MarkLoanPaid", queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update loan status", "loan_id", loanID, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Loan status update affected zero rows", "loan_id", loanID)
		return fmt.Errorf("%w: loan %s is missing or already paid", apperrors.ErrConflict, loanID)
	}
	r.logger.InfoContext(ctx, "Loan marked paid in DB", "loan_id", loanID)
	return nil
}

func (r *LoanRepository) GetOverdueSummary(ctx context.Context, asOf time.Time) (loan.OverdueSummary, error) {
	query := `
        SELECT COUNT(*), COALESCE(SUM(amount), 0)
        FROM loan_installments
        WHERE is_paid = FALSE AND due_date < $1`

	var summary loan.OverdueSummary
	start := time.Now()
	err := r.db.QueryRow(ctx, query, asOf).Scan(&summary.Count, &summary.Amount)
	monitoring.RecordDBQuery("GetOverdueSummary", queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to summarize overdue installments", "error", err)
		return loan.OverdueSummary{}, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return summary, nil
}

func scanLoan(row rowScanner) (*loan.Loan, error) {
	var l loan.Loan
	var count int
	err := row.Scan(
		&l.ID, &l.CustomerID, &l.LoanAmount, &count,
		&l.InterestRate, &l.CreateDate, &l.IsPaid, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.NumberOfInstallments = loan.InstallmentOption(count)
	return &l, nil
}
