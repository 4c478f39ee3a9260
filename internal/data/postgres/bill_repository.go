// Package postgres provides PostgreSQL implementations of the ledger
// repositories. Identifier monotonicity comes from per-table sequences;
// multi-effect steps run inside a single transaction so every call is
// all-or-nothing.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/remitwise-ledger/internal/domain/bill"
	"github.com/remitwise-ledger/internal/domain/shared"
	"github.com/remitwise-ledger/internal/platform/persistence"
)

// BillRepository implements the bill.Repository interface for PostgreSQL
type BillRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewBillRepository creates a new PostgreSQL bill repository.
func NewBillRepository(logger *slog.Logger, db *persistence.PostgresDB) *BillRepository {
	return &BillRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

const billColumns = "id, owner, name, amount, due_date, recurring, frequency_days, paid, created_at, paid_at"

func scanBill(row pgx.Row) (*bill.Bill, error) {
	var b bill.Bill
	err := row.Scan(
		&b.ID,
		&b.Owner,
		&b.Name,
		&b.Amount,
		&b.DueDate,
		&b.Recurring,
		&b.FrequencyDays,
		&b.Paid,
		&b.CreatedAt,
		&b.PaidAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts the bill and returns its sequence-assigned identifier.
func (r *BillRepository) Create(ctx context.Context, b *bill.Bill) (int64, error) {
	query := `
		INSERT INTO bills (owner, name, amount, due_date, recurring, frequency_days, paid, created_at, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		b.Owner,
		b.Name,
		b.Amount,
		b.DueDate,
		b.Recurring,
		b.FrequencyDays,
		b.Paid,
		b.CreatedAt,
		b.PaidAt,
	).Scan(&b.ID)
	if err != nil {
		r.logger.Error("Failed to create bill", "owner", b.Owner.String(), "error", err)
		return 0, fmt.Errorf("failed to create bill: %w", err)
	}

	return b.ID, nil
}

// GetByID retrieves a bill by its identifier.
func (r *BillRepository) GetByID(ctx context.Context, id int64) (*bill.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1`

	b, err := scanBill(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, bill.ErrBillNotFound{BillID: id}
		}
		r.logger.Error("Failed to get bill", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	return b, nil
}

// Update loads the row under a row lock, applies mutate and writes the
// result back, all inside one transaction.
func (r *BillRepository) Update(ctx context.Context, id int64, mutate func(*bill.Bill) error) error {
	tx, err := r.querier.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin bill update: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1 FOR UPDATE`
	b, err := scanBill(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return bill.ErrBillNotFound{BillID: id}
		}
		r.logger.Error("Failed to lock bill for update", "id", id, "error", err)
		return fmt.Errorf("failed to lock bill for update: %w", err)
	}

	if err := mutate(b); err != nil {
		return err
	}

	if err := r.writeBill(ctx, tx, b); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Settle locks each row with SELECT ... FOR UPDATE, applies settle to the
// locked state and writes the result (plus any successor) back, all inside
// one transaction. The paid check inside settle runs against the locked
// row, so two concurrent settles of one bill cannot both pass it, and a
// mid-batch failure rolls the whole batch back.
func (r *BillRepository) Settle(ctx context.Context, ids []int64, settle func(*bill.Bill) (*bill.Bill, error)) ([]*bill.Bill, []int64, error) {
	tx, err := r.querier.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin settlement: %w", err)
	}
	defer tx.Rollback(ctx)

	lockQuery := `SELECT ` + billColumns + ` FROM bills WHERE id = $1 FOR UPDATE`
	insertQuery := `
		INSERT INTO bills (owner, name, amount, due_date, recurring, frequency_days, paid, created_at, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	settled := make([]*bill.Bill, 0, len(ids))
	successorIDs := make([]int64, len(ids))
	for i, id := range ids {
		b, err := scanBill(tx.QueryRow(ctx, lockQuery, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil, bill.ErrBillNotFound{BillID: id}
			}
			r.logger.Error("Failed to lock bill for settlement", "id", id, "error", err)
			return nil, nil, fmt.Errorf("failed to lock bill for settlement: %w", err)
		}

		successor, err := settle(b)
		if err != nil {
			return nil, nil, err
		}

		if err := r.writeBill(ctx, tx, b); err != nil {
			return nil, nil, err
		}

		if successor != nil {
			err := tx.QueryRow(ctx, insertQuery,
				successor.Owner,
				successor.Name,
				successor.Amount,
				successor.DueDate,
				successor.Recurring,
				successor.FrequencyDays,
				successor.Paid,
				successor.CreatedAt,
				successor.PaidAt,
			).Scan(&successor.ID)
			if err != nil {
				r.logger.Error("Failed to insert successor bill", "settled_id", b.ID, "error", err)
				return nil, nil, fmt.Errorf("failed to insert successor bill: %w", err)
			}
			successorIDs[i] = successor.ID
		}
		settled = append(settled, b)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit settlement: %w", err)
	}
	return settled, successorIDs, nil
}

// Delete removes the bill unconditionally if present.
func (r *BillRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete bill", "id", id, "error", err)
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	if result.RowsAffected() == 0 {
		return bill.ErrBillNotFound{BillID: id}
	}
	return nil
}

// ListByOwner returns the owner's bills in insertion order.
func (r *BillRepository) ListByOwner(ctx context.Context, owner shared.Principal) ([]*bill.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE owner = $1 ORDER BY id`
	return r.queryBills(ctx, query, owner)
}

// List returns all bills across owners in insertion order.
func (r *BillRepository) List(ctx context.Context) ([]*bill.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills ORDER BY id`
	return r.queryBills(ctx, query)
}

func (r *BillRepository) queryBills(ctx context.Context, query string, args ...interface{}) ([]*bill.Bill, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list bills", "error", err)
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*bill.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return bills, nil
}

func (r *BillRepository) writeBill(ctx context.Context, tx pgx.Tx, b *bill.Bill) error {
	query := `
		UPDATE bills
		SET owner = $1, name = $2, amount = $3, due_date = $4, recurring = $5, frequency_days = $6, paid = $7, paid_at = $8
		WHERE id = $9
	`
	result, err := tx.Exec(ctx, query,
		b.Owner,
		b.Name,
		b.Amount,
		b.DueDate,
		b.Recurring,
		b.FrequencyDays,
		b.Paid,
		b.PaidAt,
		b.ID,
	)
	if err != nil {
		r.logger.Error("Failed to write bill", "id", b.ID, "error", err)
		return fmt.Errorf("failed to write bill: %w", err)
	}
	if result.RowsAffected() == 0 {
		return bill.ErrBillNotFound{BillID: b.ID}
	}
	return nil
}

var _ bill.Repository = (*BillRepository)(nil)
