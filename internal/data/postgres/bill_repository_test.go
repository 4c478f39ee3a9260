package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/remitwise-ledger/internal/domain/bill"
	"github.com/remitwise-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

const selectBillQuery = `SELECT id, owner, name, amount, due_date, recurring, frequency_days, paid, created_at, paid_at FROM bills WHERE id = \$1`

func billRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "owner", "name", "amount", "due_date", "recurring", "frequency_days", "paid", "created_at", "paid_at"})
}

func TestBillRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &BillRepository{querier: mock, logger: newTestLogger()}

	b := &bill.Bill{
		Owner:         "GOWNER",
		Name:          "Electricity",
		Amount:        4500,
		DueDate:       1_700_000_000,
		Recurring:     true,
		FrequencyDays: 30,
		CreatedAt:     1_699_000_000,
	}

	query := `INSERT INTO bills \(owner, name, amount, due_date, recurring, frequency_days, paid, created_at, paid_at\)`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(b.Owner, b.Name, b.Amount, b.DueDate, b.Recurring, b.FrequencyDays, b.Paid, b.CreatedAt, b.PaidAt).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

		id, err := repo.Create(ctx, b)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), id)
		assert.Equal(t, int64(1), b.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(query).
			WithArgs(b.Owner, b.Name, b.Amount, b.DueDate, b.Recurring, b.FrequencyDays, b.Paid, b.CreatedAt, b.PaidAt).
			WillReturnError(expectedErr)

		_, err := repo.Create(ctx, b)

		assert.Error(t, err)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBillRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &BillRepository{querier: mock, logger: newTestLogger()}

	t.Run("found", func(t *testing.T) {
		paidAt := int64(1_700_000_500)
		mock.ExpectQuery(selectBillQuery).
			WithArgs(int64(3)).
			WillReturnRows(billRows().AddRow(int64(3), shared.Principal("GOWNER"), "Water", int64(1200), int64(1_700_000_000), false, uint32(0), true, int64(1_699_000_000), &paidAt))

		b, err := repo.GetByID(ctx, 3)

		require.NoError(t, err)
		assert.Equal(t, int64(3), b.ID)
		assert.True(t, b.Paid)
		require.NotNil(t, b.PaidAt)
		assert.Equal(t, paidAt, *b.PaidAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(selectBillQuery).
			WithArgs(int64(42)).
			WillReturnRows(billRows())

		_, err := repo.GetByID(ctx, 42)

		var notFound bill.ErrBillNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, int64(42), notFound.BillID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBillRepository_Delete(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &BillRepository{querier: mock, logger: newTestLogger()}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM bills WHERE id = \$1`).
			WithArgs(int64(5)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Delete(ctx, 5))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM bills WHERE id = \$1`).
			WithArgs(int64(6)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(ctx, 6)

		var notFound bill.ErrBillNotFound
		assert.ErrorAs(t, err, &notFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func settleAt(now int64) func(*bill.Bill) (*bill.Bill, error) {
	return func(b *bill.Bill) (*bill.Bill, error) {
		if err := b.Settle(now); err != nil {
			return nil, err
		}
		return b.NextOccurrence(now), nil
	}
}

func TestBillRepository_Settle(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &BillRepository{querier: mock, logger: newTestLogger()}

	lockQuery := selectBillQuery + ` FOR UPDATE`
	updateQuery := `SET owner = \$1, name = \$2, amount = \$3, due_date = \$4, recurring = \$5, frequency_days = \$6, paid = \$7, paid_at = \$8`
	insertQuery := `INSERT INTO bills \(owner, name, amount, due_date, recurring, frequency_days, paid, created_at, paid_at\)`

	now := int64(1_700_000_500)
	paidAt := now
	successorDue := int64(1_700_000_000 + 14*bill.SecondsPerDay)

	openRow := func(id int64) *pgxmock.Rows {
		return billRows().AddRow(id, shared.Principal("GOWNER"), "Gym", int64(2500), int64(1_700_000_000), true, uint32(14), false, int64(1_699_000_000), (*int64)(nil))
	}

	t.Run("recurring settlement locks, updates and inserts in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).WithArgs(int64(7)).WillReturnRows(openRow(7))
		mock.ExpectExec(updateQuery).
			WithArgs(shared.Principal("GOWNER"), "Gym", int64(2500), int64(1_700_000_000), true, uint32(14), true, &paidAt, int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectQuery(insertQuery).
			WithArgs(shared.Principal("GOWNER"), "Gym", int64(2500), successorDue, true, uint32(14), false, now, (*int64)(nil)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(8)))
		mock.ExpectCommit()

		settled, successorIDs, err := repo.Settle(ctx, []int64{7}, settleAt(now))

		require.NoError(t, err)
		require.Len(t, settled, 1)
		assert.True(t, settled[0].Paid)
		assert.Equal(t, []int64{8}, successorIDs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already-paid row rolls back without writing", func(t *testing.T) {
		paidRow := billRows().AddRow(int64(7), shared.Principal("GOWNER"), "Gym", int64(2500), int64(1_700_000_000), true, uint32(14), true, int64(1_699_000_000), &paidAt)

		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).WithArgs(int64(7)).WillReturnRows(paidRow)
		mock.ExpectRollback()

		_, _, err := repo.Settle(ctx, []int64{7}, settleAt(now))

		assert.ErrorIs(t, err, bill.ErrAlreadyPaid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown id mid-batch rolls the whole batch back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).WithArgs(int64(7)).WillReturnRows(openRow(7))
		mock.ExpectExec(updateQuery).
			WithArgs(shared.Principal("GOWNER"), "Gym", int64(2500), int64(1_700_000_000), true, uint32(14), true, &paidAt, int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectQuery(insertQuery).
			WithArgs(shared.Principal("GOWNER"), "Gym", int64(2500), successorDue, true, uint32(14), false, now, (*int64)(nil)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(8)))
		mock.ExpectQuery(lockQuery).WithArgs(int64(99)).WillReturnRows(billRows())
		mock.ExpectRollback()

		_, _, err := repo.Settle(ctx, []int64{7, 99}, settleAt(now))

		var notFound bill.ErrBillNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, int64(99), notFound.BillID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed successor insert rolls the settlement back", func(t *testing.T) {
		expectedErr := errors.New("insert failed")
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).WithArgs(int64(7)).WillReturnRows(openRow(7))
		mock.ExpectExec(updateQuery).
			WithArgs(shared.Principal("GOWNER"), "Gym", int64(2500), int64(1_700_000_000), true, uint32(14), true, &paidAt, int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectQuery(insertQuery).
			WithArgs(shared.Principal("GOWNER"), "Gym", int64(2500), successorDue, true, uint32(14), false, now, (*int64)(nil)).
			WillReturnError(expectedErr)
		mock.ExpectRollback()

		_, _, err := repo.Settle(ctx, []int64{7}, settleAt(now))

		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
