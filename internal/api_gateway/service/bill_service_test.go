package service

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/remitwise-ledger/internal/data/memory"
	"github.com/remitwise-ledger/internal/domain/bill"
	"github.com/remitwise-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMessagePublisher mocks producers.MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newBillService(clock shared.Clock) (BillService, *MockMessagePublisher) {
	publisher := new(MockMessagePublisher)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	repo := memory.NewBillRepository(time.Hour)
	return NewBillService(newTestLogger(), repo, publisher, clock, 50), publisher
}

const owner = shared.Principal("GOWNER")

func TestBillServiceImpl_CreateBill(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, publisher := newBillService(shared.FixedClock(1_000))

		b, err := svc.CreateBill(ctx, owner, owner, "Electricity", 4500, 2_000, true, 30)

		require.NoError(t, err)
		assert.Equal(t, int64(1), b.ID)
		assert.Equal(t, owner, b.Owner)
		assert.False(t, b.Paid)
		assert.Equal(t, int64(1_000), b.CreatedAt)
		publisher.AssertCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RejectsForeignOwner", func(t *testing.T) {
		svc, _ := newBillService(shared.FixedClock(1_000))

		_, err := svc.CreateBill(ctx, "GINTRUDER", owner, "Electricity", 4500, 2_000, false, 0)

		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("RejectsInvalidAmount", func(t *testing.T) {
		svc, _ := newBillService(shared.FixedClock(1_000))

		_, err := svc.CreateBill(ctx, owner, owner, "Electricity", 0, 2_000, false, 0)

		assert.ErrorIs(t, err, bill.ErrInvalidAmount)
	})

	t.Run("RecurringRequiresFrequency", func(t *testing.T) {
		svc, _ := newBillService(shared.FixedClock(1_000))

		_, err := svc.CreateBill(ctx, owner, owner, "Electricity", 4500, 2_000, true, 0)

		assert.ErrorIs(t, err, bill.ErrInvalidFrequency)
	})
}

func TestBillServiceImpl_SettleBill(t *testing.T) {
	ctx := context.Background()

	t.Run("NonRecurringSettlesTerminally", func(t *testing.T) {
		svc, _ := newBillService(shared.FixedClock(5_000))
		created, err := svc.CreateBill(ctx, owner, owner, "Water", 1200, 4_000, false, 0)
		require.NoError(t, err)

		settled, successorID, err := svc.SettleBill(ctx, owner, created.ID)

		require.NoError(t, err)
		assert.True(t, settled.Paid)
		require.NotNil(t, settled.PaidAt)
		assert.Equal(t, int64(5_000), *settled.PaidAt)
		assert.Equal(t, int64(0), successorID)

		// second settle fails, record untouched
		_, _, err = svc.SettleBill(ctx, owner, created.ID)
		assert.ErrorIs(t, err, bill.ErrAlreadyPaid)
	})

	t.Run("RecurringSpawnsSuccessor", func(t *testing.T) {
		svc, _ := newBillService(shared.FixedClock(5_000))
		created, err := svc.CreateBill(ctx, owner, owner, "Gym", 2500, 4_000, true, 14)
		require.NoError(t, err)

		settled, successorID, err := svc.SettleBill(ctx, owner, created.ID)

		require.NoError(t, err)
		assert.True(t, settled.Paid)
		assert.Equal(t, int64(2), successorID)

		successor, err := svc.GetBill(ctx, successorID)
		require.NoError(t, err)
		assert.Equal(t, created.Name, successor.Name)
		assert.Equal(t, created.Amount, successor.Amount)
		assert.False(t, successor.Paid)
		assert.Equal(t, int64(4_000+14*bill.SecondsPerDay), successor.DueDate)
	})

	t.Run("ErrorOrderNotFoundFirst", func(t *testing.T) {
		svc, _ := newBillService(shared.FixedClock(5_000))

		_, _, err := svc.SettleBill(ctx, "GINTRUDER", 99)

		var notFound bill.ErrBillNotFound
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("ErrorOrderUnauthorizedBeforeAlreadyPaid", func(t *testing.T) {
		svc, _ := newBillService(shared.FixedClock(5_000))
		created, err := svc.CreateBill(ctx, owner, owner, "Water", 1200, 4_000, false, 0)
		require.NoError(t, err)
		_, _, err = svc.SettleBill(ctx, owner, created.ID)
		require.NoError(t, err)

		// a stranger probing a paid bill sees unauthorized, not already-paid
		_, _, err = svc.SettleBill(ctx, "GINTRUDER", created.ID)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("ConcurrentSettlesSpawnExactlyOneSuccessor", func(t *testing.T) {
		svc, _ := newBillService(shared.FixedClock(5_000))
		created, err := svc.CreateBill(ctx, owner, owner, "Gym", 2500, 4_000, true, 14)
		require.NoError(t, err)

		start := make(chan struct{})
		var wg sync.WaitGroup
		var settledCount int32
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, _, err := svc.SettleBill(ctx, owner, created.ID)
				if err == nil {
					atomic.AddInt32(&settledCount, 1)
				} else {
					assert.ErrorIs(t, err, bill.ErrAlreadyPaid)
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(1), settledCount, "only one settle may win")
		bills, err := svc.ListBills(ctx)
		require.NoError(t, err)
		assert.Len(t, bills, 2, "the losers must not spawn extra successors")
	})

	t.Run("UnauthorizedCallerCannotSettle", func(t *testing.T) {
		svc, _ := newBillService(shared.FixedClock(5_000))
		created, err := svc.CreateBill(ctx, owner, owner, "Water", 1200, 4_000, false, 0)
		require.NoError(t, err)

		_, _, err = svc.SettleBill(ctx, "GINTRUDER", created.ID)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)

		// the record stays open
		b, err := svc.GetBill(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, b.Paid)
	})
}

func TestBillServiceImpl_SettleBills(t *testing.T) {
	ctx := context.Background()

	t.Run("SettlesWholeBatch", func(t *testing.T) {
		svc, _ := newBillService(shared.FixedClock(5_000))
		var ids []int64
		for _, name := range []string{"A", "B", "C"} {
			b, err := svc.CreateBill(ctx, owner, owner, name, 100, 4_000, false, 0)
			require.NoError(t, err)
			ids = append(ids, b.ID)
		}

		settled, err := svc.SettleBills(ctx, owner, ids)

		require.NoError(t, err)
		assert.Len(t, settled, 3)
		for _, id := range ids {
			b, err := svc.GetBill(ctx, id)
			require.NoError(t, err)
			assert.True(t, b.Paid)
		}
	})

	t.Run("OneBadBillAbortsWithNoWrites", func(t *testing.T) {
		svc, _ := newBillService(shared.FixedClock(5_000))
		a, err := svc.CreateBill(ctx, owner, owner, "A", 100, 4_000, false, 0)
		require.NoError(t, err)
		b, err := svc.CreateBill(ctx, owner, owner, "B", 100, 4_000, false, 0)
		require.NoError(t, err)

		_, err = svc.SettleBills(ctx, owner, []int64{a.ID, b.ID, 99})

		var notFound bill.ErrBillNotFound
		require.ErrorAs(t, err, &notFound)
		for _, id := range []int64{a.ID, b.ID} {
			stored, err := svc.GetBill(ctx, id)
			require.NoError(t, err)
			assert.False(t, stored.Paid, "batch failure must leave earlier bills open")
		}
	})

	t.Run("DuplicateIDAbortsWithNoWrites", func(t *testing.T) {
		svc, _ := newBillService(shared.FixedClock(5_000))
		a, err := svc.CreateBill(ctx, owner, owner, "A", 100, 4_000, false, 0)
		require.NoError(t, err)

		// the second occurrence must see the first one's settlement
		_, err = svc.SettleBills(ctx, owner, []int64{a.ID, a.ID})
		assert.ErrorIs(t, err, bill.ErrAlreadyPaid)

		stored, err := svc.GetBill(ctx, a.ID)
		require.NoError(t, err)
		assert.False(t, stored.Paid)
	})

	t.Run("RecurringBillsInBatchSpawnSuccessors", func(t *testing.T) {
		svc, _ := newBillService(shared.FixedClock(5_000))
		a, err := svc.CreateBill(ctx, owner, owner, "Rent", 900, 4_000, true, 30)
		require.NoError(t, err)
		b, err := svc.CreateBill(ctx, owner, owner, "Water", 100, 4_000, false, 0)
		require.NoError(t, err)

		settled, err := svc.SettleBills(ctx, owner, []int64{a.ID, b.ID})

		require.NoError(t, err)
		assert.Len(t, settled, 2)
		bills, err := svc.ListBills(ctx)
		require.NoError(t, err)
		require.Len(t, bills, 3, "one successor for the one recurring bill")
		successor := bills[2]
		assert.Equal(t, "Rent", successor.Name)
		assert.False(t, successor.Paid)
		assert.Equal(t, int64(4_000+30*bill.SecondsPerDay), successor.DueDate)
	})

	t.Run("RejectsOversizedBatch", func(t *testing.T) {
		svc, _ := newBillService(shared.FixedClock(5_000))

		ids := make([]int64, 51)
		_, err := svc.SettleBills(ctx, owner, ids)

		assert.ErrorIs(t, err, bill.ErrBatchTooLarge)
	})
}

func TestBillServiceImpl_CancelBill(t *testing.T) {
	ctx := context.Background()

	t.Run("AnyCallerMayCancel", func(t *testing.T) {
		svc, _ := newBillService(shared.FixedClock(5_000))
		created, err := svc.CreateBill(ctx, owner, owner, "Water", 1200, 4_000, false, 0)
		require.NoError(t, err)

		err = svc.CancelBill(ctx, created.ID)
		require.NoError(t, err)

		_, err = svc.GetBill(ctx, created.ID)
		var notFound bill.ErrBillNotFound
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("UnknownBill", func(t *testing.T) {
		svc, _ := newBillService(shared.FixedClock(5_000))

		err := svc.CancelBill(ctx, 42)

		var notFound bill.ErrBillNotFound
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestBillServiceImpl_Queries(t *testing.T) {
	ctx := context.Background()
	other := shared.Principal("GOTHER")

	svc, _ := newBillService(shared.FixedClock(10_000))
	first, err := svc.CreateBill(ctx, owner, owner, "Past", 100, 9_000, false, 0)
	require.NoError(t, err)
	_, err = svc.CreateBill(ctx, owner, owner, "Future", 200, 11_000, false, 0)
	require.NoError(t, err)
	_, err = svc.CreateBill(ctx, other, other, "Other", 400, 8_000, false, 0)
	require.NoError(t, err)
	boundary, err := svc.CreateBill(ctx, owner, owner, "Boundary", 800, 10_000, false, 0)
	require.NoError(t, err)

	t.Run("UnpaidByOwner", func(t *testing.T) {
		unpaid, err := svc.UnpaidByOwner(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, unpaid, 3)
		assert.Equal(t, "Past", unpaid[0].Name)
	})

	t.Run("TotalUnpaidByOwner", func(t *testing.T) {
		total, err := svc.TotalUnpaidByOwner(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, int64(1100), total)
	})

	t.Run("OverdueIsStrict", func(t *testing.T) {
		overdue, err := svc.Overdue(ctx)
		require.NoError(t, err)
		// due exactly now is not overdue
		for _, b := range overdue {
			assert.NotEqual(t, boundary.ID, b.ID)
		}
		assert.Len(t, overdue, 2)
	})

	t.Run("Stats", func(t *testing.T) {
		stats, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.ActiveBills)
		assert.Equal(t, int64(1500), stats.TotalUnpaidAmount)
	})

	t.Run("StatsIgnoresSettled", func(t *testing.T) {
		_, _, err := svc.SettleBill(ctx, owner, first.ID)
		require.NoError(t, err)

		stats, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.ActiveBills)
		assert.Equal(t, int64(1400), stats.TotalUnpaidAmount)
	})
}
