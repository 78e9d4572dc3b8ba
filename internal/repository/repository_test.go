package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"hotelfront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:repo_test_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func seedRooms(t *testing.T, db *gorm.DB, numbers ...int) []domain.Room {
	t.Helper()
	repo := NewRoomRepository(db)
	out := make([]domain.Room, 0, len(numbers))
	for _, n := range numbers {
		room := domain.Room{Number: n, Type: domain.RoomSingle, Status: domain.RoomAvailable}
		require.NoError(t, repo.Create(context.Background(), &room))
		out = append(out, room)
	}
	return out
}

func date(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newBooking(roomIDs []int64, in, out string) *domain.Booking {
	return &domain.Booking{
		ID:           uuid.NewString(),
		RoomIDs:      roomIDs,
		Guest:        domain.Guest{Name: "Somchai", IDNumber: "1100", Phone: "0812345678"},
		CheckInDate:  date(in),
		CheckOutDate: date(out),
		PricingTier:  domain.TierGeneral,
		BaseRate:     decimal.NewFromInt(890),
		Source:       domain.SourceWalkIn,
		Status:       domain.BookingReserved,
		Deposit:      decimal.Zero,
	}
}

func TestBookingCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	rooms := seedRooms(t, db, 101, 102)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	b := newBooking([]int64{rooms[0].ID, rooms[1].ID}, "2026-10-20", "2026-10-22")
	b.Guest.Address = "Bangkok"
	b.GroupName = "Tour A"
	b.AdditionalCharges = []domain.Charge{
		{ID: uuid.NewString(), Type: domain.ChargeOther, Description: "Extra bed", Amount: decimal.NewFromInt(300)},
	}
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{rooms[0].ID, rooms[1].ID}, got.RoomIDs)
	assert.Equal(t, "Bangkok", got.Guest.Address)
	assert.Equal(t, "Tour A", got.GroupName)
	assert.True(t, got.CheckInDate.Equal(date("2026-10-20")))
	assert.True(t, got.CheckOutDate.Equal(date("2026-10-22")))
	assert.True(t, got.BaseRate.Equal(decimal.NewFromInt(890)))
	require.Len(t, got.AdditionalCharges, 1)
	assert.Equal(t, b.ID, got.AdditionalCharges[0].BookingID)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingCreateRejectsOverlappingNights(t *testing.T) {
	db := setupTestDB(t)
	rooms := seedRooms(t, db, 101)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	first := newBooking([]int64{rooms[0].ID}, "2026-10-20", "2026-10-23")
	require.NoError(t, repo.Create(ctx, first))

	second := newBooking([]int64{rooms[0].ID}, "2026-10-22", "2026-10-24")
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = repo.GetByID(ctx, second.ID)
	assert.ErrorIs(t, err, ErrNotFound, "failed booking must not be stored")

	// Back-to-back stays share no night.
	third := newBooking([]int64{rooms[0].ID}, "2026-10-23", "2026-10-25")
	assert.NoError(t, repo.Create(ctx, third))
}

func TestReleaseNightsFreesRoom(t *testing.T) {
	db := setupTestDB(t)
	rooms := seedRooms(t, db, 101)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	first := newBooking([]int64{rooms[0].ID}, "2026-10-20", "2026-10-22")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.ReleaseNights(ctx, first.ID))

	second := newBooking([]int64{rooms[0].ID}, "2026-10-20", "2026-10-22")
	assert.NoError(t, repo.Create(ctx, second))
}

func TestListActiveInRange(t *testing.T) {
	db := setupTestDB(t)
	rooms := seedRooms(t, db, 101, 102, 103)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	inside := newBooking([]int64{rooms[0].ID}, "2026-10-20", "2026-10-22")
	outside := newBooking([]int64{rooms[1].ID}, "2026-10-25", "2026-10-26")
	cancelled := newBooking([]int64{rooms[2].ID}, "2026-10-20", "2026-10-21")
	for _, b := range []*domain.Booking{inside, outside, cancelled} {
		require.NoError(t, repo.Create(ctx, b))
	}
	cancelled.Status = domain.BookingCancelled
	require.NoError(t, repo.Update(ctx, cancelled))

	got, err := repo.ListActiveInRange(ctx, date("2026-10-21"), date("2026-10-23"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inside.ID, got[0].ID)
}

func TestChargesKeepInsertionOrder(t *testing.T) {
	db := setupTestDB(t)
	rooms := seedRooms(t, db, 101)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	b := newBooking([]int64{rooms[0].ID}, "2026-10-20", "2026-10-21")
	require.NoError(t, repo.Create(ctx, b))

	descs := []string{"Charcoal", "Grill", "Extra bed"}
	var ids []string
	for _, d := range descs {
		c := domain.Charge{ID: uuid.NewString(), BookingID: b.ID, Type: domain.ChargeOther, Description: d, Amount: decimal.NewFromInt(50)}
		require.NoError(t, repo.AddCharge(ctx, &c))
		ids = append(ids, c.ID)
	}

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, got.AdditionalCharges, 3)
	for i, c := range got.AdditionalCharges {
		assert.Equal(t, descs[i], c.Description)
	}

	require.NoError(t, repo.RemoveCharge(ctx, b.ID, ids[1]))
	assert.ErrorIs(t, repo.RemoveCharge(ctx, b.ID, ids[1]), ErrNotFound)

	got, err = repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, got.AdditionalCharges, 2)
	assert.Equal(t, "Charcoal", got.AdditionalCharges[0].Description)
	assert.Equal(t, "Extra bed", got.AdditionalCharges[1].Description)
}

func TestRoomSetStatus(t *testing.T) {
	db := setupTestDB(t)
	rooms := seedRooms(t, db, 102, 101)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	bookingID := uuid.NewString()
	require.NoError(t, repo.SetStatus(ctx, []int64{rooms[0].ID}, domain.RoomOccupied, &bookingID))

	got, err := repo.GetByID(ctx, rooms[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomOccupied, got.Status)
	require.NotNil(t, got.CurrentBookingID)
	assert.Equal(t, bookingID, *got.CurrentBookingID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 101, list[0].Number)

	assert.ErrorIs(t, repo.SetStatus(ctx, []int64{9999}, domain.RoomCleaning, nil), ErrNotFound)
}

func TestCounterIncrementIsSequential(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCounterRepository(db)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.Increment(ctx, CounterReceipt)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Counters are independent.
	got, err := repo.Increment(ctx, CounterInvoice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	// Ensure keeps existing values.
	require.NoError(t, repo.Ensure(ctx, CounterReceipt))
	cur, err := repo.Current(ctx, CounterReceipt)
	require.NoError(t, err)
	assert.Equal(t, int64(3), cur)

	got, err = repo.Increment(ctx, "adhoc")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestCounterConcurrentIncrementsAreUnique(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCounterRepository(db)
	ctx := context.Background()

	const workers = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]bool)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := repo.Increment(ctx, CounterReceipt)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers)
	for i := int64(1); i <= workers; i++ {
		assert.True(t, seen[i], "missing value %d", i)
	}
}

func TestPaymentUniquePerBooking(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	bookingID := uuid.NewString()
	p := &domain.Payment{
		ID:            uuid.NewString(),
		BookingID:     bookingID,
		Total:         decimal.NewFromInt(1580),
		Subtotal:      decimal.RequireFromString("1476.64"),
		VAT:           decimal.RequireFromString("103.36"),
		Method:        domain.PaymentCash,
		ReceiptNumber: "RC-202610-00001",
		InvoiceNumber: "INV-202610-00001",
		PaidAt:        time.Date(2026, 10, 16, 5, 0, 0, 0, time.UTC),
		Charges: []domain.Charge{
			{ID: "c1", BookingID: bookingID, Type: domain.ChargeRoom, Description: "Room 101", Amount: decimal.NewFromInt(1780)},
			{ID: "c2", BookingID: bookingID, Type: domain.ChargeOther, Description: "Deposit deduction", Amount: decimal.NewFromInt(-200)},
		},
	}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByBookingID(ctx, bookingID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.True(t, got.Subtotal.Equal(p.Subtotal))
	require.Len(t, got.Charges, 2)
	assert.True(t, got.Charges[1].Amount.Equal(decimal.NewFromInt(-200)))

	dup := *p
	dup.ID = uuid.NewString()
	dup.ReceiptNumber = "RC-202610-00002"
	dup.InvoiceNumber = "INV-202610-00002"
	assert.ErrorIs(t, repo.Create(ctx, &dup), ErrConflict)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWithinTransactionRollsBack(t *testing.T) {
	db := setupTestDB(t)
	rooms := seedRooms(t, db, 101)
	tx := NewTxManager(db)
	bookings := NewBookingRepository(db)
	counters := NewCounterRepository(db)
	ctx := context.Background()

	boom := errors.New("boom")
	b := newBooking([]int64{rooms[0].ID}, "2026-10-20", "2026-10-21")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := bookings.Create(ctx, b); err != nil {
			return err
		}
		if _, err := counters.Increment(ctx, CounterReceipt); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = bookings.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	cur, err := counters.Current(ctx, CounterReceipt)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cur)

	// Nights were not claimed either.
	assert.NoError(t, bookings.Create(ctx, newBooking([]int64{rooms[0].ID}, "2026-10-20", "2026-10-21")))
}

func TestUserAndMaintenanceRepositories(t *testing.T) {
	db := setupTestDB(t)
	rooms := seedRooms(t, db, 101)
	users := NewUserRepository(db)
	reports := NewMaintenanceRepository(db)
	ctx := context.Background()

	u := &domain.User{Username: " Reception ", PasswordHash: "hash", Name: "Front", Role: domain.RoleReception}
	require.NoError(t, users.Create(ctx, u))
	assert.NotZero(t, u.ID)

	got, err := users.GetByUsername(ctx, "RECEPTION")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, domain.RoleReception, got.Role)

	assert.ErrorIs(t, users.Create(ctx, &domain.User{Username: "reception", Role: domain.RoleBoard}), ErrConflict)

	rep := &domain.MaintenanceReport{ID: uuid.NewString(), RoomID: rooms[0].ID, Description: "Leaking tap", ReportedBy: u.ID}
	require.NoError(t, reports.Create(ctx, rep))
	require.NoError(t, reports.MarkNotified(ctx, rep.ID))

	list, err := reports.ListByRoom(ctx, rooms[0].ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Notified)
}

func TestUserFailedLogins(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	u := &domain.User{Username: "manager", PasswordHash: "hash", Name: "Boss", Role: domain.RoleManagement}
	require.NoError(t, users.Create(ctx, u))

	until := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	for want := 1; want <= 3; want++ {
		n, err := users.RecordFailedLogin(ctx, u.ID, 3, until)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.FailedLoginAttempts)
	require.NotNil(t, got.LockedUntil)
	assert.True(t, got.LockedUntil.Equal(until))

	require.NoError(t, users.ResetFailedLogins(ctx, u.ID))
	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, got.FailedLoginAttempts)
	assert.Nil(t, got.LockedUntil)

	_, err = users.RecordFailedLogin(ctx, 999, 3, until)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserClearExpiredLockouts(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	expired := &domain.User{Username: "a", PasswordHash: "h", Role: domain.RoleReception}
	active := &domain.User{Username: "b", PasswordHash: "h", Role: domain.RoleReception}
	require.NoError(t, users.Create(ctx, expired))
	require.NoError(t, users.Create(ctx, active))

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	_, err := users.RecordFailedLogin(ctx, expired.ID, 1, now.Add(-time.Minute))
	require.NoError(t, err)
	_, err = users.RecordFailedLogin(ctx, active.ID, 1, now.Add(time.Minute))
	require.NoError(t, err)

	n, err := users.ClearExpiredLockouts(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := users.GetByID(ctx, active.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LockedUntil)
}
