package booking

import (
	"context"
	"time"

	"hotelfront/internal/domain"
	"hotelfront/internal/repository"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error)
	ListActiveInRange(ctx context.Context, from, to time.Time) ([]*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	ReleaseNights(ctx context.Context, bookingID string) error
	AddCharge(ctx context.Context, c *domain.Charge) error
	RemoveCharge(ctx context.Context, bookingID, chargeID string) error
}

type RoomRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Room, error)
	SetStatus(ctx context.Context, ids []int64, status domain.RoomStatus, bookingID *string) error
}

// PaymentRecorder mints the payment for a check-out.
type PaymentRecorder interface {
	Finalize(ctx context.Context, b *domain.Booking, charges []domain.Charge, method domain.PaymentMethod, actor domain.Actor) (*domain.Payment, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p *domain.Payment) error
}

// Transactor runs fn so that every repository call made with its ctx
// commits or rolls back together.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
