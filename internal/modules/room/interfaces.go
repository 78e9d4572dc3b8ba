package room

import (
	"context"
	"time"

	"hotelfront/internal/domain"
)

type RoomRepository interface {
	List(ctx context.Context) ([]domain.Room, error)
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Room, error)
	SetStatus(ctx context.Context, ids []int64, status domain.RoomStatus, bookingID *string) error
}

type BookingReader interface {
	ListActiveInRange(ctx context.Context, from, to time.Time) ([]*domain.Booking, error)
}

type ReportRepository interface {
	Create(ctx context.Context, rep *domain.MaintenanceReport) error
	MarkNotified(ctx context.Context, id string) error
	ListByRoom(ctx context.Context, roomID int64) ([]domain.MaintenanceReport, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
