package payment

import (
	"context"

	"hotelfront/internal/domain"
)

type counterRepo interface {
	Increment(ctx context.Context, name string) (int64, error)
}

type paymentRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error)
}
