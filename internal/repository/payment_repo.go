package repository

import (
	"context"

	"hotelfront/internal/domain"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create stores a payment. A second payment for the same booking, or a
// reused receipt or invoice number, returns ErrConflict.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	m := paymentModel{
		ID:            p.ID,
		BookingID:     p.BookingID,
		Total:         p.Total,
		Subtotal:      p.Subtotal,
		VAT:           p.VAT,
		Method:        string(p.Method),
		ReceiptNumber: p.ReceiptNumber,
		InvoiceNumber: p.InvoiceNumber,
		PaidAt:        p.PaidAt,
		PaidBy:        p.PaidBy,
		Charges:       append([]domain.Charge(nil), p.Charges...),
	}
	return translate(conn(ctx, r.db).Create(&m).Error)
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	var m paymentModel
	if err := conn(ctx, r.db).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainPayment(m), nil
}

func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	var m paymentModel
	if err := conn(ctx, r.db).First(&m, "booking_id = ?", bookingID).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainPayment(m), nil
}

func toDomainPayment(m paymentModel) *domain.Payment {
	charges := make([]domain.Charge, len(m.Charges))
	copy(charges, m.Charges)
	return &domain.Payment{
		ID:            m.ID,
		BookingID:     m.BookingID,
		Total:         m.Total,
		Subtotal:      m.Subtotal,
		VAT:           m.VAT,
		Method:        domain.PaymentMethod(m.Method),
		ReceiptNumber: m.ReceiptNumber,
		InvoiceNumber: m.InvoiceNumber,
		PaidAt:        m.PaidAt,
		PaidBy:        m.PaidBy,
		Charges:       charges,
	}
}
