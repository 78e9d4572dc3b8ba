package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentQR       PaymentMethod = "qr"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentTransfer || m == PaymentQR
}

// Payment is the immutable record of a completed check-out. Charges is a
// snapshot taken at check-out and does not follow later edits to the booking.
type Payment struct {
	ID            string          `json:"id"`
	BookingID     string          `json:"booking_id"`
	Total         decimal.Decimal `json:"total"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	VAT           decimal.Decimal `json:"vat"`
	Method        PaymentMethod   `json:"method"`
	ReceiptNumber string          `json:"receipt_number"`
	InvoiceNumber string          `json:"invoice_number"`
	PaidAt        time.Time       `json:"paid_at"`
	PaidBy        int64           `json:"paid_by"`
	Charges       []Charge        `json:"charges"`
}
