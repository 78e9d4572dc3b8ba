package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotelfront/internal/billing"
	"hotelfront/internal/domain"
	"hotelfront/internal/pricing"
	"hotelfront/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultReceiptPrefix = "RC"
	DefaultInvoicePrefix = "INV"
)

type Options struct {
	Policy        pricing.Policy
	ReceiptPrefix string
	InvoicePrefix string
	// Location decides which month a number is filed under.
	Location *time.Location
	Now      func() time.Time
}

// Service records payments. It mints receipt and invoice numbers and
// freezes the charge list; persisting the payment belongs to check-out.
type Service struct {
	counters counterRepo
	payments paymentRepo
	policy   pricing.Policy
	loc      *time.Location
	now      func() time.Time
	loggerf  func(format string, args ...interface{})

	receiptPrefix string
	invoicePrefix string
}

func NewService(counters counterRepo, payments paymentRepo, opts Options, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	if opts.ReceiptPrefix == "" {
		opts.ReceiptPrefix = DefaultReceiptPrefix
	}
	if opts.InvoicePrefix == "" {
		opts.InvoicePrefix = DefaultInvoicePrefix
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Policy.Rates == nil {
		opts.Policy = pricing.DefaultPolicy()
	}
	return &Service{
		counters:      counters,
		payments:      payments,
		policy:        opts.Policy,
		loc:           opts.Location,
		now:           opts.Now,
		loggerf:       loggerf,
		receiptPrefix: opts.ReceiptPrefix,
		invoicePrefix: opts.InvoicePrefix,
	}
}

// AllocateReceiptNumber returns the next receipt number, e.g. RC-202610-00042.
func (s *Service) AllocateReceiptNumber(ctx context.Context) (string, error) {
	return s.allocate(ctx, repository.CounterReceipt, s.receiptPrefix)
}

// AllocateInvoiceNumber returns the next invoice number, e.g. INV-202610-00042.
func (s *Service) AllocateInvoiceNumber(ctx context.Context) (string, error) {
	return s.allocate(ctx, repository.CounterInvoice, s.invoicePrefix)
}

func (s *Service) allocate(ctx context.Context, counter, prefix string) (string, error) {
	seq, err := s.counters.Increment(ctx, counter)
	if err != nil {
		return "", fmt.Errorf("allocate %s number: %w", counter, err)
	}
	return fmt.Sprintf("%s-%s-%05d", prefix, s.now().In(s.loc).Format("200601"), seq), nil
}

// Finalize builds the payment for a check-out. Totals come from the charge
// list as a whole. The returned payment owns a private copy of charges.
func (s *Service) Finalize(ctx context.Context, b *domain.Booking, charges []domain.Charge, method domain.PaymentMethod, actor domain.Actor) (*domain.Payment, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: booking is required", ErrValidation)
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, method)
	}

	totals := billing.ComputeTotals(s.policy, charges)

	receipt, err := s.AllocateReceiptNumber(ctx)
	if err != nil {
		return nil, err
	}
	invoice, err := s.AllocateInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	p := &domain.Payment{
		ID:            uuid.NewString(),
		BookingID:     b.ID,
		Total:         totals.Total,
		Subtotal:      totals.Subtotal,
		VAT:           totals.VAT,
		Method:        method,
		ReceiptNumber: receipt,
		InvoiceNumber: invoice,
		PaidAt:        s.now().UTC(),
		PaidBy:        actor.ID,
		Charges:       snapshot(charges),
	}
	s.loggerf("level=info msg=payment finalized booking_id=%s receipt=%s invoice=%s total=%s", b.ID, receipt, invoice, totals.Total.StringFixed(2))
	return p, nil
}

func snapshot(charges []domain.Charge) []domain.Charge {
	out := make([]domain.Charge, len(charges))
	copy(out, charges)
	for i := range out {
		if out[i].AuthorizedBy != nil {
			id := *out[i].AuthorizedBy
			out[i].AuthorizedBy = &id
		}
	}
	return out
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	return p, mapRepoErr(err)
}

func (s *Service) GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	p, err := s.payments.GetByBookingID(ctx, bookingID)
	return p, mapRepoErr(err)
}

func mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
