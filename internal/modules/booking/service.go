package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelfront/internal/availability"
	"hotelfront/internal/billing"
	"hotelfront/internal/domain"
	"hotelfront/internal/notification"
	"hotelfront/internal/pkg/validator"
	"hotelfront/internal/pricing"
	"hotelfront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const notifyTimeout = 5 * time.Second

type Deps struct {
	Bookings BookingRepository
	Rooms    RoomRepository
	Payments PaymentStore
	Recorder PaymentRecorder
	Tx       Transactor
	Notifier notification.Notifier
}

type Options struct {
	Policy   pricing.Policy
	Location *time.Location
	Now      func() time.Time
}

// Service owns the booking state machine:
// reserved -> checked-in -> checked-out, and reserved -> cancelled.
type Service struct {
	bookings BookingRepository
	rooms    RoomRepository
	payments PaymentStore
	recorder PaymentRecorder
	tx       Transactor
	notifier notification.Notifier

	policy   pricing.Policy
	composer *billing.Composer
	loc      *time.Location
	now      func() time.Time
	loggerf  func(format string, args ...interface{})
}

func NewService(deps Deps, opts Options, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	if deps.Notifier == nil {
		deps.Notifier = notification.Nop{}
	}
	if opts.Policy.Rates == nil {
		opts.Policy = pricing.DefaultPolicy()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		bookings: deps.Bookings,
		rooms:    deps.Rooms,
		payments: deps.Payments,
		recorder: deps.Recorder,
		tx:       deps.Tx,
		notifier: deps.Notifier,
		policy:   opts.Policy,
		composer: billing.NewComposer(opts.Policy, opts.Location),
		loc:      opts.Location,
		now:      opts.Now,
		loggerf:  loggerf,
	}
}

func (s *Service) today() time.Time {
	return domain.DateIn(s.now(), s.loc)
}

// Create validates the request and reserves every requested room for every
// night of the stay. Either all rooms are reserved or none.
func (s *Service) Create(ctx context.Context, req CreateBookingRequest, actor domain.Actor) (*domain.Booking, error) {
	b, err := s.newBooking(req, actor)
	if err != nil {
		return nil, err
	}

	var rooms []domain.Room
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rooms, err = s.rooms.GetByIDs(ctx, b.RoomIDs)
		if err != nil {
			return err
		}
		if missing := missingRooms(b.RoomIDs, rooms); len(missing) > 0 {
			return &ValidationError{Fields: map[string]string{"room_ids": "unknown room id(s) " + joinIDs(missing)}}
		}

		active, err := s.bookings.ListActiveInRange(ctx, b.CheckInDate, b.CheckOutDate)
		if err != nil {
			return err
		}
		idx := availability.New(s.today(), rooms, active)
		if conflicts := idx.Conflicts(b.RoomIDs, b.CheckInDate, b.CheckOutDate); len(conflicts) > 0 {
			return &AvailabilityError{Conflicts: conflicts}
		}

		if err := s.bookings.Create(ctx, b); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return &AvailabilityError{}
			}
			return fmt.Errorf("create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=booking created booking_id=%s rooms=%s check_in=%s check_out=%s by=%d",
		b.ID, roomNumbers(rooms), b.CheckInDate.Format(domain.DateLayout), b.CheckOutDate.Format(domain.DateLayout), actor.ID)
	s.notify(ctx, notification.EventBookingCreated, b,
		fmt.Sprintf("%s, room %s, %s to %s (%s)", b.Guest.Name, roomNumbers(rooms),
			b.CheckInDate.Format(domain.DateLayout), b.CheckOutDate.Format(domain.DateLayout), b.Source))
	return b, nil
}

func (s *Service) newBooking(req CreateBookingRequest, actor domain.Actor) (*domain.Booking, error) {
	fe := fieldErrors{}

	for field, rule := range validator.Validate(req.Guest) {
		fe.add("guest."+field, rule)
	}

	roomIDs := make([]int64, 0, len(req.RoomIDs))
	seen := make(map[int64]bool, len(req.RoomIDs))
	for _, id := range req.RoomIDs {
		if id <= 0 || seen[id] {
			fe.add("room_ids", "room ids must be positive and unique")
			continue
		}
		seen[id] = true
		roomIDs = append(roomIDs, id)
	}
	if len(req.RoomIDs) == 0 {
		fe.add("room_ids", "select at least one room")
	}

	checkIn, err := domain.ParseDate(strings.TrimSpace(req.CheckInDate))
	if err != nil {
		fe.add("check_in_date", "expected YYYY-MM-DD")
	}
	checkOut, err2 := domain.ParseDate(strings.TrimSpace(req.CheckOutDate))
	if err2 != nil {
		fe.add("check_out_date", "expected YYYY-MM-DD")
	}
	if err == nil && err2 == nil {
		if !checkOut.After(checkIn) {
			fe.add("check_out_date", "must be after check-in date")
		}
		if checkIn.Before(s.today()) {
			fe.add("check_in_date", "must not be in the past")
		}
	}

	tier := req.PricingTier
	if tier == "" {
		tier = domain.TierGeneral
	}
	if !tier.Valid() {
		fe.add("pricing_tier", "must be general, tour or vip")
	}

	source := req.Source
	if source == "" {
		source = domain.SourceWalkIn
	}
	if !source.Valid() {
		fe.add("source", "must be walk-in, phone or ota")
	}

	if req.Deposit.IsNegative() {
		fe.add("deposit", "must not be negative")
	}

	id := uuid.NewString()
	now := s.now().UTC()
	charges := make([]domain.Charge, 0, len(req.AdditionalCharges))
	for i, cr := range req.AdditionalCharges {
		c, err := buildCharge(id, cr, now)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				for k, v := range ve.Fields {
					fe.add(fmt.Sprintf("additional_charges[%d].%s", i, k), v)
				}
				continue
			}
			return nil, err
		}
		charges = append(charges, c)
	}

	if err := fe.err(); err != nil {
		return nil, err
	}

	return &domain.Booking{
		ID:      id,
		RoomIDs: roomIDs,
		Guest: domain.Guest{
			Name:     strings.TrimSpace(req.Guest.Name),
			IDNumber: strings.TrimSpace(req.Guest.IDNumber),
			Phone:    strings.TrimSpace(req.Guest.Phone),
			Address:  strings.TrimSpace(req.Guest.Address),
		},
		CheckInDate:       checkIn,
		CheckOutDate:      checkOut,
		PricingTier:       tier,
		BaseRate:          s.policy.BaseRateFor(tier),
		Source:            source,
		Status:            domain.BookingReserved,
		GroupName:         strings.TrimSpace(req.GroupName),
		Notes:             req.Notes,
		Deposit:           req.Deposit,
		AdditionalCharges: charges,
		CreatedAt:         now,
		CreatedBy:         actor.ID,
		UpdatedAt:         now,
	}, nil
}

// CheckIn moves a reserved booking to checked-in and marks its rooms
// occupied.
func (s *Service) CheckIn(ctx context.Context, id string, req CheckInRequest, actor domain.Actor) (*domain.Booking, error) {
	at := s.now()
	if req.At != nil {
		at = *req.At
	}

	var b *domain.Booking
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if b, err = s.lock(ctx, id); err != nil {
			return err
		}
		if b.Status != domain.BookingReserved {
			return transitionError(b, "check in")
		}
		// Only the booked nights are claimed, so arrival may be early on the
		// check-in date but never on an earlier day.
		if domain.DateIn(at, s.loc).Before(domain.DateOf(b.CheckInDate)) {
			return &ValidationError{Fields: map[string]string{"actual_check_in_time": "must not be before the check-in date"}}
		}
		if !at.Before(s.policy.ScheduledCheckOut(b.CheckOutDate, s.loc)) {
			return &ValidationError{Fields: map[string]string{"actual_check_in_time": "must be before the scheduled check-out"}}
		}

		rooms, err := s.rooms.GetByIDs(ctx, b.RoomIDs)
		if err != nil {
			return err
		}
		var busy []availability.Conflict
		for _, r := range rooms {
			if r.Status == domain.RoomOccupied && (r.CurrentBookingID == nil || *r.CurrentBookingID != b.ID) {
				busy = append(busy, availability.Conflict{
					RoomID:     r.ID,
					RoomNumber: r.Number,
					Date:       domain.DateIn(at, s.loc),
					Status:     domain.DisplayOccupied,
				})
			}
		}
		if len(busy) > 0 {
			return &AvailabilityError{Conflicts: busy}
		}

		t := at.UTC()
		b.Status = domain.BookingCheckedIn
		b.ActualCheckInTime = &t
		if err := s.bookings.Update(ctx, b); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}
		bookingID := b.ID
		if err := s.rooms.SetStatus(ctx, b.RoomIDs, domain.RoomOccupied, &bookingID); err != nil {
			return fmt.Errorf("occupy rooms: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=booking checked in booking_id=%s at=%s by=%d", b.ID, at.Format(time.RFC3339), actor.ID)
	s.notify(ctx, notification.EventBookingCheckedIn, b,
		fmt.Sprintf("%s checked in at %s", b.Guest.Name, at.In(s.loc).Format("2006-01-02 15:04")))
	return b, nil
}

// PreviewCheckout composes the bill without changing anything. It can be
// called as often as the operator edits the check-out inputs.
func (s *Service) PreviewCheckout(ctx context.Context, id string, req CheckoutRequest, actor domain.Actor) (*CheckoutPreview, error) {
	if err := validateAdjustments(req, false); err != nil {
		return nil, err
	}

	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingCheckedIn {
		return nil, transitionError(b, "check out")
	}

	rooms, err := s.rooms.GetByIDs(ctx, b.RoomIDs)
	if err != nil {
		return nil, err
	}

	at := s.checkoutAt(req)
	charges := s.compose(b, rooms, at, req, actor)
	return &CheckoutPreview{
		BookingID:       b.ID,
		CheckOutAt:      at,
		Charges:         charges,
		Totals:          billing.ComputeTotals(s.policy, charges),
		DiscountSkipped: req.Discount.IsPositive() && !actor.Role.CanAuthorizeDiscount(),
	}, nil
}

// CheckOut bills the stay and closes it. The payment, the booking update,
// the released nights and the room status changes commit together.
func (s *Service) CheckOut(ctx context.Context, id string, req CheckoutRequest, actor domain.Actor) (*CheckoutResult, error) {
	if err := validateAdjustments(req, true); err != nil {
		return nil, err
	}
	at := s.checkoutAt(req)

	var (
		b *domain.Booking
		p *domain.Payment
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if b, err = s.lock(ctx, id); err != nil {
			return err
		}
		if b.Status != domain.BookingCheckedIn {
			return transitionError(b, "check out")
		}
		if b.ActualCheckInTime != nil && at.Before(*b.ActualCheckInTime) {
			return &ValidationError{Fields: map[string]string{"actual_check_out_time": "must not be before check-in"}}
		}

		rooms, err := s.rooms.GetByIDs(ctx, b.RoomIDs)
		if err != nil {
			return err
		}
		charges := s.compose(b, rooms, at, req, actor)

		if p, err = s.recorder.Finalize(ctx, b, charges, req.Method, actor); err != nil {
			return fmt.Errorf("finalize payment: %w", err)
		}
		if err := s.payments.Create(ctx, p); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%w: booking %s is already paid", ErrInvalidStatusTransition, b.ID)
			}
			return fmt.Errorf("store payment: %w", err)
		}

		t := at.UTC()
		b.Status = domain.BookingCheckedOut
		b.ActualCheckOutTime = &t
		if err := s.bookings.Update(ctx, b); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}
		if err := s.bookings.ReleaseNights(ctx, b.ID); err != nil {
			return fmt.Errorf("release nights: %w", err)
		}
		if err := s.rooms.SetStatus(ctx, b.RoomIDs, domain.RoomCleaning, nil); err != nil {
			return fmt.Errorf("release rooms: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=booking checked out booking_id=%s receipt=%s total=%s by=%d",
		b.ID, p.ReceiptNumber, p.Total.StringFixed(2), actor.ID)
	s.notify(ctx, notification.EventBookingCheckedOut, p,
		fmt.Sprintf("%s checked out, receipt %s, total %s (%s)", b.Guest.Name, p.ReceiptNumber, p.Total.StringFixed(2), p.Method))
	return &CheckoutResult{
		Booking:         b,
		Payment:         p,
		DiscountSkipped: req.Discount.IsPositive() && !actor.Role.CanAuthorizeDiscount(),
	}, nil
}

// Cancel ends a reserved booking and frees its nights. Room status is not
// touched: a reserved booking never held the rooms physically.
func (s *Service) Cancel(ctx context.Context, id string, actor domain.Actor) (*domain.Booking, error) {
	var b *domain.Booking
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if b, err = s.lock(ctx, id); err != nil {
			return err
		}
		if b.Status != domain.BookingReserved {
			return transitionError(b, "cancel")
		}

		b.Status = domain.BookingCancelled
		if err := s.bookings.Update(ctx, b); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}
		return s.bookings.ReleaseNights(ctx, b.ID)
	})
	if err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=booking cancelled booking_id=%s by=%d", b.ID, actor.ID)
	s.notify(ctx, notification.EventBookingCancelled, b,
		fmt.Sprintf("%s, %s to %s", b.Guest.Name, b.CheckInDate.Format(domain.DateLayout), b.CheckOutDate.Format(domain.DateLayout)))
	return b, nil
}

// AddCharge appends an ad-hoc service to an open booking.
func (s *Service) AddCharge(ctx context.Context, bookingID string, req AddChargeRequest, actor domain.Actor) (*domain.Charge, error) {
	var c domain.Charge
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		b, err := s.lock(ctx, bookingID)
		if err != nil {
			return err
		}
		if !b.Status.Active() {
			return transitionError(b, "add a charge to")
		}

		if c, err = buildCharge(b.ID, req, s.now().UTC()); err != nil {
			return err
		}
		return s.bookings.AddCharge(ctx, &c)
	})
	if err != nil {
		return nil, err
	}
	s.loggerf("level=info msg=charge added booking_id=%s charge_id=%s amount=%s by=%d", bookingID, c.ID, c.Amount.StringFixed(2), actor.ID)
	return &c, nil
}

// RemoveCharge drops an ad-hoc charge from an open booking.
func (s *Service) RemoveCharge(ctx context.Context, bookingID, chargeID string, actor domain.Actor) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		b, err := s.lock(ctx, bookingID)
		if err != nil {
			return err
		}
		if !b.Status.Active() {
			return transitionError(b, "remove a charge from")
		}
		if err := s.bookings.RemoveCharge(ctx, b.ID, chargeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: charge %s", ErrNotFound, chargeID)
			}
			return err
		}
		s.loggerf("level=info msg=charge removed booking_id=%s charge_id=%s by=%d", b.ID, chargeID, actor.ID)
		return nil
	})
}

// UpdateDeposit replaces the deposit held for an open booking.
func (s *Service) UpdateDeposit(ctx context.Context, bookingID string, deposit decimal.Decimal, actor domain.Actor) (*domain.Booking, error) {
	if deposit.IsNegative() {
		return nil, &ValidationError{Fields: map[string]string{"deposit": "must not be negative"}}
	}

	var b *domain.Booking
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if b, err = s.lock(ctx, bookingID); err != nil {
			return err
		}
		if !b.Status.Active() {
			return transitionError(b, "change the deposit of")
		}
		b.Deposit = deposit
		return s.bookings.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	s.loggerf("level=info msg=deposit updated booking_id=%s deposit=%s by=%d", b.ID, deposit.StringFixed(2), actor.ID)
	return b, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return s.get(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Booking, error) {
	if f.Status != "" {
		switch f.Status {
		case domain.BookingReserved, domain.BookingCheckedIn, domain.BookingCheckedOut, domain.BookingCancelled:
		default:
			return nil, &ValidationError{Fields: map[string]string{"status": "unknown booking status"}}
		}
	}
	return s.bookings.List(ctx, repository.BookingFilter{
		Status: f.Status,
		Date:   f.Date,
		Limit:  f.Limit,
		Offset: f.Offset,
	})
}

func (s *Service) get(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return b, err
}

func (s *Service) lock(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.bookings.GetByIDForUpdate(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return b, err
}

func (s *Service) checkoutAt(req CheckoutRequest) time.Time {
	if req.At != nil {
		return *req.At
	}
	return s.now()
}

func (s *Service) compose(b *domain.Booking, rooms []domain.Room, at time.Time, req CheckoutRequest, actor domain.Actor) []domain.Charge {
	if req.Discount.IsPositive() && !actor.Role.CanAuthorizeDiscount() {
		s.loggerf("level=warn msg=discount skipped booking_id=%s user_id=%d role=%s amount=%s",
			b.ID, actor.ID, actor.Role, req.Discount.StringFixed(2))
	}
	return s.composer.Compose(billing.Input{
		Booking:        b,
		Rooms:          rooms,
		CheckOutAt:     at,
		Penalty:        req.Penalty,
		PenaltyReason:  req.PenaltyReason,
		Discount:       req.Discount,
		DiscountReason: req.DiscountReason,
		Actor:          actor,
	})
}

// notify runs after commit. Delivery problems are logged, never returned.
func (s *Service) notify(ctx context.Context, typ notification.EventType, payload any, msg string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	res, err := s.notifier.Notify(ctx, notification.Event{
		Type:    typ,
		Message: msg,
		Payload: payload,
		At:      s.now().UTC(),
	})
	if err != nil {
		s.loggerf("level=warn msg=notification failed type=%s sent_to=%v err=%v", typ, res.SentTo, err)
	}
}

func validateAdjustments(req CheckoutRequest, needMethod bool) error {
	fe := fieldErrors{}
	if needMethod && !req.Method.Valid() {
		fe.add("method", "must be cash, transfer or qr")
	}
	if req.Penalty.IsNegative() {
		fe.add("penalty", "must not be negative")
	}
	if req.Discount.IsNegative() {
		fe.add("discount", "must not be negative")
	}
	return fe.err()
}

func buildCharge(bookingID string, req AddChargeRequest, now time.Time) (domain.Charge, error) {
	fe := fieldErrors{}
	code := strings.TrimSpace(req.Preset)
	if code == "" {
		code = billing.PresetOther
	}

	preset, ok := billing.PresetByCode(code)
	if !ok {
		fe.add("preset", "unknown preset")
		return domain.Charge{}, fe.err()
	}

	var (
		desc   string
		amount decimal.Decimal
	)
	if preset.FreeText {
		desc = strings.TrimSpace(req.Description)
		if desc == "" {
			fe.add("description", "required for a custom charge")
		}
		switch {
		case req.Amount == nil:
			fe.add("amount", "required for a custom charge")
		case req.Amount.IsNegative():
			fe.add("amount", "must not be negative")
		default:
			amount = req.Amount.Round(2)
		}
	} else {
		qty := req.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			fe.add("quantity", "must be positive")
		}
		desc = preset.Description
		if qty > 1 {
			desc = fmt.Sprintf("%s x%d", preset.Description, qty)
		}
		if note := strings.TrimSpace(req.Description); note != "" {
			desc += ": " + note
		}
		amount = preset.Amount.Mul(decimal.NewFromInt(int64(qty)))
	}
	if err := fe.err(); err != nil {
		return domain.Charge{}, err
	}

	return domain.Charge{
		ID:          uuid.NewString(),
		BookingID:   bookingID,
		Type:        domain.ChargeOther,
		Description: desc,
		Amount:      amount,
		CreatedAt:   now,
	}, nil
}

func missingRooms(ids []int64, rooms []domain.Room) []int64 {
	found := make(map[int64]bool, len(rooms))
	for _, r := range rooms {
		found[r.ID] = true
	}
	var out []int64
	for _, id := range ids {
		if !found[id] {
			out = append(out, id)
		}
	}
	return out
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return strings.Join(parts, ", ")
}

func roomNumbers(rooms []domain.Room) string {
	parts := make([]string, 0, len(rooms))
	for _, r := range rooms {
		parts = append(parts, fmt.Sprintf("%d", r.Number))
	}
	return strings.Join(parts, ", ")
}
