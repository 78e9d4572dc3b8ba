package room

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelfront/internal/availability"
	"hotelfront/internal/domain"
	"hotelfront/internal/notification"
	"hotelfront/internal/pricing"
	"hotelfront/internal/repository"

	"github.com/google/uuid"
)

const notifyTimeout = 5 * time.Second

type Deps struct {
	Rooms    RoomRepository
	Bookings BookingReader
	Reports  ReportRepository
	Tx       Transactor
	Notifier notification.Notifier
}

type Options struct {
	Policy   pricing.Policy
	Location *time.Location
	Now      func() time.Time
}

type Service struct {
	rooms    RoomRepository
	bookings BookingReader
	reports  ReportRepository
	tx       Transactor
	notifier notification.Notifier

	policy  pricing.Policy
	loc     *time.Location
	now     func() time.Time
	loggerf func(format string, args ...interface{})
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
		rooms:    deps.Rooms,
		bookings: deps.Bookings,
		reports:  deps.Reports,
		tx:       deps.Tx,
		notifier: deps.Notifier,
		policy:   opts.Policy,
		loc:      opts.Location,
		now:      opts.Now,
		loggerf:  loggerf,
	}
}

func (s *Service) Today() time.Time {
	return domain.DateIn(s.now(), s.loc)
}

// Board returns every room with its display status on date. A zero date
// means today.
func (s *Service) Board(ctx context.Context, date time.Time) ([]availability.Board, error) {
	if date.IsZero() {
		date = s.Today()
	}
	date = domain.DateOf(date)

	idx, err := s.index(ctx, date, date.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return idx.BoardOn(date), nil
}

// Available lists the rooms free for every night of [checkIn, checkOut).
func (s *Service) Available(ctx context.Context, checkIn, checkOut time.Time) ([]domain.Room, error) {
	checkIn, checkOut = domain.DateOf(checkIn), domain.DateOf(checkOut)
	if !checkOut.After(checkIn) {
		return nil, fmt.Errorf("%w: check_out must be after check_in", ErrValidation)
	}

	idx, err := s.index(ctx, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	return idx.Available(checkIn, checkOut), nil
}

func (s *Service) index(ctx context.Context, from, to time.Time) (*availability.Index, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	active, err := s.bookings.ListActiveInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return availability.New(s.Today(), rooms, active), nil
}

// UpdateStatus is the housekeeping switch between available, cleaning and
// maintenance. Occupancy only changes through check-in and check-out.
func (s *Service) UpdateStatus(ctx context.Context, roomID int64, status domain.RoomStatus, actor domain.Actor) (*domain.Room, error) {
	switch status {
	case domain.RoomAvailable, domain.RoomCleaning, domain.RoomMaintenance:
	case domain.RoomOccupied:
		return nil, fmt.Errorf("%w: occupied is set by check-in", ErrValidation)
	default:
		return nil, fmt.Errorf("%w: unknown room status %q", ErrValidation, status)
	}

	var room domain.Room
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if room, err = s.lock(ctx, roomID); err != nil {
			return err
		}
		if room.Status == domain.RoomOccupied {
			return fmt.Errorf("%w: room %d", ErrOccupied, room.Number)
		}
		if err := s.rooms.SetStatus(ctx, []int64{room.ID}, status, nil); err != nil {
			return fmt.Errorf("set status: %w", err)
		}
		room.Status = status
		room.CurrentBookingID = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=room status changed room=%d status=%s by=%d role=%s", room.Number, status, actor.ID, actor.Role)
	return &room, nil
}

// ReportMaintenance records a repair request and tells the staff chat. A
// failed notification leaves the report stored with notified=false.
func (s *Service) ReportMaintenance(ctx context.Context, roomID int64, req MaintenanceReportRequest, actor domain.Actor) (*domain.MaintenanceReport, error) {
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}

	rep := &domain.MaintenanceReport{
		ID:          uuid.NewString(),
		RoomID:      roomID,
		Description: desc,
		ReportedBy:  actor.ID,
		CreatedAt:   s.now().UTC(),
	}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		room, err := s.lock(ctx, roomID)
		if err != nil {
			return err
		}
		rep.RoomNumber = room.Number

		if err := s.reports.Create(ctx, rep); err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		if req.SetMaintenance && room.Status != domain.RoomOccupied {
			if err := s.rooms.SetStatus(ctx, []int64{room.ID}, domain.RoomMaintenance, nil); err != nil {
				return fmt.Errorf("set maintenance: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=maintenance reported room=%d report_id=%s by=%d", rep.RoomNumber, rep.ID, actor.ID)

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	res, err := s.notifier.Notify(nctx, notification.Event{
		Type:    notification.EventMaintenanceReported,
		Message: fmt.Sprintf("Room %d: %s (reported by %s)", rep.RoomNumber, desc, actor.Name),
		Payload: rep,
		At:      s.now().UTC(),
	})
	if err != nil || !res.Success {
		s.loggerf("level=warn msg=maintenance notification failed report_id=%s sent_to=%v err=%v", rep.ID, res.SentTo, err)
		return rep, nil
	}

	if err := s.reports.MarkNotified(ctx, rep.ID); err != nil {
		s.loggerf("level=warn msg=mark notified failed report_id=%s err=%v", rep.ID, err)
		return rep, nil
	}
	rep.Notified = true
	return rep, nil
}

func (s *Service) Reports(ctx context.Context, roomID int64) ([]domain.MaintenanceReport, error) {
	room, err := s.get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	list, err := s.reports.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].RoomNumber = room.Number
	}
	return list, nil
}

func (s *Service) Tiers() []pricing.TierRate {
	return s.policy.Tiers()
}

func (s *Service) get(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return room, err
}

func (s *Service) lock(ctx context.Context, id int64) (domain.Room, error) {
	rooms, err := s.rooms.GetByIDs(ctx, []int64{id})
	if err != nil {
		return domain.Room{}, err
	}
	if len(rooms) == 0 {
		return domain.Room{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return rooms[0], nil
}
