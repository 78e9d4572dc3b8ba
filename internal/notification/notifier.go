// Package notification delivers staff-facing events. Delivery is best
// effort: callers log failures and carry on.
package notification

import (
	"context"
	"errors"
	"time"
)

type EventType string

const (
	EventBookingCreated      EventType = "booking_created"
	EventBookingCheckedIn    EventType = "booking_checked_in"
	EventBookingCheckedOut   EventType = "booking_checked_out"
	EventBookingCancelled    EventType = "booking_cancelled"
	EventMaintenanceReported EventType = "maintenance_reported"
)

type Event struct {
	Type    EventType `json:"type"`
	Message string    `json:"message"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

// Result reports where an event was delivered.
type Result struct {
	Success bool     `json:"success"`
	SentTo  []string `json:"sent_to,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, e Event) (Result, error)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) (Result, error) {
	return Result{Success: true}, nil
}

// Fanout sends each event to every channel. One failing channel does not
// stop the others; the joined error lists every failure.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, e Event) (Result, error) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	var (
		res  Result
		errs []error
	)
	for _, n := range f {
		if n == nil {
			continue
		}
		r, err := n.Notify(ctx, e)
		if err != nil {
			errs = append(errs, err)
		}
		res.SentTo = append(res.SentTo, r.SentTo...)
	}
	res.Success = len(errs) == 0
	return res, errors.Join(errs...)
}
