// Package availability overlays booking date ranges on top of physical room
// status to answer what a room looks like, and whether it can be sold, on a date.
package availability

import (
	"sort"
	"time"

	"hotelfront/internal/domain"
)

// Index is built per request from the rooms and the bookings that touch the
// dates being asked about. It does no I/O.
type Index struct {
	today    time.Time
	rooms    map[int64]domain.Room
	bookings map[int64][]*domain.Booking
}

// New builds an index. today is the current calendar date in the hotel's
// timezone; it decides when physical status wins over bookings.
func New(today time.Time, rooms []domain.Room, bookings []*domain.Booking) *Index {
	idx := &Index{
		today:    domain.DateOf(today),
		rooms:    make(map[int64]domain.Room, len(rooms)),
		bookings: make(map[int64][]*domain.Booking),
	}
	for _, r := range rooms {
		idx.rooms[r.ID] = r
	}
	for _, b := range bookings {
		if b == nil || !b.Status.Active() {
			continue
		}
		for _, roomID := range b.RoomIDs {
			idx.bookings[roomID] = append(idx.bookings[roomID], b)
		}
	}
	return idx
}

// StatusOnDate returns the display status of room on date.
//
// Cleaning and maintenance only show on today's board. For any other date
// the physical status is ignored: the room is assumed ready before a future
// arrival.
func (x *Index) StatusOnDate(room domain.Room, date time.Time) domain.DisplayStatus {
	date = domain.DateOf(date)

	if date.Equal(x.today) {
		switch room.Status {
		case domain.RoomCleaning:
			return domain.DisplayCleaning
		case domain.RoomMaintenance:
			return domain.DisplayMaintenance
		}
	}

	b := x.BookingOn(room.ID, date)
	if b == nil {
		return domain.DisplayAvailable
	}
	if b.Status == domain.BookingCheckedIn {
		return domain.DisplayOccupied
	}
	if domain.DateOf(b.CheckInDate).Equal(date) {
		return domain.DisplayReserved
	}
	return domain.DisplayOccupied
}

// BookingOn returns the active booking holding roomID on date, if any.
func (x *Index) BookingOn(roomID int64, date time.Time) *domain.Booking {
	for _, b := range x.bookings[roomID] {
		if b.Covers(date) {
			return b
		}
	}
	return nil
}

// IsAvailable reports whether room shows as available on every night of
// [checkIn, checkOut).
func (x *Index) IsAvailable(room domain.Room, checkIn, checkOut time.Time) bool {
	for _, d := range domain.DatesInRange(checkIn, checkOut) {
		if x.StatusOnDate(room, d) != domain.DisplayAvailable {
			return false
		}
	}
	return true
}

// Conflict names one room night that cannot be sold.
type Conflict struct {
	RoomID     int64                `json:"room_id"`
	RoomNumber int                  `json:"room_number"`
	Date       time.Time            `json:"date"`
	Status     domain.DisplayStatus `json:"status"`
}

// Conflicts lists every unavailable (room, night) pair for the requested rooms.
// Rooms unknown to the index are skipped; the caller validates room ids.
func (x *Index) Conflicts(roomIDs []int64, checkIn, checkOut time.Time) []Conflict {
	var out []Conflict
	nights := domain.DatesInRange(checkIn, checkOut)
	for _, id := range roomIDs {
		room, ok := x.rooms[id]
		if !ok {
			continue
		}
		for _, d := range nights {
			if s := x.StatusOnDate(room, d); s != domain.DisplayAvailable {
				out = append(out, Conflict{RoomID: id, RoomNumber: room.Number, Date: d, Status: s})
			}
		}
	}
	return out
}

// Available returns the rooms free for the whole range, ordered by number.
func (x *Index) Available(checkIn, checkOut time.Time) []domain.Room {
	out := make([]domain.Room, 0, len(x.rooms))
	for _, r := range x.rooms {
		if x.IsAvailable(r, checkIn, checkOut) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Board is one row of the room board.
type Board struct {
	Room      domain.Room          `json:"room"`
	Status    domain.DisplayStatus `json:"display_status"`
	BookingID *string              `json:"booking_id,omitempty"`
	GuestName string               `json:"guest_name,omitempty"`
}

// BoardOn returns every room's display status on date, ordered by number.
func (x *Index) BoardOn(date time.Time) []Board {
	out := make([]Board, 0, len(x.rooms))
	for _, r := range x.rooms {
		row := Board{Room: r, Status: x.StatusOnDate(r, date)}
		if b := x.BookingOn(r.ID, date); b != nil {
			id := b.ID
			row.BookingID = &id
			row.GuestName = b.Guest.Name
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Room.Number < out[j].Room.Number })
	return out
}
