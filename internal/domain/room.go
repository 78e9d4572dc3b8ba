package domain

import "time"

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
)

// RoomStatus is the physical state of a room. Reservations are not a physical
// state; they are overlaid by the availability index.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomCleaning    RoomStatus = "cleaning"
	RoomMaintenance RoomStatus = "maintenance"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomCleaning, RoomMaintenance:
		return true
	}
	return false
}

// DisplayStatus is what the room board shows for a given date.
type DisplayStatus string

const (
	DisplayAvailable   DisplayStatus = "available"
	DisplayReserved    DisplayStatus = "reserved"
	DisplayOccupied    DisplayStatus = "occupied"
	DisplayCleaning    DisplayStatus = "cleaning"
	DisplayMaintenance DisplayStatus = "maintenance"
)

type Room struct {
	ID               int64      `json:"id"`
	Number           int        `json:"number"`
	Type             RoomType   `json:"type"`
	Status           RoomStatus `json:"status"`
	CurrentBookingID *string    `json:"current_booking_id,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type MaintenanceReport struct {
	ID          string    `json:"id"`
	RoomID      int64     `json:"room_id"`
	RoomNumber  int       `json:"room_number"`
	Description string    `json:"description"`
	ReportedBy  int64     `json:"reported_by"`
	Notified    bool      `json:"notified"`
	CreatedAt   time.Time `json:"created_at"`
}
