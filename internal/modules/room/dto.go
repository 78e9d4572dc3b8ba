package room

import "hotelfront/internal/domain"

type UpdateStatusRequest struct {
	Status domain.RoomStatus `json:"status" binding:"required"`
}

// MaintenanceReportRequest files a repair request. SetMaintenance also takes
// the room out of service unless a guest is in it.
type MaintenanceReportRequest struct {
	Description    string `json:"description" binding:"required"`
	SetMaintenance bool   `json:"set_maintenance"`
}
