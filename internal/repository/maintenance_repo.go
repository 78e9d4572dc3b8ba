package repository

import (
	"context"
	"time"

	"hotelfront/internal/domain"

	"gorm.io/gorm"
)

type MaintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

func (r *MaintenanceRepository) Create(ctx context.Context, rep *domain.MaintenanceReport) error {
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = time.Now().UTC()
	}
	m := maintenanceReportModel{
		ID:          rep.ID,
		RoomID:      rep.RoomID,
		Description: rep.Description,
		ReportedBy:  rep.ReportedBy,
		Notified:    rep.Notified,
		CreatedAt:   rep.CreatedAt,
	}
	return translate(conn(ctx, r.db).Create(&m).Error)
}

func (r *MaintenanceRepository) MarkNotified(ctx context.Context, id string) error {
	res := conn(ctx, r.db).
		Model(&maintenanceReportModel{}).
		Where("id = ?", id).
		Update("notified", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByRoom returns a room's reports, newest first.
func (r *MaintenanceRepository) ListByRoom(ctx context.Context, roomID int64) ([]domain.MaintenanceReport, error) {
	var rows []maintenanceReportModel
	err := conn(ctx, r.db).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.MaintenanceReport, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.MaintenanceReport{
			ID:          m.ID,
			RoomID:      m.RoomID,
			Description: m.Description,
			ReportedBy:  m.ReportedBy,
			Notified:    m.Notified,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out, nil
}
