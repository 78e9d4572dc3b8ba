package repository

import (
	"context"
	"time"

	"hotelfront/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns every room ordered by room number.
func (r *RoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	var rows []roomModel
	if err := conn(ctx, r.db).Order("number ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainRooms(rows), nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	if err := conn(ctx, r.db).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	room := toDomainRoom(m)
	return &room, nil
}

// GetByIDs locks and returns the requested rooms. Missing ids are simply
// absent from the result; callers compare lengths.
func (r *RoomRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Room, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []roomModel
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainRooms(rows), nil
}

// SetStatus moves the given rooms to status and records which booking, if
// any, now holds them.
func (r *RoomRepository) SetStatus(ctx context.Context, ids []int64, status domain.RoomStatus, bookingID *string) error {
	if len(ids) == 0 {
		return nil
	}
	res := conn(ctx, r.db).
		Model(&roomModel{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"status":             string(status),
			"current_booking_id": bookingID,
			"updated_at":         time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	m := toRoomModel(room)
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = time.Now().UTC()
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return translate(err)
	}
	room.ID = m.ID
	room.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *RoomRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&roomModel{}).Count(&n).Error
	return n, err
}

func toDomainRoom(m roomModel) domain.Room {
	return domain.Room{
		ID:               m.ID,
		Number:           m.Number,
		Type:             domain.RoomType(m.Type),
		Status:           domain.RoomStatus(m.Status),
		CurrentBookingID: m.CurrentBookingID,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toDomainRooms(rows []roomModel) []domain.Room {
	out := make([]domain.Room, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainRoom(m))
	}
	return out
}

func toRoomModel(r *domain.Room) roomModel {
	status := r.Status
	if status == "" {
		status = domain.RoomAvailable
	}
	return roomModel{
		ID:               r.ID,
		Number:           r.Number,
		Type:             string(r.Type),
		Status:           string(status),
		CurrentBookingID: r.CurrentBookingID,
		UpdatedAt:        r.UpdatedAt,
	}
}
