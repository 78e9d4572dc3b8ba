package repository

import (
	"context"
	"database/sql"
	"time"

	"hotelfront/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingFilter struct {
	Status domain.BookingStatus
	Date   *time.Time
	Limit  int
	Offset int
}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create stores the booking, its additional charges and one claim per room
// night. A claim that collides with another live booking returns ErrConflict
// and nothing is written.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return withinTx(ctx, r.db, func(tx *gorm.DB) error {
		m := toBookingModel(b)
		if err := tx.Create(&m).Error; err != nil {
			return translate(err)
		}
		if err := claimNights(tx, b); err != nil {
			return err
		}
		for i := range b.AdditionalCharges {
			b.AdditionalCharges[i].BookingID = b.ID
			c := toChargeModel(&b.AdditionalCharges[i], i+1)
			if err := tx.Create(&c).Error; err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

func claimNights(tx *gorm.DB, b *domain.Booking) error {
	nights := b.Nights()
	claims := make([]roomNightModel, 0, len(nights)*len(b.RoomIDs))
	for _, roomID := range b.RoomIDs {
		for _, d := range nights {
			claims = append(claims, roomNightModel{
				RoomID:    roomID,
				Night:     d.Format(domain.DateLayout),
				BookingID: b.ID,
			})
		}
	}
	if len(claims) == 0 {
		return nil
	}
	if err := tx.Create(&claims).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return r.get(conn(ctx, r.db), id)
}

// GetByIDForUpdate is GetByID with a row lock; use it inside a transaction.
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	return r.get(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *BookingRepository) get(q *gorm.DB, id string) (*domain.Booking, error) {
	var m bookingModel
	if err := q.First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}

	var charges []chargeModel
	if err := q.Session(&gorm.Session{NewDB: true}).
		Where("booking_id = ?", id).
		Order("seq ASC").
		Find(&charges).Error; err != nil {
		return nil, err
	}

	b := toDomainBooking(m)
	b.AdditionalCharges = toDomainCharges(charges)
	return &b, nil
}

// List returns bookings newest first. Charges are not loaded.
func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, error) {
	q := conn(ctx, r.db).Model(&bookingModel{})
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Date != nil {
		d := domain.DateOf(*f.Date)
		q = q.Where("check_in_date <= ? AND check_out_date > ?", d, d)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var rows []bookingModel
	if err := q.Order("check_in_date DESC, created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainBooking(m))
	}
	return out, nil
}

// ListActiveInRange returns reserved or checked-in bookings holding at least
// one room night in [from, to).
func (r *BookingRepository) ListActiveInRange(ctx context.Context, from, to time.Time) ([]*domain.Booking, error) {
	db := conn(ctx, r.db)

	sub := db.Session(&gorm.Session{NewDB: true}).
		Model(&roomNightModel{}).
		Select("DISTINCT booking_id").
		Where("night >= ? AND night < ?", domain.DateOf(from).Format(domain.DateLayout), domain.DateOf(to).Format(domain.DateLayout))

	var rows []bookingModel
	err := db.
		Where("id IN (?)", sub).
		Where("status IN ?", []string{string(domain.BookingReserved), string(domain.BookingCheckedIn)}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Booking, 0, len(rows))
	for _, m := range rows {
		b := toDomainBooking(m)
		out = append(out, &b)
	}
	return out, nil
}

// Update writes the mutable booking columns. Charges are managed through
// AddCharge and RemoveCharge.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	b.UpdatedAt = time.Now().UTC()
	res := conn(ctx, r.db).
		Model(&bookingModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"status":                string(b.Status),
			"actual_check_in_time":  b.ActualCheckInTime,
			"actual_check_out_time": b.ActualCheckOutTime,
			"deposit":               b.Deposit,
			"notes":                 strPtr(b.Notes),
			"updated_at":            b.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReleaseNights frees every room night the booking holds.
func (r *BookingRepository) ReleaseNights(ctx context.Context, bookingID string) error {
	return conn(ctx, r.db).Where("booking_id = ?", bookingID).Delete(&roomNightModel{}).Error
}

// AddCharge appends c after the booking's existing charges.
func (r *BookingRepository) AddCharge(ctx context.Context, c *domain.Charge) error {
	return withinTx(ctx, r.db, func(tx *gorm.DB) error {
		var maxSeq sql.NullInt64
		if err := tx.Model(&chargeModel{}).
			Where("booking_id = ?", c.BookingID).
			Select("MAX(seq)").
			Row().
			Scan(&maxSeq); err != nil {
			return err
		}
		next := int(maxSeq.Int64) + 1

		m := toChargeModel(c, next)
		if err := tx.Create(&m).Error; err != nil {
			return translate(err)
		}
		c.CreatedAt = m.CreatedAt
		return nil
	})
}

func (r *BookingRepository) RemoveCharge(ctx context.Context, bookingID, chargeID string) error {
	res := conn(ctx, r.db).
		Where("booking_id = ? AND id = ?", bookingID, chargeID).
		Delete(&chargeModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func toBookingModel(b *domain.Booking) bookingModel {
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}
	return bookingModel{
		ID:                 b.ID,
		RoomIDs:            append([]int64(nil), b.RoomIDs...),
		GuestName:          b.Guest.Name,
		GuestIDNumber:      b.Guest.IDNumber,
		GuestPhone:         b.Guest.Phone,
		GuestAddress:       strPtr(b.Guest.Address),
		CheckInDate:        domain.DateOf(b.CheckInDate),
		CheckOutDate:       domain.DateOf(b.CheckOutDate),
		ActualCheckInTime:  b.ActualCheckInTime,
		ActualCheckOutTime: b.ActualCheckOutTime,
		PricingTier:        string(b.PricingTier),
		BaseRate:           b.BaseRate,
		Source:             string(b.Source),
		Status:             string(b.Status),
		GroupName:          strPtr(b.GroupName),
		Notes:              strPtr(b.Notes),
		Deposit:            b.Deposit,
		CreatedAt:          b.CreatedAt,
		CreatedBy:          b.CreatedBy,
		UpdatedAt:          b.UpdatedAt,
	}
}

func toDomainBooking(m bookingModel) domain.Booking {
	return domain.Booking{
		ID:      m.ID,
		RoomIDs: append([]int64(nil), m.RoomIDs...),
		Guest: domain.Guest{
			Name:     m.GuestName,
			IDNumber: m.GuestIDNumber,
			Phone:    m.GuestPhone,
			Address:  strVal(m.GuestAddress),
		},
		CheckInDate:        domain.DateOf(m.CheckInDate.UTC()),
		CheckOutDate:       domain.DateOf(m.CheckOutDate.UTC()),
		ActualCheckInTime:  m.ActualCheckInTime,
		ActualCheckOutTime: m.ActualCheckOutTime,
		PricingTier:        domain.PricingTier(m.PricingTier),
		BaseRate:           m.BaseRate,
		Source:             domain.BookingSource(m.Source),
		Status:             domain.BookingStatus(m.Status),
		GroupName:          strVal(m.GroupName),
		Notes:              strVal(m.Notes),
		Deposit:            m.Deposit,
		AdditionalCharges:  []domain.Charge{},
		CreatedAt:          m.CreatedAt,
		CreatedBy:          m.CreatedBy,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toChargeModel(c *domain.Charge, seq int) chargeModel {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return chargeModel{
		ID:           c.ID,
		BookingID:    c.BookingID,
		Seq:          seq,
		Type:         string(c.Type),
		Description:  c.Description,
		Amount:       c.Amount,
		AuthorizedBy: c.AuthorizedBy,
		CreatedAt:    c.CreatedAt,
	}
}

func toDomainCharges(rows []chargeModel) []domain.Charge {
	out := make([]domain.Charge, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.Charge{
			ID:           m.ID,
			BookingID:    m.BookingID,
			Type:         domain.ChargeType(m.Type),
			Description:  m.Description,
			Amount:       m.Amount,
			AuthorizedBy: m.AuthorizedBy,
			CreatedAt:    m.CreatedAt,
		})
	}
	return out
}
