package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"hotelfront/internal/domain"
)

type roomModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	Number           int       `gorm:"column:number;not null;uniqueIndex"`
	Type             string    `gorm:"column:type;type:varchar(16);not null"`
	Status           string    `gorm:"column:status;type:varchar(16);not null;default:available"`
	CurrentBookingID *string   `gorm:"column:current_booking_id;type:varchar(36)"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

type bookingModel struct {
	ID                 string                     `gorm:"column:id;primaryKey;type:varchar(36)"`
	RoomIDs            datatypes.JSONSlice[int64] `gorm:"column:room_ids"`
	GuestName          string                     `gorm:"column:guest_name;not null"`
	GuestIDNumber      string                     `gorm:"column:guest_id_number;not null"`
	GuestPhone         string                     `gorm:"column:guest_phone;not null"`
	GuestAddress       *string                    `gorm:"column:guest_address"`
	CheckInDate        time.Time                  `gorm:"column:check_in_date;not null;index"`
	CheckOutDate       time.Time                  `gorm:"column:check_out_date;not null"`
	ActualCheckInTime  *time.Time                 `gorm:"column:actual_check_in_time"`
	ActualCheckOutTime *time.Time                 `gorm:"column:actual_check_out_time"`
	PricingTier        string                     `gorm:"column:pricing_tier;type:varchar(16);not null"`
	BaseRate           decimal.Decimal            `gorm:"column:base_rate;type:decimal(12,2);not null"`
	Source             string                     `gorm:"column:source;type:varchar(16);not null"`
	Status             string                     `gorm:"column:status;type:varchar(16);not null;index"`
	GroupName          *string                    `gorm:"column:group_name"`
	Notes              *string                    `gorm:"column:notes;type:text"`
	Deposit            decimal.Decimal            `gorm:"column:deposit;type:decimal(12,2);not null;default:0"`
	CreatedAt          time.Time                  `gorm:"column:created_at"`
	CreatedBy          int64                      `gorm:"column:created_by"`
	UpdatedAt          time.Time                  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

// roomNightModel is one sold night of one room. The composite primary key is
// what stops two live bookings from holding the same room on the same date.
type roomNightModel struct {
	RoomID    int64  `gorm:"column:room_id;primaryKey;autoIncrement:false"`
	Night     string `gorm:"column:night;primaryKey;type:varchar(10)"`
	BookingID string `gorm:"column:booking_id;type:varchar(36);not null;index"`
}

func (roomNightModel) TableName() string { return "room_nights" }

type chargeModel struct {
	ID           string          `gorm:"column:id;primaryKey;type:varchar(36)"`
	BookingID    string          `gorm:"column:booking_id;type:varchar(36);not null;index"`
	Seq          int             `gorm:"column:seq;not null"`
	Type         string          `gorm:"column:type;type:varchar(16);not null"`
	Description  string          `gorm:"column:description;not null"`
	Amount       decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null"`
	AuthorizedBy *int64          `gorm:"column:authorized_by"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
}

func (chargeModel) TableName() string { return "charges" }

type paymentModel struct {
	ID            string                             `gorm:"column:id;primaryKey;type:varchar(36)"`
	BookingID     string                             `gorm:"column:booking_id;type:varchar(36);not null;uniqueIndex"`
	Total         decimal.Decimal                    `gorm:"column:total;type:decimal(12,2);not null"`
	Subtotal      decimal.Decimal                    `gorm:"column:subtotal;type:decimal(12,2);not null"`
	VAT           decimal.Decimal                    `gorm:"column:vat;type:decimal(12,2);not null"`
	Method        string                             `gorm:"column:method;type:varchar(16);not null"`
	ReceiptNumber string                             `gorm:"column:receipt_number;type:varchar(32);not null;uniqueIndex"`
	InvoiceNumber string                             `gorm:"column:invoice_number;type:varchar(32);not null;uniqueIndex"`
	PaidAt        time.Time                          `gorm:"column:paid_at;not null"`
	PaidBy        int64                              `gorm:"column:paid_by"`
	Charges       datatypes.JSONSlice[domain.Charge] `gorm:"column:charges"`
}

func (paymentModel) TableName() string { return "payments" }

type counterModel struct {
	Name  string `gorm:"column:name;primaryKey;type:varchar(32)"`
	Value int64  `gorm:"column:value;not null;default:0"`
}

func (counterModel) TableName() string { return "counters" }

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Username     string    `gorm:"column:username;type:varchar(64);not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Name         string    `gorm:"column:name"`
	Role         string    `gorm:"column:role;type:varchar(16);not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`

	FailedLoginAttempts int        `gorm:"column:failed_login_attempts;not null;default:0"`
	LockedUntil         *time.Time `gorm:"column:locked_until"`
}

func (userModel) TableName() string { return "users" }

type maintenanceReportModel struct {
	ID          string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	RoomID      int64     `gorm:"column:room_id;not null;index"`
	Description string    `gorm:"column:description;type:text;not null"`
	ReportedBy  int64     `gorm:"column:reported_by"`
	Notified    bool      `gorm:"column:notified"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (maintenanceReportModel) TableName() string { return "maintenance_reports" }

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
