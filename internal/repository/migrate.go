package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Counter names used for receipt and invoice numbering.
const (
	CounterReceipt = "receipt"
	CounterInvoice = "invoice"
)

// Migrate creates or updates every table and makes sure the numbering
// counters exist.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&roomModel{},
		&bookingModel{},
		&roomNightModel{},
		&chargeModel{},
		&paymentModel{},
		&counterModel{},
		&userModel{},
		&maintenanceReportModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := NewCounterRepository(db).Ensure(ctx, CounterReceipt, CounterInvoice); err != nil {
		return fmt.Errorf("ensure counters: %w", err)
	}
	return nil
}
