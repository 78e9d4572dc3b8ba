package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterRepository hands out gap-free sequence values, one row per counter.
type CounterRepository struct {
	db *gorm.DB
}

func NewCounterRepository(db *gorm.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// Ensure creates missing counters starting at zero. Existing values are kept.
func (r *CounterRepository) Ensure(ctx context.Context, names ...string) error {
	for _, name := range names {
		err := conn(ctx, r.db).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&counterModel{Name: name}).Error
		if err != nil {
			return fmt.Errorf("ensure counter %s: %w", name, err)
		}
	}
	return nil
}

// Increment bumps the counter and returns the new value. A missing counter
// starts at zero. The row stays locked until the surrounding transaction
// ends, so concurrent callers never see the same value.
func (r *CounterRepository) Increment(ctx context.Context, name string) (int64, error) {
	var value int64
	err := withinTx(ctx, r.db, func(tx *gorm.DB) error {
		bumped, err := bump(tx, name)
		if err != nil {
			return err
		}
		if !bumped {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&counterModel{Name: name}).Error; err != nil {
				return fmt.Errorf("create counter %s: %w", name, err)
			}
			if bumped, err = bump(tx, name); err != nil {
				return err
			}
			if !bumped {
				return fmt.Errorf("counter %s: %w", name, ErrNotFound)
			}
		}

		var m counterModel
		if err := tx.First(&m, "name = ?", name).Error; err != nil {
			return translate(err)
		}
		value = m.Value
		return nil
	})
	return value, err
}

func bump(tx *gorm.DB, name string) (bool, error) {
	res := tx.Model(&counterModel{}).
		Where("name = ?", name).
		UpdateColumn("value", gorm.Expr("value + ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Current reads the counter without changing it.
func (r *CounterRepository) Current(ctx context.Context, name string) (int64, error) {
	var m counterModel
	if err := conn(ctx, r.db).First(&m, "name = ?", name).Error; err != nil {
		return 0, translate(err)
	}
	return m.Value, nil
}
