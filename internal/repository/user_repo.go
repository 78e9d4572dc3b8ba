package repository

import (
	"context"
	"strings"
	"time"

	"hotelfront/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return translate(err)
	}
	u.ID = m.ID
	u.CreatedAt = m.CreatedAt
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m userModel
	err := conn(ctx, r.db).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := conn(ctx, r.db).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainUser(m), nil
}

// RecordFailedLogin bumps the failure counter and, once it reaches
// maxAttempts, locks the account until lockUntil. It returns the new count.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, id int64, maxAttempts int, lockUntil time.Time) (int, error) {
	var attempts int
	err := withinTx(ctx, r.db, func(tx *gorm.DB) error {
		res := tx.Model(&userModel{}).
			Where("id = ?", id).
			Update("failed_login_attempts", gorm.Expr("failed_login_attempts + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		var m userModel
		if err := tx.Select("failed_login_attempts").First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		attempts = m.FailedLoginAttempts
		if attempts >= maxAttempts {
			return tx.Model(&userModel{}).Where("id = ?", id).Update("locked_until", lockUntil.UTC()).Error
		}
		return nil
	})
	return attempts, err
}

func (r *UserRepository) ResetFailedLogins(ctx context.Context, id int64) error {
	return conn(ctx, r.db).
		Model(&userModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"failed_login_attempts": 0, "locked_until": nil}).Error
}

// ClearExpiredLockouts resets the failure counter of every account whose
// lock ended before now.
func (r *UserRepository) ClearExpiredLockouts(ctx context.Context, now time.Time) (int64, error) {
	res := conn(ctx, r.db).
		Model(&userModel{}).
		Where("locked_until IS NOT NULL AND locked_until < ?", now.UTC()).
		Updates(map[string]any{"failed_login_attempts": 0, "locked_until": nil})
	return res.RowsAffected, res.Error
}

func toUserModel(u *domain.User) userModel {
	return userModel{
		ID:           u.ID,
		Username:     strings.ToLower(strings.TrimSpace(u.Username)),
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}

func toDomainUser(m userModel) *domain.User {
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Role:         domain.UserRole(m.Role),
		CreatedAt:    m.CreatedAt,

		FailedLoginAttempts: m.FailedLoginAttempts,
		LockedUntil:         m.LockedUntil,
	}
}
