package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "workbuddy-store/pkg/common/errors"
	"workbuddy-store/pkg/core/user/model"
	"workbuddy-store/pkg/core/user/repository/dao"
)

type GormUserRepository struct {
	db *gorm.DB
}

var _ dao.UserRepository = (*GormUserRepository)(nil)

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) model(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.User{})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// QueryByID loads an active user without the password hash.
func (r *GormUserRepository) QueryByID(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	err := r.model(ctx).
		Select("id", "name", "email", "phone_number", "address", "birthday",
			"is_verified", "verified_at", "created_at", "updated_at", "version").
		Where("id = ? AND is_active = ?", id, true).
		First(&user).
		Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.User{}, apperrors.NewUserNotFound(map[string]interface{}{"id": id})
	case err != nil:
		return model.User{}, fmt.Errorf("%w: user query failed", apperrors.WrapGormError(err))
	default:
		return user, nil
	}
}

func (r *GormUserRepository) QueryByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := r.model(ctx).
		Where("email = ? AND is_active = ?", normalizeEmail(email), true).
		First(&user).
		Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.User{}, apperrors.ErrUserNotFound
	case err != nil:
		return model.User{}, fmt.Errorf("%w: user query failed", apperrors.WrapGormError(err))
	default:
		return user, nil
	}
}

// IsEmailExists checks for an active account with email.
func (r *GormUserRepository) IsEmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.model(ctx).
		Where("email = ? AND is_active = ?", normalizeEmail(email), true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: failed to check email", apperrors.WrapGormError(err))
	}
	return count > 0, nil
}

// CreateUser inserts user in a transaction; user.ID is filled on success.
func (r *GormUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	user.Email = normalizeEmail(user.Email)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if apperrors.IsDuplicateError(err) {
				return apperrors.NewDuplicateEntry(map[string]interface{}{"email": user.Email})
			}
			return fmt.Errorf("%w: user creation failed", apperrors.WrapGormError(err))
		}
		return nil
	})
}

// UpdateUnverified overwrites the sign-up data of an account that has not
// been verified yet. Verified accounts are never matched.
func (r *GormUserRepository) UpdateUnverified(ctx context.Context, email string, user *model.User) error {
	user.Email = normalizeEmail(user.Email)
	result := r.model(ctx).
		Where("email = ? AND is_verified = ? AND is_active = ?", normalizeEmail(email), false, true).
		Updates(map[string]interface{}{
			"name":          user.Name,
			"email":         user.Email,
			"phone_number":  user.PhoneNumber,
			"address":       user.Address,
			"birthday":      user.Birthday,
			"password_hash": user.PasswordHash,
			"version":       gorm.Expr("version + 1"),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		if apperrors.IsDuplicateError(result.Error) {
			return apperrors.NewDuplicateEntry(map[string]interface{}{"email": user.Email})
		}
		return fmt.Errorf("%w: registration update failed", apperrors.WrapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// MarkVerified flags the account of email as verified.
func (r *GormUserRepository) MarkVerified(ctx context.Context, email string) error {
	now := time.Now()
	result := r.model(ctx).
		Where("email = ? AND is_active = ?", normalizeEmail(email), true).
		Updates(map[string]interface{}{
			"is_verified": true,
			"verified_at": now,
			"version":     gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("%w: verification update failed", apperrors.WrapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GetPasswordHash returns the credentials of an active user.
func (r *GormUserRepository) GetPasswordHash(ctx context.Context, email string) (string, int64, error) {
	var user model.User
	err := r.model(ctx).
		Select("password_hash", "id", "version").
		Where("email = ? AND is_active = ?", normalizeEmail(email), true).
		First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", 0, apperrors.ErrUserNotFound
	case err != nil:
		return "", 0, fmt.Errorf("%w: password lookup failed", apperrors.WrapGormError(err))
	default:
		return user.PasswordHash, user.ID, nil
	}
}

// UpdatePassword replaces the hash under a row lock and version check.
func (r *GormUserRepository) UpdatePassword(ctx context.Context, userID int64, newPwdHash string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_active = ?", userID, true).
			First(&user).Error; err != nil {
			return apperrors.WrapGormError(err)
		}

		result := tx.Model(&model.User{}).
			Where("id = ? AND version = ?", userID, user.Version).
			Updates(map[string]interface{}{
				"password_hash": newPwdHash,
				"version":       user.Version + 1,
				"updated_at":    time.Now(),
			})

		if result.Error != nil {
			return fmt.Errorf("%w: password update failed", apperrors.WrapGormError(result.Error))
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrUserNotFound
		}
		return nil
	})
}

// Ping checks the underlying connection.
func (r *GormUserRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDatabaseInternal, err)
	}
	return sqlDB.PingContext(ctx)
}
