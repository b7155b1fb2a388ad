package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           int64          `gorm:"primaryKey;autoIncrement"`
	Name         string         `gorm:"type:varchar(150);not null"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	PhoneNumber  string         `gorm:"type:varchar(16);not null"`
	Address      string         `gorm:"type:varchar(500);not null"`
	Birthday     time.Time      `gorm:"type:date;not null"`
	PasswordHash string         `gorm:"type:varchar(255);not null"`
	IsVerified   bool           `gorm:"default:false;index"`
	VerifiedAt   *time.Time     // set once the e-mail code is confirmed
	IsActive     bool           `gorm:"default:true;index"`
	Version      int            `gorm:"default:1;not null"` // optimistic lock
	CreatedAt    time.Time      `gorm:"index;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"` // soft delete
}

// TableName maps User onto the store's account table.
func (User) TableName() string {
	return "store_users"
}

func AutoMigrate(db *gorm.DB) error {
	return db.Set("gorm:table_options", "COMMENT='storefront customer accounts'").
		AutoMigrate(&User{})
}
