package user

import (
	"time"

	"gorm.io/gorm"

	"github.com/ta28nov/leave-system/internal/domain"
)

type User struct {
	ID   string `gorm:"type:char(10);primaryKey"`
	Name string `gorm:"type:varchar(255);not null"`
	// Partial unique index: email boleh dipakai ulang setelah soft delete
	Email    string      `gorm:"type:varchar(255);not null;uniqueIndex:uniq_users_email,where:deleted_at IS NULL"`
	Password string      `gorm:"type:varchar(255);not null"`
	Type     domain.Role `gorm:"type:smallint;not null;default:2"`

	// Audit trail: id user yang melakukan aksi
	CreatedBy string `gorm:"type:char(10)"`
	UpdatedBy string `gorm:"type:char(10)"`
	DeletedBy string `gorm:"type:char(10)"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
