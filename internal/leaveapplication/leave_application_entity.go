package leaveapplication

import (
	"time"

	"gorm.io/gorm"

	"github.com/ta28nov/leave-system/internal/user"
)

type LeaveApplication struct {
	ID     string `gorm:"type:char(10);primaryKey"`
	UserID string `gorm:"type:char(10);not null;index:idx_leave_applications_user_dates"`

	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_applications_user_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_applications_user_dates"`
	TotalDays int       `gorm:"type:int;not null;default:1"`
	Reason    string    `gorm:"type:text"`
	Type      LeaveType `gorm:"type:varchar(20);not null;default:'annual'"`
	Status    Status    `gorm:"type:varchar(20);not null;default:'new';index"`

	// Audit trail: id user yang melakukan aksi
	CreatedBy string `gorm:"type:char(10)"`
	UpdatedBy string `gorm:"type:char(10)"`
	DeletedBy string `gorm:"type:char(10)"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	User *user.User `gorm:"foreignKey:UserID"`
}

func (LeaveApplication) TableName() string {
	return "leave_applications"
}
