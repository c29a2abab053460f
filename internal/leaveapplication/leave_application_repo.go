package leaveapplication

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// ListFilter adalah filter yang sudah di-scope oleh service; repository
// tidak tahu soal role.
type ListFilter struct {
	UserID   string
	Status   Status
	Month    int
	Year     int
	Page     int
	PageSize int
}

//go:generate mockgen -source=leave_application_repo.go -destination=mock/leave_application_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, la *LeaveApplication) error
	FindByID(ctx context.Context, id string) (*LeaveApplication, error)
	List(ctx context.Context, filter ListFilter) ([]LeaveApplication, int64, error)
	Update(ctx context.Context, la *LeaveApplication) error
	SoftDelete(ctx context.Context, id, deletedBy string) error
	HasOverlappingPeriod(ctx context.Context, userID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, la *LeaveApplication) error {
	return r.db.WithContext(ctx).Create(la).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveApplication, error) {
	var la LeaveApplication
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&la, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &la, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]LeaveApplication, int64, error) {
	query := r.db.WithContext(ctx).Model(&LeaveApplication{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Month != 0 && filter.Year != 0 {
		query = query.
			Where("EXTRACT(YEAR FROM start_date) = ?", filter.Year).
			Where("EXTRACT(MONTH FROM start_date) = ?", filter.Month)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []LeaveApplication
	err := query.
		Preload("User").
		Order("start_date DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *repository) Update(ctx context.Context, la *LeaveApplication) error {
	return r.db.WithContext(ctx).Save(la).Error
}

// SoftDelete stempel deleted_by dulu, lalu set tombstone gorm.DeletedAt.
func (r *repository) SoftDelete(ctx context.Context, id, deletedBy string) error {
	err := r.db.WithContext(ctx).
		Model(&LeaveApplication{}).
		Where("id = ?", id).
		Update("deleted_by", deletedBy).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&LeaveApplication{}, "id = ?", id).Error
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, userID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	// Closed-interval overlap: s <= E AND e >= S
	query := r.db.WithContext(ctx).
		Model(&LeaveApplication{}).
		Where("user_id = ?", userID).
		Where("status IN ?", ActiveStatuses).
		Where("start_date <= ? AND end_date >= ?", endDate, startDate)

	if excludeID != nil && *excludeID != "" {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}
