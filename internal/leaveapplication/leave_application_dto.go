package leaveapplication

import "github.com/ta28nov/leave-system/internal/shared/response"

type CreateLeaveApplicationRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Type      string `json:"type" binding:"required,oneof=annual sick unpaid"`
	Reason    string `json:"reason" binding:"omitempty,max=1000"`
}

// UpdateLeaveApplicationRequest adalah partial patch: hanya field yang
// dikirim yang diubah.
type UpdateLeaveApplicationRequest struct {
	StartDate *string `json:"start_date" binding:"omitempty"`
	EndDate   *string `json:"end_date" binding:"omitempty"`
	Type      *string `json:"type" binding:"omitempty,oneof=annual sick unpaid"`
	Reason    *string `json:"reason" binding:"omitempty,max=1000"`
}

type RejectLeaveApplicationRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}

type ListQuery struct {
	Status string `form:"status"`
	UserID string `form:"user_id"`
	Month  int    `form:"month"`
	Year   int    `form:"year"`
	Page   int    `form:"page"`
}

type OwnerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Type  int    `json:"type"`
}

type LeaveApplicationResponse struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	TotalDays int            `json:"total_days"`
	Reason    string         `json:"reason"`
	Type      string         `json:"type"`
	Status    string         `json:"status"`
	CreatedBy string         `json:"created_by,omitempty"`
	UpdatedBy string         `json:"updated_by,omitempty"`
	User      *OwnerResponse `json:"user,omitempty"`
}

type ListResponse struct {
	Items      []LeaveApplicationResponse `json:"items"`
	Pagination response.PaginationMeta    `json:"pagination"`
}
