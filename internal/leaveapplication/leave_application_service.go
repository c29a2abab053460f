package leaveapplication

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ta28nov/leave-system/internal/domain"
	leaveerrors "github.com/ta28nov/leave-system/internal/leaveapplication/errors"
	"github.com/ta28nov/leave-system/internal/shared/apperror"
	"github.com/ta28nov/leave-system/internal/shared/identifier"
	"github.com/ta28nov/leave-system/internal/shared/response"
)

const (
	dateLayout      = "2006-01-02"
	defaultPageSize = 10
	maxReasonLength = 1000
)

//go:generate mockgen -source=leave_application_service.go -destination=mock/leave_application_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, caller domain.Caller, req CreateLeaveApplicationRequest) (LeaveApplicationResponse, error)
	GetList(ctx context.Context, caller domain.Caller, q ListQuery) (ListResponse, error)
	GetDetail(ctx context.Context, caller domain.Caller, id string) (LeaveApplicationResponse, error)
	Update(ctx context.Context, caller domain.Caller, id string, req UpdateLeaveApplicationRequest) (LeaveApplicationResponse, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
	Approve(ctx context.Context, caller domain.Caller, id string) (LeaveApplicationResponse, error)
	Reject(ctx context.Context, caller domain.Caller, id, reason string) (LeaveApplicationResponse, error)
	Cancel(ctx context.Context, caller domain.Caller, id string) (LeaveApplicationResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leaveapplication.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaveapplication.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func totalDays(startDate, endDate time.Time) int {
	// Hitungan hari inklusif dua sisi
	return int(endDate.Sub(startDate).Hours()/24) + 1
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *service) Create(ctx context.Context, caller domain.Caller, req CreateLeaveApplicationRequest) (LeaveApplicationResponse, error) {
	s.logger.Debug("create leave application requested",
		zap.String("caller_id", caller.ID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if !Authorize(caller, ActionCreate, nil) {
		return LeaveApplicationResponse{}, apperror.ErrForbidden
	}

	startDate, endDate, leaveType, err := validateCreateRequest(req)
	if err != nil {
		s.logger.Warn("create leave application validation failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave application begin tx failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := NewOverlapValidator(qtx).Validate(ctx, caller.ID, startDate, endDate, nil); err != nil {
		s.logger.Warn("create leave application overlap detected",
			zap.String("caller_id", caller.ID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveApplicationResponse{}, err
	}

	la := &LeaveApplication{
		ID:        identifier.New(),
		UserID:    caller.ID,
		StartDate: startDate,
		EndDate:   endDate,
		TotalDays: totalDays(startDate, endDate),
		Reason:    req.Reason,
		Type:      leaveType,
		Status:    StatusNew,
		CreatedBy: caller.ID,
	}

	if err := qtx.Create(ctx, la); err != nil {
		s.logger.Error("create leave application persist failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave application commit failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	s.logger.Info("create leave application success",
		zap.String("leave_application_id", la.ID),
		zap.String("user_id", caller.ID),
	)
	return mapToResponse(*la), nil
}

func validateCreateRequest(req CreateLeaveApplicationRequest) (time.Time, time.Time, LeaveType, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	if startDate.Before(today()) {
		return time.Time{}, time.Time{}, "", leaveerrors.ErrStartDateInPast
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, "", leaveerrors.ErrInvalidDateRange
	}

	leaveType := LeaveType(req.Type)
	if !leaveType.Valid() {
		return time.Time{}, time.Time{}, "", leaveerrors.ErrInvalidLeaveType
	}
	if len([]rune(req.Reason)) > maxReasonLength {
		return time.Time{}, time.Time{}, "", leaveerrors.ErrReasonTooLong
	}

	return startDate, endDate, leaveType, nil
}

func (s *service) GetList(ctx context.Context, caller domain.Caller, q ListQuery) (ListResponse, error) {
	if !Authorize(caller, ActionViewAny, nil) {
		return ListResponse{}, apperror.ErrForbidden
	}

	filter := ListFilter{
		Status:   Status(q.Status),
		Month:    q.Month,
		Year:     q.Year,
		Page:     q.Page,
		PageSize: defaultPageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	// Employee selalu di-scope ke miliknya sendiri; filter user_id dari
	// client hanya dihormati untuk manager/admin.
	if caller.Role == domain.RoleEmployee {
		filter.UserID = caller.ID
	} else {
		filter.UserID = q.UserID
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return ListResponse{}, err
	}

	return ListResponse{
		Items:      mapToListResponse(items),
		Pagination: response.NewPaginationMeta(total, filter.Page, defaultPageSize),
	}, nil
}

func (s *service) GetDetail(ctx context.Context, caller domain.Caller, id string) (LeaveApplicationResponse, error) {
	la, err := s.findByID(ctx, s.repo, id)
	if err != nil {
		return LeaveApplicationResponse{}, err
	}

	if !Authorize(caller, ActionView, &Target{OwnerID: la.UserID, Status: la.Status}) {
		return LeaveApplicationResponse{}, apperror.ErrForbidden
	}

	return mapToResponse(*la), nil
}

func (s *service) Update(ctx context.Context, caller domain.Caller, id string, req UpdateLeaveApplicationRequest) (LeaveApplicationResponse, error) {
	s.logger.Debug("update leave application requested",
		zap.String("leave_application_id", id),
		zap.String("caller_id", caller.ID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave application begin tx failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	la, err := s.findByID(ctx, qtx, id)
	if err != nil {
		return LeaveApplicationResponse{}, err
	}

	// Status gate berjalan sebelum matrix, terlepas dari ownership:
	// non-admin hanya boleh mengubah pengajuan berstatus "new".
	if caller.Role != domain.RoleAdmin && la.Status != StatusNew {
		return LeaveApplicationResponse{}, leaveerrors.ErrUpdateRequiresNew
	}

	if !Authorize(caller, ActionUpdate, &Target{OwnerID: la.UserID, Status: la.Status}) {
		return LeaveApplicationResponse{}, apperror.ErrForbidden
	}

	startDate, endDate := la.StartDate, la.EndDate
	dateChanged := false

	if req.StartDate != nil {
		startDate, err = parseDate(*req.StartDate)
		if err != nil {
			return LeaveApplicationResponse{}, err
		}
		if startDate.Before(today()) {
			return LeaveApplicationResponse{}, leaveerrors.ErrStartDateInPast
		}
		dateChanged = true
	}
	if req.EndDate != nil {
		endDate, err = parseDate(*req.EndDate)
		if err != nil {
			return LeaveApplicationResponse{}, err
		}
		dateChanged = true
	}
	if endDate.Before(startDate) {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidDateRange
	}

	if req.Type != nil {
		leaveType := LeaveType(*req.Type)
		if !leaveType.Valid() {
			return LeaveApplicationResponse{}, leaveerrors.ErrInvalidLeaveType
		}
		la.Type = leaveType
	}
	if req.Reason != nil {
		if len([]rune(*req.Reason)) > maxReasonLength {
			return LeaveApplicationResponse{}, leaveerrors.ErrReasonTooLong
		}
		la.Reason = *req.Reason
	}

	if dateChanged {
		if err := NewOverlapValidator(qtx).Validate(ctx, la.UserID, startDate, endDate, &id); err != nil {
			s.logger.Warn("update leave application overlap detected",
				zap.String("leave_application_id", id),
				zap.Error(err),
			)
			return LeaveApplicationResponse{}, err
		}
		la.StartDate = startDate
		la.EndDate = endDate
		la.TotalDays = totalDays(startDate, endDate)
	}

	la.UpdatedBy = caller.ID

	if err := qtx.Update(ctx, la); err != nil {
		s.logger.Error("update leave application persist failed",
			zap.String("leave_application_id", id),
			zap.Error(err),
		)
		return LeaveApplicationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave application commit failed",
			zap.String("leave_application_id", id),
			zap.Error(err),
		)
		return LeaveApplicationResponse{}, err
	}

	s.logger.Info("update leave application success",
		zap.String("leave_application_id", id),
	)
	return mapToResponse(*la), nil
}

func (s *service) Delete(ctx context.Context, caller domain.Caller, id string) error {
	la, err := s.findByID(ctx, s.repo, id)
	if err != nil {
		return err
	}

	if !Authorize(caller, ActionDelete, &Target{OwnerID: la.UserID, Status: la.Status}) {
		return apperror.ErrForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.SoftDelete(ctx, id, caller.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("delete leave application success",
		zap.String("leave_application_id", id),
		zap.String("deleted_by", caller.ID),
	)
	return nil
}

func (s *service) Approve(ctx context.Context, caller domain.Caller, id string) (LeaveApplicationResponse, error) {
	return s.transition(ctx, caller, id, StatusApproved, nil)
}

// Reject menimpa field reason dengan alasan penolakan; alasan cuti asli
// hilang (perilaku sumber dipertahankan).
func (s *service) Reject(ctx context.Context, caller domain.Caller, id, reason string) (LeaveApplicationResponse, error) {
	return s.transition(ctx, caller, id, StatusRejected, &reason)
}

func (s *service) Cancel(ctx context.Context, caller domain.Caller, id string) (LeaveApplicationResponse, error) {
	return s.transition(ctx, caller, id, StatusCancelled, nil)
}

func (s *service) transition(ctx context.Context, caller domain.Caller, id string, target Status, rejectionReason *string) (LeaveApplicationResponse, error) {
	s.logger.Debug("transition leave application requested",
		zap.String("leave_application_id", id),
		zap.String("caller_id", caller.ID),
		zap.String("target_status", string(target)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition leave application begin tx failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	la, err := s.findByID(ctx, qtx, id)
	if err != nil {
		return LeaveApplicationResponse{}, err
	}

	if err := s.gateTransition(caller, la, target); err != nil {
		s.logger.Warn("transition leave application denied",
			zap.String("leave_application_id", id),
			zap.String("from_status", string(la.Status)),
			zap.String("to_status", string(target)),
			zap.Error(err),
		)
		return LeaveApplicationResponse{}, err
	}

	la.Status = target
	la.UpdatedBy = caller.ID
	if target == StatusRejected && rejectionReason != nil {
		la.Reason = *rejectionReason
	}

	if err := qtx.Update(ctx, la); err != nil {
		s.logger.Error("transition leave application persist failed",
			zap.String("leave_application_id", id),
			zap.Error(err),
		)
		return LeaveApplicationResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("transition leave application commit failed",
			zap.String("leave_application_id", id),
			zap.Error(err),
		)
		return LeaveApplicationResponse{}, err
	}

	s.logger.Info("transition leave application success",
		zap.String("leave_application_id", id),
		zap.String("status", string(target)),
	)
	return mapToResponse(*la), nil
}

// gateTransition menggabungkan matrix dan state machine dengan urutan yang
// berbeda per aksi: approve/reject memeriksa matrix dulu (employee selalu
// 403), cancel memeriksa state dulu (pengajuan approved/rejected selalu 422,
// juga untuk owner dan admin).
func (s *service) gateTransition(caller domain.Caller, la *LeaveApplication, target Status) error {
	switch target {
	case StatusApproved:
		if !Authorize(caller, ActionApprove, &Target{OwnerID: la.UserID, Status: la.Status}) {
			return apperror.ErrForbidden
		}
		if !la.Status.CanTransition(StatusApproved) {
			return leaveerrors.ErrNotApprovable
		}
	case StatusRejected:
		if !Authorize(caller, ActionReject, &Target{OwnerID: la.UserID, Status: la.Status}) {
			return apperror.ErrForbidden
		}
		if !la.Status.CanTransition(StatusRejected) {
			return leaveerrors.ErrNotRejectable
		}
	case StatusCancelled:
		if !la.Status.CanTransition(StatusCancelled) {
			return leaveerrors.ErrNotCancellable
		}
		if !Authorize(caller, ActionCancel, &Target{OwnerID: la.UserID, Status: la.Status}) {
			return apperror.ErrForbidden
		}
	}
	return nil
}

func (s *service) findByID(ctx context.Context, repo Repository, id string) (*LeaveApplication, error) {
	la, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return la, nil
}

func mapToResponse(la LeaveApplication) LeaveApplicationResponse {
	resp := LeaveApplicationResponse{
		ID:        la.ID,
		UserID:    la.UserID,
		StartDate: la.StartDate.Format(dateLayout),
		EndDate:   la.EndDate.Format(dateLayout),
		TotalDays: la.TotalDays,
		Reason:    la.Reason,
		Type:      string(la.Type),
		Status:    string(la.Status),
		CreatedBy: la.CreatedBy,
		UpdatedBy: la.UpdatedBy,
	}
	if la.User != nil {
		resp.User = &OwnerResponse{
			ID:    la.User.ID,
			Name:  la.User.Name,
			Email: la.User.Email,
			Type:  int(la.User.Type),
		}
	}
	return resp
}

func mapToListResponse(items []LeaveApplication) []LeaveApplicationResponse {
	resp := make([]LeaveApplicationResponse, len(items))
	for i, la := range items {
		resp[i] = mapToResponse(la)
	}
	return resp
}
