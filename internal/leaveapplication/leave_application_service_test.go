package leaveapplication

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/ta28nov/leave-system/internal/domain"
	leaveerrors "github.com/ta28nov/leave-system/internal/leaveapplication/errors"
	"github.com/ta28nov/leave-system/internal/shared/apperror"
)

type fakeRepo struct {
	withTxFn               func(tx *sql.Tx) Repository
	createFn               func(ctx context.Context, la *LeaveApplication) error
	findByIDFn             func(ctx context.Context, id string) (*LeaveApplication, error)
	listFn                 func(ctx context.Context, filter ListFilter) ([]LeaveApplication, int64, error)
	updateFn               func(ctx context.Context, la *LeaveApplication) error
	softDeleteFn           func(ctx context.Context, id, deletedBy string) error
	hasOverlappingPeriodFn func(ctx context.Context, userID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, la *LeaveApplication) error {
	return f.createFn(ctx, la)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*LeaveApplication, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]LeaveApplication, int64, error) {
	return f.listFn(ctx, filter)
}
func (f *fakeRepo) Update(ctx context.Context, la *LeaveApplication) error {
	return f.updateFn(ctx, la)
}
func (f *fakeRepo) SoftDelete(ctx context.Context, id, deletedBy string) error {
	return f.softDeleteFn(ctx, id, deletedBy)
}
func (f *fakeRepo) HasOverlappingPeriod(ctx context.Context, userID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	return f.hasOverlappingPeriodFn(ctx, userID, startDate, endDate, excludeID)
}

func newFakeRepo() *fakeRepo {
	f := &fakeRepo{}
	f.withTxFn = func(tx *sql.Tx) Repository { return f }
	f.createFn = func(ctx context.Context, la *LeaveApplication) error { return nil }
	f.updateFn = func(ctx context.Context, la *LeaveApplication) error { return nil }
	f.softDeleteFn = func(ctx context.Context, id, deletedBy string) error { return nil }
	f.hasOverlappingPeriodFn = func(ctx context.Context, userID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
		return false, nil
	}
	return f
}

func mustDate(t *testing.T, v string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", v)
	assert.NoError(t, err)
	return parsed
}

var (
	employee = domain.Caller{ID: "EMPLOYEE01", Role: domain.RoleEmployee}
	manager  = domain.Caller{ID: "MANAGER001", Role: domain.RoleManager}
	admin    = domain.Caller{ID: "ADMIN00001", Role: domain.RoleAdmin}
)

func TestService_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	var saved LeaveApplication
	repo := newFakeRepo()
	repo.createFn = func(ctx context.Context, la *LeaveApplication) error {
		saved = *la
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(ctx, employee, CreateLeaveApplicationRequest{
		StartDate: "2030-06-10",
		EndDate:   "2030-06-14",
		Type:      "annual",
		Reason:    "family trip",
	})

	assert.NoError(t, err)
	assert.Len(t, resp.ID, 10)
	assert.Equal(t, employee.ID, saved.UserID)
	assert.Equal(t, employee.ID, saved.CreatedBy)
	assert.Equal(t, StatusNew, saved.Status)
	assert.Equal(t, 5, saved.TotalDays)
	assert.Equal(t, "new", resp.Status)
	assert.Equal(t, "2030-06-10", resp.StartDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_SingleDayCountsOne(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), employee, CreateLeaveApplicationRequest{
		StartDate: "2030-06-10",
		EndDate:   "2030-06-10",
		Type:      "sick",
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.TotalDays)
}

func TestService_Create_ValidationFailures(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	svc := NewService(db, repo)
	ctx := context.Background()

	cases := []struct {
		name    string
		req     CreateLeaveApplicationRequest
		wantErr error
	}{
		{
			"malformed start date",
			CreateLeaveApplicationRequest{StartDate: "10/06/2030", EndDate: "2030-06-14", Type: "annual"},
			leaveerrors.ErrInvalidDateFormat,
		},
		{
			"start date in the past",
			CreateLeaveApplicationRequest{StartDate: "2020-01-01", EndDate: "2030-06-14", Type: "annual"},
			leaveerrors.ErrStartDateInPast,
		},
		{
			"end before start",
			CreateLeaveApplicationRequest{StartDate: "2030-06-14", EndDate: "2030-06-10", Type: "annual"},
			leaveerrors.ErrInvalidDateRange,
		},
		{
			"unknown leave type",
			CreateLeaveApplicationRequest{StartDate: "2030-06-10", EndDate: "2030-06-14", Type: "maternity"},
			leaveerrors.ErrInvalidLeaveType,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, employee, tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestService_Create_Overlap(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.hasOverlappingPeriodFn = func(ctx context.Context, userID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
		assert.Equal(t, employee.ID, userID)
		assert.Nil(t, excludeID)
		return true, nil
	}
	repo.createFn = func(ctx context.Context, la *LeaveApplication) error {
		t.Fatal("create must not be reached on overlap")
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), employee, CreateLeaveApplicationRequest{
		StartDate: "2030-06-10",
		EndDate:   "2030-06-14",
		Type:      "annual",
	})

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeOverlap, appErr.Code)
	assert.Equal(t, 422, appErr.HTTPStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_OwnerNewRecord(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	existing := LeaveApplication{
		ID:        "LEAVE00001",
		UserID:    employee.ID,
		StartDate: mustDate(t, "2030-06-10"),
		EndDate:   mustDate(t, "2030-06-14"),
		TotalDays: 5,
		Type:      TypeAnnual,
		Status:    StatusNew,
	}

	var saved LeaveApplication
	repo := newFakeRepo()
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveApplication, error) {
		la := existing
		return &la, nil
	}
	repo.hasOverlappingPeriodFn = func(ctx context.Context, userID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
		// Record yang sedang diupdate harus dikecualikan
		assert.NotNil(t, excludeID)
		assert.Equal(t, existing.ID, *excludeID)
		return false, nil
	}
	repo.updateFn = func(ctx context.Context, la *LeaveApplication) error {
		saved = *la
		return nil
	}

	svc := NewService(db, repo)

	newEnd := "2030-06-20"
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Update(context.Background(), employee, existing.ID, UpdateLeaveApplicationRequest{
		EndDate: &newEnd,
	})

	assert.NoError(t, err)
	assert.Equal(t, 11, saved.TotalDays)
	assert.Equal(t, employee.ID, saved.UpdatedBy)
	assert.Equal(t, "2030-06-20", resp.EndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_StatusGateBeforePolicy(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	// Record approved milik orang lain: yang menang adalah state gate (422),
	// bukan penolakan policy (403)
	repo := newFakeRepo()
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveApplication, error) {
		return &LeaveApplication{ID: id, UserID: "SOMEONE001", Status: StatusApproved}, nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Update(context.Background(), employee, "LEAVE00001", UpdateLeaveApplicationRequest{})
	assert.ErrorIs(t, err, leaveerrors.ErrUpdateRequiresNew)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_NonOwnerNewRecordForbidden(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveApplication, error) {
		return &LeaveApplication{ID: id, UserID: "SOMEONE001", Status: StatusNew}, nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Update(context.Background(), employee, "LEAVE00001", UpdateLeaveApplicationRequest{})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_AdminBypassesStatusGate(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveApplication, error) {
		return &LeaveApplication{
			ID:        id,
			UserID:    "SOMEONE001",
			StartDate: mustDate(t, "2030-06-10"),
			EndDate:   mustDate(t, "2030-06-14"),
			Status:    StatusApproved,
		}, nil
	}

	svc := NewService(db, repo)

	reason := "corrected after approval"
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Update(context.Background(), admin, "LEAVE00001", UpdateLeaveApplicationRequest{
		Reason: &reason,
	})
	assert.NoError(t, err)
	assert.Equal(t, reason, resp.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveApplication, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Update(context.Background(), admin, "MISSING001", UpdateLeaveApplicationRequest{})
	assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
}

func TestService_Approve(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	var saved LeaveApplication
	repo := newFakeRepo()
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveApplication, error) {
		return &LeaveApplication{ID: id, UserID: employee.ID, Status: StatusNew, Reason: "holiday"}, nil
	}
	repo.updateFn = func(ctx context.Context, la *LeaveApplication) error {
		saved = *la
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Approve(context.Background(), manager, "LEAVE00001")

	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, saved.Status)
	assert.Equal(t, manager.ID, saved.UpdatedBy)
	assert.Equal(t, "holiday", saved.Reason)
	assert.Equal(t, "approved", resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_EmployeeForbiddenBeforeStateCheck(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	// Status sudah approved, tapi untuk employee jawabannya tetap 403
	repo := newFakeRepo()
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveApplication, error) {
		return &LeaveApplication{ID: id, UserID: employee.ID, Status: StatusApproved}, nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Approve(context.Background(), employee, "LEAVE00001")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestService_Approve_AlreadyApproved(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveApplication, error) {
		return &LeaveApplication{ID: id, UserID: employee.ID, Status: StatusApproved}, nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Approve(context.Background(), manager, "LEAVE00001")
	assert.ErrorIs(t, err, leaveerrors.ErrNotApprovable)
}

func TestService_Reject_OverwritesReason(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	var saved LeaveApplication
	repo := newFakeRepo()
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveApplication, error) {
		return &LeaveApplication{ID: id, UserID: employee.ID, Status: StatusPending, Reason: "holiday"}, nil
	}
	repo.updateFn = func(ctx context.Context, la *LeaveApplication) error {
		saved = *la
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Reject(context.Background(), manager, "LEAVE00001", "staffing shortage that week")

	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, saved.Status)
	assert.Equal(t, "staffing shortage that week", saved.Reason)
	assert.Equal(t, "rejected", resp.Status)
}

func TestService_Cancel_StateGateBeforePolicy(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	// Cancel record approved: 422 untuk semua role, termasuk admin
	repo := newFakeRepo()
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveApplication, error) {
		return &LeaveApplication{ID: id, UserID: employee.ID, Status: StatusApproved}, nil
	}

	svc := NewService(db, repo)

	for _, caller := range []domain.Caller{employee, admin} {
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := svc.Cancel(context.Background(), caller, "LEAVE00001")
		assert.ErrorIs(t, err, leaveerrors.ErrNotCancellable, caller.Role.String())
	}
}

func TestService_Cancel_Idempotent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveApplication, error) {
		return &LeaveApplication{ID: id, UserID: employee.ID, Status: StatusCancelled}, nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Cancel(context.Background(), employee, "LEAVE00001")
	assert.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
}

func TestService_Cancel_ManagerForbidden(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveApplication, error) {
		return &LeaveApplication{ID: id, UserID: employee.ID, Status: StatusNew}, nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Cancel(context.Background(), manager, "LEAVE00001")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestService_Delete(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	var deletedID, deletedBy string
	repo := newFakeRepo()
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveApplication, error) {
		return &LeaveApplication{ID: id, UserID: employee.ID, Status: StatusApproved}, nil
	}
	repo.softDeleteFn = func(ctx context.Context, id, by string) error {
		deletedID, deletedBy = id, by
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	err := svc.Delete(context.Background(), admin, "LEAVE00001")
	assert.NoError(t, err)
	assert.Equal(t, "LEAVE00001", deletedID)
	assert.Equal(t, admin.ID, deletedBy)

	err = svc.Delete(context.Background(), employee, "LEAVE00001")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetList_EmployeeScopedToOwn(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.listFn = func(ctx context.Context, filter ListFilter) ([]LeaveApplication, int64, error) {
		// user_id dari query diabaikan untuk employee
		assert.Equal(t, employee.ID, filter.UserID)
		assert.Equal(t, 1, filter.Page)
		assert.Equal(t, 10, filter.PageSize)
		return []LeaveApplication{{ID: "LEAVE00001", UserID: employee.ID}}, 1, nil
	}

	svc := NewService(db, repo)

	resp, err := svc.GetList(context.Background(), employee, ListQuery{UserID: "SOMEONE001"})
	assert.NoError(t, err)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, int64(1), resp.Pagination.Total)
}

func TestService_GetList_ManagerFilters(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.listFn = func(ctx context.Context, filter ListFilter) ([]LeaveApplication, int64, error) {
		assert.Equal(t, "SOMEONE001", filter.UserID)
		assert.Equal(t, Status("approved"), filter.Status)
		assert.Equal(t, 6, filter.Month)
		assert.Equal(t, 2030, filter.Year)
		assert.Equal(t, 3, filter.Page)
		return nil, 25, nil
	}

	svc := NewService(db, repo)

	resp, err := svc.GetList(context.Background(), manager, ListQuery{
		UserID: "SOMEONE001",
		Status: "approved",
		Month:  6,
		Year:   2030,
		Page:   3,
	})
	assert.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Equal(t, int64(25), resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}

func TestService_GetDetail(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.findByIDFn = func(ctx context.Context, id string) (*LeaveApplication, error) {
		if id != "LEAVE00001" {
			return nil, gorm.ErrRecordNotFound
		}
		return &LeaveApplication{
			ID:        id,
			UserID:    "SOMEONE001",
			StartDate: mustDate(t, "2030-06-10"),
			EndDate:   mustDate(t, "2030-06-14"),
			Status:    StatusNew,
		}, nil
	}

	svc := NewService(db, repo)
	ctx := context.Background()

	// Manager boleh lihat record siapa pun
	resp, err := svc.GetDetail(ctx, manager, "LEAVE00001")
	assert.NoError(t, err)
	assert.Equal(t, "LEAVE00001", resp.ID)

	// Employee bukan pemilik: 403
	_, err = svc.GetDetail(ctx, employee, "LEAVE00001")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// Tidak ada: 404
	_, err = svc.GetDetail(ctx, manager, "MISSING001")
	assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
}

func TestService_Create_RepoErrorRollsBack(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newFakeRepo()
	repo.createFn = func(ctx context.Context, la *LeaveApplication) error {
		return errors.New("insert failed")
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), employee, CreateLeaveApplicationRequest{
		StartDate: "2030-06-10",
		EndDate:   "2030-06-14",
		Type:      "annual",
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
