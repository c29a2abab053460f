package leaveerrors

import (
	"fmt"
	"net/http"

	"github.com/ta28nov/leave-system/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Không tìm thấy đơn nghỉ phép. / Leave application not found.",
		http.StatusNotFound,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeValidation,
		"Ngày phải có định dạng YYYY-MM-DD. / Date must be in YYYY-MM-DD format.",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeValidation,
		"Ngày kết thúc phải sau hoặc bằng ngày bắt đầu. / End date must be after or equal to start date.",
		http.StatusUnprocessableEntity,
	)
	ErrStartDateInPast = apperror.New(
		apperror.CodeValidation,
		"Ngày bắt đầu phải từ hôm nay trở đi. / Start date must be today or later.",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeValidation,
		"Loại nghỉ phép không hợp lệ. Chỉ chấp nhận: annual, sick, unpaid. / Invalid leave type. Only accept: annual, sick, unpaid.",
		http.StatusUnprocessableEntity,
	)
	ErrReasonTooLong = apperror.New(
		apperror.CodeValidation,
		"Lý do nghỉ không được vượt quá 1000 ký tự. / Reason must not exceed 1000 characters.",
		http.StatusUnprocessableEntity,
	)
	ErrUpdateRequiresNew = apperror.New(
		apperror.CodeInvalidState,
		`Chỉ có thể sửa đơn ở trạng thái "new". / Can only update applications with status "new".`,
		http.StatusUnprocessableEntity,
	)
	ErrNotApprovable = apperror.New(
		apperror.CodeInvalidState,
		"Chỉ có thể duyệt đơn ở trạng thái new hoặc pending. / Can only approve applications with status new or pending.",
		http.StatusUnprocessableEntity,
	)
	ErrNotRejectable = apperror.New(
		apperror.CodeInvalidState,
		"Chỉ có thể từ chối đơn ở trạng thái new hoặc pending. / Can only reject applications with status new or pending.",
		http.StatusUnprocessableEntity,
	)
	ErrNotCancellable = apperror.New(
		apperror.CodeInvalidState,
		"Không thể hủy đơn đã được duyệt hoặc từ chối. / Cannot cancel approved or rejected applications.",
		http.StatusUnprocessableEntity,
	)
)

// OverlapError menyebutkan rentang tanggal yang bentrok di pesannya.
func OverlapError(startDate, endDate string) *apperror.AppError {
	return apperror.New(
		apperror.CodeOverlap,
		fmt.Sprintf(
			"Ngày nghỉ từ %s đến %s bị trùng với đơn nghỉ phép khác. / The leave dates %s to %s overlap with another leave application.",
			startDate, endDate, startDate, endDate,
		),
		http.StatusUnprocessableEntity,
	)
}
