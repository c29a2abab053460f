package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrNotFound = New(
		CodeNotFound,
		"Không tìm thấy dữ liệu. / Resource not found.",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"Không có quyền truy cập. / Access denied.",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"Đã xảy ra lỗi không mong muốn. / An unexpected error occurred.",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Chưa xác thực. / Unauthenticated.",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeValidation,
		"Dữ liệu không hợp lệ. / The provided input is invalid.",
		http.StatusUnprocessableEntity,
	)
)

// RequiredField membuat error 422 untuk field wajib yang kosong.
func RequiredField(field string) *AppError {
	return New(
		CodeValidation,
		fmt.Sprintf("%s là bắt buộc. / %s is required.", field, field),
		http.StatusUnprocessableEntity,
	)
}

// InvalidField membuat error 422 untuk field yang gagal validasi.
func InvalidField(field string) *AppError {
	return New(
		CodeValidation,
		fmt.Sprintf("%s không hợp lệ. / %s is invalid.", field, field),
		http.StatusUnprocessableEntity,
	)
}
