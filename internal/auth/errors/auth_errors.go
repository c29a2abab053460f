package autherrors

import (
	"net/http"

	"github.com/ta28nov/leave-system/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Email hoặc mật khẩu không đúng. / Invalid email or password.",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Token không hợp lệ. / Invalid token.",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Token đã hết hạn. / Token has expired.",
		http.StatusUnauthorized,
	)
	ErrTokenRevoked = apperror.New(
		apperror.CodeUnauthorized,
		"Token đã bị thu hồi. / Token has been revoked.",
		http.StatusUnauthorized,
	)
	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeValidation,
		"Email đã được sử dụng. / Email is already registered.",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidUserType = apperror.New(
		apperror.CodeValidation,
		"Loại người dùng không hợp lệ. / Invalid user type.",
		http.StatusUnprocessableEntity,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"Không tìm thấy người dùng. / User not found.",
		http.StatusNotFound,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Không thể tạo token. / Failed to generate token.",
		http.StatusInternalServerError,
	)
)
