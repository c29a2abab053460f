package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	autherrors "github.com/ta28nov/leave-system/internal/auth/errors"
	"github.com/ta28nov/leave-system/internal/shared/apperror"
	"github.com/ta28nov/leave-system/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: service, logger: l}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return raw
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("auth request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Message, nil)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Đăng ký thành công. / Registered successfully.", resp)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Đăng nhập thành công. / Logged in successfully.", resp)
}

func (h *Handler) Logout(c *gin.Context) {
	raw := bearerToken(c)
	if raw == "" {
		h.writeServiceError(c, autherrors.ErrInvalidToken)
		return
	}

	if err := h.service.Logout(c.Request.Context(), raw); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Đăng xuất thành công. / Logged out successfully.", nil)
}

func (h *Handler) Refresh(c *gin.Context) {
	raw := bearerToken(c)
	if raw == "" {
		h.writeServiceError(c, autherrors.ErrInvalidToken)
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), raw)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Làm mới token thành công. / Token refreshed successfully.", resp)
}

func (h *Handler) Me(c *gin.Context) {
	resp, err := h.service.Me(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Lấy thông tin người dùng thành công. / User profile retrieved successfully.", resp)
}
