package leaveapplication

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ta28nov/leave-system/internal/middleware"
	"github.com/ta28nov/leave-system/internal/shared/apperror"
	"github.com/ta28nov/leave-system/internal/shared/response"
)

// idempotencyCacheTTL lama respons create yang disimpan untuk replay.
const idempotencyCacheTTL = 24 * time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leaveapplication.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaveapplication.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave application request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Message, nil)

	// Kunci idempotency dilepas agar request ulangan dengan key sama bisa
	// dicoba lagi setelah gagal.
	if lockKey := c.GetString("idempotency_lock_key"); lockKey != "" && h.rdb != nil {
		h.rdb.Del(c.Request.Context(), lockKey)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateLeaveApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	message := "Tạo đơn xin nghỉ phép thành công. / Leave application created successfully."
	response.Success(c, http.StatusCreated, message, resp)
	h.cacheIdempotentResponse(c, http.StatusCreated, message, resp)
}

// cacheIdempotentResponse menyimpan envelope sukses di bawah cache key yang
// diset middleware, lalu melepas kunci pemrosesan.
func (h *Handler) cacheIdempotentResponse(c *gin.Context, status int, message string, data any) {
	cacheKey := c.GetString("idempotency_cache_key")
	if cacheKey == "" || h.rdb == nil {
		return
	}

	body, err := json.Marshal(response.Envelope{Success: true, Message: message, Data: data})
	if err != nil {
		h.logger.Warn("marshal idempotent response failed", zap.Error(err))
		return
	}

	payload, _ := json.Marshal(middleware.CachedResponse{Status: status, Body: body})
	if err := h.rdb.Set(c.Request.Context(), cacheKey, payload, idempotencyCacheTTL).Err(); err != nil {
		h.logger.Warn("cache idempotent response failed", zap.Error(err))
	}
	if lockKey := c.GetString("idempotency_lock_key"); lockKey != "" {
		h.rdb.Del(c.Request.Context(), lockKey)
	}
}

func (h *Handler) GetList(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.GetList(c.Request.Context(), middleware.CallerFrom(c), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Lấy danh sách đơn xin nghỉ phép thành công. / Leave applications retrieved successfully.", resp)
}

func (h *Handler) GetDetail(c *gin.Context) {
	resp, err := h.service.GetDetail(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Lấy chi tiết đơn xin nghỉ phép thành công. / Leave application retrieved successfully.", resp)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateLeaveApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Cập nhật đơn xin nghỉ phép thành công. / Leave application updated successfully.", resp)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Xóa đơn xin nghỉ phép thành công. / Leave application deleted successfully.", nil)
}

func (h *Handler) Approve(c *gin.Context) {
	resp, err := h.service.Approve(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Phê duyệt đơn xin nghỉ phép thành công. / Leave application approved successfully.", resp)
}

func (h *Handler) Reject(c *gin.Context) {
	var req RejectLeaveApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), req.Reason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Từ chối đơn xin nghỉ phép thành công. / Leave application rejected successfully.", resp)
}

func (h *Handler) Cancel(c *gin.Context) {
	resp, err := h.service.Cancel(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Hủy đơn xin nghỉ phép thành công. / Leave application cancelled successfully.", resp)
}
