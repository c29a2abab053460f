package middleware

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	autherrors "github.com/ta28nov/leave-system/internal/auth/errors"
	"github.com/ta28nov/leave-system/internal/auth/token"
	"github.com/ta28nov/leave-system/internal/domain"
	"github.com/ta28nov/leave-system/internal/shared/apperror"
	"github.com/ta28nov/leave-system/internal/shared/contextutil"
	"github.com/ta28nov/leave-system/internal/shared/response"
)

// AuthMiddleware memverifikasi bearer token (identity provider) dan menaruh
// id + role caller di context. Token yang sudah dicabut (logout/refresh)
// ditolak lewat blacklist redis.
func AuthMiddleware(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			abortUnauthorized(c, autherrors.ErrInvalidToken)
			return
		}

		if rdb != nil {
			revoked, err := rdb.Exists(c.Request.Context(), token.BlacklistKey(tokenString)).Result()
			if err == nil && revoked > 0 {
				abortUnauthorized(c, autherrors.ErrTokenRevoked)
				return
			}
		}

		parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, autherrors.ErrInvalidToken
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !parsed.Valid {
			errObj := autherrors.ErrInvalidToken
			if err != nil && strings.Contains(err.Error(), "expired") {
				errObj = autherrors.ErrTokenExpired
			}
			abortUnauthorized(c, errObj)
			return
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, autherrors.ErrInvalidToken)
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			abortUnauthorized(c, autherrors.ErrInvalidToken)
			return
		}

		// JSON numbers dalam claims selalu float64
		roleClaim, ok := claims["type"].(float64)
		role := domain.Role(int(roleClaim))
		if !ok || !role.Valid() {
			abortUnauthorized(c, autherrors.ErrInvalidToken)
			return
		}

		c.Set("user_id", userID)
		c.Set("user_type", int(role))

		ctx := contextutil.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, errObj *apperror.AppError) {
	response.Error(c, errObj.HTTPStatus, errObj.Message, nil)
	c.Abort()
}

// CallerFrom membaca identitas yang sudah divalidasi AuthMiddleware.
func CallerFrom(c *gin.Context) domain.Caller {
	return domain.Caller{
		ID:   c.GetString("user_id"),
		Role: domain.Role(c.GetInt("user_type")),
	}
}

// RequireRole membatasi route ke role tertentu. Admin selalu lolos,
// mengikuti aturan admin-bypass pada authorization matrix.
func RequireRole(allowed ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)

		if caller.Role == domain.RoleAdmin {
			c.Next()
			return
		}

		for _, role := range allowed {
			if caller.Role == role {
				c.Next()
				return
			}
		}

		response.Error(c, 403, "Không có quyền truy cập. / Access denied.", nil)
		c.Abort()
	}
}
