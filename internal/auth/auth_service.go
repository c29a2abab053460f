package auth

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	autherrors "github.com/ta28nov/leave-system/internal/auth/errors"
	"github.com/ta28nov/leave-system/internal/auth/token"
	"github.com/ta28nov/leave-system/internal/domain"
	"github.com/ta28nov/leave-system/internal/shared/identifier"
	"github.com/ta28nov/leave-system/internal/user"
)

const uniqueViolation = "23505"

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (TokenResponse, error)
	Login(ctx context.Context, email, password string) (TokenResponse, error)
	Logout(ctx context.Context, rawToken string) error
	Refresh(ctx context.Context, rawToken string) (TokenResponse, error)
	Me(ctx context.Context, userID string) (UserResponse, error)
}

type service struct {
	repo   user.Repository
	rdb    *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

func NewService(repo user.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, rdb: rdb, logger: l, ttl: tokenTTL()}
}

// tokenTTL membaca JWT_TTL_MINUTES, default 60 menit.
func tokenTTL() time.Duration {
	if v, err := strconv.Atoi(os.Getenv("JWT_TTL_MINUTES")); err == nil && v > 0 {
		return time.Duration(v) * time.Minute
	}
	return time.Hour
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (TokenResponse, error) {
	role := domain.RoleEmployee
	if req.Type != nil {
		role = domain.Role(*req.Type)
		if !role.Valid() {
			return TokenResponse{}, autherrors.ErrInvalidUserType
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return TokenResponse{}, err
	}

	id := identifier.New()
	u := &user.User{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hashed),
		Type:      role,
		CreatedBy: id,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return TokenResponse{}, autherrors.ErrEmailAlreadyRegistered
		}
		s.logger.Error("register persist failed", zap.Error(err))
		return TokenResponse{}, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID),
		zap.String("role", u.Type.String()),
	)
	return s.issueToken(u)
}

func (s *service) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return TokenResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return TokenResponse{}, autherrors.ErrInvalidCredentials
	}

	s.logger.Info("user logged in", zap.String("user_id", u.ID))
	return s.issueToken(u)
}

// Logout mencabut token di sisi server: token masuk blacklist redis sampai
// expiry-nya lewat.
func (s *service) Logout(ctx context.Context, rawToken string) error {
	claims, err := s.parseToken(rawToken)
	if err != nil {
		return err
	}
	return s.blacklist(ctx, rawToken, claims)
}

func (s *service) Refresh(ctx context.Context, rawToken string) (TokenResponse, error) {
	claims, err := s.parseToken(rawToken)
	if err != nil {
		return TokenResponse{}, err
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return TokenResponse{}, autherrors.ErrInvalidToken
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return TokenResponse{}, autherrors.ErrUserNotFound
	}

	// Token lama tidak boleh dipakai lagi setelah di-refresh
	if err := s.blacklist(ctx, rawToken, claims); err != nil {
		return TokenResponse{}, err
	}

	return s.issueToken(u)
}

func (s *service) Me(ctx context.Context, userID string) (UserResponse, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, autherrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Type:  int(u.Type),
	}, nil
}

func (s *service) issueToken(u *user.User) (TokenResponse, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"type":    int(u.Type),
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(s.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return TokenResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return TokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int(s.ttl.Seconds()),
	}, nil
}

func (s *service) parseToken(rawToken string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherrors.ErrTokenExpired
		}
		return nil, autherrors.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, autherrors.ErrInvalidToken
	}
	return claims, nil
}

func (s *service) blacklist(ctx context.Context, rawToken string, claims jwt.MapClaims) error {
	ttl := s.ttl
	if exp, ok := claims["exp"].(float64); ok {
		if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
			ttl = remaining
		}
	}
	return s.rdb.Set(ctx, token.BlacklistKey(rawToken), "revoked", ttl).Err()
}
