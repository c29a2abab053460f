package auth_test

import (
	"context"
	"os"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ta28nov/leave-system/internal/auth"
	autherrors "github.com/ta28nov/leave-system/internal/auth/errors"
	"github.com/ta28nov/leave-system/internal/domain"
	"github.com/ta28nov/leave-system/internal/user"
)

type fakeUserRepo struct {
	createFn     func(ctx context.Context, u *user.User) error
	getByEmailFn func(ctx context.Context, email string) (*user.User, error)
	getByIDFn    func(ctx context.Context, id string) (*user.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error { return f.createFn(ctx, u) }
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return f.getByEmailFn(ctx, email)
}
func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	return f.getByIDFn(ctx, id)
}

func TestService_Register(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	t.Run("Success Register Default Role", func(t *testing.T) {
		var saved user.User
		repo := &fakeUserRepo{
			createFn: func(ctx context.Context, u *user.User) error {
				saved = *u
				return nil
			},
		}

		service := auth.NewService(repo, nil)
		resp, err := service.Register(ctx, auth.RegisterRequest{
			Name:     "John Doe",
			Email:    "john@example.com",
			Password: "password123",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "bearer", resp.TokenType)
		assert.Equal(t, domain.RoleEmployee, saved.Type)
		assert.Len(t, saved.ID, 10)
		assert.Equal(t, saved.ID, saved.CreatedBy)
		// Password tidak boleh tersimpan plaintext
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("password123")))

		// Claims harus membawa user_id + type untuk middleware
		parsed, err := jwt.Parse(resp.AccessToken, func(tok *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		assert.NoError(t, err)
		claims := parsed.Claims.(jwt.MapClaims)
		assert.Equal(t, saved.ID, claims["user_id"])
		assert.Equal(t, float64(domain.RoleEmployee), claims["type"])
	})

	t.Run("Explicit Role", func(t *testing.T) {
		var saved user.User
		repo := &fakeUserRepo{
			createFn: func(ctx context.Context, u *user.User) error {
				saved = *u
				return nil
			},
		}

		service := auth.NewService(repo, nil)
		managerType := int(domain.RoleManager)
		_, err := service.Register(ctx, auth.RegisterRequest{
			Name:     "Jane Doe",
			Email:    "jane@example.com",
			Password: "password123",
			Type:     &managerType,
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.RoleManager, saved.Type)
	})

	t.Run("Invalid Role", func(t *testing.T) {
		repo := &fakeUserRepo{
			createFn: func(ctx context.Context, u *user.User) error {
				t.Fatal("create must not be reached")
				return nil
			},
		}

		service := auth.NewService(repo, nil)
		badType := 9
		_, err := service.Register(ctx, auth.RegisterRequest{
			Name:     "Bad Role",
			Email:    "bad@example.com",
			Password: "password123",
			Type:     &badType,
		})

		assert.ErrorIs(t, err, autherrors.ErrInvalidUserType)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		repo := &fakeUserRepo{
			createFn: func(ctx context.Context, u *user.User) error {
				return &pgconn.PgError{Code: "23505"}
			},
		}

		service := auth.NewService(repo, nil)
		_, err := service.Register(ctx, auth.RegisterRequest{
			Name:     "Dup",
			Email:    "duplicate@example.com",
			Password: "password123",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})
}

func TestService_Login(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	password := "password123"
	pw, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	mockUser := &user.User{
		ID:       "USER000001",
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: string(pw),
		Type:     domain.RoleEmployee,
	}

	repo := &fakeUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			if email != mockUser.Email {
				return nil, gorm.ErrRecordNotFound
			}
			return mockUser, nil
		},
	}
	service := auth.NewService(repo, nil)

	t.Run("Success Login", func(t *testing.T) {
		resp, err := service.Login(ctx, mockUser.Email, password)
		assert.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Greater(t, resp.ExpiresIn, 0)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		_, err := service.Login(ctx, mockUser.Email, "wrongpass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		_, err := service.Login(ctx, "nobody@example.com", password)
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestService_Me(t *testing.T) {
	ctx := context.Background()

	repo := &fakeUserRepo{
		getByIDFn: func(ctx context.Context, id string) (*user.User, error) {
			if id != "USER000001" {
				return nil, gorm.ErrRecordNotFound
			}
			return &user.User{ID: id, Name: "John Doe", Email: "john@example.com", Type: domain.RoleManager}, nil
		},
	}
	service := auth.NewService(repo, nil)

	t.Run("Found", func(t *testing.T) {
		resp, err := service.Me(ctx, "USER000001")
		assert.NoError(t, err)
		assert.Equal(t, "John Doe", resp.Name)
		assert.Equal(t, int(domain.RoleManager), resp.Type)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := service.Me(ctx, "MISSING001")
		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}
