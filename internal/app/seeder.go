package app

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ta28nov/leave-system/internal/domain"
	"github.com/ta28nov/leave-system/internal/shared/identifier"
	"github.com/ta28nov/leave-system/internal/user"
)

// seedUsers membuat akun demo: 1 admin, 2 manager, 2 employee. Password
// semuanya "password123". Idempotent lewat FirstOrCreate per email.
func seedUsers(gormDB *gorm.DB) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	seeds := []user.User{
		{Name: "Admin", Email: "admin@example.com", Type: domain.RoleAdmin},
		{Name: "Manager One", Email: "manager1@example.com", Type: domain.RoleManager},
		{Name: "Manager Two", Email: "manager2@example.com", Type: domain.RoleManager},
		{Name: "Employee One", Email: "employee1@example.com", Type: domain.RoleEmployee},
		{Name: "Employee Two", Email: "employee2@example.com", Type: domain.RoleEmployee},
	}

	for _, seed := range seeds {
		seed.ID = identifier.New()
		seed.Password = string(hashed)
		seed.CreatedBy = seed.ID

		// Attrs hanya dipakai saat insert, jadi run ulang tidak menimpa
		// id/password akun yang sudah ada
		err := gormDB.
			Where(user.User{Email: seed.Email}).
			Attrs(seed).
			FirstOrCreate(&user.User{}).Error
		if err != nil {
			return err
		}
	}

	return nil
}
