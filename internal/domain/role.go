package domain

// Role adalah tipe user yang tersimpan sebagai integer di database.
// 0 = admin, 1 = manager, 2 = employee.
type Role int

const (
	RoleAdmin    Role = 0
	RoleManager  Role = 1
	RoleEmployee Role = 2
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleManager:
		return "manager"
	case RoleEmployee:
		return "employee"
	}
	return "unknown"
}

// Caller adalah identitas yang sudah terautentikasi untuk satu request.
// Selalu dioper secara eksplisit ke service dan policy, tidak pernah
// disimpan sebagai state global.
type Caller struct {
	ID   string
	Role Role
}
