package leaveapplication

import "github.com/ta28nov/leave-system/internal/domain"

// Action yang diputuskan oleh authorization matrix.
type Action string

const (
	ActionViewAny     Action = "viewAny"
	ActionView        Action = "view"
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionApprove     Action = "approve"
	ActionReject      Action = "reject"
	ActionCancel      Action = "cancel"
	ActionRestore     Action = "restore"
	ActionForceDelete Action = "forceDelete"
)

// Target adalah pengajuan yang menjadi sasaran aksi; nil untuk aksi tanpa target
// (viewAny, create).
type Target struct {
	OwnerID string
	Status  Status
}

// Authorize memutuskan boleh/tidaknya caller menjalankan action.
//
// Matrix:
//
//	action      manager            employee
//	viewAny     allow              allow
//	create      allow              allow
//	view        allow              owner saja
//	update      deny               owner + status new
//	delete      deny               deny
//	approve     allow              deny
//	reject      allow              deny
//	cancel      deny               owner + status bukan approved/rejected
//	restore     deny               deny
//	forceDelete deny               deny
//
// Penolakan tidak pernah menjelaskan rule mana yang gagal.
func Authorize(caller domain.Caller, action Action, target *Target) bool {
	// Admin bypass: berjalan sebelum semua rule lain
	if caller.Role == domain.RoleAdmin {
		return true
	}

	switch action {
	case ActionViewAny, ActionCreate:
		return true

	case ActionView:
		if caller.Role == domain.RoleManager {
			return true
		}
		return target != nil && target.OwnerID == caller.ID

	case ActionUpdate:
		if caller.Role == domain.RoleManager {
			return false
		}
		return target != nil && target.OwnerID == caller.ID && target.Status == StatusNew

	case ActionApprove, ActionReject:
		return caller.Role == domain.RoleManager

	case ActionCancel:
		if caller.Role == domain.RoleManager {
			return false
		}
		return target != nil && target.OwnerID == caller.ID &&
			target.Status != StatusApproved && target.Status != StatusRejected

	default:
		// delete, restore, forceDelete: hanya admin (sudah lolos di atas)
		return false
	}
}
