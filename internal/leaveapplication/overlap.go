package leaveapplication

import (
	"context"
	"time"

	leaveerrors "github.com/ta28nov/leave-system/internal/leaveapplication/errors"
)

// OverlapValidator menolak rentang tanggal yang beririsan dengan pengajuan aktif
// (new/pending/approved) milik user yang sama. Cukup satu bentrokan untuk
// gagal; isi record yang bentrok tidak pernah dibaca.
type OverlapValidator struct {
	repo Repository
}

func NewOverlapValidator(repo Repository) *OverlapValidator {
	return &OverlapValidator{repo: repo}
}

// Validate memeriksa kandidat [startDate, endDate] (inklusif dua sisi)
// terhadap pengajuan user. excludeID dipakai saat update agar record itu sendiri
// tidak dihitung sebagai bentrokan.
func (v *OverlapValidator) Validate(ctx context.Context, userID string, startDate, endDate time.Time, excludeID *string) error {
	overlap, err := v.repo.HasOverlappingPeriod(ctx, userID, startDate, endDate, excludeID)
	if err != nil {
		return err
	}
	if overlap {
		return leaveerrors.OverlapError(
			startDate.Format(dateLayout),
			endDate.Format(dateLayout),
		)
	}
	return nil
}
