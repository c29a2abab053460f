package leaveapplication

// Status pengajuan cuti. Disimpan sebagai string lowercase di database.
type Status string

const (
	StatusNew       Status = "new"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// transitions adalah satu-satunya definisi state machine. Tidak ada aksi
// submit: "pending" hanya bisa muncul lewat manipulasi data langsung, dan
// new/pending diperlakukan sebagai pasangan status terbuka yang setara.
// approved dan rejected terminal; cancelled menerima cancel ulang
// (idempotent).
var transitions = map[Status][]Status{
	StatusNew:       {StatusApproved, StatusRejected, StatusCancelled},
	StatusPending:   {StatusApproved, StatusRejected, StatusCancelled},
	StatusCancelled: {StatusCancelled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ActiveStatuses adalah status yang ikut dihitung pada pengecekan overlap.
// Pengajuan rejected/cancelled tidak memblokir tanggal.
var ActiveStatuses = []Status{StatusNew, StatusPending, StatusApproved}

// LeaveType jenis cuti: annual, sick, unpaid.
type LeaveType string

const (
	TypeAnnual LeaveType = "annual"
	TypeSick   LeaveType = "sick"
	TypeUnpaid LeaveType = "unpaid"
)

func (t LeaveType) Valid() bool {
	switch t {
	case TypeAnnual, TypeSick, TypeUnpaid:
		return true
	}
	return false
}
