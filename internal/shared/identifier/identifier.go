package identifier

import "crypto/rand"

// Record id berbentuk char(10) huruf besar + angka, bukan uuid.
const (
	charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	length  = 10
)

// New menghasilkan id acak 10 karakter untuk primary key User dan
// LeaveApplication.
func New() string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand hanya gagal jika sumber entropi OS rusak
		panic(err)
	}
	for i, b := range buf {
		buf[i] = charset[int(b)%len(charset)]
	}
	return string(buf)
}
