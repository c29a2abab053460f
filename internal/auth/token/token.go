package token

import (
	"crypto/sha256"
	"encoding/hex"
)

// BlacklistKey menghasilkan key redis untuk token yang sudah dicabut
// (logout / refresh). Token disimpan sebagai hash, bukan mentah.
func BlacklistKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return "auth:blacklist:" + hex.EncodeToString(sum[:])
}
