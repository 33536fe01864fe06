package profile

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashCredential converts a plain-text credential into the digest the
// server verifies: lowercase hex SHA-256. The plain text never leaves
// the process.
func HashCredential(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
