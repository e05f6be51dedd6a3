// Package shared provides small helpers used by both the CLI and the backend:
// random secrets and wiping sensitive bytes.
package shared

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString returns size random bytes encoded as hex, so the result is
// 2*size characters long. The backend uses it for an ephemeral signing key
// when none is configured.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray zeroes b. The CLI calls it on password buffers once they have
// been copied into a submission.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
