package cryptox

import (
	"crypto/rand"
	"encoding/base64"
)

// Token sizes in bytes of entropy, before encoding.
const (
	TokenSize128 = 16
	TokenSize256 = 32
)

// GenerateToken returns a URL-safe random string with size bytes of entropy.
func GenerateToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
