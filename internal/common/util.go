package common

import (
	"crypto/rand"
	"encoding/base64"
)

// MakeURLSafeToken generates a random URL-safe token from size random
// bytes, encoded as unpadded base64url. With size=32 the token carries
// 256 bits of entropy, which makes collisions and guessing negligible.
//
// It returns an error if the random number generator fails.
func MakeURLSafeToken(size int) (string, error) {
	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// This is useful for removing sensitive data such as decrypted secrets or
// cryptographic keys from memory after use.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
