// Package cryptox implements the symmetric encryption used for secret
// content at rest: AES-256-GCM with a fresh random IV per call, plus key
// derivation for configured key material that is not already a raw
// 32-byte key.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the required key length in bytes (AES-256).
	KeySize = 32
	// IVSize is the GCM nonce length in bytes. One fresh random IV is
	// generated per encryption and stored alongside the ciphertext.
	IVSize = 12
)

// DeriveKey stretches an arbitrary key string into a 32-byte AES key using
// argon2id. Same inputs always produce the same key, so a passphrase-style
// ENCRYPTION_KEY keeps decrypting existing records across restarts.
func DeriveKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}

// Encrypt encrypts plaintext under key using AES-256-GCM.
//
// The key must be exactly KeySize bytes. A new random IV is generated for
// each call, so encrypting the same plaintext twice yields different
// ciphertext. The ciphertext (which includes the GCM authentication tag)
// and the IV are returned separately; both must be stored to decrypt.
//
// Returns:
//   - ciphertext: the encrypted payload with authentication tag.
//   - iv: the randomly generated IV.
//   - err: non-nil if the cipher cannot be constructed or the random
//     generator fails.
func Encrypt(plaintext, key []byte) (ciphertext, iv []byte, err error) {

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	iv = make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, err
	}

	ciphertext = aesgcm.Seal(nil, iv, plaintext, nil)

	return ciphertext, iv, nil
}

// Decrypt decrypts ciphertext produced by Encrypt.
//
// The key and iv must be the ones used during encryption. Any modification
// of the ciphertext, the IV or the key makes authentication fail and an
// error is returned; callers must collapse that error into a generic
// "content unavailable" result rather than surfacing it, so that tampered
// and absent content are indistinguishable.
func Decrypt(ciphertext, iv, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, err
	}

	return plaintext, nil
}
