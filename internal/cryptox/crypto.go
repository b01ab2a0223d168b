// Package cryptox implements the at-rest encryption used for the private
// vault: AES-GCM over JSON payloads with an argon2id-derived key.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/json"

	"keepsafe/internal/common"

	"golang.org/x/crypto/argon2"
)

// DeriveVaultKey derives a 32-byte AES key from the device passcode and a
// per-install salt.
func DeriveVaultKey(passcode, salt []byte) []byte {
	return argon2.IDKey(passcode, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier returns a checksum of the key stored alongside the vault so a
// wrong passcode is detected before any decryption is attempted.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// EncryptJSON serializes v to JSON and encrypts it with AES-GCM. A fresh
// 12-byte nonce is generated per call and returned separately.
func EncryptJSON(v any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	nonce = common.RandBytes(aesgcm.NonceSize())
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// DecryptJSON reverses EncryptJSON, unmarshalling the recovered JSON into v.
// The key and nonce must match the ones used for encryption.
func DecryptJSON(ciphertext, nonce, key []byte, v any) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return err
	}

	return json.Unmarshal(plaintext, v)
}
