package storage

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"

	"keepsafe/internal/common"
	"keepsafe/internal/cryptox"
)

// EncryptedStorage wraps another DurableStorage and seals every value with
// AES-GCM. The key comes from the vault passcode (cryptox.DeriveVaultKey);
// entries cached on a shared device stay unreadable without it.
type EncryptedStorage struct {
	inner DurableStorage
	key   []byte
}

type sealedItem struct {
	Nonce      []byte `json:"n"`
	Ciphertext []byte `json:"c"`
}

func NewEncryptedStorage(inner DurableStorage, key []byte) *EncryptedStorage {
	return &EncryptedStorage{inner: inner, key: key}
}

// Keys holding the vault bootstrap material, stored unencrypted in the
// inner store.
const (
	vaultSaltKey     = "vault_salt"
	vaultVerifierKey = "vault_verifier"
)

// Unlock derives the vault key from the passcode and returns the encrypting
// wrapper over inner. The per-install salt and a key verifier are created on
// first use; a passcode that does not match the stored verifier is rejected
// with ErrUnauthorized before anything is decrypted.
func Unlock(ctx context.Context, inner DurableStorage, passcode string) (*EncryptedStorage, error) {
	salt, err := inner.GetItem(ctx, vaultSaltKey)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		salt = common.RandBytes(16)
		if err := inner.SetItem(ctx, vaultSaltKey, salt); err != nil {
			return nil, err
		}
	}

	key := cryptox.DeriveVaultKey([]byte(passcode), salt)
	verifier := cryptox.MakeVerifier(key)

	stored, err := inner.GetItem(ctx, vaultVerifierKey)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		if err := inner.SetItem(ctx, vaultVerifierKey, verifier); err != nil {
			return nil, err
		}
	} else if subtle.ConstantTimeCompare(stored, verifier) != 1 {
		return nil, common.ErrUnauthorized
	}

	return NewEncryptedStorage(inner, key), nil
}

func (s *EncryptedStorage) GetItem(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.inner.GetItem(ctx, key)
	if err != nil || raw == nil {
		return nil, err
	}

	var item sealedItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("corrupt sealed item %q: %w", key, err)
	}

	var value json.RawMessage
	if err := cryptox.DecryptJSON(item.Ciphertext, item.Nonce, s.key, &value); err != nil {
		return nil, fmt.Errorf("failed to unseal %q: %w", key, err)
	}
	return value, nil
}

func (s *EncryptedStorage) SetItem(ctx context.Context, key string, value []byte) error {
	ct, nonce, err := cryptox.EncryptJSON(json.RawMessage(value), s.key)
	if err != nil {
		return fmt.Errorf("failed to seal %q: %w", key, err)
	}

	raw, err := json.Marshal(sealedItem{Nonce: nonce, Ciphertext: ct})
	if err != nil {
		return err
	}
	return s.inner.SetItem(ctx, key, raw)
}

func (s *EncryptedStorage) RemoveItem(ctx context.Context, key string) error {
	return s.inner.RemoveItem(ctx, key)
}
