package jwtx

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/aussiebroadwan/tasktab/pkg/cryptox"
)

// KeyManager wires together an ephemeral signing key, the KeySet used for
// verification, and the Verifier. Keys are generated on the fly and only
// exist in memory - they are never persisted, which means all outstanding
// tokens become invalid when the service restarts.
type KeyManager struct {
	Signer   Signer
	Verifier Verifier
	KeySet   *KeySet
}

// KeyManagerOptions configures the KeyManager.
type KeyManagerOptions struct {
	// Issuer is the issuer claim (iss) that will be validated in tokens.
	Issuer string
}

// NewEphemeralKeyManager creates a KeyManager with a freshly generated
// Ed25519 signing key.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	kid, err := generateRandomKeyID()
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to generate key ID: %w", err)
	}

	pemKey, err := cryptox.GenerateEd25519PEM()
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to generate signing key: %w", err)
	}

	signer, err := NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to build signer: %w", err)
	}

	keyset := NewKeySet()
	keyset.AddSigner(signer)

	return &KeyManager{
		Signer:   signer,
		Verifier: NewVerifierEdDSA(keyset, opts.Issuer),
		KeySet:   keyset,
	}, nil
}

func generateRandomKeyID() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
