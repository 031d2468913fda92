package core

// Keychain implementation for the EOSIO client.
//
// Holds a flat authorization ("actor@permission") -> secp256k1 private key
// map, decoded from WIF strings. This is deliberately NOT a hierarchical
// wallet: the spec's non-goals exclude multi-key wallet management, so
// lookup is exact-string and there is no derivation path.
//
// Import hygiene: keychain depends only on the hashing/Base58 primitives in
// internal/bs58hash and the secp256k1 curve package. It performs no RPC.

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	log "github.com/sirupsen/logrus"

	"github.com/soulseekah/eosioclient/internal/bs58hash"
)

const wifVersion = 0x80

var authorizationRe = regexp.MustCompile(`^\w+@\w+$`)

// SetLogger overrides the package-level logger used for keychain and
// signing events. The default is a fresh logger from logrus.New().
func SetLogger(l *log.Logger) { globalLogger = l }

var globalLogger = log.New()

// Keychain is an authorization -> private key map, safe for concurrent use.
// It is the only shared mutable state in the library (SPEC_FULL.md §5).
type Keychain struct {
	mu   sync.RWMutex
	keys map[string][32]byte
}

// NewKeychain returns an empty Keychain.
func NewKeychain() *Keychain {
	return &Keychain{keys: make(map[string][32]byte)}
}

// AddKey decodes a WIF-encoded secp256k1 private key and stores it under
// authorization, overwriting any existing entry. Checks run in this order:
// authorization format, Base58 decode to 37 bytes, version byte 0x80, then
// the 4-byte double-SHA-256 checksum.
func (k *Keychain) AddKey(authorization, wif string) error {
	if !authorizationRe.MatchString(authorization) {
		return fmt.Errorf("%w: %q", ErrMalformedAuthorization, authorization)
	}

	raw, err := bs58hash.Decode(wif)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(raw) != 37 {
		return fmt.Errorf("%w: decoded WIF is %d bytes, want 37", ErrInvalidKey, len(raw))
	}

	version := raw[0]
	secret := raw[1:33]
	checksum := raw[33:37]

	if version != wifVersion {
		return fmt.Errorf("%w: got 0x%02x, want 0x%02x", ErrInvalidKeyVersion, version, wifVersion)
	}
	want := bs58hash.Checksum4(raw[:33])
	for i := range want {
		if want[i] != checksum[i] {
			return ErrInvalidChecksum
		}
	}

	var secretArr [32]byte
	copy(secretArr[:], secret)

	k.mu.Lock()
	k.keys[authorization] = secretArr
	k.mu.Unlock()

	globalLogger.WithField("authorization", authorization).Info("keychain: key added")
	return nil
}

// Lookup returns the private key stored for authorization, if any.
func (k *Keychain) Lookup(authorization string) ([32]byte, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	secret, ok := k.keys[authorization]
	return secret, ok
}

// PublicKeyText derives the compressed secp256k1 public key for secret and
// renders it in EOSIO's textual form: "EOS" || Base58(point ||
// RIPEMD160(point)[0:4]).
func PublicKeyText(secret [32]byte) string {
	_, pub := btcec.PrivKeyFromBytes(secret[:])
	compressed := pub.SerializeCompressed()
	checksum := bs58hash.Ripemd160(compressed)
	payload := append(append([]byte{}, compressed...), checksum[:4]...)
	return "EOS" + bs58hash.Encode(payload)
}
