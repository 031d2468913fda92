// Package bs58hash bundles the hashing and Base58 primitives shared by the
// keychain and signer: SHA-256, RIPEMD-160, and Base58/Base58Check
// encode-decode. It has no dependency on the rest of core so it can be
// exercised in isolation.
package bs58hash

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160"
)

// Sha256 returns the SHA-256 digest of data.
func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// DoubleSha256 returns SHA-256(SHA-256(data)), the checksum hash used by WIF.
func DoubleSha256(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// Ripemd160 returns the RIPEMD-160 digest of data.
func Ripemd160(data []byte) [20]byte {
	h := ripemd160.New()
	h.Write(data)
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Encode returns the Base58 (Bitcoin alphabet) encoding of data.
func Encode(data []byte) string {
	return base58.Encode(data)
}

// Decode reverses Encode.
func Decode(s string) ([]byte, error) {
	return base58.Decode(s)
}

// Checksum4 returns the leading 4 bytes of DoubleSha256(data), the checksum
// form used by WIF encoding.
func Checksum4(data []byte) [4]byte {
	sum := DoubleSha256(data)
	var out [4]byte
	copy(out[:], sum[:4])
	return out
}

// Ripemd160WithSuffix returns RIPEMD160(data || suffix), the checksum form
// EOSIO uses for signature and typed-key textual encodings (e.g. the "K1"
// curve suffix mixed into a "SIG_K1_..." checksum).
func Ripemd160WithSuffix(data []byte, suffix string) [20]byte {
	h := ripemd160.New()
	h.Write(data)
	h.Write([]byte(suffix))
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}
