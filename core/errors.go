package core

import "errors"

// Sentinel errors surfaced to callers, optionally wrapped with %w for extra
// context. The one place an error is absorbed is GetTableRows, which returns
// an empty result when the account's ABI has no struct named after the table.
var (
	ErrInvalidKey             = errors.New("invalid key")
	ErrInvalidKeyVersion      = errors.New("invalid key version")
	ErrInvalidChecksum        = errors.New("invalid checksum")
	ErrMalformedAuthorization = errors.New("malformed authorization")
	ErrUnknownAuthorization   = errors.New("unknown authorization")
	ErrUnknownAction          = errors.New("unknown action")
	ErrMissingField           = errors.New("missing field")
	ErrOutOfRange             = errors.New("value out of range")
	ErrUnsupportedType        = errors.New("unsupported type")
	ErrSigningFailed          = errors.New("signing failed")
)

// RpcError wraps a chain node's `{"error": ...}` response body.
type RpcError struct {
	Body []byte
}

func (e *RpcError) Error() string {
	return "rpc error: " + string(e.Body)
}

// TransportError wraps an underlying HTTP transport failure.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
