package core

// RPC orchestrator: composes the ABI-driven serializer (core/serializer.go,
// core/transaction.go), the keychain, and the signer into the four calls
// spec.md §6 exposes as the library surface. Grounded on the teacher's
// gateway_node.go HTTP-client shape (an injected *http.Client, JSON POST
// helper, sentinel-wrapped error returns) with the mutex-guarded in-memory
// state dropped, since a Client carries no mutable state of its own beyond
// its *Keychain. Every RPC method takes a context.Context, threaded down to
// the underlying http.Request so a caller can cancel or time out an
// in-flight call.

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// ChainInfo mirrors the subset of `/v1/chain/get_info`'s response this
// client consumes (spec.md §3).
type ChainInfo struct {
	ChainID                   string    `json:"chain_id"`
	LastIrreversibleBlockNum  uint32    `json:"last_irreversible_block_num"`
	LastIrreversibleBlockID   string    `json:"last_irreversible_block_id"`
	LastIrreversibleBlockTime time.Time `json:"-"`
}

// chainInfoTimeLayout is the second-precision, zone-less timestamp format
// nodeos emits for last_irreversible_block_time.
const chainInfoTimeLayout = "2006-01-02T15:04:05"

// UnmarshalJSON parses last_irreversible_block_time as a zone-less UTC
// timestamp; encoding/json's default time.Time decoding requires an RFC3339
// offset that nodeos's response does not include.
func (c *ChainInfo) UnmarshalJSON(b []byte) error {
	var alias struct {
		ChainID                  string `json:"chain_id"`
		LastIrreversibleBlockNum uint32 `json:"last_irreversible_block_num"`
		LastIrreversibleBlockID  string `json:"last_irreversible_block_id"`
		LastIrreversibleBlockTime string `json:"last_irreversible_block_time"`
	}
	if err := json.Unmarshal(b, &alias); err != nil {
		return err
	}
	t, err := time.ParseInLocation(chainInfoTimeLayout, alias.LastIrreversibleBlockTime, time.UTC)
	if err != nil {
		return fmt.Errorf("parse last_irreversible_block_time: %w", err)
	}
	c.ChainID = alias.ChainID
	c.LastIrreversibleBlockNum = alias.LastIrreversibleBlockNum
	c.LastIrreversibleBlockID = alias.LastIrreversibleBlockID
	c.LastIrreversibleBlockTime = t
	return nil
}

// Client is the RPC orchestrator: a base endpoint, an HTTP transport with a
// configurable timeout, a keychain of signing keys, and a logger. It holds
// no other mutable state; every call assembles its own ChainInfo snapshot
// (spec.md §5).
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
	Keys       *Keychain
	Log        *log.Logger
}

// NewClient returns a Client pointed at endpoint, with keys as its keychain
// and timeout applied to every outbound request.
func NewClient(endpoint string, keys *Keychain, timeout time.Duration) *Client {
	return &Client{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: timeout},
		Keys:       keys,
		Log:        globalLogger,
	}
}

// post issues a JSON POST to path and decodes the response into out. A
// non-2xx response with a parseable body is surfaced as *RpcError; any
// lower-level failure (DNS, dial, timeout, or ctx cancellation) is surfaced
// as *TransportError.
func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	c.Log.WithField("path", path).Debug("client: posting request")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RpcError{Body: respBody}
	}

	// nodeos can answer with a 2xx status and still carry an "error" key in
	// the body (e.g. a deferred validation failure); that's an RpcError too.
	var errProbe struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(respBody, &errProbe); err == nil && len(errProbe.Error) > 0 && string(errProbe.Error) != "null" {
		return &RpcError{Body: respBody}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// GetInfo fetches a fresh ChainInfo snapshot from /v1/chain/get_info.
func (c *Client) GetInfo(ctx context.Context) (*ChainInfo, error) {
	var info ChainInfo
	if err := c.post(ctx, "/v1/chain/get_info", struct{}{}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetAbi fetches account's ABI from /v1/chain/get_abi. abiProviderWithContext
// adapts it to the context-free AbiProvider interface the serializer uses.
func (c *Client) GetAbi(ctx context.Context, account string) (*ABI, error) {
	var resp struct {
		ABI ABI `json:"abi"`
	}
	req := struct {
		AccountName string `json:"account_name"`
	}{AccountName: account}
	if err := c.post(ctx, "/v1/chain/get_abi", req, &resp); err != nil {
		return nil, err
	}
	return &resp.ABI, nil
}

// GetTableRows fetches rows from /v1/chain/get_table_rows and unserializes
// each hex-encoded row against the ABI struct named table within account's
// ABI (spec.md §4.5). Returns an empty slice if the table has no matching
// struct or no rows.
func (c *Client) GetTableRows(ctx context.Context, account, table, scope string, extra map[string]any) ([]map[string]any, error) {
	req := map[string]any{
		"code":  account,
		"table": table,
		"scope": scope,
		"json":  false,
	}
	for k, v := range extra {
		req[k] = v
	}

	var resp struct {
		Rows []string `json:"rows"`
		More bool     `json:"more"`
	}
	if err := c.post(ctx, "/v1/chain/get_table_rows", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Rows) == 0 {
		return []map[string]any{}, nil
	}

	abi, err := c.GetAbi(ctx, account)
	if err != nil {
		return nil, err
	}
	st, err := abi.FindStruct(table)
	if err != nil {
		return []map[string]any{}, nil
	}

	rows := make([]map[string]any, 0, len(resp.Rows))
	for _, hexRow := range resp.Rows {
		raw, err := hex.DecodeString(hexRow)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed table row hex", ErrOutOfRange)
		}
		row, err := Unserialize(raw, st.Fields)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// PushTransactionResponse is the decoded response body of
// `/v1/chain/push_transaction`, kept intentionally loose: callers rarely
// need more than the transaction id and can inspect RawJSON for the rest.
type PushTransactionResponse struct {
	TransactionID string          `json:"transaction_id"`
	RawJSON       json.RawMessage `json:"-"`
}

func (r *PushTransactionResponse) UnmarshalJSON(b []byte) error {
	var alias struct {
		TransactionID string `json:"transaction_id"`
	}
	if err := json.Unmarshal(b, &alias); err != nil {
		return err
	}
	r.TransactionID = alias.TransactionID
	r.RawJSON = append(json.RawMessage{}, b...)
	return nil
}

// MarshalJSON re-emits the original response body verbatim, so callers that
// round-trip a PushTransactionResponse (e.g. the CLI printing it back) see
// every field the node returned, not just TransactionID.
func (r *PushTransactionResponse) MarshalJSON() ([]byte, error) {
	if r.RawJSON != nil {
		return r.RawJSON, nil
	}
	return json.Marshal(struct {
		TransactionID string `json:"transaction_id"`
	}{TransactionID: r.TransactionID})
}

// abiProviderWithContext adapts Client's context-threaded GetAbi to the
// context-free AbiProvider capability the pure serializer (core/serializer.go,
// core/transaction.go) depends on, so PushTransaction's caller-supplied ctx
// still governs the ABI-lookup round-trip a transaction pack triggers.
type abiProviderWithContext struct {
	client *Client
	ctx    context.Context
}

func (a abiProviderWithContext) GetABI(account string) (*ABI, error) {
	return a.client.GetAbi(a.ctx, account)
}

// PushTransaction implements spec.md §4.5's push_transaction algorithm
// end to end: resolve the signing key, snapshot chain_info, build and pack
// the transaction, sign its digest, and POST the envelope.
func (c *Client) PushTransaction(ctx context.Context, account, action string, data map[string]any, authorization string, expirationSeconds int) (*PushTransactionResponse, error) {
	secret, ok := c.Keys.Lookup(authorization)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAuthorization, authorization)
	}
	actor, permission, err := splitAuthorization(authorization)
	if err != nil {
		return nil, err
	}

	info, err := c.GetInfo(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := BuildTransaction(info, expirationSeconds, []Action{{
		Account:       account,
		Name:          action,
		Authorization: []PermissionLevel{{Actor: actor, Permission: permission}},
		Data:          data,
	}})
	if err != nil {
		return nil, err
	}

	opts := SerializeOpts{Abi: abiProviderWithContext{client: c, ctx: ctx}}
	packed, err := PackTransaction(tx, opts)
	if err != nil {
		return nil, err
	}

	chainIDBytes, err := hex.DecodeString(info.ChainID)
	if err != nil || len(chainIDBytes) != 32 {
		return nil, fmt.Errorf("%w: malformed chain_id", ErrOutOfRange)
	}
	var chainID [32]byte
	copy(chainID[:], chainIDBytes)

	digest := DigestForTransaction(chainID, packed)
	sigText, err := SignDigest(digest, secret)
	if err != nil {
		return nil, err
	}

	req := struct {
		Signatures            []string `json:"signatures"`
		Compression           string   `json:"compression"`
		PackedTrx             string   `json:"packed_trx"`
		PackedContextFreeData string   `json:"packed_context_free_data"`
	}{
		Signatures:            []string{sigText},
		Compression:           "none",
		PackedTrx:             hex.EncodeToString(packed),
		PackedContextFreeData: "",
	}

	var resp PushTransactionResponse
	if err := c.post(ctx, "/v1/chain/push_transaction", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func splitAuthorization(authorization string) (actor, permission string, err error) {
	if !authorizationRe.MatchString(authorization) {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedAuthorization, authorization)
	}
	for i := 0; i < len(authorization); i++ {
		if authorization[i] == '@' {
			return authorization[:i], authorization[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("%w: %q", ErrMalformedAuthorization, authorization)
}
