package core

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const bidnameWIF = "5HpHagT65TZzG1PH3CSu63k8DbpvD8s5ip4nEB3kEsreAbuatmU"

// newStubChain returns an httptest server implementing just enough of
// /v1/chain/get_info, /v1/chain/get_abi, and /v1/chain/push_transaction to
// drive an end-to-end PushTransaction call for the eosio::bidname action
// (spec.md §8 vector 5).
func newStubChain(t *testing.T) *httptest.Server {
	t.Helper()
	chainID := strings.Repeat("11", 32)
	blockID := "00000001" + strings.Repeat("22", 28)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chain/get_info", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"chain_id":                     chainID,
			"last_irreversible_block_num":  100,
			"last_irreversible_block_id":   blockID,
			"last_irreversible_block_time": "2024-01-01T00:00:00",
		})
	})
	mux.HandleFunc("/v1/chain/get_abi", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"abi": map[string]any{
				"structs": []map[string]any{
					{
						"name": "bidname",
						"fields": []map[string]any{
							{"name": "bidder", "type": "name"},
							{"name": "newname", "type": "name"},
							{"name": "bid", "type": "int64"},
						},
					},
				},
			},
		})
	})
	mux.HandleFunc("/v1/chain/push_transaction", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Signatures  []string `json:"signatures"`
			Compression string   `json:"compression"`
			PackedTrx   string   `json:"packed_trx"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(body.Signatures) != 1 || !strings.HasPrefix(body.Signatures[0], "SIG_K1_") {
			http.Error(w, "expected exactly one SIG_K1_ signature", http.StatusBadRequest)
			return
		}
		if got := len(strings.TrimPrefix(body.Signatures[0], "SIG_K1_")); got != 102 {
			http.Error(w, "signature body must be 102 base58 characters", http.StatusBadRequest)
			return
		}
		packed, err := hex.DecodeString(body.PackedTrx)
		if err != nil || len(packed) < 10 {
			http.Error(w, "malformed packed_trx", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"transaction_id": "deadbeef",
		})
	})
	return httptest.NewServer(mux)
}

func TestPushTransactionEndToEnd(t *testing.T) {
	srv := newStubChain(t)
	defer srv.Close()

	keys := NewKeychain()
	if err := keys.AddKey("bob@active", bidnameWIF); err != nil {
		t.Fatalf("AddKey: %v", err)
	}

	client := NewClient(srv.URL, keys, 5*time.Second)
	resp, err := client.PushTransaction(context.Background(), "eosio", "bidname", map[string]any{
		"bidder":  "bob",
		"newname": "cool",
		"bid":     int64(1000),
	}, "bob@active", 30)
	if err != nil {
		t.Fatalf("PushTransaction: %v", err)
	}
	if resp.TransactionID != "deadbeef" {
		t.Fatalf("TransactionID = %q, want %q", resp.TransactionID, "deadbeef")
	}
}

func TestPushTransactionUnknownAuthorization(t *testing.T) {
	srv := newStubChain(t)
	defer srv.Close()

	client := NewClient(srv.URL, NewKeychain(), 5*time.Second)
	_, err := client.PushTransaction(context.Background(), "eosio", "bidname", map[string]any{}, "nobody@active", 30)
	if err == nil {
		t.Fatal("expected ErrUnknownAuthorization")
	}
}
