package core

import (
	"strings"
	"testing"
	"time"
)

func TestBuildTransactionHeaderFields(t *testing.T) {
	info := &ChainInfo{
		ChainID:                  strings.Repeat("ab", 32),
		LastIrreversibleBlockNum: 0x0001ffff,
		LastIrreversibleBlockID:  "00000001deadbeef" + strings.Repeat("00", 24),
		LastIrreversibleBlockTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	tx, err := BuildTransaction(info, 30, nil)
	if err != nil {
		t.Fatalf("BuildTransaction: %v", err)
	}

	if tx.RefBlockNum != uint16(info.LastIrreversibleBlockNum&0xFFFF) {
		t.Errorf("RefBlockNum = %d, want %d", tx.RefBlockNum, uint16(info.LastIrreversibleBlockNum&0xFFFF))
	}
	wantExpiration := info.LastIrreversibleBlockTime.Add(30 * time.Second)
	if !tx.Expiration.Equal(wantExpiration) {
		t.Errorf("Expiration = %v, want %v", tx.Expiration, wantExpiration)
	}
}

func TestBuildTransactionRejectsMalformedBlockID(t *testing.T) {
	info := &ChainInfo{
		ChainID:                   strings.Repeat("ab", 32),
		LastIrreversibleBlockID:   "not-hex",
		LastIrreversibleBlockTime: time.Now().UTC(),
	}
	if _, err := BuildTransaction(info, 30, nil); err == nil {
		t.Fatal("expected an error for a malformed block id")
	}
}

func TestPackTransactionHexRoundTrip(t *testing.T) {
	tx := &Transaction{
		Expiration:            time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		RefBlockNum:           42,
		RefBlockPrefix:        12345,
		MaxNetUsageWords:      0,
		MaxCpuUsageMs:         0,
		DelaySec:              0,
		ContextFreeActions:    nil,
		Actions:               nil,
		TransactionExtensions: nil,
	}
	packed, err := PackTransaction(tx, SerializeOpts{})
	if err != nil {
		t.Fatalf("PackTransaction: %v", err)
	}
	if len(packed) < 10 {
		t.Fatalf("packed transaction too short: %d bytes", len(packed))
	}
	// ref_block_num sits right after the 4-byte expiration.
	if packed[4] != 42 || packed[5] != 0 {
		t.Fatalf("ref_block_num bytes = % x, want 2a 00", packed[4:6])
	}
}
