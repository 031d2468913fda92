package core

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"
)

// PermissionLevel is an actor/permission pair, e.g. the "alice@active" half
// of an action's authorization list.
type PermissionLevel struct {
	Actor      string
	Permission string
}

// Action is one logical contract call inside a transaction: the account
// that owns the code, the action name, who authorized it, and the payload
// keyed by the ABI struct's field names.
type Action struct {
	Account       string
	Name          string
	Authorization []PermissionLevel
	Data          map[string]any
}

// Transaction is the logical transaction body described in SPEC_FULL.md §3:
// header fields plus the three ordered action/extension arrays.
type Transaction struct {
	Expiration            time.Time
	RefBlockNum           uint16
	RefBlockPrefix        uint32
	MaxNetUsageWords      uint32
	MaxCpuUsageMs         uint8
	DelaySec              uint32
	ContextFreeActions    []Action
	Actions               []Action
	TransactionExtensions []any // pairs of (uint16, bytes); always empty here
}

var actionAuthType = StructOf(
	Field{Name: "actor", Type: Primitive("name")},
	Field{Name: "permission", Type: Primitive("name")},
)

var transactionHeaderType = StructOf(
	Field{Name: "expiration", Type: Primitive("time_point_sec")},
	Field{Name: "ref_block_num", Type: Primitive("uint16")},
	Field{Name: "ref_block_prefix", Type: Primitive("uint32")},
	Field{Name: "max_net_usage_words", Type: Primitive("varuint32")},
	Field{Name: "max_cpu_usage_ms", Type: Primitive("uint8")},
	Field{Name: "delay_sec", Type: Primitive("varuint32")},
)

var transactionBodyType = StructOf(
	Field{Name: "context_free_actions", Type: ArrayOf(actionType)},
	Field{Name: "actions", Type: ArrayOf(actionType)},
	Field{Name: "transaction_extensions", Type: ArrayOf(PairOf(Primitive("uint16"), Primitive("bytes")))},
)

// serializeAction packs an Action by looking up its payload schema through
// opts.Abi, keeping ABI resolution (and therefore the network round-trip it
// implies) out of the pure type-dispatch in Serialize.
func serializeAction(v any, opts SerializeOpts) ([]byte, error) {
	act, err := asAction(v)
	if err != nil {
		return nil, err
	}
	if opts.Abi == nil {
		return nil, fmt.Errorf("%w: action serialization requires an AbiProvider", ErrUnsupportedType)
	}
	abi, err := opts.Abi.GetABI(act.Account)
	if err != nil {
		return nil, err
	}
	st, err := abi.FindStruct(act.Name)
	if err != nil {
		return nil, err
	}

	dataFields := make([]Field, len(st.Fields))
	for i, f := range st.Fields {
		dataFields[i] = Field{Name: f.Name, Type: ParseTypeExpr(f.Type)}
	}

	auths := make([]any, len(act.Authorization))
	for i, a := range act.Authorization {
		auths[i] = map[string]any{"actor": a.Actor, "permission": a.Permission}
	}

	m := map[string]any{
		"account":       act.Account,
		"name":          act.Name,
		"authorization": auths,
		"data":          act.Data,
	}
	t := StructOf(
		Field{Name: "account", Type: Primitive("name")},
		Field{Name: "name", Type: Primitive("name")},
		Field{Name: "authorization", Type: ArrayOf(actionAuthType)},
		Field{Name: "data", Type: BytesStructOf(dataFields...)},
	)
	return Serialize(m, t, opts)
}

func asAction(v any) (Action, error) {
	switch x := v.(type) {
	case Action:
		return x, nil
	case *Action:
		return *x, nil
	default:
		return Action{}, fmt.Errorf("%w: action requires an Action value, got %T", ErrOutOfRange, v)
	}
}

// serializeTransactionValue packs the 6-field header followed by the body
// (context-free actions, actions, and the always-empty extensions array).
func serializeTransactionValue(v any, opts SerializeOpts) ([]byte, error) {
	tx, err := asTransaction(v)
	if err != nil {
		return nil, err
	}
	header := map[string]any{
		"expiration":          tx.Expiration,
		"ref_block_num":       tx.RefBlockNum,
		"ref_block_prefix":    tx.RefBlockPrefix,
		"max_net_usage_words": tx.MaxNetUsageWords,
		"max_cpu_usage_ms":    tx.MaxCpuUsageMs,
		"delay_sec":           tx.DelaySec,
	}
	headerBytes, err := Serialize(header, transactionHeaderType, opts)
	if err != nil {
		return nil, err
	}

	cfa := make([]any, len(tx.ContextFreeActions))
	for i, a := range tx.ContextFreeActions {
		cfa[i] = a
	}
	actions := make([]any, len(tx.Actions))
	for i, a := range tx.Actions {
		actions[i] = a
	}
	body := map[string]any{
		"context_free_actions":   cfa,
		"actions":                actions,
		"transaction_extensions": []any{},
	}
	bodyBytes, err := Serialize(body, transactionBodyType, opts)
	if err != nil {
		return nil, err
	}
	return append(headerBytes, bodyBytes...), nil
}

func asTransaction(v any) (Transaction, error) {
	switch x := v.(type) {
	case Transaction:
		return x, nil
	case *Transaction:
		return *x, nil
	default:
		return Transaction{}, fmt.Errorf("%w: transaction requires a Transaction value, got %T", ErrOutOfRange, v)
	}
}

// PackTransaction serializes tx to the exact bytes the chain expects for
// `packed_trx`.
func PackTransaction(tx *Transaction, opts SerializeOpts) ([]byte, error) {
	return Serialize(*tx, transactionType, opts)
}

// BuildTransaction assembles the transaction header from a chain_info
// snapshot, following SPEC_FULL.md §4.5 exactly: ref_block_num truncates to
// 16 bits, ref_block_prefix is the little-endian uint32 at byte offset 8 of
// the 32-byte block id, and expiration is the snapshot's irreversible time
// plus the caller-supplied window.
func BuildTransaction(info *ChainInfo, expirationSeconds int, actions []Action) (*Transaction, error) {
	blockID, err := hex.DecodeString(info.LastIrreversibleBlockID)
	if err != nil || len(blockID) < 12 {
		return nil, fmt.Errorf("%w: malformed last_irreversible_block_id", ErrOutOfRange)
	}
	return &Transaction{
		Expiration:     info.LastIrreversibleBlockTime.Add(time.Duration(expirationSeconds) * time.Second),
		RefBlockNum:    uint16(info.LastIrreversibleBlockNum & 0xFFFF),
		RefBlockPrefix: binary.LittleEndian.Uint32(blockID[8:12]),
		Actions:        actions,
	}, nil
}
