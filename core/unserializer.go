package core

// Unserialize reads a table row (spec.md §4.3): a flat, fixed-width decoder
// for the three field types get_table_rows actually needs. It deliberately
// does not share machinery with Serialize's struct/array dispatch since the
// row format here is always a flat sequence of 8-byte fields, never nested
// arrays or structs.

import (
	"encoding/binary"
	"fmt"
)

// Unserialize decodes raw against fields in order, returning a map keyed by
// field name. Every field in this table consumes exactly 8 bytes; name,
// uint64, and int64 are the only supported types (spec.md's non-goal of
// unserializing arbitrary ABI types stands).
func Unserialize(raw []byte, fields []ABIField) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	offset := 0
	for _, f := range fields {
		if offset+8 > len(raw) {
			return nil, fmt.Errorf("%w: row too short for field %q", ErrOutOfRange, f.Name)
		}
		chunk := raw[offset : offset+8]
		offset += 8

		switch f.Type {
		case "name":
			out[f.Name] = DecodeName(binary.LittleEndian.Uint64(chunk))
		case "uint64":
			out[f.Name] = binary.LittleEndian.Uint64(chunk)
		case "int64":
			out[f.Name] = int64(binary.LittleEndian.Uint64(chunk))
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, f.Type)
		}
	}
	return out, nil
}
