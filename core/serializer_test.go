package core

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncodeVaruint32Vectors(t *testing.T) {
	cases := []struct {
		in   uint32
		want []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{16384, []byte{0x80, 0x80, 0x01}},
	}
	for _, c := range cases {
		got := EncodeVaruint32(c.in)
		if !bytes.Equal(got, c.want) {
			t.Errorf("EncodeVaruint32(%d) = % x, want % x", c.in, got, c.want)
		}
	}
}

func TestDecodeVaruint32RoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 127, 128, 16384, 1 << 20, 0xffffffff} {
		encoded := EncodeVaruint32(v)
		if len(encoded) > 5 {
			t.Errorf("encode(%d) produced %d bytes, want <= 5", v, len(encoded))
		}
		got, n, err := DecodeVaruint32(encoded)
		if err != nil {
			t.Fatalf("DecodeVaruint32(%d): %v", v, err)
		}
		if got != v || n != len(encoded) {
			t.Errorf("round trip for %d: got %d (consumed %d), want %d (consumed %d)", v, got, n, v, len(encoded))
		}
	}
}

func TestEncodeNameSingleCharacter(t *testing.T) {
	n, err := EncodeName("a")
	if err != nil {
		t.Fatalf("EncodeName: %v", err)
	}
	if n != 0x3000000000000000 {
		t.Fatalf("EncodeName(\"a\") = 0x%x, want 0x3000000000000000", n)
	}
}

func TestNameRoundTrip(t *testing.T) {
	for _, name := range []string{"a", "eosio", "eosio.token", "alice", "bidname", "z12345abcde", "....."} {
		n, err := EncodeName(name)
		if err != nil {
			t.Fatalf("EncodeName(%q): %v", name, err)
		}
		got := DecodeName(n)
		if got != name {
			t.Errorf("round trip for %q: got %q", name, got)
		}
	}
}

func TestEncodeNameRejectsInvalid(t *testing.T) {
	for _, name := range []string{"TOOLONGNAME12", "UPPERCASE", "bad!char"} {
		if _, err := EncodeName(name); err == nil {
			t.Errorf("EncodeName(%q) should have failed", name)
		}
	}
}

func TestSerializeNameOnWireIsLittleEndian(t *testing.T) {
	b, err := Serialize("a", Primitive("name"), SerializeOpts{})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := make([]byte, 8)
	binary.LittleEndian.PutUint64(want, 0x3000000000000000)
	if !bytes.Equal(b, want) {
		t.Errorf("got % x, want % x", b, want)
	}
}

func TestSerializeArrayDefaultsToVaruint32Length(t *testing.T) {
	items := make([]any, 200)
	for i := range items {
		items[i] = uint32(i)
	}
	b, err := Serialize(items, ArrayOf(Primitive("uint32")), SerializeOpts{})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	count, n, err := DecodeVaruint32(b)
	if err != nil {
		t.Fatalf("DecodeVaruint32: %v", err)
	}
	if count != 200 {
		t.Fatalf("count = %d, want 200", count)
	}
	if len(b) != n+200*4 {
		t.Fatalf("total length %d, want %d", len(b), n+200*4)
	}
}

func TestSerializeArrayLegacyByteLengthCapsAt255(t *testing.T) {
	items := make([]any, 256)
	for i := range items {
		items[i] = uint32(0)
	}
	_, err := Serialize(items, ArrayOf(Primitive("uint32")), SerializeOpts{LegacyByteLengthPrefix: true})
	if err == nil {
		t.Fatal("expected an error exceeding the 255-entry legacy cap")
	}
}

func TestSerializeStructMissingField(t *testing.T) {
	st := StructOf(Field{Name: "x", Type: Primitive("uint8")})
	_, err := Serialize(map[string]any{}, st, SerializeOpts{})
	if err == nil {
		t.Fatal("expected ErrMissingField")
	}
}

func TestSerializeBytesStructWrapsLength(t *testing.T) {
	inner := BytesStructOf(Field{Name: "x", Type: Primitive("uint8")})
	b, err := Serialize(map[string]any{"x": uint8(7)}, inner, SerializeOpts{})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	// one varuint32 length byte (value 1) followed by the single encoded byte
	if len(b) != 2 || b[0] != 1 || b[1] != 7 {
		t.Fatalf("got % x, want [01 07]", b)
	}
}

func TestSerializePair(t *testing.T) {
	b, err := Serialize([]any{uint16(5), []byte{0xaa}}, PairOf(Primitive("uint16"), Primitive("bytes")), SerializeOpts{})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := []byte{0x02, 0x05, 0x00, 0x01, 0xaa}
	if !bytes.Equal(b, want) {
		t.Fatalf("got % x, want % x", b, want)
	}
}

func TestSerializeTimePointSecFromTimeValue(t *testing.T) {
	want := uint32(1577836800) // 2020-01-01T00:00:00Z
	b, err := Serialize(uint32(want), Primitive("time_point_sec"), SerializeOpts{})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got := binary.LittleEndian.Uint32(b)
	if got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}
