package proto

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Zero values are omitted, as proto3 does for scalar fields.

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// consumeFields walks every field in b. visit returns the number of bytes it
// consumed, zero to skip the field as unknown, or a negative protowire error
// code.
func consumeFields(b []byte, visit func(num protowire.Number, typ protowire.Type, b []byte) int) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m := visit(num, typ, b)
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
		}
		if m < 0 {
			return protowire.ParseError(m)
		}
		b = b[m:]
	}
	return nil
}

func consumeVarint(typ protowire.Type, b []byte, dst *uint64) int {
	if typ != protowire.VarintType {
		return 0
	}
	v, n := protowire.ConsumeVarint(b)
	if n >= 0 {
		*dst = v
	}
	return n
}

func consumeUint32(typ protowire.Type, b []byte, dst *uint32) int {
	var v uint64
	n := consumeVarint(typ, b, &v)
	if n > 0 {
		*dst = uint32(v)
	}
	return n
}

func consumeString(typ protowire.Type, b []byte, dst *string) int {
	if typ != protowire.BytesType {
		return 0
	}
	v, n := protowire.ConsumeString(b)
	if n >= 0 {
		*dst = v
	}
	return n
}
