package proto

import (
	"encoding"
	"fmt"

	grpcencoding "google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype used by the coordinator service.
// Payloads are plain protobuf wire bytes, but the server only decodes calls
// sent as "application/grpc+logscan". A client generated from
// api/proto/logscan.proto must pass grpc.CallContentSubtype(CodecName) or it
// fails with an unknown-codec error.
const CodecName = "logscan"

type Message interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

func init() {
	grpcencoding.RegisterCodec(Codec{})
}

// Codec marshals service messages for gRPC.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(encoding.BinaryMarshaler)
	if !ok {
		return nil, fmt.Errorf("logscan codec: cannot marshal %T", v)
	}
	return m.MarshalBinary()
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(encoding.BinaryUnmarshaler)
	if !ok {
		return fmt.Errorf("logscan codec: cannot unmarshal into %T", v)
	}
	return m.UnmarshalBinary(data)
}

func (Codec) Name() string {
	return CodecName
}

// Transfer copies src into dst through the wire encoding, the way a message
// crosses the network. dst shares no memory with src afterwards.
func Transfer(src encoding.BinaryMarshaler, dst encoding.BinaryUnmarshaler) error {
	data, err := src.MarshalBinary()
	if err != nil {
		return err
	}
	return dst.UnmarshalBinary(data)
}
