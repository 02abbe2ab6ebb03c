// Package grpcapi is a codec-free gRPC transport for the transcript merge
// engine: a hand-written ServiceDesc plus a JSON encoding.Codec stand in for
// protoc-generated stubs, so the wire messages are plain Go structs.
package grpcapi

import (
	"encoding/json"
	"fmt"
)

// jsonCodec implements encoding.Codec (and is registered as the server's
// forced codec), marshaling every message as JSON instead of protobuf wire
// format.
type jsonCodec struct{}

// Name must match the content-subtype grpc advertises on the wire.
func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json codec marshal: %w", err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json codec unmarshal: %w", err)
	}
	return nil
}

// Codec is the shared server/client codec instance. Servers register it via
// grpc.ForceServerCodec(Codec); clients attach it per-call via
// grpc.ForceCodec(Codec) or as a default call option at Dial time.
var Codec = jsonCodec{}
