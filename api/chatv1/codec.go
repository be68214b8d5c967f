// Package chatv1 declares the chat.v1.ChatService gRPC contract. Messages
// travel as JSON through a codec registered under the "json" content-subtype.
package chatv1

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// Name is the codec name and content-subtype ("application/grpc+json").
const Name = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return Name
}
