package service

import "encoding/json"

// jsonCodec carries plain Go structs over Connect's "json" content type.
// It replaces the built-in codec of the same name, which only accepts
// protobuf messages.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
