// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import (
	"fmt"
	"reflect"

	jsoniter "github.com/json-iterator/go"
)

// json mirrors server/jsoniter.go's Froze()'d, tag-compatible configuration
// so every peer's wire bytes are produced by the identical encoder settings
// (sorted map keys, no HTML escaping, 6-digit floats).
var json = jsoniter.Config{
	EscapeHTML:              false,
	SortMapKeys:             true,
	MarshalFloatWith6Digits: true,
	TagKey:                  "json",
	ObjectFieldMustBeSimpleString: true,
}.Froze()

// envelope is the {"type": "...", "data": {...}} wire shape every message
// travels in, named the same way server/message.go's messageJSON is.
type envelope struct {
	Type Opcode          `json:"type"`
	Data jsoniter.RawMessage `json:"data"`
}

// EncodeInbound serializes an Inbound payload with its registered opcode,
// for the client side of the wire.
func EncodeInbound(in Inbound) ([]byte, error) {
	op := Opcode(uncapitalize(reflect.TypeOf(in).Name()))
	if _, ok := inboundTypes[op]; !ok {
		return nil, fmt.Errorf("protocol: %T is not a registered Inbound", in)
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: op, Data: data})
}

// EncodeOutbound serializes an Outbound payload with its registered opcode.
func EncodeOutbound(out Outbound) ([]byte, error) {
	op, ok := OpcodeOf(out)
	if !ok {
		return nil, fmt.Errorf("protocol: %T is not a registered Outbound", out)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: op, Data: data})
}

// PeekOpcode reads just the envelope's type field, for a transport layer
// that needs to rate-limit before paying for a full decode.
func PeekOpcode(raw []byte) (Opcode, bool) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", false
	}
	return env.Type, true
}

// DecodeInbound parses an envelope and unmarshals its data into the
// registered Go type for its opcode, returning the concrete Inbound value.
func DecodeInbound(raw []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	t, ok := InboundType(env.Type)
	if !ok {
		return nil, fmt.Errorf("protocol: unknown inbound opcode %q", env.Type)
	}
	ptr := newOfType(t)
	if err := json.Unmarshal(env.Data, ptr); err != nil {
		return nil, err
	}
	in, ok := derefInbound(ptr)
	if !ok {
		return nil, fmt.Errorf("protocol: opcode %q did not decode to an Inbound", env.Type)
	}
	return in, nil
}
