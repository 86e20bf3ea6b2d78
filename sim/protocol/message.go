// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package protocol defines the wire schema named in spec §6: every opcode's
// payload struct, and the reflect-based type registry used to marshal a
// Message's Data field with its opcode name, grounded on
// server/message.go's registerInbound/registerOutbound pattern.
package protocol

import (
	"reflect"
	"strings"
)

// Opcode names a wire message type. Numeric assignment is deliberately not
// part of the contract (spec §6 "numeric assignment is free"); the opcode
// travels as its lower-camel-case type name instead, exactly as
// server/message.go derives messageType from the Go type name.
type Opcode string

// Priority is which of the two required transport channels a message
// travels on (spec §6).
type Priority int

const (
	High Priority = iota // unreliable-ordered: inputs, transform snapshots
	Low                  // reliable-ordered: everything else
)

var (
	inboundTypes  = make(map[Opcode]reflect.Type)
	outboundTypes = make(map[reflect.Type]Opcode)
	priorities    = make(map[Opcode]Priority)
)

// Inbound is implemented by every client->server message payload.
type Inbound interface {
	Apply(h Handler, senderID uint64)
}

// Outbound is implemented by every server->client message payload.
type Outbound interface {
	outboundMarker()
}

// Handler is implemented by whatever owns the tick loop; each Inbound's
// Apply dispatches to the matching method (spec §4.10 step 1 "drain
// incoming messages").
type Handler interface {
	HandleInput(senderID uint64, msg Input)
	HandleShoot(senderID uint64, msg Shoot)
	HandleReload(senderID uint64, msg Reload)
	HandleItemTossLand(senderID uint64, msg ItemTossLand)
	HandleItemPickupRequest(senderID uint64, msg ItemPickupRequest)
	HandleLadderPlace(senderID uint64, msg LadderPlace)
	HandleBuildingCreate(senderID uint64, msg BuildingCreate)
	HandleBlockPlace(senderID uint64, msg BlockPlace)
	HandleBlockRemove(senderID uint64, msg BlockRemove)
	HandleBuildingTransform(senderID uint64, msg BuildingTransform)
	HandleBuildingDestroy(senderID uint64, msg BuildingDestroy)
}

func uncapitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func register(priority Priority, inbounds []Inbound, outbounds []Outbound) {
	for _, in := range inbounds {
		val := reflect.ValueOf(in)
		op := Opcode(uncapitalize(reflect.Indirect(val).Type().Name()))
		inboundTypes[op] = val.Type()
		priorities[op] = priority
	}
	for _, out := range outbounds {
		val := reflect.ValueOf(out)
		op := Opcode(uncapitalize(reflect.Indirect(val).Type().Name()))
		outboundTypes[val.Type()] = op
		priorities[op] = priority
	}
}

// OpcodeOf returns the registered opcode for an Outbound payload.
func OpcodeOf(out Outbound) (Opcode, bool) {
	op, ok := outboundTypes[reflect.TypeOf(out)]
	return op, ok
}

// InboundType returns the registered Go type for an inbound opcode, for a
// transport layer to allocate into before decoding.
func InboundType(op Opcode) (reflect.Type, bool) {
	t, ok := inboundTypes[op]
	return t, ok
}

// PriorityOf returns which channel a message travels on.
func PriorityOf(op Opcode) Priority {
	return priorities[op]
}

func init() {
	register(High,
		[]Inbound{Input{}},
		[]Outbound{TransformSnapshot{}},
	)
	register(Low,
		[]Inbound{
			Shoot{}, Reload{}, ItemTossLand{}, ItemPickupRequest{}, LadderPlace{},
			BuildingCreate{}, BlockPlace{}, BlockRemove{}, BuildingTransform{}, BuildingDestroy{},
		},
		[]Outbound{
			ProjectileSpawn{}, ProjectileDestroy{}, ProjectileSpawnBatch{},
			ItemSpawn{}, ItemUpdate{}, ItemPickup{}, ItemDropSound{},
			BuildingCreated{}, BlockPlaced{}, BlockRemoved{}, BuildingTransformed{}, BuildingDestroyed{}, BuildingInitialState{},
			EntityDamage{}, MaterialsUpdate{}, BuffApplied{},
		},
	)
}
