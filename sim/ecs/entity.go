// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ecs is the entity/component/tag store every gameplay system is
// built on (spec §4.7). Entities are bare ids; all state lives in sparse
// per-component tables keyed by Code, mirroring how server/world/entity.go
// keeps an EntityType-indexed EntityData alongside a minimal per-instance
// struct rather than a monolithic struct with every field of every kind.
package ecs

// ID is a monotonically increasing entity identifier. The zero value never
// names a live entity.
type ID uint64

// Code names a component or tag kind. Systems define their own Code
// constants in their own packages (e.g. the building system's collider-cache
// component), the same way server/world/entity_data.go lets EntityType
// values come from a data-driven table instead of a closed enum here.
type Code uint16

// Component is the interface every value stored in a component table must
// satisfy. Close is called exactly once, when the owning entity is
// destroyed or the component is explicitly removed, so owning systems can
// drop dependent caches (pickup grid entries, derived colliders) per spec
// §4.7 "dependent caches... are notified by the owning system".
type Component interface {
	Close()
}
