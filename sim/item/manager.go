// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package item

import (
	"github.com/forgehold/core/sim/config"
	"github.com/forgehold/core/sim/mathx"
)

// Manager owns every live item, the pickup grid, and respawn scheduling
// (spec §4.9).
type Manager struct {
	cfg   config.Constants
	grid  *Grid
	items map[uint64]*Item

	// inProgress serializes pickup of an item to exactly one player within
	// a single tick (spec §4.9 "Exactly one pickup per item per tick").
	inProgress map[uint64]struct{}

	nextID uint64
}

// NewManager builds an empty item manager.
func NewManager(cfg config.Constants) *Manager {
	return &Manager{
		cfg:        cfg,
		grid:       NewGrid(cfg),
		items:      make(map[uint64]*Item),
		inProgress: make(map[uint64]struct{}),
	}
}

// Count returns the number of live items, spawned or not yet picked up.
func (m *Manager) Count() int { return len(m.items) }

// BeginTick clears the in-progress pickup set; call once per tick before
// processing any player's pickup query.
func (m *Manager) BeginTick() {
	for id := range m.inProgress {
		delete(m.inProgress, id)
	}
}

// Spawn creates a new item at pos and indexes it in the pickup grid.
func (m *Manager) Spawn(kind Kind, pos mathx.Vec3, effect ConsumableEffect, buffType int, respawnable bool) *Item {
	m.nextID++
	it := &Item{
		ID:          m.nextID,
		Kind:        kind,
		Pos:         pos,
		Effect:      effect,
		BuffType:    buffType,
		Respawnable: respawnable,
		SpawnOrigin: pos,
	}
	m.items[it.ID] = it
	m.grid.Upsert(it.ID, pos)
	return it
}

// Despawn removes an item from the world without scheduling a respawn.
func (m *Manager) Despawn(id uint64) {
	delete(m.items, id)
	delete(m.inProgress, id)
	m.grid.Remove(id)
}

// TryPickup attempts to claim item id for one player this tick. It fails if
// the item does not exist, is already claimed this tick, or needs does not
// want it. On success the item is removed (and, if respawnable, scheduled)
// and true is returned.
func (m *Manager) TryPickup(id uint64, needs PlayerNeeds, explicitWeaponRequest bool) (Item, bool) {
	it, ok := m.items[id]
	if !ok {
		return Item{}, false
	}
	if _, claimed := m.inProgress[id]; claimed {
		return Item{}, false
	}

	wants := WantsAutoPickup(needs, *it)
	if !wants && explicitWeaponRequest {
		wants = WantsExplicitWeaponPickup(needs, *it)
	}
	if !wants {
		return Item{}, false
	}

	m.inProgress[id] = struct{}{}
	snapshot := *it

	if it.Respawnable {
		it.RespawnTimer = m.cfg.ConsumableRespawnSecs
		m.grid.Remove(id)
	} else {
		m.Despawn(id)
	}
	return snapshot, true
}

// QueryPickupCandidates returns every item id within PICKUP_RANGE of pos.
func (m *Manager) QueryPickupCandidates(pos mathx.Vec3) []uint64 {
	return m.grid.QueryRadius(pos, m.cfg.PickupRange)
}

// Item returns the live item for id, if any (a claimed-but-not-yet-removed
// respawnable item is still visible until its timer ticks it back in).
func (m *Manager) Item(id uint64) (Item, bool) {
	it, ok := m.items[id]
	if !ok {
		return Item{}, false
	}
	return *it, true
}

// Tick advances respawn timers for picked-up respawnable consumables.
// candidate is called once per expiring item to choose its new position; it
// should apply the "random valid spawn candidate... that passes the
// water/surface checks" rule from spec §4.9.
func (m *Manager) Tick(dt float32, candidate func(it *Item) mathx.Vec3) {
	for _, it := range m.items {
		if it.RespawnTimer <= 0 {
			continue
		}
		it.RespawnTimer -= dt
		if it.RespawnTimer <= 0 {
			it.Pos = candidate(it)
			m.grid.Upsert(it.ID, it.Pos)
		}
	}
}

// MoveItem re-indexes an item's position in the grid, for physics-driven
// items (tossed weapons still in flight) kept in lock-step per spec §4.9.
func (m *Manager) MoveItem(id uint64, pos mathx.Vec3) {
	if it, ok := m.items[id]; ok {
		it.Pos = pos
	}
	m.grid.Upsert(id, pos)
}

// DropWeapon detaches a weapon from a player and spawns it at pos
// immediately (spec §4.9 "drop immediately").
func (m *Manager) DropWeapon(pos mathx.Vec3) *Item {
	return m.Spawn(KindWeapon, pos, 0, 0, false)
}

// TossWeapon is identical to DropWeapon at the protocol level: the toss's
// visual arc is entirely client-side, and the server only ever receives the
// final land coordinates (spec §4.9 "toss animates visually and the server
// receives the final land coordinates").
func (m *Manager) TossWeapon(landPos mathx.Vec3) *Item {
	return m.Spawn(KindWeapon, landPos, 0, 0, false)
}
