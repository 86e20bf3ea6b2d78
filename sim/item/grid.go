// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package item implements the pickup spatial grid, auto-pickup rules, and
// weapon drop/toss/land and consumable respawn scheduling of spec §4.9.
package item

import (
	"github.com/forgehold/core/sim/config"
	"github.com/forgehold/core/sim/mathx"
)

type cellKey struct {
	x, z int
}

// Grid buckets item ids by a uniform 2m cell, maintained in lock-step with
// each item's physics position (spec §4.9).
type Grid struct {
	cellSize float32
	cells    map[cellKey]map[uint64]struct{}
	posOf    map[uint64]mathx.Vec3
}

// NewGrid builds an empty pickup grid using cfg.PickupGridCellSize.
func NewGrid(cfg config.Constants) *Grid {
	return &Grid{
		cellSize: cfg.PickupGridCellSize,
		cells:    make(map[cellKey]map[uint64]struct{}),
		posOf:    make(map[uint64]mathx.Vec3),
	}
}

func (g *Grid) keyOf(pos mathx.Vec3) cellKey {
	return cellKey{x: floorDiv(pos.X, g.cellSize), z: floorDiv(pos.Z, g.cellSize)}
}

func floorDiv(v, cell float32) int {
	q := v / cell
	i := int(q)
	if q < 0 && float32(i) != q {
		i--
	}
	return i
}

// Upsert places or moves itemID to pos, updating cell membership only when
// the containing cell actually changes.
func (g *Grid) Upsert(itemID uint64, pos mathx.Vec3) {
	newKey := g.keyOf(pos)
	if oldPos, ok := g.posOf[itemID]; ok {
		oldKey := g.keyOf(oldPos)
		if oldKey == newKey {
			g.posOf[itemID] = pos
			return
		}
		g.remove(oldKey, itemID)
	}
	g.posOf[itemID] = pos
	set, ok := g.cells[newKey]
	if !ok {
		set = make(map[uint64]struct{})
		g.cells[newKey] = set
	}
	set[itemID] = struct{}{}
}

// Remove drops itemID from the grid entirely.
func (g *Grid) Remove(itemID uint64) {
	pos, ok := g.posOf[itemID]
	if !ok {
		return
	}
	g.remove(g.keyOf(pos), itemID)
	delete(g.posOf, itemID)
}

func (g *Grid) remove(key cellKey, itemID uint64) {
	set, ok := g.cells[key]
	if !ok {
		return
	}
	delete(set, itemID)
	if len(set) == 0 {
		delete(g.cells, key)
	}
}

// QueryRadius returns every item id whose cell neighborhood could contain a
// point within radius of center, then filters by exact distance.
func (g *Grid) QueryRadius(center mathx.Vec3, radius float32) []uint64 {
	cellRadius := int(radius/g.cellSize) + 1
	centerKey := g.keyOf(center)

	var out []uint64
	for dx := -cellRadius; dx <= cellRadius; dx++ {
		for dz := -cellRadius; dz <= cellRadius; dz++ {
			key := cellKey{x: centerKey.x + dx, z: centerKey.z + dz}
			set, ok := g.cells[key]
			if !ok {
				continue
			}
			for id := range set {
				if center.XZ().DistanceSquared(g.posOf[id].XZ()) <= radius*radius {
					out = append(out, id)
				}
			}
		}
	}
	return out
}
