// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package building implements the voxel building workspace named in
// spec §4.8: a 12^3 color-indexed cell grid, its derived AABB collider
// cache, and the placement/removal/transform/destroy state machine.
package building

import (
	"github.com/forgehold/core/sim/collision"
	"github.com/forgehold/core/sim/config"
	"github.com/forgehold/core/sim/mathx"
)

// Cell is one non-empty voxel, as sent in BuildingInitialState.
type Cell struct {
	GridX, GridY, GridZ int
	ColorIndex          byte
}

// Building is one workspace's voxel grid, transform and collider cache.
type Building struct {
	ID      uint64
	OwnerID uint64

	Pos  mathx.Vec3
	RotY float32

	size int
	// cells[x+y*size+z*size*size] is 0 (empty) or colorIndex+1.
	cells []byte

	colliders map[int]collision.Box
}

// New allocates an empty building at pos/rotY (spec §4.8 "BuildingCreate").
func New(id, ownerID uint64, pos mathx.Vec3, rotY float32, cfg config.Constants) *Building {
	size := cfg.BuildingGridSize
	return &Building{
		ID:        id,
		OwnerID:   ownerID,
		Pos:       pos,
		RotY:      rotY,
		size:      size,
		cells:     make([]byte, size*size*size),
		colliders: make(map[int]collision.Box),
	}
}

func (b *Building) index(gx, gy, gz int) (int, bool) {
	if gx < 0 || gy < 0 || gz < 0 || gx >= b.size || gy >= b.size || gz >= b.size {
		return 0, false
	}
	return gx + gy*b.size + gz*b.size*b.size, true
}

// CellToWorld reproduces the bit-exact mapping named in spec §4.8.
func CellToWorld(cfg config.Constants, pos mathx.Vec3, rotY float32, gx, gy, gz int) mathx.Vec3 {
	halfCell := cfg.BuildingCellSize / 2
	halfSize := float32(cfg.BuildingGridSize) * cfg.BuildingCellSize / 2

	local := mathx.Vec3{
		X: float32(gx)*cfg.BuildingCellSize - halfSize + halfCell,
		Y: float32(gy)*cfg.BuildingCellSize - halfSize + halfCell,
		Z: float32(gz)*cfg.BuildingCellSize - halfSize + halfCell,
	}
	rotated := mathx.RotateY(mathx.Vec3{X: local.X, Z: local.Z}, rotY)
	return mathx.Vec3{
		X: pos.X + rotated.X,
		Y: pos.Y + local.Y,
		Z: pos.Z + rotated.Z,
	}
}

// PlaceBlock writes colorIndex into an empty cell owned by requesterID,
// decrementing *materials, and returns true on success (spec §4.8
// "BlockPlace"). No-op (returns false) when the cell is occupied, the
// requester is not the owner, or materials are insufficient.
func (b *Building) PlaceBlock(cfg config.Constants, gx, gy, gz int, colorIndex byte, requesterID uint64, materials *int) bool {
	if requesterID != b.OwnerID || *materials < 1 {
		return false
	}
	idx, ok := b.index(gx, gy, gz)
	if !ok || b.cells[idx] != 0 {
		return false
	}
	*materials--
	b.cells[idx] = colorIndex + 1
	b.colliders[idx] = collision.Box{
		Center: CellToWorld(cfg, b.Pos, b.RotY, gx, gy, gz),
		Half:   mathx.Vec3{X: cfg.BuildingCellSize / 2, Y: cfg.BuildingCellSize / 2, Z: cfg.BuildingCellSize / 2},
		ID:     uint64(idx),
	}
	return true
}

// RemoveBlock zeros an occupied cell owned by requesterID, refunding one
// material up to maxMaterials, and returns true on success (spec §4.8
// "BlockRemove").
func (b *Building) RemoveBlock(gx, gy, gz int, requesterID uint64, materials *int, maxMaterials int) bool {
	if requesterID != b.OwnerID {
		return false
	}
	idx, ok := b.index(gx, gy, gz)
	if !ok || b.cells[idx] == 0 {
		return false
	}
	b.cells[idx] = 0
	delete(b.colliders, idx)
	if *materials < maxMaterials {
		*materials++
	}
	return true
}

// Transform rewrites the building's world transform and rebuilds every
// collider AABB in place (spec §4.8 "BuildingTransform").
func (b *Building) Transform(cfg config.Constants, pos mathx.Vec3, rotY float32) {
	b.Pos = pos
	b.RotY = rotY
	b.rebuildColliders(cfg)
}

func (b *Building) rebuildColliders(cfg config.Constants) {
	half := mathx.Vec3{X: cfg.BuildingCellSize / 2, Y: cfg.BuildingCellSize / 2, Z: cfg.BuildingCellSize / 2}
	for idx, colorByte := range b.cells {
		if colorByte == 0 {
			continue
		}
		gz := idx / (b.size * b.size)
		rem := idx % (b.size * b.size)
		gy := rem / b.size
		gx := rem % b.size
		b.colliders[idx] = collision.Box{
			Center: CellToWorld(cfg, b.Pos, b.RotY, gx, gy, gz),
			Half:   half,
			ID:     uint64(idx),
		}
	}
}

// Colliders returns the current collider cache as a slice, suitable for
// passing straight into collision.AABBVsBoxes.
func (b *Building) Colliders() []collision.Box {
	out := make([]collision.Box, 0, len(b.colliders))
	for _, box := range b.colliders {
		out = append(out, box)
	}
	return out
}

// NonEmptyCells lists every occupied cell, for BuildingInitialState (spec
// §4.8 "Initial snapshot for new peers").
func (b *Building) NonEmptyCells() []Cell {
	var out []Cell
	for idx, colorByte := range b.cells {
		if colorByte == 0 {
			continue
		}
		gz := idx / (b.size * b.size)
		rem := idx % (b.size * b.size)
		gy := rem / b.size
		gx := rem % b.size
		out = append(out, Cell{GridX: gx, GridY: gy, GridZ: gz, ColorIndex: colorByte - 1})
	}
	return out
}

// Destroy returns the refund owed (one material per non-empty cell) and
// drops every collider (spec §4.8 "BuildingDestroy").
func (b *Building) Destroy() int {
	refund := 0
	for _, colorByte := range b.cells {
		if colorByte != 0 {
			refund++
		}
	}
	b.colliders = nil
	b.cells = nil
	return refund
}
