// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

// MultiTile presents a 3x3 arrangement of tiles as one logical Grid, mapping
// every query to the tile that owns the given world coordinate by offset
// (spec §4.2 "multi-tile variant stitches 3x3 tiles by offset"). A nil tile
// is treated as entirely non-solid, matching an unloaded/ungenerated
// neighboring level.
type MultiTile struct {
	// Tiles is indexed [row][col] with row/col in [0,3), row 0 is -Z, col 0
	// is -X, matching center tile at [1][1].
	Tiles    [3][3]Grid
	TileSpan float32 // world-space width/depth of one tile
}

func (m *MultiTile) locate(worldX, worldZ float32) (tile Grid, localX, localZ float32) {
	col := 1 + int(floorDiv(worldX, m.TileSpan))
	row := 1 + int(floorDiv(worldZ, m.TileSpan))
	if col < 0 || col > 2 || row < 0 || row > 2 {
		return nil, 0, 0
	}
	tile = m.Tiles[row][col]
	localX = worldX - float32(col-1)*m.TileSpan
	localZ = worldZ - float32(row-1)*m.TileSpan
	return
}

func floorDiv(x, span float32) float32 {
	return floor((x + span*0.5) / span)
}

func (m *MultiTile) IsSolid(worldX, worldY, worldZ float32) bool {
	tile, lx, lz := m.locate(worldX, worldZ)
	if tile == nil {
		return false
	}
	return tile.IsSolid(lx, worldY, lz)
}

func (m *MultiTile) ColumnHeight(gridX, gridZ int) int {
	// Column-index queries are only meaningful against a single tile's local
	// grid space; callers that need cross-tile column queries should convert
	// through WorldSurfaceY instead.
	tile := m.Tiles[1][1]
	if tile == nil {
		return 0
	}
	return tile.ColumnHeight(gridX, gridZ)
}

func (m *MultiTile) WorldSurfaceY(worldX, worldZ float32) float32 {
	tile, lx, lz := m.locate(worldX, worldZ)
	if tile == nil {
		return 0
	}
	return tile.WorldSurfaceY(lx, lz)
}

var _ Grid = (*MultiTile)(nil)
