// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terrain is a read-only query surface over a column-based voxel
// world (spec §4.2). The core never generates terrain — it only reads a
// Grid produced by an external generator from a seed, mirroring how
// server/terrain.Terrain in the teacher is a read/query interface in front
// of a Source that does the actual heightmap generation.
package terrain

// Grid is the read-only query surface every collision/character routine is
// given. Implementations must be safe for concurrent reads once frozen after
// generation (spec §5 "Shared resources").
type Grid interface {
	// IsSolid reports whether the voxel containing the given world position
	// is occupied.
	IsSolid(worldX, worldY, worldZ float32) bool

	// ColumnHeight returns the occupied height, in cells, of the column at
	// the given grid coordinates.
	ColumnHeight(gridX, gridZ int) int

	// WorldSurfaceY returns the world-space Y of the top of the column
	// containing the given world X/Z.
	WorldSurfaceY(worldX, worldZ float32) float32
}

// Sizes bundles the conversion constants named in spec §4.2. A Grid
// implementation is constructed with one of these (or embeds it) so world<->
// grid conversion is identical everywhere it is needed.
type Sizes struct {
	VoxelWidth, VoxelHeight, VoxelDepth          float32
	LevelOffsetX, LevelOffsetY, LevelOffsetZ float32
}

// WorldToGridX converts a world X coordinate to a grid column index.
func (s Sizes) WorldToGridX(worldX float32) int {
	return int(floor((worldX - s.LevelOffsetX) / s.VoxelWidth))
}

// WorldToGridZ converts a world Z coordinate to a grid column index.
func (s Sizes) WorldToGridZ(worldZ float32) int {
	return int(floor((worldZ - s.LevelOffsetZ) / s.VoxelDepth))
}

// WorldToGridY converts a world Y coordinate to a grid cell index.
func (s Sizes) WorldToGridY(worldY float32) int {
	return int(floor((worldY - s.LevelOffsetY) / s.VoxelHeight))
}

// GridToWorldY converts a grid cell index back to the world Y of its floor.
func (s Sizes) GridToWorldY(gridY int) float32 {
	return float32(gridY)*s.VoxelHeight + s.LevelOffsetY
}

func floor(x float32) float32 {
	i := float32(int(x))
	if x < 0 && i != x {
		i--
	}
	return i
}

// ArrayGrid is a simple, dense, column-major implementation of Grid backed
// by a byte-per-cell occupancy array. It is the reference implementation
// used by tests and by the reference server binary; production deployments
// may supply any other Grid (e.g. a compressed one, mirroring how the
// teacher ships both server/terrain.Terrain and
// server/terrain/compressed.Compressed behind the same interface).
type ArrayGrid struct {
	Sizes
	width, height, depth int
	// cells[x + z*width + y*width*depth] != 0 means solid.
	cells []byte
}

// NewArrayGrid allocates an empty grid of the given cell dimensions.
func NewArrayGrid(sizes Sizes, width, height, depth int) *ArrayGrid {
	return &ArrayGrid{
		Sizes:  sizes,
		width:  width,
		height: height,
		depth:  depth,
		cells:  make([]byte, width*height*depth),
	}
}

func (g *ArrayGrid) index(x, y, z int) (int, bool) {
	if x < 0 || z < 0 || y < 0 || x >= g.width || z >= g.depth || y >= g.height {
		return 0, false
	}
	return x + z*g.width + y*g.width*g.depth, true
}

// SetSolid sets or clears the occupancy of one grid cell. Intended for test
// fixture construction, not for runtime mutation by the core.
func (g *ArrayGrid) SetSolid(gridX, gridY, gridZ int, solid bool) {
	idx, ok := g.index(gridX, gridY, gridZ)
	if !ok {
		return
	}
	if solid {
		g.cells[idx] = 1
	} else {
		g.cells[idx] = 0
	}
}

func (g *ArrayGrid) IsSolid(worldX, worldY, worldZ float32) bool {
	idx, ok := g.index(g.WorldToGridX(worldX), g.WorldToGridY(worldY), g.WorldToGridZ(worldZ))
	if !ok {
		return false
	}
	return g.cells[idx] != 0
}

func (g *ArrayGrid) ColumnHeight(gridX, gridZ int) int {
	if gridX < 0 || gridZ < 0 || gridX >= g.width || gridZ >= g.depth {
		return 0
	}
	height := 0
	for y := 0; y < g.height; y++ {
		idx, _ := g.index(gridX, y, gridZ)
		if g.cells[idx] != 0 {
			height = y + 1
		}
	}
	return height
}

func (g *ArrayGrid) WorldSurfaceY(worldX, worldZ float32) float32 {
	gx, gz := g.WorldToGridX(worldX), g.WorldToGridZ(worldZ)
	return g.GridToWorldY(g.ColumnHeight(gx, gz))
}

var _ Grid = (*ArrayGrid)(nil)
