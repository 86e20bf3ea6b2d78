// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terraintest builds seeded ArrayGrid fixtures for tests and local
// dev play, using the same Perlin-noise library the teacher uses for its
// real terrain generator (server/terrain/noise.Generator). It is a test
// fixture only: spec §1 places procedural terrain generation out of the
// core's scope, so this package never runs on the tick loop's hot path and
// lives outside sim/terrain proper.
package terraintest

import (
	"github.com/aquilax/go-perlin"

	"github.com/forgehold/core/sim/terrain"
)

const (
	frequency = 0.02
	persistence = 2.0
	lacunarity = 2.0
	octaves = 3
)

// Generate builds a width x depth x height ArrayGrid whose column heights
// follow 2D Perlin noise seeded from seed, clamped to [1, height]. It mirrors
// noise.Generator.Generate's offset-and-sample structure.
func Generate(seed int64, width, height, depth int) *terrain.ArrayGrid {
	p := perlin.NewPerlin(persistence, lacunarity, octaves, seed)
	sizes := terrain.Sizes{VoxelWidth: 1, VoxelHeight: 1, VoxelDepth: 1}
	grid := terrain.NewArrayGrid(sizes, width, height, depth)

	for x := 0; x < width; x++ {
		for z := 0; z < depth; z++ {
			n := p.Noise2D(float64(x)*frequency, float64(z)*frequency)
			columnHeight := int((n*0.5 + 0.5) * float64(height-1))
			if columnHeight < 1 {
				columnHeight = 1
			}
			for y := 0; y < columnHeight; y++ {
				grid.SetSolid(x, y, z, true)
			}
		}
	}
	return grid
}

// FlatGround returns a grid with a single solid layer at y=0, the baseline
// fixture used by most character-controller tests. The grid is centered on
// world origin so callers can place characters at negative X/Z.
func FlatGround(width, depth int) *terrain.ArrayGrid {
	sizes := terrain.Sizes{
		VoxelWidth: 1, VoxelHeight: 1, VoxelDepth: 1,
		LevelOffsetX: -float32(width) / 2,
		LevelOffsetZ: -float32(depth) / 2,
	}
	grid := terrain.NewArrayGrid(sizes, width, 1, depth)
	for x := 0; x < width; x++ {
		for z := 0; z < depth; z++ {
			grid.SetSolid(x, 0, z, true)
		}
	}
	return grid
}
