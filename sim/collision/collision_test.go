// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package collision

import (
	"testing"

	"github.com/forgehold/core/sim/collider"
	"github.com/forgehold/core/sim/mathx"
	"github.com/forgehold/core/sim/terrain"
)

func TestAABBVsVoxelGrid(t *testing.T) {
	sizes := terrain.Sizes{VoxelWidth: 1, VoxelHeight: 1, VoxelDepth: 1}
	grid := terrain.NewArrayGrid(sizes, 4, 4, 4)
	grid.SetSolid(2, 0, 2, true)

	if !AABBVsVoxelGrid(grid, mathx.Vec3{X: 2.5, Y: 0.3, Z: 2.5}, mathx.Vec3{X: 0.4, Y: 0.4, Z: 0.4}) {
		t.Fatal("expected overlap with solid voxel")
	}
	if AABBVsVoxelGrid(grid, mathx.Vec3{X: 0.5, Y: 0.3, Z: 0.5}, mathx.Vec3{X: 0.2, Y: 0.2, Z: 0.2}) {
		t.Fatal("expected no overlap in empty region")
	}
}

func TestAABBVsBoxesEarlyExit(t *testing.T) {
	boxes := []Box{
		{Center: mathx.Vec3{X: 10}, Half: mathx.Vec3{X: 1, Y: 1, Z: 1}, ID: 1},
		{Center: mathx.Vec3{}, Half: mathx.Vec3{X: 1, Y: 1, Z: 1}, ID: 2},
	}
	hit, box := AABBVsBoxes(mathx.Vec3{}, mathx.Vec3{X: 0.4, Y: 0.4, Z: 0.4}, boxes)
	if !hit || box.ID != 2 {
		t.Fatalf("expected hit on box id 2, got hit=%v box=%+v", hit, box)
	}

	hit, _ = AABBVsBoxes(mathx.Vec3{X: 100}, mathx.Vec3{X: 0.4, Y: 0.4, Z: 0.4}, boxes)
	if hit {
		t.Fatal("expected no hit far from both boxes")
	}
}

func flatTriangleMesh(y float32) *collider.Mesh {
	return &collider.Mesh{
		Triangles: []collider.Triangle{
			{
				A: mathx.Vec3{X: -5, Y: y, Z: -5},
				B: mathx.Vec3{X: 5, Y: y, Z: -5},
				C: mathx.Vec3{X: 0, Y: y, Z: 5},
			},
		},
		Transform: collider.Transform{Scale: 1},
	}
}

func TestCapsuleVsTriangleMeshPushesOut(t *testing.T) {
	mesh := flatTriangleMesh(0)
	hit := CapsuleVsTriangleMesh(mathx.Vec3{X: 0, Y: 0.1, Z: 0}, 0.4, 1.6, mesh)
	if !hit.Colliding {
		t.Fatal("expected collision with flat triangle directly below capsule")
	}
}

func TestCapsuleVsTriangleMeshNoCollisionFarAway(t *testing.T) {
	mesh := flatTriangleMesh(0)
	hit := CapsuleVsTriangleMesh(mathx.Vec3{X: 100, Y: 0.1, Z: 100}, 0.4, 1.6, mesh)
	if hit.Colliding {
		t.Fatal("expected no collision far from the mesh")
	}
}

func TestCapsuleVsTreeMesh(t *testing.T) {
	tree := &collider.Tree{
		Segments: []collider.TrunkSegment{{BaseY: 0, Height: 5, Radius: 0.3}},
		Transform: collider.Transform{Scale: 1},
	}

	hit := CapsuleVsTreeMesh(mathx.Vec3{X: 0.2, Y: 1, Z: 0}, 0.4, 1.6, tree)
	if !hit.Colliding {
		t.Fatal("expected collision with tree trunk")
	}

	hit = CapsuleVsTreeMesh(mathx.Vec3{X: 10, Y: 1, Z: 0}, 0.4, 1.6, tree)
	if hit.Colliding {
		t.Fatal("expected no collision far from tree trunk")
	}
}

func TestRayVsAABB(t *testing.T) {
	hit, tVal, _ := RayVsAABB(mathx.Vec3{X: -5}, mathx.Vec3{X: 1}, 100, mathx.Vec3{}, mathx.Vec3{X: 1, Y: 1, Z: 1})
	if !hit || tVal != 4 {
		t.Fatalf("expected hit at t=4, got hit=%v t=%v", hit, tVal)
	}
}
