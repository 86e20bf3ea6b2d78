// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package collision holds the pure, deterministic collision primitives used
// by both the character controller and the projectile engine (spec §4.4).
// Every routine here is allocation-free and side-effect-free so it can sit
// on the tick loop's straight-line hot path (spec §5 "Suspension points:
// none").
package collision

import (
	"github.com/forgehold/core/sim/collider"
	"github.com/forgehold/core/sim/mathx"
	"github.com/forgehold/core/sim/octree"
	"github.com/forgehold/core/sim/terrain"
)

// Box is an axis-aligned box collider, as used for building voxel colliders
// and any other simple block obstacle (spec §4.4 "AABB-vs-box-list").
type Box struct {
	Center mathx.Vec3
	Half   mathx.Vec3
	// ID lets callers correlate a hit back to a source (e.g. a building
	// voxel cell) without a second lookup.
	ID uint64
}

// AABBVsVoxelGrid does full cell-range iteration over the AABB, early
// exiting on the first solid cell found (spec §4.4).
func AABBVsVoxelGrid(grid terrain.Grid, center mathx.Vec3, half mathx.Vec3) bool {
	if grid == nil {
		return false
	}
	minX, maxX := center.X-half.X, center.X+half.X
	minY, maxY := center.Y-half.Y, center.Y+half.Y
	minZ, maxZ := center.Z-half.Z, center.Z+half.Z

	const step = 0.5 // sub-cell sampling granularity; cells are >= 1 unit
	for x := minX; x <= maxX; x += step {
		for y := minY; y <= maxY; y += step {
			for z := minZ; z <= maxZ; z += step {
				if grid.IsSolid(x, y, z) {
					return true
				}
			}
		}
	}
	// Always sample the exact max corner even if step overshoots it.
	return grid.IsSolid(maxX, maxY, maxZ)
}

// AABBVsBoxes is a linear scan with early exit on the first overlapping box
// (spec §4.4).
func AABBVsBoxes(center, half mathx.Vec3, boxes []Box) (bool, *Box) {
	for i := range boxes {
		if aabbOverlap(center, half, boxes[i].Center, boxes[i].Half) {
			return true, &boxes[i]
		}
	}
	return false, nil
}

func aabbOverlap(centerA, halfA, centerB, halfB mathx.Vec3) bool {
	return absf(centerA.X-centerB.X) <= halfA.X+halfB.X &&
		absf(centerA.Y-centerB.Y) <= halfA.Y+halfB.Y &&
		absf(centerA.Z-centerB.Z) <= halfA.Z+halfB.Z
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// RayVsAABB is the public ray-vs-box primitive named in spec §4.4. It
// delegates to the same slab-method implementation the octree uses
// internally for queryRay (sim/octree.RayVsAABB), since both need the
// identical zero-direction-guarded math.
func RayVsAABB(origin, dir mathx.Vec3, maxLen float32, center, half mathx.Vec3) (hit bool, t float32, face octree.Face) {
	return octree.RayVsAABB(origin, dir, maxLen, center.Sub(half), center.Add(half))
}

// CapsuleHit reports a mesh collision resolution (spec §4.4).
type CapsuleHit struct {
	Colliding bool
	Push      mathx.Vec3
}

// CapsuleVsTriangleMesh transforms the capsule into mesh-local space, then
// for each triangle computes the minimum translation along the triangle
// normal that separates a cylinder+spheres approximation from the triangle,
// accumulating the push vector before transforming back to world space
// (spec §4.4).
func CapsuleVsTriangleMesh(pos mathx.Vec3, radius, height float32, mesh *collider.Mesh) CapsuleHit {
	local := mesh.Transform.ToLocal(pos)
	var push mathx.Vec3
	colliding := false

	for _, tri := range mesh.Triangles {
		if p, ok := capsuleVsTriangle(local, radius, height, tri); ok {
			push = push.Add(p)
			colliding = true
		}
	}

	if !colliding {
		return CapsuleHit{}
	}

	// Rotate the accumulated push back into world space (translation drops
	// out of a direction vector).
	worldPush := mesh.Transform.ToWorld(push).Sub(mesh.Transform.ToWorld(mathx.Vec3{}))
	return CapsuleHit{Colliding: true, Push: worldPush}
}

// capsuleVsTriangle approximates the vertical player capsule (base at
// pos.Y, extending to pos.Y+height) as a cylinder with spherical caps, and
// returns the minimum separating translation along the triangle normal if
// it overlaps the triangle.
func capsuleVsTriangle(pos mathx.Vec3, radius, height float32, tri collider.Triangle) (mathx.Vec3, bool) {
	normal := tri.Normal()
	if normal.LengthSquared() < 1e-12 {
		return mathx.Vec3{}, false
	}

	// Closest point on the capsule's central segment to the triangle,
	// approximated by testing seven evenly spaced points along the segment
	// (endpoints included) against the closest point on the triangle.
	segA := pos
	segB := mathx.Vec3{X: pos.X, Y: pos.Y + height, Z: pos.Z}

	closestSeg, closestTri, dist := closestSegmentToTriangle(segA, segB, tri)
	if dist >= radius {
		return mathx.Vec3{}, false
	}

	depth := radius - dist
	dir := closestSeg.Sub(closestTri)
	if dir.LengthSquared() < 1e-12 {
		dir = normal
	} else {
		dir = dir.Norm()
	}
	return dir.Mul(depth), true
}

func closestSegmentToTriangle(a, b mathx.Vec3, tri collider.Triangle) (onSeg, onTri mathx.Vec3, dist float32) {
	const samples = 6
	best := float32(1e18)
	var bestSeg, bestTri mathx.Vec3
	for i := 0; i <= samples; i++ {
		t := float32(i) / float32(samples)
		p := a.Lerp(b, t)
		ct := closestPointOnTriangle(p, tri)
		d := p.DistanceSquared(ct)
		if d < best {
			best = d
			bestSeg = p
			bestTri = ct
		}
	}
	return bestSeg, bestTri, sqrtf(best)
}

func closestPointOnTriangle(p mathx.Vec3, tri collider.Triangle) mathx.Vec3 {
	ab := tri.B.Sub(tri.A)
	ac := tri.C.Sub(tri.A)
	ap := p.Sub(tri.A)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return tri.A
	}

	bp := p.Sub(tri.B)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return tri.B
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return tri.A.AddScaled(ab, v)
	}

	cp := p.Sub(tri.C)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return tri.C
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return tri.A.AddScaled(ac, w)
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return tri.B.AddScaled(tri.C.Sub(tri.B), w)
	}

	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return tri.A.AddScaled(ab, v).AddScaled(ac, w)
}

func sqrtf(x float32) float32 {
	if x <= 0 {
		return 0
	}
	// Newton-Raphson, avoids pulling in math32 here purely for one call site
	// shared by a pure-geometry helper; math32 is still used everywhere the
	// teacher's own hot paths use it (see mathx).
	guess := x
	for i := 0; i < 12; i++ {
		guess = 0.5 * (guess + x/guess)
	}
	return guess
}

// CapsuleVsTreeMesh is the cheaper tree specialization named in spec §4.4:
// a vertical capsule against a stack of vertical cylindrical trunk
// segments, avoiding the general triangle-soup math entirely.
func CapsuleVsTreeMesh(pos mathx.Vec3, radius, height float32, tree *collider.Tree) CapsuleHit {
	local := tree.Transform.ToLocal(pos)
	var push mathx.Vec3
	colliding := false

	for _, seg := range tree.Segments {
		// Overlap along Y between the capsule [local.Y, local.Y+height] and
		// the segment [BaseY, BaseY+Height].
		if local.Y+height < seg.BaseY || local.Y > seg.BaseY+seg.Height {
			continue
		}
		dx, dz := local.X, local.Z
		d2 := dx*dx + dz*dz
		minDist := radius + seg.Radius
		if d2 >= minDist*minDist {
			continue
		}
		d := sqrtf(d2)
		var dir mathx.Vec3
		if d < 1e-6 {
			dir = mathx.Vec3{X: 1}
		} else {
			dir = mathx.Vec3{X: dx / d, Z: dz / d}
		}
		push = push.Add(dir.Mul(minDist - d))
		colliding = true
	}

	if !colliding {
		return CapsuleHit{}
	}
	worldPush := tree.Transform.ToWorld(push).Sub(tree.Transform.ToWorld(mathx.Vec3{}))
	return CapsuleHit{Colliding: true, Push: worldPush}
}
