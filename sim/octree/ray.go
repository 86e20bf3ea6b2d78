// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package octree

import (
	"sort"

	"github.com/forgehold/core/sim/mathx"
)

// Hit pairs an Entry with the ray parameter t at which it was first struck.
type Hit struct {
	Entry *Entry
	T     float32
}

// QueryRay returns every entry the ray hits within maxDist, sorted ascending
// by first-hit t along the ray (spec §4.3).
func (t *Octree) QueryRay(origin, dir mathx.Vec3, maxDist float32) []Hit {
	var out []Hit
	seen := map[uint64]bool{}
	queryRayNode(t.root, origin, dir, maxDist, &out, seen)
	sort.Slice(out, func(i, j int) bool { return out[i].T < out[j].T })
	return out
}

func queryRayNode(n *node, origin, dir mathx.Vec3, maxDist float32, out *[]Hit, seen map[uint64]bool) {
	if hit, _, _ := RayVsAABB(origin, dir, maxDist, n.min, n.max); !hit {
		return
	}
	for _, e := range n.entries {
		if seen[e.ID] {
			continue
		}
		if hit, hitT, _ := RayVsAABB(origin, dir, maxDist, e.Min, e.Max); hit {
			seen[e.ID] = true
			*out = append(*out, Hit{Entry: e, T: hitT})
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			queryRayNode(c, origin, dir, maxDist, out, seen)
		}
	}
}

// Face identifies which AABB face a ray hit.
type Face uint8

const (
	FaceNone Face = iota
	FaceMinX
	FaceMaxX
	FaceMinY
	FaceMaxY
	FaceMinZ
	FaceMaxZ
)

// RayVsAABB implements the slab method with zero-direction guards (spec
// §4.3, §4.4). Returns whether the ray (clipped to [0, maxDist]) hits the
// box, the entry t, and which face was struck.
func RayVsAABB(origin, dir mathx.Vec3, maxDist float32, min, max mathx.Vec3) (hitRay bool, t float32, face Face) {
	tMin, tMax := float32(0), maxDist
	enterFace := FaceNone

	axes := [3]struct {
		o, d, lo, hi float32
		faceLo, faceHi Face
	}{
		{origin.X, dir.X, min.X, max.X, FaceMinX, FaceMaxX},
		{origin.Y, dir.Y, min.Y, max.Y, FaceMinY, FaceMaxY},
		{origin.Z, dir.Z, min.Z, max.Z, FaceMinZ, FaceMaxZ},
	}

	for _, a := range axes {
		if math32Abs(a.d) < 1e-8 {
			// Zero-direction guard: ray is parallel to this slab; it must
			// already lie within it or there is no intersection at all.
			if a.o < a.lo || a.o > a.hi {
				return false, 0, FaceNone
			}
			continue
		}

		invD := 1.0 / a.d
		t1 := (a.lo - a.o) * invD
		t2 := (a.hi - a.o) * invD
		f1, f2 := a.faceLo, a.faceHi
		if t1 > t2 {
			t1, t2 = t2, t1
			f1, f2 = f2, f1
		}
		if t1 > tMin {
			tMin = t1
			enterFace = f1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return false, 0, FaceNone
		}
	}

	return true, tMin, enterFace
}

func math32Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
