// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package collider

import "github.com/forgehold/core/sim/mathx"

// TrunkSegment is one vertical cylindrical section of a tree trunk, in
// mesh-local space, spanning Y from BaseY up to BaseY+Height.
type TrunkSegment struct {
	BaseY, Height float32
	Radius        float32
}

// Tree is the cheaper specialization of a static mesh named in spec §4.4:
// a vertical stack of cylindrical trunk segments instead of a general
// triangle soup, since the capsule-vs-tree test only needs cylinder-vs-
// capsule math.
type Tree struct {
	Segments  []TrunkSegment
	Transform Transform
}

// WorldAABB mirrors Mesh.WorldAABB for octree insertion.
func (tr *Tree) WorldAABB() (min, max mathx.Vec3) {
	first := true
	for _, seg := range tr.Segments {
		corners := [8]mathx.Vec3{
			{X: -seg.Radius, Y: seg.BaseY, Z: -seg.Radius},
			{X: seg.Radius, Y: seg.BaseY, Z: -seg.Radius},
			{X: -seg.Radius, Y: seg.BaseY, Z: seg.Radius},
			{X: seg.Radius, Y: seg.BaseY, Z: seg.Radius},
			{X: -seg.Radius, Y: seg.BaseY + seg.Height, Z: -seg.Radius},
			{X: seg.Radius, Y: seg.BaseY + seg.Height, Z: -seg.Radius},
			{X: -seg.Radius, Y: seg.BaseY + seg.Height, Z: seg.Radius},
			{X: seg.Radius, Y: seg.BaseY + seg.Height, Z: seg.Radius},
		}
		for _, local := range corners {
			p := tr.Transform.ToWorld(local)
			if first {
				min, max = p, p
				first = false
				continue
			}
			min = componentMin(min, p)
			max = componentMax(max, p)
		}
	}
	return
}
