// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package collider holds the immutable triangle-soup colliders for rocks and
// trees (spec §2.3). The core never generates these meshes — procedural rock
// and tree generation is explicitly out of scope (spec §1) — it only
// consumes the vertex data and transform a level-load collaborator hands it.
package collider

import (
	"github.com/chewxy/math32"

	"github.com/forgehold/core/sim/mathx"
)

// Triangle is one face of a static mesh, in mesh-local space.
type Triangle struct {
	A, B, C mathx.Vec3
}

// Normal returns the (non-unit-length-guaranteed) face normal.
func (t Triangle) Normal() mathx.Vec3 {
	ab := t.B.Sub(t.A)
	ac := t.C.Sub(t.A)
	return mathx.Vec3{
		X: ab.Y*ac.Z - ab.Z*ac.Y,
		Y: ab.Z*ac.X - ab.X*ac.Z,
		Z: ab.X*ac.Y - ab.Y*ac.X,
	}.Norm()
}

// Transform is translation + yaw + uniform scale (spec §2.3), the only
// degrees of freedom static colliders are placed with.
type Transform struct {
	Translation mathx.Vec3
	Yaw         float32
	Scale       float32
}

// ToWorld maps a mesh-local point into world space.
func (tr Transform) ToWorld(p mathx.Vec3) mathx.Vec3 {
	p = p.Mul(tr.Scale)
	sin, cos := sincos(tr.Yaw)
	rotated := mathx.Vec3{
		X: p.X*cos + p.Z*sin,
		Y: p.Y,
		Z: -p.X*sin + p.Z*cos,
	}
	return rotated.Add(tr.Translation)
}

// ToLocal maps a world point into mesh-local space — the inverse of ToWorld.
func (tr Transform) ToLocal(p mathx.Vec3) mathx.Vec3 {
	p = p.Sub(tr.Translation)
	sin, cos := sincos(tr.Yaw)
	rotated := mathx.Vec3{
		X: p.X*cos - p.Z*sin,
		Y: p.Y,
		Z: p.X*sin + p.Z*cos,
	}
	if tr.Scale == 0 {
		return rotated
	}
	return rotated.Mul(1.0 / tr.Scale)
}

func sincos(yaw float32) (sin, cos float32) {
	return math32.Sin(yaw), math32.Cos(yaw)
}

// Mesh is an immutable triangle soup plus the transform that places it in
// the world. Meshes are produced once at level load (or a builder-room edit)
// and never mutated afterward — the core only reads them.
type Mesh struct {
	Triangles []Triangle
	Transform Transform
}

// WorldAABB returns the axis-aligned bounding box of the mesh in world
// space, used to insert it into the octree (spec §4.12).
func (m *Mesh) WorldAABB() (min, max mathx.Vec3) {
	first := true
	for _, tri := range m.Triangles {
		for _, local := range [3]mathx.Vec3{tri.A, tri.B, tri.C} {
			p := m.Transform.ToWorld(local)
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

func componentMin(a, b mathx.Vec3) mathx.Vec3 {
	return mathx.Vec3{X: fmin(a.X, b.X), Y: fmin(a.Y, b.Y), Z: fmin(a.Z, b.Z)}
}

func componentMax(a, b mathx.Vec3) mathx.Vec3 {
	return mathx.Vec3{X: fmax(a.X, b.X), Y: fmax(a.Y, b.Y), Z: fmax(a.Z, b.Z)}
}

func fmin(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func fmax(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
