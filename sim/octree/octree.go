// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package octree is the spatial index used by every moving query over
// static colliders (spec §4.3). It plays the role server/world/sector.World
// plays for mk48's boats — a spatial partition owned by the world and
// queried every tick — but is a true 3D octree instead of a flat sector
// grid, since static colliders here vary hugely in footprint (a building
// spans meters, a pebble spans centimeters).
package octree

import "github.com/forgehold/core/sim/mathx"

// Kind tags what an Entry represents, so callers can filter query results
// without a type switch on Data.
type Kind uint8

const (
	KindRock Kind = iota
	KindTree
	KindBuildingBlock
)

// Entry is one AABB-tagged item in the tree (spec §4.3).
type Entry struct {
	ID       uint64
	Kind     Kind
	Data     interface{}
	Min, Max mathx.Vec3
}

func (e *Entry) intersectsAABB(min, max mathx.Vec3) bool {
	return e.Min.X <= max.X && e.Max.X >= min.X &&
		e.Min.Y <= max.Y && e.Max.Y >= min.Y &&
		e.Min.Z <= max.Z && e.Max.Z >= min.Z
}

// DefaultMaxDepth and DefaultMaxEntries are the spec §4.3 defaults.
const (
	DefaultMaxDepth    = 6
	DefaultMaxEntries  = 8
)

// Octree is the root of a hierarchical AABB spatial partition.
type Octree struct {
	root           *node
	maxDepth       int
	maxEntries     int
	count          int
}

type node struct {
	min, max mathx.Vec3
	entries  []*Entry
	children *[8]*node // nil until subdivided
}

// New builds a root node covering [min, max] with the given depth/capacity
// parameters. Pass 0 to use the spec defaults.
func New(min, max mathx.Vec3, maxDepth, maxEntries int) *Octree {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Octree{
		root:       &node{min: min, max: max},
		maxDepth:   maxDepth,
		maxEntries: maxEntries,
	}
}

// Count returns the number of entries inserted (mirrors
// sector.World.Count/Debug for telemetry, spec §4.12).
func (t *Octree) Count() int { return t.count }

// Insert descends into every child whose AABB intersects the entry,
// subdividing a leaf that exceeds capacity and still has remaining depth
// (spec §4.3).
func (t *Octree) Insert(e *Entry) {
	t.count++
	insertInto(t.root, e, t.maxDepth, t.maxEntries, 0)
}

func insertInto(n *node, e *Entry, maxDepth, maxEntries, depth int) {
	if !e.intersectsAABB(n.min, n.max) {
		return
	}
	if n.children != nil {
		for _, c := range n.children {
			insertInto(c, e, maxDepth, maxEntries, depth+1)
		}
		return
	}
	n.entries = append(n.entries, e)
	if len(n.entries) > maxEntries && depth < maxDepth {
		subdivide(n)
		old := n.entries
		n.entries = nil
		for _, old := range old {
			for _, c := range n.children {
				insertInto(c, old, maxDepth, maxEntries, depth+1)
			}
		}
	}
}

func subdivide(n *node) {
	center := n.min.Lerp(n.max, 0.5)
	var children [8]*node
	for i := 0; i < 8; i++ {
		min, max := n.min, n.max
		if i&1 != 0 {
			min.X = center.X
		} else {
			max.X = center.X
		}
		if i&2 != 0 {
			min.Y = center.Y
		} else {
			max.Y = center.Y
		}
		if i&4 != 0 {
			min.Z = center.Z
		} else {
			max.Z = center.Z
		}
		children[i] = &node{min: min, max: max}
	}
	n.children = &children
}

// Rebuild clears the tree and reinserts entries, for the level-load and
// builder-room-edit refresh described in spec §4.12.
func (t *Octree) Rebuild(entries []*Entry) {
	t.root.entries = nil
	t.root.children = nil
	t.count = 0
	for _, e := range entries {
		t.Insert(e)
	}
}

// QueryPoint returns every entry whose AABB overlaps the sphere at (x,y,z)
// with the given radius, using AABB-closest-point distance (spec §4.3).
// Duplicates are excluded even though an entry may live in multiple leaves.
func (t *Octree) QueryPoint(center mathx.Vec3, radius float32) []*Entry {
	var out []*Entry
	seen := map[uint64]bool{}
	queryPointNode(t.root, center, radius, &out, seen)
	return out
}

func queryPointNode(n *node, center mathx.Vec3, radius float32, out *[]*Entry, seen map[uint64]bool) {
	if !sphereIntersectsAABB(center, radius, n.min, n.max) {
		return
	}
	for _, e := range n.entries {
		if seen[e.ID] {
			continue
		}
		if sphereIntersectsAABB(center, radius, e.Min, e.Max) {
			seen[e.ID] = true
			*out = append(*out, e)
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			queryPointNode(c, center, radius, out, seen)
		}
	}
}

func sphereIntersectsAABB(center mathx.Vec3, radius float32, min, max mathx.Vec3) bool {
	d := closestPointOnAABB(center, min, max).DistanceSquared(center)
	return d <= radius*radius
}

func closestPointOnAABB(p, min, max mathx.Vec3) mathx.Vec3 {
	return mathx.Vec3{
		X: clampf(p.X, min.X, max.X),
		Y: clampf(p.Y, min.Y, max.Y),
		Z: clampf(p.Z, min.Z, max.Z),
	}
}

func clampf(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
