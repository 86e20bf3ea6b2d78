// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package octree

import (
	"testing"

	"github.com/forgehold/core/sim/mathx"
)

func smallEntry(id uint64, center mathx.Vec3) *Entry {
	return &Entry{
		ID:   id,
		Kind: KindRock,
		Min:  center.Sub(mathx.Vec3{X: 0.5, Y: 0.5, Z: 0.5}),
		Max:  center.Add(mathx.Vec3{X: 0.5, Y: 0.5, Z: 0.5}),
	}
}

func TestQueryPointCompleteness(t *testing.T) {
	tree := New(mathx.Vec3{X: -100, Y: -100, Z: -100}, mathx.Vec3{X: 100, Y: 100, Z: 100}, 0, 0)

	var entries []*Entry
	for i := uint64(0); i < 200; i++ {
		x := float32(i%20) - 10
		z := float32(i/20) - 10
		e := smallEntry(i, mathx.Vec3{X: x, Y: 0, Z: z})
		entries = append(entries, e)
		tree.Insert(e)
	}

	results := tree.QueryPoint(mathx.Vec3{X: 0, Y: 0, Z: 0}, 3)

	expected := map[uint64]bool{}
	for _, e := range entries {
		if sphereIntersectsAABB(mathx.Vec3{}, 3, e.Min, e.Max) {
			expected[e.ID] = true
		}
	}

	if len(expected) == 0 {
		t.Fatal("test setup produced no expected hits")
	}

	got := map[uint64]int{}
	for _, r := range results {
		got[r.ID]++
	}

	for id := range expected {
		if got[id] != 1 {
			t.Fatalf("entry %d expected exactly once, got %d", id, got[id])
		}
	}
	for id, count := range got {
		if !expected[id] {
			t.Fatalf("entry %d returned but should not overlap query sphere", id)
		}
		if count > 1 {
			t.Fatalf("entry %d returned as duplicate", id)
		}
	}
}

func TestInsertSubdividesOnOverflow(t *testing.T) {
	tree := New(mathx.Vec3{X: -10, Y: -10, Z: -10}, mathx.Vec3{X: 10, Y: 10, Z: 10}, 4, 2)
	for i := uint64(0); i < 10; i++ {
		tree.Insert(smallEntry(i, mathx.Vec3{}))
	}
	if tree.Count() != 10 {
		t.Fatalf("expected count 10, got %d", tree.Count())
	}
	if tree.root.children == nil {
		t.Fatal("expected root to subdivide after exceeding capacity")
	}
}

func TestRayVsAABBSlabMethod(t *testing.T) {
	min := mathx.Vec3{X: -1, Y: -1, Z: -1}
	max := mathx.Vec3{X: 1, Y: 1, Z: 1}

	hit, tVal, face := RayVsAABB(mathx.Vec3{X: -5, Y: 0, Z: 0}, mathx.Vec3{X: 1, Y: 0, Z: 0}, 100, min, max)
	if !hit {
		t.Fatal("expected a hit")
	}
	if tVal != 4 {
		t.Fatalf("expected t=4, got %v", tVal)
	}
	if face != FaceMinX {
		t.Fatalf("expected FaceMinX, got %v", face)
	}

	hit, _, _ = RayVsAABB(mathx.Vec3{X: -5, Y: 5, Z: 0}, mathx.Vec3{X: 1, Y: 0, Z: 0}, 100, min, max)
	if hit {
		t.Fatal("expected a miss")
	}
}

func TestRayVsAABBZeroDirectionGuard(t *testing.T) {
	min := mathx.Vec3{X: -1, Y: -1, Z: -1}
	max := mathx.Vec3{X: 1, Y: 1, Z: 1}

	// Ray travels only along X, starting inside the Y/Z slabs.
	hit, _, _ := RayVsAABB(mathx.Vec3{X: -5, Y: 0, Z: 0}, mathx.Vec3{X: 1, Y: 0, Z: 0}, 100, min, max)
	if !hit {
		t.Fatal("expected a hit when ray direction is zero on a slab it starts inside")
	}

	hit, _, _ = RayVsAABB(mathx.Vec3{X: -5, Y: 5, Z: 0}, mathx.Vec3{X: 1, Y: 0, Z: 0}, 100, min, max)
	if hit {
		t.Fatal("expected a miss when ray direction is zero on a slab it starts outside")
	}
}

func TestQueryRaySortedAscending(t *testing.T) {
	tree := New(mathx.Vec3{X: -100, Y: -100, Z: -100}, mathx.Vec3{X: 100, Y: 100, Z: 100}, 0, 0)
	tree.Insert(smallEntry(1, mathx.Vec3{X: 10, Y: 0, Z: 0}))
	tree.Insert(smallEntry(2, mathx.Vec3{X: 5, Y: 0, Z: 0}))
	tree.Insert(smallEntry(3, mathx.Vec3{X: 20, Y: 0, Z: 0}))

	hits := tree.QueryRay(mathx.Vec3{}, mathx.Vec3{X: 1, Y: 0, Z: 0}, 50)
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].T < hits[i-1].T {
			t.Fatalf("hits not sorted ascending: %v", hits)
		}
	}
	if hits[0].Entry.ID != 2 {
		t.Fatalf("expected closest hit first, got id %d", hits[0].Entry.ID)
	}
}
