// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package item

import (
	"testing"

	"github.com/forgehold/core/sim/config"
	"github.com/forgehold/core/sim/mathx"
)

func TestGridUpsertMovesBetweenCells(t *testing.T) {
	cfg := config.Default()
	g := NewGrid(cfg)
	g.Upsert(1, mathx.Vec3{X: 0, Z: 0})

	if got := g.QueryRadius(mathx.Vec3{X: 0, Z: 0}, 1); len(got) != 1 {
		t.Fatalf("expected item findable at origin, got %v", got)
	}

	g.Upsert(1, mathx.Vec3{X: 100, Z: 100})
	if got := g.QueryRadius(mathx.Vec3{X: 0, Z: 0}, 1); len(got) != 0 {
		t.Fatalf("expected item no longer near origin after move, got %v", got)
	}
	if got := g.QueryRadius(mathx.Vec3{X: 100, Z: 100}, 1); len(got) != 1 {
		t.Fatalf("expected item findable at new position, got %v", got)
	}
}

func TestGridRemoveClearsEmptyCellBucket(t *testing.T) {
	cfg := config.Default()
	g := NewGrid(cfg)
	g.Upsert(1, mathx.Vec3{})
	g.Remove(1)

	if len(g.cells) != 0 {
		t.Fatalf("expected no leftover empty cell buckets, got %d", len(g.cells))
	}
}
