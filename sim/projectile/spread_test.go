// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package projectile

import (
	"math"
	"testing"

	"github.com/forgehold/core/sim/mathx"
)

func TestSpreadIsDeterministicForIdenticalSeeds(t *testing.T) {
	rngA := mathx.NewRng("pellet-seed")
	rngB := mathx.NewRng("pellet-seed")

	dir := mathx.Vec3{Z: 1}
	a := Spread(rngA, dir, 0.3)
	b := Spread(rngB, dir, 0.3)

	if a != b {
		t.Fatalf("identical seeds diverged: %+v vs %+v", a, b)
	}
}

func TestSpreadStaysWithinConeAngle(t *testing.T) {
	rng := mathx.NewRng("cone-seed")
	dir := mathx.Vec3{Z: 1}
	accuracy := float32(0.2)

	for i := 0; i < 200; i++ {
		spread := Spread(rng, dir, accuracy)
		cos := dir.Dot(spread)
		angle := float32(math.Acos(float64(clamp(cos, -1, 1))))
		if angle > accuracy+1e-3 {
			t.Fatalf("spread angle %v exceeds accuracy %v", angle, accuracy)
		}
	}
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func TestSpreadZeroAccuracyReturnsExactDirection(t *testing.T) {
	rng := mathx.NewRngFromState(1)
	dir := mathx.Vec3{X: 1}
	got := Spread(rng, dir, 0)
	if got != dir {
		t.Fatalf("expected zero accuracy to return dir unchanged, got %+v", got)
	}
}
