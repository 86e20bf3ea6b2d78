// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package projectile

import (
	"testing"

	"github.com/forgehold/core/sim/config"
	"github.com/forgehold/core/sim/mathx"
)

func TestStepHitsBodyBox(t *testing.T) {
	cfg := config.Default()
	p := New(1, 0, mathx.Vec3{X: -1}, mathx.Vec3{X: 1}, 50, 5, cfg.DefaultProjectileGravityStartDist)
	targets := []Target{{PlayerID: 2, BodyCenter: mathx.Vec3{}}}

	hit, expired := Step(p, cfg.TickDt, cfg, targets)
	if expired {
		t.Fatal("did not expect expiry on first tick")
	}
	if hit == nil || hit.PlayerID != 2 || hit.Box != BoxBody {
		t.Fatalf("expected a body hit on player 2, got %+v", hit)
	}
}

func TestStepSkipsOwner(t *testing.T) {
	cfg := config.Default()
	p := New(1, 2, mathx.Vec3{X: -5}, mathx.Vec3{X: 1}, 50, 5, cfg.DefaultProjectileGravityStartDist)
	targets := []Target{{PlayerID: 2, BodyCenter: mathx.Vec3{}}}

	for i := 0; i < 20; i++ {
		hit, _ := Step(p, cfg.TickDt, cfg, targets)
		if hit != nil {
			t.Fatalf("expected owner to be skipped, got hit %+v", hit)
		}
	}
}

func TestStepPrefersHeadOverBody(t *testing.T) {
	cfg := config.Default()
	p := New(1, 0, mathx.Vec3{X: -1, Y: 1.3}, mathx.Vec3{X: 1}, 50, 5, cfg.DefaultProjectileGravityStartDist)
	targets := []Target{{PlayerID: 2, BodyCenter: mathx.Vec3{}}}

	hit, _ := Step(p, cfg.TickDt, cfg, targets)
	if hit == nil || hit.Box != BoxHead {
		t.Fatalf("expected head hit to be checked first, got %+v", hit)
	}
}

func TestStepExpiresAfterLifetime(t *testing.T) {
	cfg := config.Default()
	p := New(1, 0, mathx.Vec3{X: 1000}, mathx.Vec3{X: 1}, 50, 0.01, cfg.DefaultProjectileGravityStartDist)

	_, expired := Step(p, cfg.TickDt, cfg, nil)
	if !expired {
		t.Fatal("expected projectile to expire once lifetime runs out")
	}
}

func TestStepDropsAfterGravityStartDistance(t *testing.T) {
	cfg := config.Default()
	p := New(1, 0, mathx.Vec3{}, mathx.Vec3{X: 1}, 50, 10, 0)

	vBefore := p.Vel.Y
	Step(p, cfg.TickDt, cfg, nil)
	if p.Vel.Y >= vBefore {
		t.Fatal("expected gravity to start pulling the projectile down immediately when threshold is 0")
	}
}
