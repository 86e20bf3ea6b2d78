// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package character

import (
	"testing"

	"github.com/forgehold/core/sim/collision"
	"github.com/forgehold/core/sim/config"
	"github.com/forgehold/core/sim/mathx"
)

func stepN(state *State, input Input, n int, cfg config.Constants) {
	for i := 0; i < n; i++ {
		Step(state, input, cfg.TickDt, cfg, nil, nil, nil, nil)
	}
}

func TestStepIsDeterministic(t *testing.T) {
	cfg := config.Default()
	input := Input{Forward: 1, Right: 1, CameraYaw: 0.7, Jump: true}.Clamp()

	a := &State{Pos: mathx.Vec3{Y: 5}}
	b := &State{Pos: mathx.Vec3{Y: 5}}

	stepN(a, input, 30, cfg)
	stepN(b, input, 30, cfg)

	if *a != *b {
		t.Fatalf("identical state+input diverged: %+v vs %+v", a, b)
	}
}

func TestStepStaysWithinWorldBound(t *testing.T) {
	cfg := config.Default()
	state := &State{Pos: mathx.Vec3{X: cfg.WorldBoundXZ - 0.1, Y: 0.1}, IsGrounded: true}
	input := Input{Forward: 1, CameraYaw: 1.5707963}.Clamp()

	for i := 0; i < 600; i++ {
		Step(state, input, cfg.TickDt, cfg, nil, nil, nil, nil)
	}

	if state.Pos.X > cfg.WorldBoundXZ {
		t.Fatalf("position escaped world bound: %v > %v", state.Pos.X, cfg.WorldBoundXZ)
	}
}

func TestStepNoInterpenetrationWithBlock(t *testing.T) {
	cfg := config.Default()
	floor := collision.Box{Center: mathx.Vec3{X: 0, Y: -0.4, Z: 0}, Half: mathx.Vec3{X: 50, Y: 0.4, Z: 50}}
	block := collision.Box{Center: mathx.Vec3{X: 2, Y: 0.4, Z: 0}, Half: mathx.Vec3{X: 0.5, Y: 0.4, Z: 0.5}}
	blocks := []collision.Box{floor, block}

	state := &State{Pos: mathx.Vec3{X: 0, Y: 0.4}, IsGrounded: true}
	input := Input{Forward: 1, CameraYaw: 1.5707963}.Clamp()

	for i := 0; i < 300; i++ {
		Step(state, input, cfg.TickDt, cfg, nil, nil, nil, blocks)
	}

	overlapX := (cfg.BodyHalfExtent + block.Half.X) - absf(state.Pos.X-block.Center.X)
	overlapY := (cfg.BodyHalfExtent + block.Half.Y) - absf(state.Pos.Y-block.Center.Y)
	overlapZ := (cfg.BodyHalfExtent + block.Half.Z) - absf(state.Pos.Z-block.Center.Z)
	if overlapX > 0 && overlapY > 0 && overlapZ > 0 {
		t.Fatalf("character interpenetrates block: pos=%+v block=%+v", state.Pos, block)
	}
}

func TestStepJumpRequiresReleaseBetweenJumps(t *testing.T) {
	cfg := config.Default()
	state := &State{Pos: mathx.Vec3{Y: cfg.GroundHeight() + cfg.BodyHalfExtent}, IsGrounded: true}
	held := Input{Jump: true}.Clamp()

	// The impulse is followed by one tick of gravity in the same Step.
	Step(state, held, cfg.TickDt, cfg, nil, nil, nil, nil)
	if want := cfg.JumpVelocity - cfg.Gravity*cfg.TickDt; state.Vel.Y != want {
		t.Fatalf("expected jump impulse on first grounded jump input, got vel.y=%v want %v", state.Vel.Y, want)
	}

	vBeforeSecond := state.Vel.Y
	Step(state, held, cfg.TickDt, cfg, nil, nil, nil, nil)
	if state.Vel.Y > vBeforeSecond {
		t.Fatal("expected no repeated jump impulse while jump is held without release")
	}
}

func TestStepFreeFallSettlesOnFlatGround(t *testing.T) {
	cfg := config.Default()
	state := &State{Pos: mathx.Vec3{Y: 10}}
	noInput := Input{}.Clamp()

	for i := 0; i < 600; i++ {
		Step(state, noInput, cfg.TickDt, cfg, nil, nil, nil, nil)
	}

	if !state.IsGrounded {
		t.Fatal("expected character to settle on the implicit flat floor")
	}
	if state.Pos.Y < cfg.GroundHeight()-0.01 {
		t.Fatalf("expected position to rest at/above ground height, got %v", state.Pos.Y)
	}
}

func TestStepEntersSwimmingPastDepthThreshold(t *testing.T) {
	cfg := config.Default()
	state := &State{Pos: mathx.Vec3{Y: 1}, WaterDepth: cfg.SwimmingDepthEnter + 0.1}
	input := Input{Forward: 1}.Clamp()

	Step(state, input, cfg.TickDt, cfg, nil, nil, nil, nil)

	// Starting clear of the implicit floor, the swim branch adds buoyancy to
	// Y, where the land branch would have applied gravity instead.
	if state.Vel.LengthSquared() == 0 {
		t.Fatal("expected swim acceleration to produce nonzero velocity")
	}
	if state.Vel.Y <= 0 {
		t.Fatalf("expected buoyancy from the swim branch, got vel.y=%v", state.Vel.Y)
	}
}

func TestStepBreathDrainsUnderwaterAndRefillsAtSurface(t *testing.T) {
	cfg := config.Default()
	state := &State{Pos: mathx.Vec3{Y: -5}, WaterDepth: 3, BreathRemaining: cfg.MaxBreath}
	noInput := Input{}.Clamp()

	Step(state, noInput, cfg.TickDt, cfg, nil, nil, nil, nil)
	if state.BreathRemaining >= cfg.MaxBreath {
		t.Fatal("expected breath to drain while head is underwater")
	}

	state.Pos.Y = 10
	Step(state, noInput, cfg.TickDt, cfg, nil, nil, nil, nil)
	if state.BreathRemaining != cfg.MaxBreath {
		t.Fatalf("expected breath to refill instantly at the surface, got %v", state.BreathRemaining)
	}
}
