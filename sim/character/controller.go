// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package character

import (
	"github.com/forgehold/core/sim/collider"
	"github.com/forgehold/core/sim/collision"
	"github.com/forgehold/core/sim/config"
	"github.com/forgehold/core/sim/mathx"
	"github.com/forgehold/core/sim/terrain"
)

// CharacterHeight is the capsule height used for mesh collisions (spec §4.4
// "capsule-vs-triangle-mesh"). The hitbox cube used for voxel/block tests is
// a separate, smaller cube named explicitly in spec §3.
const CharacterHeight = 1.8

// Step is the canonical deterministic function used by both the
// authoritative server and every predicting client (spec §4.5). It mutates
// state in place and never fails — ill-formed input must already be
// Input.Clamp()ed by the caller.
//
// terrain, trees, rocks, and blocks are all optional: a nil/empty value
// means "no colliders of that kind this call", used by tests that isolate
// one collision surface at a time.
func Step(
	state *State,
	input Input,
	dt float32,
	cfg config.Constants,
	grid terrain.Grid,
	trees []*collider.Tree,
	rocks []*collider.Mesh,
	blocks []collision.Box,
) {
	half := mathx.Vec3{X: cfg.BodyHalfExtent, Y: cfg.BodyHalfExtent, Z: cfg.BodyHalfExtent}

	// 1. Decide swimming.
	swimming := state.WaterDepth > cfg.SwimmingDepthEnter

	// 2. Camera-relative basis.
	forward := mathx.ForwardVec(input.CameraYaw)
	right := mathx.RightVec(input.CameraYaw)
	if swimming {
		pitchSin, pitchCos := sincosApprox(input.CameraPitch)
		forward = mathx.Vec3{
			X: forward.X * pitchCos,
			Y: pitchSin,
			Z: forward.Z * pitchCos,
		}
	}

	moveDir := forward.Mul(float32(input.Forward)).Add(right.Mul(float32(input.Right)))
	if !swimming {
		moveDir.Y = 0
	}
	if moveDir.LengthSquared() > 1e-10 {
		moveDir = moveDir.Norm()
	} else {
		moveDir = mathx.Vec3{}
	}

	// 3. Apply acceleration.
	if swimming {
		accel := cfg.SwimAccel * cfg.SwimControl
		state.Vel = state.Vel.AddScaled(moveDir, accel*dt)
		if input.Dive {
			state.Vel.Y -= cfg.SwimDiveAccel * dt
		}
		maxSpeed := cfg.SwimMaxSpeed
		if input.Sprint {
			maxSpeed = cfg.SwimSprintMaxSpeed
		}
		state.Vel = state.Vel.ClampLength(maxSpeed)
	} else {
		control := float32(1)
		if !state.IsGrounded {
			control = cfg.AirControl
		}
		accel := cfg.MovementAccel * control
		state.Vel.X += moveDir.X * accel * dt
		state.Vel.Z += moveDir.Z * accel * dt

		maxSpeed := cfg.MovementMaxSpeed
		if input.Sprint {
			maxSpeed *= cfg.SprintMultiplier
		}
		wading := state.WaterDepth > 0 && state.IsGrounded
		if wading {
			maxSpeed *= cfg.WadeMultiplier
		}
		state.Vel = state.Vel.ClampLengthXZ(maxSpeed)
	}

	// 4. Friction.
	noInput := moveDir.LengthSquared() < 1e-10
	if !swimming && state.IsGrounded && noInput {
		applyFrictionXZ(&state.Vel, cfg.Friction*dt)
	} else if swimming && noInput {
		applyFriction3D(&state.Vel, cfg.SwimDrag*dt)
	}

	// 5. Jump / surface impulse.
	if !input.Jump {
		state.HasJumped = false
	}
	if !swimming {
		if state.IsGrounded && input.Jump && !state.HasJumped {
			state.Vel.Y = cfg.JumpVelocity
			state.IsGrounded = false
			state.HasJumped = true
		}
	} else {
		if input.Jump && !state.HasJumped {
			state.Vel.Y += cfg.SwimUpImpulse
			state.HasJumped = true
		}
	}

	// 6. Vertical force.
	if swimming {
		if state.IsExhausted {
			state.Vel.Y -= cfg.Gravity * cfg.ExhaustedSinkFactor * dt
		} else {
			state.Vel.Y += cfg.Buoyancy * dt
		}
		state.IsGrounded = false
	} else if !state.IsGrounded {
		state.Vel.Y -= cfg.Gravity * dt
	}

	// 7. Integrate X, Y, Z separately against the voxel grid with step-up on
	// X and Z.
	integrateStepUp(&state.Pos.X, &state.Vel.X, state.Pos, half, state.IsGrounded, dt, cfg, grid, blocks, axisX)
	integrateY(state, half, dt, cfg, grid, blocks)
	integrateStepUp(&state.Pos.Z, &state.Vel.Z, state.Pos, half, state.IsGrounded, dt, cfg, grid, blocks, axisZ)

	// 8. Probe grounded for the next tick.
	state.IsGrounded = probeGrounded(state.Pos, half, cfg, grid, blocks)

	// 9. Clamp X and Z to the world bound.
	if state.Pos.X > cfg.WorldBoundXZ {
		state.Pos.X = cfg.WorldBoundXZ
		state.Vel.X = 0
	} else if state.Pos.X < -cfg.WorldBoundXZ {
		state.Pos.X = -cfg.WorldBoundXZ
		state.Vel.X = 0
	}
	if state.Pos.Z > cfg.WorldBoundXZ {
		state.Pos.Z = cfg.WorldBoundXZ
		state.Vel.Z = 0
	} else if state.Pos.Z < -cfg.WorldBoundXZ {
		state.Pos.Z = -cfg.WorldBoundXZ
		state.Vel.Z = 0
	}

	// 10. Resolve tree and rock capsule-vs-mesh collisions.
	resolveMeshCollisions(state, cfg, trees, rocks)

	// 11. Resolve block colliders.
	resolveBlockCollisions(state, half, cfg, blocks)

	// 12. After block resolution, re-probe grounded.
	state.IsGrounded = probeGrounded(state.Pos, half, cfg, grid, blocks)

	// 13. Update water state.
	updateWaterState(state, dt, cfg, grid)

	// 14. Snap yaw.
	state.Yaw = input.CameraYaw
}

type axis int

const (
	axisX axis = iota
	axisZ
)

func applyFrictionXZ(vel *mathx.Vec3, amount float32) {
	speed := vel.XZ().Length()
	if speed <= 0 {
		return
	}
	newSpeed := speed - amount
	if newSpeed < 0 {
		newSpeed = 0
	}
	scale := newSpeed / speed
	vel.X *= scale
	vel.Z *= scale
}

func applyFriction3D(vel *mathx.Vec3, amount float32) {
	speed := vel.Length()
	if speed <= 0 {
		return
	}
	newSpeed := speed - amount
	if newSpeed < 0 {
		newSpeed = 0
	}
	scale := newSpeed / speed
	*vel = vel.Mul(scale)
}

// isSolidAABB tests a candidate AABB against the voxel grid and block list,
// falling back to an implicit flat floor at y=0 when neither is supplied
// (spec §4.5 step 12 "flat ground if no grid"; exercised by the free-fall
// end-to-end scenario in spec §8).
func isSolidAABB(center, half mathx.Vec3, cfg config.Constants, grid terrain.Grid, blocks []collision.Box) bool {
	if grid != nil && collision.AABBVsVoxelGrid(grid, center, half) {
		return true
	}
	if hit, _ := collision.AABBVsBoxes(center, half, blocks); hit {
		return true
	}
	if grid == nil && len(blocks) == 0 && center.Y-half.Y < cfg.GroundHeight() {
		return true
	}
	return false
}

func probeGrounded(pos, half mathx.Vec3, cfg config.Constants, grid terrain.Grid, blocks []collision.Box) bool {
	probe := mathx.Vec3{X: pos.X, Y: pos.Y - cfg.GroundProbeDrop, Z: pos.Z}
	return isSolidAABB(probe, half, cfg, grid, blocks)
}

func integrateStepUp(posComp, velComp *float32, pos, half mathx.Vec3, grounded bool, dt float32, cfg config.Constants, grid terrain.Grid, blocks []collision.Box, which axis) {
	delta := *velComp * dt
	if delta == 0 {
		return
	}
	candidate := pos
	if which == axisX {
		candidate.X += delta
	} else {
		candidate.Z += delta
	}

	if !isSolidAABB(candidate, half, cfg, grid, blocks) {
		*posComp += delta
		return
	}

	if grounded {
		stepped := candidate
		stepped.Y += cfg.StepHeight
		if !isSolidAABB(stepped, half, cfg, grid, blocks) {
			*posComp += delta
			return
		}
	}

	*velComp = 0
}

func integrateY(state *State, half mathx.Vec3, dt float32, cfg config.Constants, grid terrain.Grid, blocks []collision.Box) {
	delta := state.Vel.Y * dt
	candidate := state.Pos
	candidate.Y += delta

	if !isSolidAABB(candidate, half, cfg, grid, blocks) {
		state.Pos.Y += delta
		return
	}

	if delta <= 0 {
		state.IsGrounded = true
		state.Vel.Y = 0
	} else {
		state.Vel.Y = 0
	}
}

func resolveMeshCollisions(state *State, cfg config.Constants, trees []*collider.Tree, rocks []*collider.Mesh) {
	for _, tree := range trees {
		hit := collision.CapsuleVsTreeMesh(state.Pos, cfg.CapsuleRadius, CharacterHeight, tree)
		applyMeshHit(state, cfg, hit)
	}
	for _, rock := range rocks {
		hit := collision.CapsuleVsTriangleMesh(state.Pos, cfg.CapsuleRadius, CharacterHeight, rock)
		applyMeshHit(state, cfg, hit)
	}
}

func applyMeshHit(state *State, cfg config.Constants, hit collision.CapsuleHit) {
	if !hit.Colliding {
		return
	}
	state.Pos = state.Pos.Add(hit.Push)

	pushDir := hit.Push.Norm()
	velAlongPush := state.Vel.Dot(pushDir)
	if velAlongPush < 0 {
		state.Vel = state.Vel.Sub(pushDir.Mul(velAlongPush))
	}

	pushLen := hit.Push.Length()
	if pushLen > 1e-8 && hit.Push.Y/pushLen > cfg.PushUpGroundedCosine && state.Vel.Y <= 0 {
		state.IsGrounded = true
		state.Vel.Y = 0
	}
}

func resolveBlockCollisions(state *State, half mathx.Vec3, cfg config.Constants, blocks []collision.Box) {
	for iter := 0; iter < cfg.BlockResolveIter; iter++ {
		resolved := false
		for i := range blocks {
			b := &blocks[i]
			overlapX := half.X + b.Half.X - absf(state.Pos.X-b.Center.X)
			overlapY := half.Y + b.Half.Y - absf(state.Pos.Y-b.Center.Y)
			overlapZ := half.Z + b.Half.Z - absf(state.Pos.Z-b.Center.Z)
			if overlapX <= 0 || overlapY <= 0 || overlapZ <= 0 {
				continue
			}

			blockTop := b.Center.Y + b.Half.Y
			if state.IsGrounded {
				rise := blockTop - (state.Pos.Y - half.Y)
				if rise > 0 && rise <= cfg.StepHeight {
					stepped := state.Pos
					stepped.Y = blockTop + half.Y
					if !aabbOverlapsBox(stepped, half, b) {
						state.Pos.Y = blockTop + half.Y
						state.IsGrounded = true
						if state.Vel.Y < 0 {
							state.Vel.Y = 0
						}
						resolved = true
						continue
					}
				}
			}

			// Push along the smallest-overlap axis.
			switch smallestOf(overlapX, overlapY, overlapZ) {
			case 0:
				sign := signOf(state.Pos.X - b.Center.X)
				state.Pos.X += sign * overlapX
				if sign*state.Vel.X < 0 {
					state.Vel.X = 0
				}
			case 1:
				sign := signOf(state.Pos.Y - b.Center.Y)
				state.Pos.Y += sign * overlapY
				if sign > 0 && state.Vel.Y < 0 {
					state.Vel.Y = 0
				} else if sign < 0 && state.Vel.Y > 0 {
					state.Vel.Y = 0
				}
			default:
				sign := signOf(state.Pos.Z - b.Center.Z)
				state.Pos.Z += sign * overlapZ
				if sign*state.Vel.Z < 0 {
					state.Vel.Z = 0
				}
			}
			resolved = true
		}
		if !resolved {
			break
		}
	}
}

func aabbOverlapsBox(center, half mathx.Vec3, b *collision.Box) bool {
	return absf(center.X-b.Center.X) <= half.X+b.Half.X &&
		absf(center.Y-b.Center.Y) <= half.Y+b.Half.Y &&
		absf(center.Z-b.Center.Z) <= half.Z+b.Half.Z
}

func smallestOf(a, b, c float32) int {
	if a <= b && a <= c {
		return 0
	}
	if b <= a && b <= c {
		return 1
	}
	return 2
}

func signOf(x float32) float32 {
	if x < 0 {
		return -1
	}
	return 1
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func updateWaterState(state *State, dt float32, cfg config.Constants, grid terrain.Grid) {
	if grid != nil {
		surfaceY := grid.WorldSurfaceY(state.Pos.X, state.Pos.Z)
		depth := cfg.WaterLevelY - surfaceY
		if depth < 0 {
			depth = 0
		}
		state.WaterDepth = depth
	}

	feetY := state.Pos.Y - cfg.BodyHalfExtent
	headTopY := state.Pos.Y + cfg.HeadOffsetY + cfg.HeadHalfExtent

	state.IsInWater = feetY < cfg.WaterLevelY
	state.IsHeadUnderwater = headTopY < cfg.WaterLevelY

	if state.IsHeadUnderwater {
		state.BreathRemaining -= dt
		if state.BreathRemaining < 0 {
			state.BreathRemaining = 0
		}
	} else {
		state.BreathRemaining = cfg.MaxBreath
	}
}

// sincosApprox avoids pulling math32 into this file purely for swim pitch
// folding; uses the same fixed-point trig path as mathx.ForwardVec via a
// throwaway forward vector so the two strategies never diverge.
func sincosApprox(pitch float32) (sin, cos float32) {
	v := mathx.ForwardVec(pitch)
	return v.X, v.Z
}
