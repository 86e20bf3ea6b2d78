// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package character implements the canonical deterministic character
// controller (spec §4.5). Step is the function both the authoritative
// server and every predicting client call — it must produce bit-identical
// results given identical state, input and collision inputs (spec §3, §8.1).
package character

import "github.com/forgehold/core/sim/mathx"

// State is the canonical, deterministic character state (spec §3).
type State struct {
	Pos mathx.Vec3
	Vel mathx.Vec3
	Yaw float32

	IsGrounded         bool
	HasJumped          bool
	IsInWater          bool
	IsHeadUnderwater   bool
	BreathRemaining    float32
	WaterDepth         float32
	IsExhausted        bool
}

// Input is one buffered client input snapshot (spec §3).
type Input struct {
	Forward     int8 // -1, 0, or 1
	Right       int8 // -1, 0, or 1
	CameraYaw   float32
	CameraPitch float32
	Jump        bool
	Sprint      bool
	Dive        bool
}

// Clamp normalizes an Input to the valid ranges the controller expects
// (spec §4.5 "Failure semantics: ill-formed inputs are clamped to valid
// ranges by the caller").
func (in Input) Clamp() Input {
	in.Forward = clampAxis(in.Forward)
	in.Right = clampAxis(in.Right)
	in.CameraYaw = mathx.WrapRadians(in.CameraYaw)
	if in.CameraPitch > 1.5 {
		in.CameraPitch = 1.5
	} else if in.CameraPitch < -1.5 {
		in.CameraPitch = -1.5
	}
	return in
}

func clampAxis(v int8) int8 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
