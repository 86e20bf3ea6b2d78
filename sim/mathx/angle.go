// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package mathx

import (
	"github.com/13rac1/fastmath"
	"github.com/chewxy/math32"
)

// Angle is a 2-byte fixed-point radian angle, used only internally by the
// trig helpers below so both peers take the identical fastmath lookup-table
// path instead of two different libm implementations of sin/cos.
type Angle uint16

const anglePi Angle = 32768

func radiansToAngle(x float32) Angle {
	return Angle(x * (float32(anglePi) / math32.Pi))
}

// ForwardVec returns the camera-relative forward basis vector for yaw
// (radians), per spec §4.5 step 2: forward = (sin yaw, 0, cos yaw).
func ForwardVec(yaw float32) Vec3 {
	a := radiansToAngle(yaw)
	sin := fastmath.Sin16(uint16(a))
	cos := fastmath.Cos16(uint16(a))
	return Vec3{
		X: float32(float64(sin) * (1.0 / 32767)),
		Z: float32(float64(cos) * (1.0 / 32767)),
	}
}

// RightVec returns the camera-relative right basis vector for yaw (radians),
// per spec §4.5 step 2: right = (-cos yaw, 0, sin yaw).
func RightVec(yaw float32) Vec3 {
	a := radiansToAngle(yaw)
	sin := fastmath.Sin16(uint16(a))
	cos := fastmath.Cos16(uint16(a))
	return Vec3{
		X: -float32(float64(cos) * (1.0 / 32767)),
		Z: float32(float64(sin) * (1.0 / 32767)),
	}
}

// RotateY rotates v about the Y axis by yaw (radians), using the same
// fixed-point trig table as ForwardVec/RightVec so every peer derives an
// identical world position from identical building transforms (spec §4.8
// "world = pos + Rot_y(rotY)*local").
func RotateY(v Vec3, yaw float32) Vec3 {
	a := radiansToAngle(yaw)
	sin := float32(float64(fastmath.Sin16(uint16(a))) * (1.0 / 32767))
	cos := float32(float64(fastmath.Cos16(uint16(a))) * (1.0 / 32767))
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// WrapRadians normalizes an angle in radians to (-pi, pi].
func WrapRadians(x float32) float32 {
	for x <= -math32.Pi {
		x += 2 * math32.Pi
	}
	for x > math32.Pi {
		x -= 2 * math32.Pi
	}
	return x
}

// ClampMagnitude clamps x to [-m, m].
func ClampMagnitude(x, m float32) float32 {
	if x < -m {
		return -m
	}
	if x > m {
		return m
	}
	return x
}
