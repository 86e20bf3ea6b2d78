// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mathx holds the deterministic float32 math shared by every
// simulation component (spec §4.1). Vector arithmetic here goes through
// math32 and trig through a fixed-point fastmath table (angle.go), instead of
// the standard math package, so the server and every predicting client
// evaluate identical bit patterns.
package mathx

import (
	"encoding/json"

	"github.com/chewxy/math32"
)

// Vec3 is a position, velocity, or direction in world space.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Mul(f float32) Vec3 { return Vec3{v.X * f, v.Y * f, v.Z * f} }

func (v Vec3) AddScaled(o Vec3, f float32) Vec3 {
	return Vec3{v.X + o.X*f, v.Y + o.Y*f, v.Z + o.Z*f}
}

func (v Vec3) Dot(o Vec3) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSquared() float32 { return v.Dot(v) }

func (v Vec3) Length() float32 { return math32.Sqrt(v.LengthSquared()) }

func (v Vec3) Norm() Vec3 {
	l := v.Length()
	if l < 1e-8 {
		return Vec3{}
	}
	return v.Mul(1.0 / l)
}

// XZ returns the horizontal components, dropping Y.
func (v Vec3) XZ() Vec3 { return Vec3{X: v.X, Z: v.Z} }

func (v Vec3) LengthXZSquared() float32 { return v.X*v.X + v.Z*v.Z }

func (v Vec3) LengthXZ() float32 { return math32.Sqrt(v.LengthXZSquared()) }

// ClampLengthXZ scales down the horizontal components, if needed, so the
// horizontal length does not exceed max. Y is untouched.
func (v Vec3) ClampLengthXZ(max float32) Vec3 {
	l2 := v.LengthXZSquared()
	if l2 <= max*max || l2 == 0 {
		return v
	}
	scale := max / math32.Sqrt(l2)
	v.X *= scale
	v.Z *= scale
	return v
}

// ClampLength scales down the whole vector, if needed, so its length does not
// exceed max.
func (v Vec3) ClampLength(max float32) Vec3 {
	l2 := v.LengthSquared()
	if l2 <= max*max || l2 == 0 {
		return v
	}
	return v.Mul(max / math32.Sqrt(l2))
}

func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	return Vec3{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
		Z: v.Z + (o.Z-v.Z)*t,
	}
}

func square(x float32) float32 { return x * x }

func (v Vec3) DistanceSquared(o Vec3) float32 {
	return square(v.X-o.X) + square(v.Y-o.Y) + square(v.Z-o.Z)
}

func (v Vec3) Distance(o Vec3) float32 { return math32.Sqrt(v.DistanceSquared(o)) }

// MarshalJSON is explicit (rather than relying on the default struct tags;
// decoding still uses the default tag path) to match server/world/vec2f.go's treatment of compound
// numeric types as first class wire values.
func (v Vec3) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		X, Y, Z float32
	}{v.X, v.Y, v.Z})
}
