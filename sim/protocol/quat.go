// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import "github.com/chewxy/math32"

// QuatFromYaw builds the wire quaternion for a yaw-only rotation about the Y
// axis, the only rotational degree of freedom sim/character.State carries
// (spec §3 "CharacterState... yaw"). Pitch/roll are always zero on the wire;
// camera pitch travels separately as TransformSnapshot.HeadPitch.
func QuatFromYaw(yaw float32) Quat {
	half := yaw * 0.5
	s, c := math32.Sin(half), math32.Cos(half)
	return Quat{X: 0, Y: s, Z: 0, W: c}
}

// Slerp interpolates between two quaternions by t in [0, 1], taking the
// shorter arc (spec §4.11 "cubic-free quat slerp"). Falls back to linear
// interpolation when the quaternions are nearly parallel, to avoid a
// division by a near-zero sine term.
func (q Quat) Slerp(to Quat, t float32) Quat {
	cosHalfTheta := q.X*to.X + q.Y*to.Y + q.Z*to.Z + q.W*to.W
	if cosHalfTheta < 0 {
		to = Quat{X: -to.X, Y: -to.Y, Z: -to.Z, W: -to.W}
		cosHalfTheta = -cosHalfTheta
	}
	if cosHalfTheta > 0.9995 {
		return q.lerpNormalized(to, t)
	}

	halfTheta := math32.Acos(cosHalfTheta)
	sinHalfTheta := math32.Sqrt(1 - cosHalfTheta*cosHalfTheta)

	ratioA := math32.Sin((1-t)*halfTheta) / sinHalfTheta
	ratioB := math32.Sin(t*halfTheta) / sinHalfTheta

	return Quat{
		X: q.X*ratioA + to.X*ratioB,
		Y: q.Y*ratioA + to.Y*ratioB,
		Z: q.Z*ratioA + to.Z*ratioB,
		W: q.W*ratioA + to.W*ratioB,
	}
}

func (q Quat) lerpNormalized(to Quat, t float32) Quat {
	r := Quat{
		X: q.X + (to.X-q.X)*t,
		Y: q.Y + (to.Y-q.Y)*t,
		Z: q.Z + (to.Z-q.Z)*t,
		W: q.W + (to.W-q.W)*t,
	}
	n := math32.Sqrt(r.X*r.X + r.Y*r.Y + r.Z*r.Z + r.W*r.W)
	if n == 0 {
		return Quat{W: 1}
	}
	return Quat{X: r.X / n, Y: r.Y / n, Z: r.Z / n, W: r.W / n}
}
