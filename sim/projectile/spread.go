// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package projectile

import (
	"github.com/chewxy/math32"

	"github.com/forgehold/core/sim/mathx"
)

// Spread rotates dir by a uniformly random cone angle in [0, accuracy] about
// a perpendicular basis rotated by a uniform azimuth (spec §4.6 "Multi-pellet
// spread"). Both server and client must call it from an identically seeded
// *mathx.Rng, advanced in the same order, to keep visual correspondence.
func Spread(rng *mathx.Rng, dir mathx.Vec3, accuracy float32) mathx.Vec3 {
	dir = dir.Norm()
	if accuracy <= 0 {
		return dir
	}

	coneAngle := rng.Range(0, accuracy)
	azimuth := rng.Range(0, 2*math32.Pi)

	up := mathx.Vec3{Y: 1}
	if math32.Abs(dir.Dot(up)) > 0.99 {
		up = mathx.Vec3{X: 1}
	}
	right := dir.Cross(up).Norm()
	perpUp := right.Cross(dir).Norm()

	azSin, azCos := math32.Sin(azimuth), math32.Cos(azimuth)
	perturb := right.Mul(azCos).Add(perpUp.Mul(azSin))

	coneSin, coneCos := math32.Sin(coneAngle), math32.Cos(coneAngle)
	return dir.Mul(coneCos).Add(perturb.Mul(coneSin)).Norm()
}

// PelletJitter returns a small per-pellet horizontal spawn offset applied in
// the plane perpendicular to dir, for the visual-only separation named in
// spec §4.6 ("Per-pellet horizontal offset applied as a small jitter at
// spawn").
func PelletJitter(rng *mathx.Rng, dir mathx.Vec3, maxOffset float32) mathx.Vec3 {
	dir = dir.Norm()
	right := dir.Cross(mathx.Vec3{Y: 1})
	if right.LengthSquared() < 1e-8 {
		right = mathx.Vec3{X: 1}
	}
	right = right.Norm()
	return right.Mul(rng.Range(-maxOffset, maxOffset))
}
