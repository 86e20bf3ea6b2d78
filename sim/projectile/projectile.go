// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projectile is the sub-stepped, swept hit-test pipeline shared by
// the authoritative server and every predicting client (spec §4.6). Its
// math leans entirely on sim/collision and sim/mathx so a hit is bit-for-bit
// identical on both sides.
package projectile

import "github.com/forgehold/core/sim/mathx"

// Projectile is one in-flight shot. ID is negative for a locally-predicted
// projectile and positive for a server-authoritative one, per spec §4.6
// "Predicted projectiles".
type Projectile struct {
	ID      int64
	OwnerID uint64

	Pos mathx.Vec3
	Vel mathx.Vec3

	Lifetime             float32
	DistanceTraveled     float32
	GravityStartDistance float32
	Tick                 uint32

	// LastCheckedPos is the position the last hit-test sub-step started
	// from, retained so a caller can re-draw the swept segment for debug
	// visualization without re-deriving it from Pos and Vel.
	LastCheckedPos mathx.Vec3
}

// New constructs a Projectile travelling at speed along dir (assumed
// normalized).
func New(id int64, ownerID uint64, pos, dir mathx.Vec3, speed, lifetime, gravityStartDistance float32) *Projectile {
	return &Projectile{
		ID:                   id,
		OwnerID:              ownerID,
		Pos:                  pos,
		Vel:                  dir.Mul(speed),
		Lifetime:             lifetime,
		GravityStartDistance: gravityStartDistance,
		LastCheckedPos:       pos,
	}
}

// IsPredicted reports whether this is a client-local placeholder awaiting
// pairing with a server-spawned projectile.
func (p *Projectile) IsPredicted() bool {
	return p.ID < 0
}
