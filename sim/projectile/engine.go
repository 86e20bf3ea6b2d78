// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package projectile

import (
	"github.com/forgehold/core/sim/collision"
	"github.com/forgehold/core/sim/config"
	"github.com/forgehold/core/sim/mathx"
)

// Target is a candidate player hitbox source (spec §4.6 "head box... then
// the body box").
type Target struct {
	PlayerID   uint64
	BodyCenter mathx.Vec3
}

// Hit reports which target and which box a projectile struck.
type Hit struct {
	PlayerID uint64
	Box      BoxKind
	Point    mathx.Vec3
}

// BoxKind names which of a target's two hitboxes was struck.
type BoxKind int

const (
	BoxHead BoxKind = iota
	BoxBody
)

// Step advances a projectile by dt using PROJECTILE_SUBSTEPS sub-steps,
// ray-testing each sub-step segment against every target's head box (tested
// first) then body box, skipping the projectile's own owner (spec §4.6).
// It returns the first hit found, if any, and whether the projectile's
// lifetime has independently expired.
func Step(p *Projectile, dt float32, cfg config.Constants, targets []Target) (hit *Hit, expired bool) {
	substeps := cfg.ProjectileSubsteps
	if substeps < 1 {
		substeps = 1
	}
	subDt := dt / float32(substeps)

	headHalf := mathx.Vec3{X: cfg.HeadHalfExtent, Y: cfg.HeadHalfExtent, Z: cfg.HeadHalfExtent}
	bodyHalf := mathx.Vec3{X: cfg.BodyHalfExtent, Y: cfg.BodyHalfExtent, Z: cfg.BodyHalfExtent}

	for i := 0; i < substeps; i++ {
		if p.DistanceTraveled > p.GravityStartDistance {
			p.Vel.Y -= cfg.Gravity * subDt
		}

		prev := p.Pos
		next := prev.Add(p.Vel.Mul(subDt))
		p.LastCheckedPos = prev

		if h := raySweepTargets(prev, next, p.OwnerID, targets, cfg.HeadOffsetY, headHalf, bodyHalf); h != nil {
			p.Pos = next
			return h, false
		}

		p.DistanceTraveled += prev.Distance(next)
		p.Pos = next
	}

	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return nil, true
	}
	return nil, false
}

func raySweepTargets(prev, next mathx.Vec3, ownerID uint64, targets []Target, headOffsetY float32, headHalf, bodyHalf mathx.Vec3) *Hit {
	seg := next.Sub(prev)
	segLen := seg.Length()
	if segLen < 1e-8 {
		return nil
	}
	dir := seg.Mul(1.0 / segLen)

	for _, target := range targets {
		if target.PlayerID == ownerID {
			continue
		}
		headCenter := mathx.Vec3{X: target.BodyCenter.X, Y: target.BodyCenter.Y + headOffsetY, Z: target.BodyCenter.Z}
		if ok, t, _ := collision.RayVsAABB(prev, dir, segLen, headCenter, headHalf); ok {
			return &Hit{PlayerID: target.PlayerID, Box: BoxHead, Point: prev.AddScaled(dir, t)}
		}
		if ok, t, _ := collision.RayVsAABB(prev, dir, segLen, target.BodyCenter, bodyHalf); ok {
			return &Hit{PlayerID: target.PlayerID, Box: BoxBody, Point: prev.AddScaled(dir, t)}
		}
	}
	return nil
}
