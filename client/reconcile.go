// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"github.com/chewxy/math32"

	"github.com/forgehold/core/sim/character"
	"github.com/forgehold/core/sim/mathx"
	"github.com/forgehold/core/sim/protocol"
)

// Reconcile applies an authoritative snapshot per spec §4.11's five-step
// procedure: prune the ring, overwrite position/velocity/water/stamina
// (never yaw/pitch, since camera is client-authoritative), replay whatever
// inputs remain, and fold the resulting drift into the decaying visual
// offset (or hard-snap past the configured threshold).
func (p *Predictor) Reconcile(snapshot protocol.TransformSnapshot, world World) {
	if snapshot.LastProcessedInput < p.lastApplied {
		return
	}
	p.pruneRing(snapshot.LastProcessedInput)

	oldPredicted := p.state.Pos

	p.state.Pos = snapshot.Pos
	p.state.Vel = snapshot.Vel
	p.state.IsInWater = snapshot.IsInWater
	p.state.IsHeadUnderwater = snapshot.IsHeadUnderwater
	p.state.BreathRemaining = snapshot.BreathRemaining
	p.state.WaterDepth = snapshot.WaterDepth
	p.state.IsExhausted = snapshot.IsExhausted

	for _, buffered := range p.ring {
		character.Step(&p.state, buffered.input, p.cfg.TickDt, p.cfg, world.Grid, world.Trees, world.Rocks, world.Blocks)
	}
	p.lastApplied = snapshot.LastProcessedInput

	delta := oldPredicted.Sub(p.state.Pos)
	if delta.Length() > p.cfg.ReconcileSnapThreshold {
		p.visualOffset = mathx.Vec3{}
		p.prev = p.state
		p.renderHeightInit = false
		return
	}
	p.visualOffset = p.visualOffset.Add(delta)
}

// pruneRing drops every buffered input the server has already processed
// (spec §4.11 step 1; spec §4.10 "Cancellation").
func (p *Predictor) pruneRing(lastProcessedInput uint32) {
	i := 0
	for ; i < len(p.ring); i++ {
		if p.ring[i].sequence > lastProcessedInput {
			break
		}
	}
	p.ring = p.ring[i:]
}

// Advance decays the visual error offset (~100 ms half-life) and advances
// the stair-smoothed render height toward the current predicted height:
// falls apply instantly, rises are rate-limited (spec §4.11 "vertical visual
// is asymmetric"). Call once per render frame with that frame's delta time.
func (p *Predictor) Advance(dt float32) {
	decay := math32.Pow(0.5, dt/p.cfg.VisualErrorHalfLifeSecs)
	p.visualOffset = p.visualOffset.Mul(decay)

	targetY := p.state.Pos.Y + p.visualOffset.Y
	switch {
	case !p.renderHeightInit:
		p.renderHeight = targetY
		p.renderHeightInit = true
	case targetY <= p.renderHeight:
		p.renderHeight = targetY
	default:
		maxRise := p.cfg.StairSmoothMaxRiseSpeed * dt
		if targetY-p.renderHeight > maxRise {
			p.renderHeight += maxRise
		} else {
			p.renderHeight = targetY
		}
	}
}

// Render returns the position to draw this frame: the prev/state
// interpolant at alpha (the usual fixed-timestep render blend) plus the
// horizontal visual offset, with the vertical component replaced by the
// stair-smoothed render height from the most recent Advance call.
func (p *Predictor) Render(alpha float32) mathx.Vec3 {
	base := p.prev.Pos.Lerp(p.state.Pos, alpha)
	rendered := base.Add(mathx.Vec3{X: p.visualOffset.X, Z: p.visualOffset.Z})
	rendered.Y = p.renderHeight
	return rendered
}
