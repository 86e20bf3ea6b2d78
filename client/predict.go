// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package client is the predicting peer's half of spec §4.11: local input
// replay ahead of the authoritative snapshot, reconciliation against that
// snapshot, and interpolation of remote players. It calls the exact same
// sim/character.Step function the server's server/room package calls, so
// predicted and authoritative state only ever
// diverge by the residual the reconciliation step is built to absorb.
package client

import (
	"github.com/forgehold/core/sim/character"
	"github.com/forgehold/core/sim/collider"
	"github.com/forgehold/core/sim/collision"
	"github.com/forgehold/core/sim/config"
	"github.com/forgehold/core/sim/mathx"
	"github.com/forgehold/core/sim/protocol"
	"github.com/forgehold/core/sim/terrain"
)

// bufferedInput is one ring-buffer entry: a sequence-numbered input plus the
// character-facing subset of it, so replay never needs the wire-only
// Sequence field threaded back through character.Step.
type bufferedInput struct {
	sequence uint32
	input    character.Input
}

// World bundles the collision inputs character.Step needs, refreshed by the
// caller each tick/replay from whatever the client currently knows about the
// level (spec §4.12: static colliders) and live buildings (spec §4.4).
type World struct {
	Grid   terrain.Grid
	Trees  []*collider.Tree
	Rocks  []*collider.Mesh
	Blocks []collision.Box
}

// Predictor runs the local player's prediction loop (spec §4.11 "Local
// player"). It is not safe for concurrent use; the client is single-threaded
// within its game loop per spec §5.
type Predictor struct {
	cfg config.Constants

	state character.State
	prev  character.State

	ring    []bufferedInput
	nextSeq uint32

	// lastApplied guards against a snapshot arriving out of order on the
	// unreliable-ordered channel; Reconcile ignores anything older than it.
	lastApplied uint32

	visualOffset     mathx.Vec3
	renderHeight     float32
	renderHeightInit bool
}

// NewPredictor starts prediction from an initial authoritative state.
func NewPredictor(cfg config.Constants, initial character.State) *Predictor {
	return &Predictor{
		cfg:   cfg,
		state: initial,
		prev:  initial,
		ring:  make([]bufferedInput, 0, cfg.InputRingSize),
	}
}

// State returns the current predicted character state (without the visual
// offset applied — see Render for the value actually drawn).
func (p *Predictor) State() character.State { return p.state }

// NextInput assigns the next strictly increasing sequence number to a raw
// input, for the caller to send to the server as protocol.Input (spec §6
// "Input sequence: strictly increasing integer").
func (p *Predictor) NextInput(in character.Input) protocol.Input {
	p.nextSeq++
	return protocol.Input{
		Sequence:    p.nextSeq,
		Forward:     in.Forward,
		Right:       in.Right,
		CameraYaw:   in.CameraYaw,
		CameraPitch: in.CameraPitch,
		Jump:        in.Jump,
		Sprint:      in.Sprint,
		Dive:        in.Dive,
	}
}

// Tick advances prediction by one fixed timestep with the given input
// (spec §4.11 steps a-c): it records prev, appends to the bounded ring
// (evicting the oldest entry on overflow), and runs the canonical step.
func (p *Predictor) Tick(wireInput protocol.Input, world World) {
	in := character.Input{
		Forward:     wireInput.Forward,
		Right:       wireInput.Right,
		CameraYaw:   wireInput.CameraYaw,
		CameraPitch: wireInput.CameraPitch,
		Jump:        wireInput.Jump,
		Sprint:      wireInput.Sprint,
		Dive:        wireInput.Dive,
	}.Clamp()

	p.prev = p.state

	if len(p.ring) >= p.cfg.InputRingSize {
		p.ring = p.ring[1:]
	}
	p.ring = append(p.ring, bufferedInput{sequence: wireInput.Sequence, input: in})

	character.Step(&p.state, in, p.cfg.TickDt, p.cfg, world.Grid, world.Trees, world.Rocks, world.Blocks)
}
