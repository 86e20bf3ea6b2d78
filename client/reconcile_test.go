// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"testing"

	"github.com/forgehold/core/sim/character"
	"github.com/forgehold/core/sim/config"
	"github.com/forgehold/core/sim/mathx"
	"github.com/forgehold/core/sim/protocol"
)

func TestReconcileSmallDeltaAccumulatesVisualOffset(t *testing.T) {
	cfg := config.Default()
	p := NewPredictor(cfg, character.State{Pos: mathx.Vec3{X: 1, Y: 5, Z: 0}})
	world := testWorld()

	snapshot := protocol.TransformSnapshot{
		Pos:                mathx.Vec3{X: 1.003, Y: 5, Z: 0},
		LastProcessedInput: 0,
	}
	p.Reconcile(snapshot, world)

	if p.state.Pos != snapshot.Pos {
		t.Fatalf("position = %+v, want snapshot position %+v", p.state.Pos, snapshot.Pos)
	}
	if p.visualOffset.Length() == 0 {
		t.Fatal("expected a nonzero visual offset to absorb the small delta")
	}

	for elapsed := float32(0); elapsed < 0.5; elapsed += 0.05 {
		p.Advance(0.05)
	}
	if p.visualOffset.Length() >= 0.001 {
		t.Fatalf("visual offset did not decay below 1mm within 500ms: %v", p.visualOffset.Length())
	}
}

func TestReconcileLargeDeltaHardSnaps(t *testing.T) {
	cfg := config.Default()
	p := NewPredictor(cfg, character.State{Pos: mathx.Vec3{X: 0, Y: 0, Z: 0}})
	p.visualOffset = mathx.Vec3{X: 1}
	world := testWorld()

	snapshot := protocol.TransformSnapshot{
		Pos:                mathx.Vec3{X: 100, Y: 0, Z: 0},
		LastProcessedInput: 0,
	}
	p.Reconcile(snapshot, world)

	if p.visualOffset != (mathx.Vec3{}) {
		t.Fatalf("expected visual offset to be zeroed on hard snap, got %+v", p.visualOffset)
	}
	if p.prev.Pos != p.state.Pos {
		t.Fatalf("expected prev to be reset to the snapped state")
	}
}

func TestReconcilePrunesAcknowledgedInputs(t *testing.T) {
	cfg := config.Default()
	p := NewPredictor(cfg, character.State{})
	world := testWorld()

	for i := 0; i < 5; i++ {
		wireInput := p.NextInput(character.Input{})
		p.Tick(wireInput, world)
	}
	if len(p.ring) != 5 {
		t.Fatalf("ring length before reconcile = %d, want 5", len(p.ring))
	}

	p.Reconcile(protocol.TransformSnapshot{LastProcessedInput: 3}, world)

	if len(p.ring) != 2 {
		t.Fatalf("ring length after reconcile = %d, want 2", len(p.ring))
	}
	for _, buffered := range p.ring {
		if buffered.sequence <= 3 {
			t.Fatalf("ring retained already-acknowledged sequence %d", buffered.sequence)
		}
	}
}

func TestReconcileIgnoresOutOfOrderSnapshot(t *testing.T) {
	cfg := config.Default()
	p := NewPredictor(cfg, character.State{Pos: mathx.Vec3{X: 1, Y: 5, Z: 0}})
	world := testWorld()

	p.Reconcile(protocol.TransformSnapshot{Pos: mathx.Vec3{X: 9, Y: 9, Z: 9}, LastProcessedInput: 5}, world)
	if p.state.Pos.X != 9 {
		t.Fatalf("newer snapshot was not applied: X = %v", p.state.Pos.X)
	}

	p.Reconcile(protocol.TransformSnapshot{Pos: mathx.Vec3{X: 1, Y: 1, Z: 1}, LastProcessedInput: 2}, world)
	if p.state.Pos.X != 9 {
		t.Fatalf("stale out-of-order snapshot was applied: X = %v, want unchanged 9", p.state.Pos.X)
	}
}
