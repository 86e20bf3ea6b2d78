// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"testing"

	"github.com/forgehold/core/sim/character"
	"github.com/forgehold/core/sim/config"
	"github.com/forgehold/core/sim/mathx"
	"github.com/forgehold/core/sim/terrain/terraintest"
)

func testWorld() World {
	return World{Grid: terraintest.FlatGround(32, 32)}
}

func TestPredictorTickBoundsRingToInputRingSize(t *testing.T) {
	cfg := config.Default()
	cfg.InputRingSize = 4

	p := NewPredictor(cfg, character.State{Pos: mathx.Vec3{Y: 5}})
	world := testWorld()

	for i := 0; i < 10; i++ {
		wireInput := p.NextInput(character.Input{})
		p.Tick(wireInput, world)
	}

	if len(p.ring) != cfg.InputRingSize {
		t.Fatalf("ring length = %d, want %d", len(p.ring), cfg.InputRingSize)
	}
	if p.ring[len(p.ring)-1].sequence != 10 {
		t.Fatalf("last buffered sequence = %d, want 10", p.ring[len(p.ring)-1].sequence)
	}
}

func TestPredictorNextInputSequenceIsStrictlyIncreasing(t *testing.T) {
	cfg := config.Default()
	p := NewPredictor(cfg, character.State{})

	var last uint32
	for i := 0; i < 5; i++ {
		wireInput := p.NextInput(character.Input{})
		if wireInput.Sequence <= last {
			t.Fatalf("sequence %d did not increase past %d", wireInput.Sequence, last)
		}
		last = wireInput.Sequence
	}
}
