// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"testing"

	"github.com/forgehold/core/sim/config"
	"github.com/forgehold/core/sim/mathx"
	"github.com/forgehold/core/sim/protocol"
)

func TestRemoteSampleInterpolatesOverWindow(t *testing.T) {
	cfg := config.Default()
	r := NewRemote(cfg, protocol.TransformSnapshot{Pos: mathx.Vec3{X: 0}})
	r.OnSnapshot(protocol.TransformSnapshot{Pos: mathx.Vec3{X: 10}})

	r.Advance(cfg.RemoteInterpWindowSecs / 2)
	mid, _ := r.Sample()
	if mid.X <= 0 || mid.X >= 10 {
		t.Fatalf("midpoint X = %v, want strictly between 0 and 10", mid.X)
	}

	r.Advance(cfg.RemoteInterpWindowSecs)
	end, _ := r.Sample()
	if end.X != 10 {
		t.Fatalf("end X = %v, want 10 after the window elapses", end.X)
	}
}

func TestRemoteOnSnapshotSnapsBeyondThreshold(t *testing.T) {
	cfg := config.Default()
	r := NewRemote(cfg, protocol.TransformSnapshot{Pos: mathx.Vec3{X: 0}})
	r.Advance(cfg.RemoteInterpWindowSecs)

	r.OnSnapshot(protocol.TransformSnapshot{Pos: mathx.Vec3{X: 1000}})

	pos, _ := r.Sample()
	if pos.X != 1000 {
		t.Fatalf("expected a hard snap to the new position immediately, got X = %v", pos.X)
	}
}

func TestRemoteHeadPitchTracksDirectly(t *testing.T) {
	cfg := config.Default()
	r := NewRemote(cfg, protocol.TransformSnapshot{HeadPitch: 0.1})
	r.OnSnapshot(protocol.TransformSnapshot{HeadPitch: 0.9})

	if r.HeadPitch() != 0.9 {
		t.Fatalf("HeadPitch() = %v, want 0.9", r.HeadPitch())
	}
}
