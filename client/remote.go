// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"github.com/forgehold/core/sim/config"
	"github.com/forgehold/core/sim/mathx"
	"github.com/forgehold/core/sim/protocol"
)

// remoteSnapThreshold bounds how far a remote player can have moved between
// two snapshots before interpolation gives up and teleports straight to the
// new target, rather than visibly sliding across the map (spec §4.11
// "large deltas snap").
const remoteSnapThreshold = 16

// Remote interpolates one other player's transform between the last two
// received snapshots over a fixed window (spec §4.11 "Remote players").
type Remote struct {
	cfg config.Constants

	prevPos, targetPos mathx.Vec3
	prevRot, targetRot protocol.Quat
	headPitch          float32

	elapsed float32
}

// NewRemote seeds a Remote with its first known transform; there is nothing
// to interpolate from until a second snapshot arrives.
func NewRemote(cfg config.Constants, snapshot protocol.TransformSnapshot) *Remote {
	return &Remote{
		cfg:       cfg,
		prevPos:   snapshot.Pos,
		targetPos: snapshot.Pos,
		prevRot:   snapshot.Rot,
		targetRot: snapshot.Rot,
		headPitch: snapshot.HeadPitch,
	}
}

// OnSnapshot starts a new interpolation window from wherever the remote
// currently renders toward the freshly received transform. A delta larger
// than remoteSnapThreshold snaps instead of gliding across it.
func (r *Remote) OnSnapshot(snapshot protocol.TransformSnapshot) {
	current, _ := r.Sample()
	if current.Distance(snapshot.Pos) > remoteSnapThreshold {
		r.prevPos = snapshot.Pos
	} else {
		r.prevPos = current
	}
	r.targetPos = snapshot.Pos
	r.prevRot = r.currentRot()
	r.targetRot = snapshot.Rot
	r.headPitch = snapshot.HeadPitch
	r.elapsed = 0
}

// Advance moves the interpolation window forward by dt.
func (r *Remote) Advance(dt float32) {
	r.elapsed += dt
}

// Sample returns the interpolated position and rotation for the current
// point in the window (spec §4.11 "vec lerp... quat slerp... over a 50 ms
// window").
func (r *Remote) Sample() (mathx.Vec3, protocol.Quat) {
	t := r.progress()
	return r.prevPos.Lerp(r.targetPos, t), r.prevRot.Slerp(r.targetRot, t)
}

// HeadPitch returns the most recently received head pitch; it is tracked
// directly rather than interpolated (spec §4.11 "Head pitch tracked
// directly").
func (r *Remote) HeadPitch() float32 { return r.headPitch }

func (r *Remote) currentRot() protocol.Quat {
	_, rot := r.Sample()
	return rot
}

func (r *Remote) progress() float32 {
	window := r.cfg.RemoteInterpWindowSecs
	if window <= 0 {
		return 1
	}
	t := r.elapsed / window
	if t > 1 {
		return 1
	}
	if t < 0 {
		return 0
	}
	return t
}
