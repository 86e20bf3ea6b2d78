// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package projectile

// Pairer matches locally-predicted projectile ids to server-authoritative
// ids as they arrive, oldest predicted id first, so that destroying a
// server id can also remove its paired local visual (spec §4.6 "Predicted
// projectiles").
type Pairer struct {
	ownerID uint64
	// pending holds predicted ids (negative) in spawn order, oldest first.
	pending []int64
	// paired maps a server id to the predicted id it replaced.
	paired map[int64]int64
}

// NewPairer constructs a Pairer for one weapon owner.
func NewPairer(ownerID uint64) *Pairer {
	return &Pairer{ownerID: ownerID, paired: make(map[int64]int64)}
}

// TrackPredicted records a newly spawned locally-predicted id, in spawn
// order.
func (p *Pairer) TrackPredicted(predictedID int64) {
	p.pending = append(p.pending, predictedID)
}

// Pair consumes the oldest unpaired predicted id and associates it with
// serverID. Returns the predicted id paired, or 0 if none were pending.
func (p *Pairer) Pair(serverID int64) int64 {
	if len(p.pending) == 0 {
		return 0
	}
	predictedID := p.pending[0]
	p.pending = p.pending[1:]
	p.paired[serverID] = predictedID
	return predictedID
}

// PredictedFor returns the predicted id paired with serverID, if any.
func (p *Pairer) PredictedFor(serverID int64) (int64, bool) {
	id, ok := p.paired[serverID]
	return id, ok
}

// Forget drops the pairing for a destroyed server id.
func (p *Pairer) Forget(serverID int64) {
	delete(p.paired, serverID)
}
