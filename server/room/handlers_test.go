// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package room

import (
	"testing"

	"github.com/forgehold/core/sim/character"
	"github.com/forgehold/core/sim/config"
	"github.com/forgehold/core/sim/item"
	"github.com/forgehold/core/sim/mathx"
	"github.com/forgehold/core/sim/protocol"
	"github.com/forgehold/core/sim/terrain/terraintest"
)

type stubPeer struct {
	id   uint64
	data PeerData
	sent []protocol.Outbound
}

func (p *stubPeer) ID() uint64 { return p.id }
func (p *stubPeer) Send(_ protocol.Priority, out protocol.Outbound) {
	p.sent = append(p.sent, out)
}
func (p *stubPeer) Close()          {}
func (p *stubPeer) Data() *PeerData { return &p.data }

func newTestRoom() *Room {
	cfg := config.Default()
	return New(cfg, terraintest.FlatGround(32, 32), nil, nil)
}

// TestHandleItemPickupRequestClaimsUnarmedWeapon exercises the only path by
// which a weapon item can be picked up (spec §4.9): an explicit request from
// an unarmed player.
func TestHandleItemPickupRequestClaimsUnarmedWeapon(t *testing.T) {
	r := newTestRoom()
	peer := &stubPeer{id: 1}
	r.peers.Add(peer)
	r.players[peer.id] = &playerState{peer: peer}

	it := r.items.Spawn(item.KindWeapon, mathx.Vec3{}, 0, 0, false)

	r.HandleItemPickupRequest(peer.id, protocol.ItemPickupRequest{ItemID: it.ID})

	if _, ok := r.items.Item(it.ID); ok {
		t.Fatal("expected the weapon item to be removed from the world after pickup")
	}
	if len(peer.sent) != 1 {
		t.Fatalf("expected exactly one broadcast message, got %d", len(peer.sent))
	}
	pickup, ok := peer.sent[0].(protocol.ItemPickup)
	if !ok || pickup.ItemID != it.ID || pickup.PlayerID != peer.id {
		t.Fatalf("expected ItemPickup{ItemID: %d, PlayerID: %d}, got %+v", it.ID, peer.id, peer.sent[0])
	}
}

// TestHandleItemPickupRequestRejectsAlreadyArmedPlayer mirrors
// WantsExplicitWeaponPickup's guard: a player already carrying a weapon
// cannot pick up a second one.
func TestHandleItemPickupRequestRejectsAlreadyArmedPlayer(t *testing.T) {
	r := newTestRoom()
	peer := &stubPeer{id: 1}
	peer.data.Weapon.Equipped = true
	r.peers.Add(peer)
	r.players[peer.id] = &playerState{peer: peer}

	it := r.items.Spawn(item.KindWeapon, mathx.Vec3{}, 0, 0, false)

	r.HandleItemPickupRequest(peer.id, protocol.ItemPickupRequest{ItemID: it.ID})

	if _, ok := r.items.Item(it.ID); !ok {
		t.Fatal("expected the weapon item to remain in the world")
	}
	if len(peer.sent) != 0 {
		t.Fatalf("expected no broadcast, got %+v", peer.sent)
	}
}

// TestProcessPickupsNeverAutoClaimsWeapons pins down the flip side of the
// explicit-request requirement: the per-tick proximity loop must never hand
// a weapon to a player just for standing near it.
func TestProcessPickupsNeverAutoClaimsWeapons(t *testing.T) {
	r := newTestRoom()
	peer := &stubPeer{id: 1}
	r.peers.Add(peer)
	r.players[peer.id] = &playerState{peer: peer, char: character.State{}}

	it := r.items.Spawn(item.KindWeapon, mathx.Vec3{}, 0, 0, false)

	r.processPickups()

	if _, ok := r.items.Item(it.ID); !ok {
		t.Fatal("expected the weapon item to remain unclaimed after a proximity-only pass")
	}
}
