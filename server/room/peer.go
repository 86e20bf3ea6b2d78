// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package room is the authoritative tick-and-broadcast loop (spec §4.10),
// adapted from server/hub.go's single-threaded, channel-driven Hub into one
// that drives sim/character, sim/projectile, sim/building and sim/item
// instead of mk48's boat/torpedo simulation.
package room

import "github.com/forgehold/core/sim/protocol"

// Peer is one connected player's transport-facing handle, analogous to
// server/client.go's Client interface.
type Peer interface {
	ID() uint64
	Send(priority protocol.Priority, out protocol.Outbound)
	Close()
	Data() *PeerData
}

// PeerData links a Peer into the room's doubly-linked peer list, the same
// way server/client.go's ClientData does for Hub.
type PeerData struct {
	Materials int32
	Weapon    WeaponState

	Previous Peer
	Next     Peer
}

// WeaponState is the subset of a player's equipped weapon the room needs to
// resolve Shoot/Reload without owning the full inventory model.
type WeaponState struct {
	Equipped      bool
	Ammo, AmmoMax int32
	PelletCount   int
	Accuracy      float32
}

// PeerList is a doubly-linked list of Peers, grounded on
// server/client.go's ClientList.
type PeerList struct {
	First, Last Peer
	Len         int
}

func (list *PeerList) Add(p Peer) {
	data := p.Data()
	if list.First == nil {
		list.First = p
	} else {
		list.Last.Data().Next = p
		data.Previous = list.Last
	}
	list.Last = p
	list.Len++
}

func (list *PeerList) Remove(p Peer) Peer {
	data := p.Data()
	if data.Previous != nil {
		data.Previous.Data().Next = data.Next
	} else if list.First == p {
		list.First = data.Next
	}
	if data.Next != nil {
		data.Next.Data().Previous = data.Previous
	} else if list.Last == p {
		list.Last = data.Previous
	}
	list.Len--
	next := data.Next
	data.Next, data.Previous = nil, nil
	return next
}
