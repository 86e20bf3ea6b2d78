// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package room

import (
	"github.com/forgehold/core/sim/building"
	"github.com/forgehold/core/sim/item"
	"github.com/forgehold/core/sim/projectile"
	"github.com/forgehold/core/sim/protocol"
)

// The Handle* methods below satisfy protocol.Handler; each is dispatched to
// from the matching Inbound's Apply (spec §4.10 step 1).

// HandleInput buffers the latest client input for the next tick. Only the
// most recent input per player survives between ticks, the way the
// authoritative simulation only ever needs the current frame's input (spec
// §4.5, §6 "Input").
func (r *Room) HandleInput(senderID uint64, msg protocol.Input) {
	ps, ok := r.players[senderID]
	if !ok {
		return
	}
	ps.pendingInput = msg
	ps.hasPendingInput = true
}

// HandleShoot spawns an authoritative projectile along the requested
// direction, using the sender's equipped weapon's accuracy/pellet count
// looked up server-side rather than trusted from the client (spec §6
// "Shoot").
func (r *Room) HandleShoot(senderID uint64, msg protocol.Shoot) {
	ps, ok := r.players[senderID]
	if !ok {
		return
	}
	weapon := ps.peer.Data().Weapon
	if !weapon.Equipped || weapon.Ammo <= 0 {
		return
	}
	weapon.Ammo--
	ps.peer.Data().Weapon = weapon

	pellets := weapon.PelletCount
	if pellets < 1 {
		pellets = 1
	}
	const muzzleSpeed = 80
	spawns := make([]protocol.ProjectileSpawn, 0, pellets)
	for i := 0; i < pellets; i++ {
		dir := projectile.Spread(r.rng, msg.BaseDir, weapon.Accuracy)
		r.nextProjectileID++
		id := r.nextProjectileID
		p := projectile.New(id, senderID, msg.SpawnPoint, dir, muzzleSpeed, r.cfg.ProjectileLifetimeSecs, r.cfg.DefaultProjectileGravityStartDist)
		r.projectiles[id] = p
		spawns = append(spawns, protocol.ProjectileSpawn{
			ProjectileID: id,
			OwnerID:      senderID,
			Pos:          p.Pos,
			Dir:          dir,
			Speed:        muzzleSpeed,
		})
	}
	if len(spawns) == 1 {
		r.broadcastToAll(spawns[0])
	} else {
		r.broadcastToAll(protocol.ProjectileSpawnBatch{Spawns: spawns})
	}
}

// HandleReload refills the sender's equipped weapon to its magazine size
// (spec §6 "Reload"). Reload timing/animation is entirely client-side; the
// server only needs the final ammo count.
func (r *Room) HandleReload(senderID uint64, _ protocol.Reload) {
	ps, ok := r.players[senderID]
	if !ok {
		return
	}
	weapon := ps.peer.Data().Weapon
	weapon.Ammo = weapon.AmmoMax
	ps.peer.Data().Weapon = weapon
}

// HandleItemTossLand spawns a weapon item at the client-reported landing
// point; the toss's arc itself is never simulated server-side (spec §4.9
// "toss animates visually and the server receives the final land
// coordinates").
func (r *Room) HandleItemTossLand(senderID uint64, msg protocol.ItemTossLand) {
	it := r.items.TossWeapon(msg.LandPos)
	r.broadcastToAll(protocol.ItemSpawn{ItemID: it.ID, Kind: uint8(it.Kind), Pos: it.Pos})
	r.broadcastToAll(protocol.ItemDropSound{Pos: msg.LandPos})
}

// HandleItemPickupRequest is the only path by which a weapon item can be
// picked up (spec §4.9): unlike consumables, weapons never auto-pick even
// when the requester is unarmed and in range.
func (r *Room) HandleItemPickupRequest(senderID uint64, msg protocol.ItemPickupRequest) {
	ps, ok := r.players[senderID]
	if !ok {
		return
	}
	needs := item.PlayerNeeds{HasWeapon: ps.peer.Data().Weapon.Equipped}
	picked, ok := r.items.TryPickup(msg.ItemID, needs, true)
	if !ok {
		return
	}
	r.broadcastToAll(protocol.ItemPickup{ItemID: picked.ID, PlayerID: senderID})
}

// HandleLadderPlace is currently an acknowledged no-op: ladders are a
// client-visible prop with no effect on the authoritative collision set
// this package resolves against (spec §6 "LadderPlace").
func (r *Room) HandleLadderPlace(senderID uint64, msg protocol.LadderPlace) {}

// HandleBuildingCreate allocates a new building workspace owned by the
// sender and announces it to every peer (spec §4.8 "BuildingCreate"). A
// fresh building has no cells yet, so no BuildingInitialState is needed
// here; that snapshot only matters for peers joining after cells exist
// (sendInitialBuildings, run on Register).
func (r *Room) HandleBuildingCreate(senderID uint64, msg protocol.BuildingCreate) {
	r.nextBuildingID++
	id := r.nextBuildingID
	b := building.New(id, senderID, msg.Pos, msg.RotY, r.cfg)
	r.buildings[id] = b

	r.broadcastToAll(protocol.BuildingCreated{
		BuildingID: id,
		OwnerID:    senderID,
		Pos:        b.Pos,
		RotY:       b.RotY,
		Size:       int32(r.cfg.BuildingGridSize),
	})
}

// HandleBlockPlace spends one unit of the sender's materials to place a
// voxel, provided the sender owns the building (spec §4.8 "BlockPlace").
func (r *Room) HandleBlockPlace(senderID uint64, msg protocol.BlockPlace) {
	b, ok := r.buildings[msg.BuildingID]
	if !ok {
		return
	}
	ps, ok := r.players[senderID]
	if !ok {
		return
	}
	materials := int(ps.peer.Data().Materials)
	if !b.PlaceBlock(r.cfg, int(msg.GridX), int(msg.GridY), int(msg.GridZ), msg.ColorIndex, senderID, &materials) {
		return
	}
	ps.peer.Data().Materials = int32(materials)

	r.broadcastToAll(protocol.BlockPlaced{
		BuildingID: msg.BuildingID,
		GridX:      msg.GridX,
		GridY:      msg.GridY,
		GridZ:      msg.GridZ,
		ColorIndex: msg.ColorIndex,
	})
	r.broadcastToAll(protocol.MaterialsUpdate{PlayerID: senderID, Materials: ps.peer.Data().Materials})
}

// HandleBlockRemove refunds one unit of materials (clamped to
// cfg.MaxMaterials) for removing a voxel the sender owns (spec §4.8
// "BlockRemove").
func (r *Room) HandleBlockRemove(senderID uint64, msg protocol.BlockRemove) {
	b, ok := r.buildings[msg.BuildingID]
	if !ok {
		return
	}
	ps, ok := r.players[senderID]
	if !ok {
		return
	}
	materials := int(ps.peer.Data().Materials)
	if !b.RemoveBlock(int(msg.GridX), int(msg.GridY), int(msg.GridZ), senderID, &materials, int(r.cfg.MaxMaterials)) {
		return
	}
	ps.peer.Data().Materials = int32(materials)

	r.broadcastToAll(protocol.BlockRemoved{
		BuildingID: msg.BuildingID,
		GridX:      msg.GridX,
		GridY:      msg.GridY,
		GridZ:      msg.GridZ,
	})
	r.broadcastToAll(protocol.MaterialsUpdate{PlayerID: senderID, Materials: ps.peer.Data().Materials})
}

// HandleBuildingTransform moves/rotates a building the sender owns,
// rebuilding its collider cache in place (spec §4.8 "BuildingTransform").
func (r *Room) HandleBuildingTransform(senderID uint64, msg protocol.BuildingTransform) {
	b, ok := r.buildings[msg.BuildingID]
	if !ok || b.OwnerID != senderID {
		return
	}
	b.Transform(r.cfg, msg.Pos, msg.RotY)
	r.broadcastToAll(protocol.BuildingTransformed{BuildingID: msg.BuildingID, Pos: b.Pos, RotY: b.RotY})
}

// HandleBuildingDestroy tears down a building the sender owns, refunding one
// material per non-empty cell up to cfg.MaxMaterials (spec §4.8
// "BuildingDestroy").
func (r *Room) HandleBuildingDestroy(senderID uint64, msg protocol.BuildingDestroy) {
	b, ok := r.buildings[msg.BuildingID]
	if !ok || b.OwnerID != senderID {
		return
	}
	refund := b.Destroy()
	delete(r.buildings, msg.BuildingID)

	if ps, ok := r.players[senderID]; ok {
		materials := ps.peer.Data().Materials + int32(refund)
		if materials > r.cfg.MaxMaterials {
			materials = r.cfg.MaxMaterials
		}
		ps.peer.Data().Materials = materials
		r.broadcastToAll(protocol.MaterialsUpdate{PlayerID: senderID, Materials: materials})
	}
	r.broadcastToAll(protocol.BuildingDestroyed{BuildingID: msg.BuildingID})
}
