// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import "github.com/forgehold/core/sim/mathx"

// Quat is a wire-format quaternion (spec §6 "rot(quat)").
type Quat struct {
	X, Y, Z, W float32
}

// ---- High priority: input and transform snapshot ----

// Input is one buffered client input snapshot (spec §6 "Input").
type Input struct {
	Sequence    uint32
	Forward     int8
	Right       int8
	CameraYaw   float32
	CameraPitch float32
	Jump        bool
	Sprint      bool
	Dive        bool
}

func (Input) outboundMarker()                    {}
func (m Input) Apply(h Handler, senderID uint64) { h.HandleInput(senderID, m) }

// TransformSnapshot is the authoritative per-entity transform broadcast at
// the broadcast cadence (spec §6 "TransformSnapshot"). The water/breath
// fields are optional on the wire (omitted via zero-value json tags) since
// they apply only while the entity is in water.
type TransformSnapshot struct {
	EntityID           uint64
	Pos                mathx.Vec3
	Rot                Quat
	Vel                mathx.Vec3
	HeadPitch          float32
	LastProcessedInput uint32

	IsInWater        bool    `json:"isInWater,omitempty"`
	IsHeadUnderwater bool    `json:"isHeadUnderwater,omitempty"`
	BreathRemaining  float32 `json:"breathRemaining,omitempty"`
	WaterDepth       float32 `json:"waterDepth,omitempty"`
	IsExhausted      bool    `json:"isExhausted,omitempty"`
}

func (TransformSnapshot) outboundMarker() {}

// ---- Low priority, client -> server ----

// Shoot requests a weapon discharge along baseDir from spawnPoint (spec §6
// "Shoot"). currentAccuracy and pellet count are looked up server-side from
// the player's equipped weapon, not trusted from the client.
type Shoot struct {
	BaseDir    mathx.Vec3
	SpawnPoint mathx.Vec3
}

func (Shoot) outboundMarker()                    {}
func (m Shoot) Apply(h Handler, senderID uint64) { h.HandleShoot(senderID, m) }

// Reload requests the equipped weapon reload (spec §6 "Reload").
type Reload struct{}

func (Reload) outboundMarker()                    {}
func (m Reload) Apply(h Handler, senderID uint64) { h.HandleReload(senderID, m) }

// ItemTossLand reports the final landing point of a client-animated weapon
// toss (spec §4.9, §6 "ItemTossLand").
type ItemTossLand struct {
	LandPos mathx.Vec3
}

func (ItemTossLand) outboundMarker() {}
func (m ItemTossLand) Apply(h Handler, senderID uint64) {
	h.HandleItemTossLand(senderID, m)
}

// ItemPickupRequest explicitly requests pickup of a weapon item, the only
// path by which a weapon can ever be acquired (spec §4.9 "Weapon items...
// are picked up only via explicit request"); consumables never use this,
// they're claimed automatically whenever a player is in range and wants
// them.
type ItemPickupRequest struct {
	ItemID uint64
}

func (ItemPickupRequest) outboundMarker() {}
func (m ItemPickupRequest) Apply(h Handler, senderID uint64) {
	h.HandleItemPickupRequest(senderID, m)
}

// LadderPlace requests placement of a climbable ladder prop (spec §6
// "LadderPlace").
type LadderPlace struct {
	Pos  mathx.Vec3
	RotY float32
}

func (LadderPlace) outboundMarker() {}
func (m LadderPlace) Apply(h Handler, senderID uint64) {
	h.HandleLadderPlace(senderID, m)
}

// BuildingCreate allocates a new building workspace (spec §4.8, §6).
type BuildingCreate struct {
	Pos  mathx.Vec3
	RotY float32
}

func (BuildingCreate) outboundMarker() {}
func (m BuildingCreate) Apply(h Handler, senderID uint64) {
	h.HandleBuildingCreate(senderID, m)
}

// BlockPlace requests a single voxel placement (spec §4.8, §6).
type BlockPlace struct {
	BuildingID uint64
	GridX      int32
	GridY      int32
	GridZ      int32
	ColorIndex uint8
}

func (BlockPlace) outboundMarker() {}
func (m BlockPlace) Apply(h Handler, senderID uint64) {
	h.HandleBlockPlace(senderID, m)
}

// BlockRemove requests a single voxel removal (spec §4.8, §6).
type BlockRemove struct {
	BuildingID uint64
	GridX      int32
	GridY      int32
	GridZ      int32
}

func (BlockRemove) outboundMarker() {}
func (m BlockRemove) Apply(h Handler, senderID uint64) {
	h.HandleBlockRemove(senderID, m)
}

// BuildingTransform requests a building move/rotate (spec §4.8, §6).
type BuildingTransform struct {
	BuildingID uint64
	Pos        mathx.Vec3
	RotY       float32
}

func (BuildingTransform) outboundMarker() {}
func (m BuildingTransform) Apply(h Handler, senderID uint64) {
	h.HandleBuildingTransform(senderID, m)
}

// BuildingDestroy requests teardown of an entire building (spec §4.8, §6).
type BuildingDestroy struct {
	BuildingID uint64
}

func (BuildingDestroy) outboundMarker() {}
func (m BuildingDestroy) Apply(h Handler, senderID uint64) {
	h.HandleBuildingDestroy(senderID, m)
}

// ---- Low priority, server -> clients ----

// ProjectileSpawn announces a new authoritative projectile (spec §6).
type ProjectileSpawn struct {
	ProjectileID int64
	OwnerID      uint64
	Pos          mathx.Vec3
	Dir          mathx.Vec3
	Speed        float32
}

func (ProjectileSpawn) outboundMarker() {}

// ProjectileSpawnBatch is the multi-pellet variant of ProjectileSpawn (spec
// §4.6, §6 "ProjectileSpawnBatch").
type ProjectileSpawnBatch struct {
	Spawns []ProjectileSpawn
}

func (ProjectileSpawnBatch) outboundMarker() {}

// ProjectileDestroy announces a projectile's removal, whether from a hit,
// expiry, or world bound (spec §6).
type ProjectileDestroy struct {
	ProjectileID int64
}

func (ProjectileDestroy) outboundMarker() {}

// ItemSpawn announces a new world item (spec §6).
type ItemSpawn struct {
	ItemID uint64
	Kind   uint8
	Pos    mathx.Vec3
}

func (ItemSpawn) outboundMarker() {}

// ItemUpdate is sent only when a tossed item has just settled (spec §4.10
// step 5, §6).
type ItemUpdate struct {
	ItemID uint64
	Pos    mathx.Vec3
}

func (ItemUpdate) outboundMarker() {}

// ItemPickup announces a completed pickup (spec §6).
type ItemPickup struct {
	ItemID   uint64
	PlayerID uint64
}

func (ItemPickup) outboundMarker() {}

// ItemDropSound is a fire-and-forget cue for a weapon drop/land (spec §6).
type ItemDropSound struct {
	Pos mathx.Vec3
}

func (ItemDropSound) outboundMarker() {}

// BuildingCreated acknowledges BuildingCreate (spec §4.8, §6).
type BuildingCreated struct {
	BuildingID uint64
	OwnerID    uint64
	Pos        mathx.Vec3
	RotY       float32
	Size       int32
}

func (BuildingCreated) outboundMarker() {}

// BlockPlaced announces a successful BlockPlace (spec §4.8, §6).
type BlockPlaced struct {
	BuildingID uint64
	GridX      int32
	GridY      int32
	GridZ      int32
	ColorIndex uint8
}

func (BlockPlaced) outboundMarker() {}

// BlockRemoved announces a successful BlockRemove (spec §4.8, §6).
type BlockRemoved struct {
	BuildingID uint64
	GridX      int32
	GridY      int32
	GridZ      int32
}

func (BlockRemoved) outboundMarker() {}

// BuildingTransformed announces a successful BuildingTransform (spec §4.8, §6).
type BuildingTransformed struct {
	BuildingID uint64
	Pos        mathx.Vec3
	RotY       float32
}

func (BuildingTransformed) outboundMarker() {}

// BuildingDestroyed announces a successful BuildingDestroy (spec §4.8, §6).
type BuildingDestroyed struct {
	BuildingID uint64
}

func (BuildingDestroyed) outboundMarker() {}

// BuildingInitialState is the full non-empty cell list sent once per
// building to a newly joined peer (spec §4.8 "Initial snapshot").
type BuildingInitialState struct {
	BuildingID uint64
	OwnerID    uint64
	Pos        mathx.Vec3
	RotY       float32
	Size       int32
	Cells      []BuildingCell
}

func (BuildingInitialState) outboundMarker() {}

// BuildingCell is one non-empty voxel in a BuildingInitialState payload.
type BuildingCell struct {
	GridX      int32
	GridY      int32
	GridZ      int32
	ColorIndex uint8
}

// EntityDamage announces a damage event for client-side hit feedback (spec §6).
type EntityDamage struct {
	EntityID uint64
	Amount   float32
}

func (EntityDamage) outboundMarker() {}

// MaterialsUpdate announces a player's current building-material count
// (spec §6).
type MaterialsUpdate struct {
	PlayerID  uint64
	Materials int32
}

func (MaterialsUpdate) outboundMarker() {}

// BuffApplied announces a buff grant, e.g. from a consumable pickup (spec §6).
type BuffApplied struct {
	PlayerID uint64
	BuffType int32
	Duration float32
}

func (BuffApplied) outboundMarker() {}
