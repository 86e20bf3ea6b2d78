// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package room

import (
	"runtime"
	"sync"
	"time"

	"github.com/forgehold/core/sim/building"
	"github.com/forgehold/core/sim/character"
	"github.com/forgehold/core/sim/collider"
	"github.com/forgehold/core/sim/collision"
	"github.com/forgehold/core/sim/config"
	"github.com/forgehold/core/sim/ecs"
	"github.com/forgehold/core/sim/item"
	"github.com/forgehold/core/sim/mathx"
	"github.com/forgehold/core/sim/octree"
	"github.com/forgehold/core/sim/projectile"
	"github.com/forgehold/core/sim/protocol"
	"github.com/forgehold/core/sim/terrain"
	"github.com/forgehold/core/server/telemetry"
)

const (
	// maintenancePeriod drives respawns, octree refresh, and metric gauge
	// updates, renamed from server/hub.go's leaderboardTicker but keeping
	// the same once-a-second cadence.
	maintenancePeriod = time.Second
	debugPeriod        = time.Second * 5
)

// signedInbound pairs a decoded message with the sender that sent it,
// mirroring server/message.go's SignedInbound.
type signedInbound struct {
	peer Peer
	msg  protocol.Inbound
}

// playerState is everything the room tracks per connected player.
type playerState struct {
	peer   Peer
	entity ecs.ID
	char   character.State

	pendingInput       protocol.Input
	hasPendingInput    bool
	lastProcessedInput uint32
}

// Room is the authoritative simulation for one game instance. Scheduling is
// cooperative and single-threaded (spec §5): every mutation to ecs, octree,
// buildings and items happens on the run() goroutine.
type Room struct {
	cfg   config.Constants
	world *ecs.World
	grid  terrain.Grid
	trees []*collider.Tree
	rocks []*collider.Mesh

	tree *octree.Octree

	players map[uint64]*playerState
	peers   PeerList

	buildings      map[uint64]*building.Building
	nextBuildingID uint64

	items *item.Manager

	projectiles      map[int64]*projectile.Projectile
	nextProjectileID int64
	rng              *mathx.Rng

	inbound    chan signedInbound
	register   chan Peer
	unregister chan Peer

	updateTicker      *time.Ticker
	broadcastTicker   *time.Ticker
	maintenanceTicker *time.Ticker
	debugTicker       *time.Ticker
	lastUpdate        time.Time

	// onDebug, if set, runs on the debugTicker cadence with the room's
	// current scale, mirroring server/hub.go's Hub.Debug console dump
	// without this package owning any logging/formatting concerns itself.
	onDebug func(Stats)

	stop chan struct{}
}

// New constructs an empty Room over the given (already generated, frozen)
// terrain grid and static colliders (spec §4.12).
func New(cfg config.Constants, grid terrain.Grid, trees []*collider.Tree, rocks []*collider.Mesh) *Room {
	r := &Room{
		cfg:               cfg,
		world:             ecs.NewWorld(),
		grid:              grid,
		trees:             trees,
		rocks:             rocks,
		tree:              octree.New(mathx.Vec3{X: -cfg.WorldBoundXZ, Y: -100, Z: -cfg.WorldBoundXZ}, mathx.Vec3{X: cfg.WorldBoundXZ, Y: 100, Z: cfg.WorldBoundXZ}, cfg.OctreeMaxDepth, cfg.OctreeMaxEntries),
		players:           make(map[uint64]*playerState),
		buildings:         make(map[uint64]*building.Building),
		items:             item.NewManager(cfg),
		projectiles:       make(map[int64]*projectile.Projectile),
		rng:               mathx.NewRng("room-pellet-spread"),
		inbound:           make(chan signedInbound, 256),
		register:          make(chan Peer, 16),
		unregister:        make(chan Peer, 16),
		updateTicker:      time.NewTicker(time.Duration(cfg.TickDt * float32(time.Second))),
		broadcastTicker:   time.NewTicker(time.Duration(1.0 / cfg.BroadcastRate * float32(time.Second))),
		maintenanceTicker: time.NewTicker(maintenancePeriod),
		debugTicker:       time.NewTicker(debugPeriod),
		lastUpdate:        time.Now(),
		stop:              make(chan struct{}),
	}
	r.refreshOctree()
	return r
}

// Stop halts the run loop.
func (r *Room) Stop() { close(r.stop) }

// OnDebug installs a callback invoked once per debugPeriod with the room's
// current scale, for periodic logging (spec §4.13 ambient observability).
func (r *Room) OnDebug(fn func(Stats)) { r.onDebug = fn }

// PeerCount returns the number of currently connected peers.
func (r *Room) PeerCount() int { return r.peers.Len }

// Enqueue hands a decoded inbound message to the room's single tick
// goroutine, the way Hub.inbound does.
func (r *Room) Enqueue(peer Peer, msg protocol.Inbound) {
	r.inbound <- signedInbound{peer: peer, msg: msg}
}

// Register and Unregister add/remove a connected peer, mirroring
// server/hub.go's register/unregister channels.
func (r *Room) Register(p Peer)   { r.register <- p }
func (r *Room) Unregister(p Peer) { r.unregister <- p }

// Run drives the fixed-timestep loop until Stop is called. It is meant to
// be the body of its own goroutine.
func (r *Room) Run() {
	for {
		select {
		case <-r.stop:
			return
		case p := <-r.register:
			r.peers.Add(p)
			id := r.world.CreateEntity()
			r.players[p.ID()] = &playerState{peer: p, entity: id, char: character.State{}}
			r.sendInitialBuildings(p)
		case p := <-r.unregister:
			r.peers.Remove(p)
			if ps, ok := r.players[p.ID()]; ok {
				r.world.DestroyEntity(ps.entity)
				delete(r.players, p.ID())
			}
			p.Close()
		case in := <-r.inbound:
			// Drain everything currently queued before yielding, the way
			// Hub.run drains len(h.inbound) messages per iteration.
			n := len(r.inbound)
			for {
				r.dispatch(in)
				if n <= 0 {
					break
				}
				n--
				in = <-r.inbound
			}
		case now := <-r.updateTicker.C:
			dt := now.Sub(r.lastUpdate)
			r.lastUpdate = now
			// Falling behind: skip this tick rather than take an
			// oversized step, per server/hub.go's kludge-factor guard.
			if dt > time.Duration(float32(time.Second)/r.cfg.TickRate)*5 {
				telemetry.RecordTickSkipped()
				continue
			}
			tickStart := time.Now()
			r.tick()
			telemetry.ObserveTick(time.Since(tickStart))
		case <-r.broadcastTicker.C:
			broadcastStart := time.Now()
			r.broadcast()
			telemetry.ObserveBroadcast(time.Since(broadcastStart))
		case <-r.maintenanceTicker.C:
			r.maintain()
		case <-r.debugTicker.C:
			if r.onDebug != nil {
				r.onDebug(r.Stats())
			}
		}
	}
}

func (r *Room) dispatch(in signedInbound) {
	in.msg.Apply(r, in.peer.ID())
}

// sendInitialBuildings snapshots every live building's full cell contents
// to a newly joined peer (spec §4.8 "Initial snapshot for new peers").
func (r *Room) sendInitialBuildings(p Peer) {
	for id, b := range r.buildings {
		cells := b.NonEmptyCells()
		wireCells := make([]protocol.BuildingCell, len(cells))
		for i, c := range cells {
			wireCells[i] = protocol.BuildingCell{
				GridX:      int32(c.GridX),
				GridY:      int32(c.GridY),
				GridZ:      int32(c.GridZ),
				ColorIndex: c.ColorIndex,
			}
		}
		p.Send(protocol.Low, protocol.BuildingInitialState{
			BuildingID: id,
			OwnerID:    b.OwnerID,
			Pos:        b.Pos,
			RotY:       b.RotY,
			Size:       int32(r.cfg.BuildingGridSize),
			Cells:      wireCells,
		})
	}
}

// tick runs one fixed timestep in the order mandated by spec §4.10's
// ordering guarantee: character sim -> projectile sim -> item pickup.
func (r *Room) tick() {
	blocks := r.allBuildingColliders()
	r.stepCharactersParallel(blocks)
	r.stepProjectiles()
	r.processPickups()
}

// stepCharactersParallel fans the per-player character update out across
// runtime.NumCPU() worker goroutines, mirroring server/physics.go's
// Hub.Physics: r.world.SetParallel(true) brackets the pass so any stray
// ecs.World write panics instead of racing, each worker only ever touches
// the disjoint slice of *playerState it was handed, and the world is
// flipped back to single-threaded before stepProjectiles/processPickups run
// (spec §5 "the tick loop's goroutine-per-CPU fan-out for the
// character/projectile update pass").
func (r *Room) stepCharactersParallel(blocks []collision.Box) {
	all := make([]*playerState, 0, len(r.players))
	for _, ps := range r.players {
		all = append(all, ps)
	}

	workers := runtime.NumCPU()
	if workers > len(all) {
		workers = len(all)
	}
	if workers <= 1 {
		for _, ps := range all {
			r.stepOneCharacter(ps, blocks)
		}
		return
	}

	if !r.world.SetParallel(true) {
		// A ForEntities iteration is somehow in progress; fall back to
		// sequential rather than race.
		for _, ps := range all {
			r.stepOneCharacter(ps, blocks)
		}
		return
	}

	var wg sync.WaitGroup
	chunk := (len(all) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(all) {
			break
		}
		end := start + chunk
		if end > len(all) {
			end = len(all)
		}
		wg.Add(1)
		go func(slice []*playerState) {
			defer wg.Done()
			for _, ps := range slice {
				r.stepOneCharacter(ps, blocks)
			}
		}(all[start:end])
	}
	wg.Wait()
	r.world.SetParallel(false)
}

// stepOneCharacter advances a single player's character state. Each
// playerState is only ever handed to one worker per tick, so the mutations
// here never race with another goroutine's.
func (r *Room) stepOneCharacter(ps *playerState, blocks []collision.Box) {
	input := toCharacterInput(ps.pendingInput)
	character.Step(&ps.char, input.Clamp(), r.cfg.TickDt, r.cfg, r.grid, r.trees, r.rocks, blocks)
	if ps.hasPendingInput {
		ps.lastProcessedInput = ps.pendingInput.Sequence
	}
}

// toCharacterInput strips the wire-only Sequence field off a protocol.Input,
// since character.Step only cares about the movement fields (spec §6
// "Input" carries Sequence purely for client reconciliation bookkeeping).
func toCharacterInput(in protocol.Input) character.Input {
	return character.Input{
		Forward:     in.Forward,
		Right:       in.Right,
		CameraYaw:   in.CameraYaw,
		CameraPitch: in.CameraPitch,
		Jump:        in.Jump,
		Sprint:      in.Sprint,
		Dive:        in.Dive,
	}
}

// projectileOutcome is what a worker reports back about one projectile it
// stepped; the room only mutates r.projectiles and broadcasts afterward, on
// the calling goroutine, the way Hub.Physics drains boatOutput/sculptOutput
// single-threaded after its parallel pass completes.
type projectileOutcome struct {
	id      int64
	hit     *projectile.Hit
	expired bool
}

// stepProjectiles advances every in-flight projectile across
// runtime.NumCPU() workers (spec §5), each assigned a disjoint slice of
// r.projectiles so no *projectile.Projectile is ever touched by more than
// one goroutine. Workers only read r.players/targets and write to their own
// slice entries; the channel-collected outcomes are applied (map deletion,
// broadcast) single-threaded once every worker has finished.
func (r *Room) stepProjectiles() {
	targets := make([]projectile.Target, 0, len(r.players))
	for id, ps := range r.players {
		targets = append(targets, projectile.Target{PlayerID: id, BodyCenter: ps.char.Pos})
	}

	type entry struct {
		id int64
		p  *projectile.Projectile
	}
	entries := make([]entry, 0, len(r.projectiles))
	for id, p := range r.projectiles {
		entries = append(entries, entry{id: id, p: p})
	}
	if len(entries) == 0 {
		return
	}

	workers := runtime.NumCPU()
	if workers > len(entries) {
		workers = len(entries)
	}

	outcomes := make(chan projectileOutcome, len(entries))
	var wg sync.WaitGroup
	chunk := (len(entries) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(entries) {
			break
		}
		end := start + chunk
		if end > len(entries) {
			end = len(entries)
		}
		wg.Add(1)
		go func(slice []entry) {
			defer wg.Done()
			for _, e := range slice {
				hit, expired := projectile.Step(e.p, r.cfg.TickDt, r.cfg, targets)
				if hit != nil || expired {
					outcomes <- projectileOutcome{id: e.id, hit: hit, expired: expired}
				}
			}
		}(entries[start:end])
	}

	var collected []projectileOutcome
	collectDone := make(chan struct{})
	go func() {
		for outcome := range outcomes {
			collected = append(collected, outcome)
		}
		close(collectDone)
	}()

	wg.Wait()
	close(outcomes)
	<-collectDone

	for _, outcome := range collected {
		if outcome.hit != nil {
			// Damage amount is a weapon/armor property this package doesn't
			// own; the room only reports that a hit occurred.
			r.broadcastToAll(protocol.EntityDamage{EntityID: outcome.hit.PlayerID, Amount: 0})
		}
		delete(r.projectiles, outcome.id)
		r.broadcastToAll(protocol.ProjectileDestroy{ProjectileID: outcome.id})
	}
}

func (r *Room) processPickups() {
	r.items.BeginTick()
	for playerID, ps := range r.players {
		needs := item.PlayerNeeds{HasWeapon: ps.peer.Data().Weapon.Equipped}
		for _, itemID := range r.items.QueryPickupCandidates(ps.char.Pos) {
			if picked, ok := r.items.TryPickup(itemID, needs, false); ok {
				r.broadcastToAll(protocol.ItemPickup{ItemID: picked.ID, PlayerID: playerID})
			}
		}
	}
}

func (r *Room) maintain() {
	r.items.Tick(float32(maintenancePeriod.Seconds()), func(it *item.Item) mathx.Vec3 {
		return it.SpawnOrigin
	})
	r.refreshOctree()
	telemetry.ObserveRoomSnapshot(telemetry.Snapshot{
		Players:     len(r.players),
		Projectiles: len(r.projectiles),
		Buildings:   len(r.buildings),
		Items:       r.items.Count(),
		OctreeSize:  r.tree.Count(),
	})
}

// Stats reports the room's current scale for the periodic console dump
// (grounded on server/debug.go's Hub.Debug).
type Stats struct {
	Players     int
	Projectiles int
	Buildings   int
	Items       int
	OctreeSize  int
}

func (r *Room) Stats() Stats {
	return Stats{
		Players:     len(r.players),
		Projectiles: len(r.projectiles),
		Buildings:   len(r.buildings),
		Items:       r.items.Count(),
		OctreeSize:  r.tree.Count(),
	}
}

func (r *Room) allBuildingColliders() []collision.Box {
	var out []collision.Box
	for _, b := range r.buildings {
		out = append(out, b.Colliders()...)
	}
	return out
}

// broadcast sends the per-entity TransformSnapshot at the broadcast cadence
// (spec §4.10 step 4).
func (r *Room) broadcast() {
	for id, ps := range r.players {
		snap := protocol.TransformSnapshot{
			EntityID:           id,
			Pos:                ps.char.Pos,
			Rot:                protocol.QuatFromYaw(ps.char.Yaw),
			Vel:                ps.char.Vel,
			HeadPitch:          ps.pendingInput.CameraPitch,
			LastProcessedInput: ps.lastProcessedInput,
			IsInWater:          ps.char.IsInWater,
			IsHeadUnderwater:   ps.char.IsHeadUnderwater,
			BreathRemaining:    ps.char.BreathRemaining,
			WaterDepth:         ps.char.WaterDepth,
			IsExhausted:        ps.char.IsExhausted,
		}
		r.broadcastToAll(snap)
	}
}

func (r *Room) broadcastToAll(out protocol.Outbound) {
	for p := r.peers.First; p != nil; p = p.Data().Next {
		p.Send(protocol.PriorityOf(mustOpcode(out)), out)
	}
}

func mustOpcode(out protocol.Outbound) protocol.Opcode {
	op, _ := protocol.OpcodeOf(out)
	return op
}

func (r *Room) refreshOctree() {
	entries := make([]*octree.Entry, 0, len(r.trees)+len(r.rocks))
	var nextID uint64
	for _, t := range r.trees {
		min, max := t.WorldAABB()
		nextID++
		entries = append(entries, &octree.Entry{ID: nextID, Kind: octree.KindTree, Min: min, Max: max})
	}
	for _, m := range r.rocks {
		min, max := m.WorldAABB()
		nextID++
		entries = append(entries, &octree.Entry{ID: nextID, Kind: octree.KindRock, Min: min, Max: max})
	}
	r.tree.Rebuild(entries)
}
