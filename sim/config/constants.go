// Package config holds the fixed, environment-affecting values that must be
// identical on the server and every predicting client (spec §4.5, §4.8, §4.9, §14).
//
// There is exactly one way to obtain a Constants value in production: Default().
// A deployment may layer a YAML override on top of Default() at startup (see
// Load), but once a Constants is handed to a subsystem constructor it is never
// mutated again — subsystems take it by value or by immutable pointer, never
// from a package-level var.
package config

import "gopkg.in/yaml.v3"

// Constants bundles every fixed, bit-for-bit-shared simulation value.
type Constants struct {
	// World extents (spec §3 invariants).
	WorldBoundXZ float32 `yaml:"worldBoundXZ"`
	// FlatGroundY is the implicit floor used when step() is called without a
	// voxel grid or block list (spec §4.5 step 12 "flat ground if no grid").
	FlatGroundY float32 `yaml:"flatGroundY"`

	// Fixed timestep (spec §2.11, glossary).
	TickRate      float32 `yaml:"tickRate"`
	TickDt        float32 `yaml:"-"` // derived: 1/TickRate
	BroadcastRate float32 `yaml:"broadcastRate"`

	// Character hitbox / capsule (spec §3 invariants).
	BodyHalfExtent   float32 `yaml:"bodyHalfExtent"`
	CapsuleRadius    float32 `yaml:"capsuleRadius"`
	HeadOffsetY      float32 `yaml:"headOffsetY"`
	HeadHalfExtent   float32 `yaml:"headHalfExtent"`
	GroundProbeDrop  float32 `yaml:"groundProbeDrop"`
	StepHeight       float32 `yaml:"stepHeight"`
	BlockResolveIter int     `yaml:"blockResolveIter"`

	// Character movement (spec §4.5).
	MovementAccel        float32 `yaml:"movementAccel"`
	AirControl           float32 `yaml:"airControl"`
	MovementMaxSpeed     float32 `yaml:"movementMaxSpeed"`
	SprintMultiplier     float32 `yaml:"sprintMultiplier"`
	WadeMultiplier       float32 `yaml:"wadeMultiplier"`
	Friction             float32 `yaml:"friction"`
	JumpVelocity         float32 `yaml:"jumpVelocity"`
	Gravity              float32 `yaml:"gravity"`
	SwimAccel            float32 `yaml:"swimAccel"`
	SwimControl          float32 `yaml:"swimControl"`
	SwimMaxSpeed         float32 `yaml:"swimMaxSpeed"`
	SwimSprintMaxSpeed   float32 `yaml:"swimSprintMaxSpeed"`
	SwimUpImpulse        float32 `yaml:"swimUpImpulse"`
	SwimDrag             float32 `yaml:"swimDrag"`
	SwimDiveAccel        float32 `yaml:"swimDiveAccel"`
	Buoyancy             float32 `yaml:"buoyancy"`
	ExhaustedSinkFactor  float32 `yaml:"exhaustedSinkFactor"`
	SwimmingDepthEnter   float32 `yaml:"swimmingDepthEnter"`
	WaterLevelY          float32 `yaml:"waterLevelY"`
	MaxBreath            float32 `yaml:"maxBreath"`
	PushUpGroundedCosine float32 `yaml:"pushUpGroundedCosine"`

	// Voxel/terrain sizes (spec §4.2).
	VoxelWidth  float32 `yaml:"voxelWidth"`
	VoxelHeight float32 `yaml:"voxelHeight"`
	VoxelDepth  float32 `yaml:"voxelDepth"`
	LevelOffsetX float32 `yaml:"levelOffsetX"`
	LevelOffsetY float32 `yaml:"levelOffsetY"`
	LevelOffsetZ float32 `yaml:"levelOffsetZ"`

	// Building grid (spec §4.8).
	BuildingGridSize int     `yaml:"buildingGridSize"`
	BuildingCellSize float32 `yaml:"buildingCellSize"`
	MaxMaterials     int32   `yaml:"maxMaterials"`

	// Items (spec §4.9).
	PickupRange           float32 `yaml:"pickupRange"`
	PickupGridCellSize    float32 `yaml:"pickupGridCellSize"`
	ConsumableRespawnSecs float32 `yaml:"consumableRespawnSecs"`

	// Projectiles (spec §4.6).
	ProjectileSubsteps                int     `yaml:"projectileSubsteps"`
	DefaultProjectileGravityStartDist float32 `yaml:"defaultProjectileGravityStartDist"`
	ProjectileLifetimeSecs            float32 `yaml:"projectileLifetimeSecs"`

	// Octree (spec §4.3).
	OctreeMaxDepth    int `yaml:"octreeMaxDepth"`
	OctreeMaxEntries  int `yaml:"octreeMaxEntries"`

	// Reconciliation (spec §4.11, §9 open question — resolved to 64).
	InputRingSize            int     `yaml:"inputRingSize"`
	VisualErrorHalfLifeSecs  float32 `yaml:"visualErrorHalfLifeSecs"`
	ReconcileSnapThreshold   float32 `yaml:"reconcileSnapThreshold"`
	RemoteInterpWindowSecs   float32 `yaml:"remoteInterpWindowSecs"`
	StairSmoothMaxRiseSpeed  float32 `yaml:"stairSmoothMaxRiseSpeed"`
}

// Default returns the canonical Constants bundle. Both peers must start from
// this value (or an identical override) — see spec §6 "Environment".
func Default() Constants {
	c := Constants{
		WorldBoundXZ: 270,

		TickRate:      60,
		BroadcastRate: 20,

		BodyHalfExtent:   0.4,
		CapsuleRadius:    0.4,
		HeadOffsetY:      1.3,
		HeadHalfExtent:   0.3,
		GroundProbeDrop:  0.05,
		StepHeight:       0.5,
		BlockResolveIter: 3,

		MovementAccel:      40,
		AirControl:         0.2,
		MovementMaxSpeed:   6,
		SprintMultiplier:   1.5,
		WadeMultiplier:     0.5,
		Friction:           8,
		JumpVelocity:       7,
		Gravity:            20,
		SwimAccel:          16,
		SwimControl:        1,
		SwimMaxSpeed:       3,
		SwimSprintMaxSpeed: 4.5,
		SwimUpImpulse:      4,
		SwimDrag:           2,
		SwimDiveAccel:      10,
		Buoyancy:           6,
		ExhaustedSinkFactor: 1.5,
		SwimmingDepthEnter: 0.5,
		WaterLevelY:        0,
		MaxBreath:          15,
		PushUpGroundedCosine: 0.7,

		VoxelWidth:  1,
		VoxelHeight: 1,
		VoxelDepth:  1,
		LevelOffsetX: 0,
		LevelOffsetY: 0,
		LevelOffsetZ: 0,

		BuildingGridSize: 12,
		BuildingCellSize: 0.5,
		MaxMaterials:     200,

		PickupRange:           0.75,
		PickupGridCellSize:    2,
		ConsumableRespawnSecs: 10,

		ProjectileSubsteps:                2,
		DefaultProjectileGravityStartDist: 40,
		ProjectileLifetimeSecs:            3,

		OctreeMaxDepth:   6,
		OctreeMaxEntries: 8,

		InputRingSize:           64,
		VisualErrorHalfLifeSecs: 0.1,
		ReconcileSnapThreshold:  4,
		RemoteInterpWindowSecs:  0.05,
		StairSmoothMaxRiseSpeed: 4,
	}
	c.TickDt = 1.0 / c.TickRate
	return c
}

// GroundHeight is the Y coordinate of the implicit flat floor used by
// character.Step when called with no voxel grid and no block colliders
// (exercised by the free-fall end-to-end scenario).
func (c Constants) GroundHeight() float32 {
	return c.FlatGroundY
}

// Load reads a YAML override on top of Default(). Missing fields keep the
// default. Used only by local dev tooling (cmd/server's --config flag); never
// called mid-simulation.
func Load(yamlBytes []byte) (Constants, error) {
	c := Default()
	if len(yamlBytes) == 0 {
		return c, nil
	}
	if err := yaml.Unmarshal(yamlBytes, &c); err != nil {
		return Constants{}, err
	}
	c.TickDt = 1.0 / c.TickRate
	return c, nil
}
