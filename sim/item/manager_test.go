// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package item

import (
	"testing"

	"github.com/forgehold/core/sim/config"
	"github.com/forgehold/core/sim/mathx"
)

func TestAutoPickupOnlyWhenNeeded(t *testing.T) {
	cfg := config.Default()
	m := NewManager(cfg)
	it := m.Spawn(KindConsumable, mathx.Vec3{}, EffectHealth, 0, true)

	fullHealth := PlayerNeeds{Health: 100, HealthMax: 100}
	m.BeginTick()
	if _, ok := m.TryPickup(it.ID, fullHealth, false); ok {
		t.Fatal("expected no pickup when player is already at full health")
	}

	needsHealth := PlayerNeeds{Health: 50, HealthMax: 100}
	m.BeginTick()
	if _, ok := m.TryPickup(it.ID, needsHealth, false); !ok {
		t.Fatal("expected pickup when player needs health")
	}
}

func TestWeaponNeverAutoPicksUp(t *testing.T) {
	cfg := config.Default()
	m := NewManager(cfg)
	it := m.Spawn(KindWeapon, mathx.Vec3{}, 0, 0, false)

	m.BeginTick()
	if _, ok := m.TryPickup(it.ID, PlayerNeeds{}, false); ok {
		t.Fatal("expected weapon to require an explicit pickup request")
	}
	m.BeginTick()
	if _, ok := m.TryPickup(it.ID, PlayerNeeds{}, true); !ok {
		t.Fatal("expected explicit weapon pickup to succeed when unarmed")
	}
}

func TestExactlyOncePickupPerTick(t *testing.T) {
	cfg := config.Default()
	m := NewManager(cfg)
	it := m.Spawn(KindConsumable, mathx.Vec3{}, EffectHealth, 0, false)
	needs := PlayerNeeds{Health: 1, HealthMax: 100}

	m.BeginTick()
	if _, ok := m.TryPickup(it.ID, needs, false); !ok {
		t.Fatal("expected first pickup to succeed")
	}
	if _, ok := m.TryPickup(it.ID, needs, false); ok {
		t.Fatal("expected second pickup attempt same tick to fail (item already despawned)")
	}
}

func TestRespawnableConsumableReschedulesAfterPickup(t *testing.T) {
	cfg := config.Default()
	m := NewManager(cfg)
	it := m.Spawn(KindConsumable, mathx.Vec3{X: 1}, EffectHealth, 0, true)
	needs := PlayerNeeds{Health: 1, HealthMax: 100}

	m.BeginTick()
	m.TryPickup(it.ID, needs, false)

	moved := false
	m.Tick(cfg.ConsumableRespawnSecs+0.01, func(i *Item) mathx.Vec3 {
		moved = true
		return mathx.Vec3{X: 99}
	})

	if !moved {
		t.Fatal("expected respawn candidate callback to fire once timer elapses")
	}
	got, ok := m.Item(it.ID)
	if !ok || got.Pos.X != 99 {
		t.Fatalf("expected item repositioned to respawn candidate, got %+v ok=%v", got, ok)
	}
}

func TestQueryPickupCandidatesRespectsRange(t *testing.T) {
	cfg := config.Default()
	m := NewManager(cfg)
	near := m.Spawn(KindConsumable, mathx.Vec3{X: 0.5}, EffectHealth, 0, false)
	far := m.Spawn(KindConsumable, mathx.Vec3{X: 50}, EffectHealth, 0, false)

	got := m.QueryPickupCandidates(mathx.Vec3{})
	foundNear, foundFar := false, false
	for _, id := range got {
		if id == near.ID {
			foundNear = true
		}
		if id == far.ID {
			foundFar = true
		}
	}
	if !foundNear {
		t.Fatal("expected nearby item to be a pickup candidate")
	}
	if foundFar {
		t.Fatal("expected far-away item to not be a pickup candidate")
	}
}
