// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package item

import "github.com/forgehold/core/sim/mathx"

// Kind distinguishes the two pickup behaviors named in spec §4.9.
type Kind int

const (
	KindConsumable Kind = iota
	KindWeapon
)

// ConsumableEffect names what a consumable item restores or grants.
type ConsumableEffect int

const (
	EffectHealth ConsumableEffect = iota
	EffectStamina
	EffectArmor
	EffectHelmet
	EffectBuff
)

// Item is one world pickup.
type Item struct {
	ID       uint64
	Kind     Kind
	Pos      mathx.Vec3
	Effect   ConsumableEffect
	BuffType int

	// Respawnable marks a consumable that reappears at a spawn candidate
	// after pickup (spec §4.9 "Respawnable consumables").
	Respawnable  bool
	SpawnOrigin  mathx.Vec3
	RespawnTimer float32
}

// PlayerNeeds is the subset of a player's stat state the auto-pickup rule
// reads, passed in by the caller so this package has no dependency on the
// player/ECS representation (spec §4.9 "Auto-pickup rule").
type PlayerNeeds struct {
	HasWeapon bool

	Health, HealthMax     float32
	Stamina, StaminaMax   float32
	IsExhausted           bool
	Armor, ArmorMax       float32
	HasFullHelmet         bool
	ActiveBuffs           map[int]bool
}

// WantsAutoPickup reports whether a player with the given needs should
// auto-pick-up item (spec §4.9). Weapons are never auto-picked; they
// require an explicit request even when the player is unarmed.
func WantsAutoPickup(needs PlayerNeeds, it Item) bool {
	if it.Kind == KindWeapon {
		return false
	}
	switch it.Effect {
	case EffectHealth:
		return needs.Health < needs.HealthMax
	case EffectStamina:
		return needs.Stamina < needs.StaminaMax || needs.IsExhausted
	case EffectArmor:
		return needs.Armor < needs.ArmorMax
	case EffectHelmet:
		return !needs.HasFullHelmet
	case EffectBuff:
		return !needs.ActiveBuffs[it.BuffType]
	default:
		return false
	}
}

// WantsExplicitWeaponPickup reports whether an explicit weapon-pickup
// request should be honored: the player must not already carry a weapon.
func WantsExplicitWeaponPickup(needs PlayerNeeds, it Item) bool {
	return it.Kind == KindWeapon && !needs.HasWeapon
}
