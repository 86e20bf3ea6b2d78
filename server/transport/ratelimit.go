// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"github.com/forgehold/core/sim/protocol"
	"golang.org/x/time/rate"
)

// opcodeClass buckets opcodes that should share one token bucket, so a
// misbehaving client flooding BlockPlace doesn't also starve its own Shoot
// requests (spec §4.13 "a token bucket per opcode class").
type opcodeClass string

const (
	classMovement opcodeClass = "movement" // Input: one per tick, generous.
	classCombat   opcodeClass = "combat"   // Shoot, Reload.
	classBuild    opcodeClass = "build"    // BlockPlace, BlockRemove, BuildingCreate/Transform/Destroy.
	classMisc     opcodeClass = "misc"     // ItemTossLand, ItemPickupRequest, LadderPlace.
)

var opcodeClasses = map[protocol.Opcode]opcodeClass{
	"input":             classMovement,
	"shoot":             classCombat,
	"reload":            classCombat,
	"blockPlace":        classBuild,
	"blockRemove":       classBuild,
	"buildingCreate":    classBuild,
	"buildingTransform": classBuild,
	"buildingDestroy":   classBuild,
	"itemTossLand":      classMisc,
	"itemPickupRequest": classMisc,
	"ladderPlace":       classMisc,
}

// classLimits is the (events-per-second, burst) budget for each class, sized
// so a well-behaved client at the tick rate never gets throttled: movement
// allows one Input per tick plus slack for retransmits, combat and build
// classes are bursty but rare relative to the tick rate.
var classLimits = map[opcodeClass]struct {
	rate  rate.Limit
	burst int
}{
	classMovement: {rate: 120, burst: 30},
	classCombat:   {rate: 20, burst: 10},
	classBuild:    {rate: 20, burst: 20},
	classMisc:     {rate: 10, burst: 5},
}

// limiterSet is one connection's per-class token buckets.
type limiterSet struct {
	limiters map[opcodeClass]*rate.Limiter
}

func newLimiterSet() *limiterSet {
	ls := &limiterSet{limiters: make(map[opcodeClass]*rate.Limiter, len(classLimits))}
	for class, budget := range classLimits {
		ls.limiters[class] = rate.NewLimiter(budget.rate, budget.burst)
	}
	return ls
}

// classOf reports which bucket an opcode draws from, for labeling metrics.
func (ls *limiterSet) classOf(op protocol.Opcode) opcodeClass {
	if class, ok := opcodeClasses[op]; ok {
		return class
	}
	return classMisc
}

// Allow reports whether an inbound message with the given opcode is within
// its class's budget, consuming one token if so. Unknown opcodes (a bug
// elsewhere, since DecodeInbound already validated the opcode) fall into
// classMisc rather than bypassing the limiter.
func (ls *limiterSet) Allow(op protocol.Opcode) bool {
	class, ok := opcodeClasses[op]
	if !ok {
		class = classMisc
	}
	limiter, ok := ls.limiters[class]
	if !ok {
		return true
	}
	return limiter.Allow()
}
