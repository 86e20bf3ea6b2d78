// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command server wires a Room to a websocket listener and a debug mux,
// replacing server/main.go's flag-parsed Hub startup with a cobra command
// (spec §2 DOMAIN STACK: cobra owns cmd/server's CLI surface).
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/forgehold/core/server/room"
	"github.com/forgehold/core/server/telemetry"
	"github.com/forgehold/core/server/transport"
	"github.com/forgehold/core/sim/collider"
	"github.com/forgehold/core/sim/config"
	"github.com/forgehold/core/sim/terrain/terraintest"
)

func main() {
	var (
		addr       string
		debugAddr  string
		configPath string
		seed       int64
		flat       bool
	)

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Runs one authoritative room over a websocket listener.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(addr, debugAddr, configPath, seed, flat)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8192", "websocket listen address")
	cmd.Flags().StringVar(&debugAddr, "debug-addr", telemetry.ListenAddr(), "metrics/pprof listen address")
	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML file overriding the default sim constants")
	cmd.Flags().Int64Var(&seed, "seed", 1, "terrain generation seed")
	cmd.Flags().BoolVar(&flat, "flat", false, "use flat test terrain instead of generated terrain")

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(addr, debugAddr, configPath string, seed int64, flat bool) error {
	cfg := config.Default()
	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(raw)
		if err != nil {
			return err
		}
	}

	const gridWidth, gridHeight, gridDepth = 256, 16, 256

	var terrainGrid = terraintest.FlatGround(gridWidth, gridDepth)
	if !flat {
		terrainGrid = terraintest.Generate(seed, gridWidth, gridHeight, gridDepth)
	}

	// Procedural rock/tree placement is out of scope (spec §1); a real
	// deployment hands the room a level-load collaborator's mesh data here.
	var trees []*collider.Tree
	var rocks []*collider.Mesh

	r := room.New(cfg, terrainGrid, trees, rocks)
	r.OnDebug(func(s room.Stats) {
		telemetry.LogStats(telemetry.RoomStats{
			Players:     s.Players,
			Projectiles: s.Projectiles,
			Buildings:   s.Buildings,
			Items:       s.Items,
			OctreeSize:  s.OctreeSize,
		})
	})
	go r.Run()

	srv := transport.NewServer(r)

	go func() {
		log.Printf("debug server listening on %s", debugAddr)
		if err := http.ListenAndServe(debugAddr, telemetry.NewMux()); err != nil {
			log.Printf("debug server stopped: %v", err)
		}
	}()

	log.Printf("websocket server listening on %s", addr)
	mux := http.NewServeMux()
	mux.Handle("/ws", srv)
	return http.ListenAndServe(addr, mux)
}
