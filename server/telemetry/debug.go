// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"encoding/csv"
	"fmt"
	"os"
	"runtime"
	"time"
)

// RoomStats is the subset of a room's scale the debug dump reports, kept
// independent of server/room so this package never imports it (room already
// imports telemetry for the gauge/histogram hooks).
type RoomStats struct {
	Players     int
	Projectiles int
	Buildings   int
	Items       int
	OctreeSize  int
}

// LogStats prints a one-line console summary and appends a CSV row, the
// split server/debug.go's Hub.Debug and server/log.go's AppendLog perform
// together on every debug tick.
func LogStats(stats RoomStats) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	fmt.Printf("[%s] players=%d projectiles=%d buildings=%d items=%d octree=%d heap=%dM\n",
		time.Now().Format(time.UnixDate),
		stats.Players, stats.Projectiles, stats.Buildings, stats.Items, stats.OctreeSize,
		mem.HeapInuse/1e6,
	)

	_ = appendLog("/tmp/forgehold.log", []interface{}{
		time.Now().UnixMilli(),
		stats.Players,
		stats.Projectiles,
		stats.Buildings,
		stats.Items,
	})
}

// appendLog writes one CSV row, matching server/log.go's AppendLog: open in
// append mode, write, flush, surface the flush error rather than the write
// error so a full disk is caught.
func appendLog(filename string, fields []interface{}) error {
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := make([]string, len(fields))
	for i, field := range fields {
		switch v := field.(type) {
		case float32, float64:
			row[i] = fmt.Sprintf("%.2f", v)
		default:
			row[i] = fmt.Sprint(v)
		}
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
