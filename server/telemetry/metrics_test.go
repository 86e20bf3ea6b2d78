// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRoomSnapshotSetsGauges(t *testing.T) {
	ObserveRoomSnapshot(Snapshot{Players: 3, Projectiles: 5, Buildings: 2, Items: 7, OctreeSize: 40})

	if got := testutil.ToFloat64(playerCount); got != 3 {
		t.Errorf("playerCount = %v, want 3", got)
	}
	if got := testutil.ToFloat64(projectileCount); got != 5 {
		t.Errorf("projectileCount = %v, want 5", got)
	}
	if got := testutil.ToFloat64(buildingCount); got != 2 {
		t.Errorf("buildingCount = %v, want 2", got)
	}
	if got := testutil.ToFloat64(itemCount); got != 7 {
		t.Errorf("itemCount = %v, want 7", got)
	}
	if got := testutil.ToFloat64(octreeEntryCount); got != 40 {
		t.Errorf("octreeEntryCount = %v, want 40", got)
	}
}

func TestRecordConnectionRejectedIncrementsLabeledCounter(t *testing.T) {
	before := testutil.ToFloat64(connectionRejected.WithLabelValues("ip_limit"))
	RecordConnectionRejected("ip_limit")
	after := testutil.ToFloat64(connectionRejected.WithLabelValues("ip_limit"))

	if after != before+1 {
		t.Errorf("connectionRejected{ip_limit} = %v, want %v", after, before+1)
	}
}

func TestRecordTickSkippedIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(tickSkipped)
	RecordTickSkipped()
	after := testutil.ToFloat64(tickSkipped)

	if after != before+1 {
		t.Errorf("tickSkipped = %v, want %v", after, before+1)
	}
}
