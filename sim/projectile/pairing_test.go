// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package projectile

import "testing"

func TestPairerMatchesOldestPredictedFirst(t *testing.T) {
	p := NewPairer(1)
	p.TrackPredicted(-1)
	p.TrackPredicted(-2)

	got1 := p.Pair(100)
	got2 := p.Pair(101)

	if got1 != -1 || got2 != -2 {
		t.Fatalf("expected oldest-first pairing, got %d then %d", got1, got2)
	}

	if id, ok := p.PredictedFor(100); !ok || id != -1 {
		t.Fatalf("expected server id 100 paired with -1, got %d ok=%v", id, ok)
	}

	p.Forget(100)
	if _, ok := p.PredictedFor(100); ok {
		t.Fatal("expected pairing to be forgotten after Forget")
	}
}

func TestPairerReturnsZeroWhenNothingPending(t *testing.T) {
	p := NewPairer(1)
	if got := p.Pair(5); got != 0 {
		t.Fatalf("expected 0 when no predicted ids pending, got %d", got)
	}
}
