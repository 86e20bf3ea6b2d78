// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendLogWritesCSVRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.log")

	if err := appendLog(path, []interface{}{1000, 4, 1.5}); err != nil {
		t.Fatalf("appendLog: %v", err)
	}
	if err := appendLog(path, []interface{}{2000, 5, 2.25}); err != nil {
		t.Fatalf("appendLog: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), raw)
	}
	if lines[0] != "1000,4,1.50" {
		t.Errorf("line 1 = %q, want %q", lines[0], "1000,4,1.50")
	}
	if lines[1] != "2000,5,2.25" {
		t.Errorf("line 2 = %q, want %q", lines[1], "2000,5,2.25")
	}
}
