package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/laskit/pkg/las"
)

// writeTestLAS saves a small LAS 1.2 format 3 file and returns its path.
func writeTestLAS(t *testing.T) string {
	t.Helper()
	c := las.NewCloud("fixture", las.Limits{})
	intensity, err := c.AddColumn("Intensity")
	if err != nil {
		t.Fatalf("add column: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := c.AppendPoint([3]float64{100 + float64(i), 200, 5 + float64(i)/2}); err != nil {
			t.Fatalf("append point: %v", err)
		}
		if err := c.Append(intensity, float64(10*i)); err != nil {
			t.Fatalf("append intensity: %v", err)
		}
		if err := c.AppendColor(las.Color{uint8(i), 2, 3}); err != nil {
			t.Fatalf("append colour: %v", err)
		}
	}
	pf := uint8(3)
	path := filepath.Join(t.TempDir(), "fixture.las")
	if _, err := las.Save(context.Background(), c, path, las.SaveOptions{VersionMinor: 2, PointFormat: &pf}); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	return path
}

// resetFlags restores the package-level flag variables.
func resetFlags() {
	verbose, quiet, jsonOut = false, false, false
	infoStats = false
	fieldsFormat = 0
	convertVersion, convertFormat, convertScale = "", -1, 0
	convertOptimal, convertProfile, convertNoWaveforms = false, "", false
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
