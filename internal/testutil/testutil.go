// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/coordframe/internal/geom"
)

// DefaultTolerance is the absolute tolerance used by the Near helpers when
// callers pass zero.
const DefaultTolerance = 1e-9

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertVecNear checks two 3-vectors agree component-wise within tol.
func AssertVecNear(t testing.TB, want, got r3.Vec, tol float64) {
	t.Helper()
	if tol == 0 {
		tol = DefaultTolerance
	}
	if r3.Norm(r3.Sub(want, got)) > tol {
		t.Errorf("vector = %v, want %v (tol %g)", got, want, tol)
	}
}

// AssertPixelNear checks two image-plane points agree within tol.
func AssertPixelNear(t testing.TB, want, got r2.Vec, tol float64) {
	t.Helper()
	if tol == 0 {
		tol = DefaultTolerance
	}
	if r2.Norm(r2.Sub(want, got)) > tol {
		t.Errorf("pixel = %v, want %v (tol %g)", got, want, tol)
	}
}

// AssertPoseNear checks two poses agree within tol.
func AssertPoseNear(t testing.TB, want, got geom.Pose, tol float64) {
	t.Helper()
	if tol == 0 {
		tol = DefaultTolerance
	}
	if !want.ApproxEqual(got, tol) {
		t.Errorf("pose = %v, want %v (tol %g)", got, want, tol)
	}
}

// WriteFile writes content to name under a fresh temp dir and returns the path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
