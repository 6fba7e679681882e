package testutil

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/coordframe/internal/geom"
)

// recorder captures failures without failing the real test.
type recorder struct {
	testing.TB
	failed bool
	msg    string
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) {
	r.failed = true
	r.msg = fmt.Sprintf(format, args...)
}

func TestAssertNoError(t *testing.T) {
	t.Parallel()
	AssertNoError(t, nil)
}

func TestAssertError(t *testing.T) {
	t.Parallel()
	AssertError(t, errors.New("boom"))
}

func TestAssertVecNear(t *testing.T) {
	t.Parallel()

	r := &recorder{TB: t}
	AssertVecNear(r, r3.Vec{X: 1}, r3.Vec{X: 1 + 1e-12}, 0)
	if r.failed {
		t.Fatalf("unexpected failure: %s", r.msg)
	}

	AssertVecNear(r, r3.Vec{X: 1}, r3.Vec{X: 1.1}, 0.01)
	if !r.failed {
		t.Fatal("expected failure for distant vectors")
	}
}

func TestAssertPixelNear(t *testing.T) {
	t.Parallel()

	r := &recorder{TB: t}
	AssertPixelNear(r, r2.Vec{X: 10, Y: 20}, r2.Vec{X: 10, Y: 20.5}, 1)
	if r.failed {
		t.Fatalf("unexpected failure: %s", r.msg)
	}
	AssertPixelNear(r, r2.Vec{X: 10, Y: 20}, r2.Vec{X: 12, Y: 20}, 1)
	if !r.failed {
		t.Fatal("expected failure for distant pixels")
	}
}

func TestAssertPoseNear(t *testing.T) {
	t.Parallel()

	p := geom.NewPose(0.5, r3.Vec{Z: 1}, r3.Vec{X: 1})
	r := &recorder{TB: t}
	AssertPoseNear(r, p, p.Mul(geom.Identity()), 0)
	if r.failed {
		t.Fatalf("unexpected failure: %s", r.msg)
	}
	AssertPoseNear(r, p, geom.Identity(), 1e-3)
	if !r.failed {
		t.Fatal("expected failure for different poses")
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := WriteFile(t, "calib.yaml", "rig_id: test\n")
	data, err := os.ReadFile(path)
	AssertNoError(t, err)
	if string(data) != "rig_id: test\n" {
		t.Errorf("content = %q", data)
	}
}
