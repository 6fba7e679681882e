package frame

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/coordframe/internal/geom"
)

// Repr is a representation tag. The type parameter V is the Go type of the
// coordinates expressed in that representation. The unexported methods
// keep the set of tags closed to this package.
type Repr[V any] interface {
	// ReprName returns the short name of the representation, e.g. "SE3".
	ReprName() string
	// Dim returns the number of scalar values in a flattened coordinate.
	Dim() int

	fromSlice(vals []float64) (V, error)
	toSlice(v V) []float64
}

// SE3 tags rigid poses, stored as geom.Pose and flattened as a row-major
// 4x4 homogeneous matrix.
type SE3 struct{}

// R3 tags 3-vector points.
type R3 struct{}

// R2 tags 2-vector image-plane points (pixels).
type R2 struct{}

func (SE3) ReprName() string { return "SE3" }
func (SE3) Dim() int         { return 16 }

// fromSlice accepts near-rigid matrices and snaps their rotation to a unit
// quaternion.
func (SE3) fromSlice(vals []float64) (geom.Pose, error) {
	if len(vals) != 16 {
		return geom.Pose{}, fmt.Errorf("%w: SE3 needs 16 values, got %d", ErrShape, len(vals))
	}
	var m [16]float64
	copy(m[:], vals)
	p, err := geom.PoseFromMatrix(m)
	if err != nil {
		return geom.Pose{}, fmt.Errorf("%w: %v", ErrShape, err)
	}
	return p, nil
}

func (SE3) toSlice(p geom.Pose) []float64 {
	m := p.Matrix()
	return m[:]
}

func (R3) ReprName() string { return "R3" }
func (R3) Dim() int         { return 3 }

func (R3) fromSlice(vals []float64) (r3.Vec, error) {
	if len(vals) != 3 {
		return r3.Vec{}, fmt.Errorf("%w: R3 needs 3 values, got %d", ErrShape, len(vals))
	}
	return r3.Vec{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

func (R3) toSlice(v r3.Vec) []float64 { return []float64{v.X, v.Y, v.Z} }

func (R2) ReprName() string { return "R2" }
func (R2) Dim() int         { return 2 }

func (R2) fromSlice(vals []float64) (r2.Vec, error) {
	if len(vals) != 2 {
		return r2.Vec{}, fmt.Errorf("%w: R2 needs 2 values, got %d", ErrShape, len(vals))
	}
	return r2.Vec{X: vals[0], Y: vals[1]}, nil
}

func (R2) toSlice(v r2.Vec) []float64 { return []float64{v.X, v.Y} }
