package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrDegenerateProjection is returned when a point cannot be projected onto
// the image plane: it lies behind the camera, on the focal plane, or the
// result is not finite.
var ErrDegenerateProjection = errors.New("degenerate projection")

// Intrinsics is a pinhole camera model:
//
//	    ⎡fx  s cx⎤
//	K = ⎢ 0 fy cy⎥
//	    ⎣ 0  0  1⎦
type Intrinsics struct {
	Fx, Fy float64
	Cx, Cy float64
	Skew   float64
}

// NewIntrinsics validates and returns a pinhole model.
func NewIntrinsics(fx, fy, cx, cy, skew float64) (Intrinsics, error) {
	k := Intrinsics{Fx: fx, Fy: fy, Cx: cx, Cy: cy, Skew: skew}
	if err := k.Validate(); err != nil {
		return Intrinsics{}, err
	}
	return k, nil
}

// IntrinsicsFromMatrix reads a row-major 3x3 camera matrix. The last row
// must be exactly [0, 0, 1].
func IntrinsicsFromMatrix(m [9]float64) (Intrinsics, error) {
	if m[6] != 0 || m[7] != 0 || m[8] != 1 {
		return Intrinsics{}, fmt.Errorf("last row of camera intrinsics matrix must be [0, 0, 1], got [%g, %g, %g]",
			m[6], m[7], m[8])
	}
	if m[3] != 0 {
		return Intrinsics{}, fmt.Errorf("camera intrinsics matrix must be upper triangular, got K[1][0]=%g", m[3])
	}
	return NewIntrinsics(m[0], m[4], m[2], m[5], m[1])
}

// Validate checks that the focal lengths are positive and all terms are finite.
func (k Intrinsics) Validate() error {
	for _, v := range []float64{k.Fx, k.Fy, k.Cx, k.Cy, k.Skew} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("camera intrinsics must be finite, got %+v", k)
		}
	}
	if k.Fx <= 0 || k.Fy <= 0 {
		return fmt.Errorf("focal lengths must be positive, got fx=%g fy=%g", k.Fx, k.Fy)
	}
	return nil
}

// K returns the camera matrix.
func (k Intrinsics) K() *r3.Mat {
	return r3.NewMat([]float64{
		k.Fx, k.Skew, k.Cx,
		0, k.Fy, k.Cy,
		0, 0, 1,
	})
}

// Project maps a camera-frame point to pixel coordinates by perspective
// division of K·v.
func (k Intrinsics) Project(v r3.Vec) (r2.Vec, error) {
	h := k.K().MulVec(v)
	if !(h.Z > 0) {
		return r2.Vec{}, fmt.Errorf("%w: depth %g is not in front of the camera", ErrDegenerateProjection, h.Z)
	}
	px := r2.Vec{X: h.X / h.Z, Y: h.Y / h.Z}
	if math.IsNaN(px.X) || math.IsNaN(px.Y) || math.IsInf(px.X, 0) || math.IsInf(px.Y, 0) {
		return r2.Vec{}, fmt.Errorf("%w: non-finite pixel (%g, %g)", ErrDegenerateProjection, px.X, px.Y)
	}
	return px, nil
}

// Unproject lifts a pixel back to a camera-frame point at the given depth.
func (k Intrinsics) Unproject(px r2.Vec, depth float64) r3.Vec {
	y := (px.Y - k.Cy) / k.Fy
	x := (px.X - k.Cx - k.Skew*y) / k.Fx
	return r3.Vec{X: x * depth, Y: y * depth, Z: depth}
}
