// Package geom holds the numeric payloads carried by frame transforms:
// rigid SE3 poses, pinhole intrinsics and the SE3 exponential map.
//
// Coordinate convention: right-handed, camera looks down +Z, image X to the
// right and Y down (the usual pinhole convention).
package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// MatrixValidationTolerance is the tolerance for checking rotation matrix validity.
const MatrixValidationTolerance = 0.01

// Pose is a rigid transform in SE3: a rotation followed by a translation.
// Read as dst←src, Apply(p) = R·p + t.
//
// The zero value is not a valid pose; use Identity.
type Pose struct {
	Rotation    r3.Rotation
	Translation r3.Vec
}

// Identity returns the identity pose.
func Identity() Pose {
	return Pose{Rotation: r3.Rotation{Real: 1}}
}

// NewPose builds a pose from an axis-angle rotation (radians) and a translation.
func NewPose(angle float64, axis, translation r3.Vec) Pose {
	return Pose{Rotation: r3.NewRotation(angle, axis), Translation: translation}
}

// Translate returns a pure translation.
func Translate(t r3.Vec) Pose {
	return Pose{Rotation: r3.Rotation{Real: 1}, Translation: t}
}

// Apply maps a point expressed in the pose's source frame into its
// destination frame.
func (p Pose) Apply(v r3.Vec) r3.Vec {
	return r3.Add(p.Rotation.Rotate(v), p.Translation)
}

// Mul returns p∘q, i.e. the pose that applies q first and then p.
func (p Pose) Mul(q Pose) Pose {
	rot := quat.Mul(quat.Number(p.Rotation), quat.Number(q.Rotation))
	return Pose{
		Rotation:    normalise(rot),
		Translation: p.Apply(q.Translation),
	}
}

// Inverse returns the pose mapping dst back to src.
func (p Pose) Inverse() Pose {
	inv := r3.Rotation(quat.Conj(quat.Number(p.Rotation)))
	return Pose{
		Rotation:    inv,
		Translation: r3.Scale(-1, inv.Rotate(p.Translation)),
	}
}

// Angle returns the rotation angle in radians, in [0, π].
func (p Pose) Angle() float64 {
	q := quat.Number(p.Rotation)
	v := math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	angle := 2 * math.Atan2(v, math.Abs(q.Real))
	return angle
}

// Matrix returns the 4x4 homogeneous matrix in row-major order:
// m00,m01,m02,m03, m10,...
func (p Pose) Matrix() [16]float64 {
	rm := p.Rotation.Mat()
	var m [16]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i*4+j] = rm.At(i, j)
		}
	}
	m[3] = p.Translation.X
	m[7] = p.Translation.Y
	m[11] = p.Translation.Z
	m[15] = 1
	return m
}

// PoseFromMatrix converts a row-major 4x4 rigid transform into a Pose.
// The matrix must pass IsValidTransformMatrix.
func PoseFromMatrix(m [16]float64) (Pose, error) {
	if !IsValidTransformMatrix(m) {
		return Pose{}, fmt.Errorf("invalid transform matrix (not proper rigid transform): %v", m)
	}
	return Pose{
		Rotation:    rotationFromMatrix(m),
		Translation: r3.Vec{X: m[3], Y: m[7], Z: m[11]},
	}, nil
}

// IsValidTransformMatrix checks if a 4x4 matrix is a valid rigid transform.
// A valid rigid transform has:
// 1. Orthonormal rotation submatrix (det ≈ 1)
// 2. Last row is [0 0 0 1]
func IsValidTransformMatrix(T [16]float64) bool {
	for _, v := range T {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	rot := r3.NewMat([]float64{
		T[0], T[1], T[2],
		T[4], T[5], T[6],
		T[8], T[9], T[10],
	})
	if math.Abs(rot.Det()-1.0) > MatrixValidationTolerance {
		return false
	}

	// R·Rᵀ must be close to the identity, otherwise shear with unit
	// determinant would slip through.
	var rrt r3.Mat
	rrt.Mul(rot, rot.T())
	eye := r3.Eye()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(rrt.At(i, j)-eye.At(i, j)) > MatrixValidationTolerance {
				return false
			}
		}
	}

	if T[12] != 0 || T[13] != 0 || T[14] != 0 || math.Abs(T[15]-1.0) > 0.001 {
		return false
	}
	return true
}

// Valid reports whether the rotation is a unit quaternion (within
// MatrixValidationTolerance) and every term is finite. The zero Pose is
// not valid.
func (p Pose) Valid() bool {
	q := quat.Number(p.Rotation)
	for _, v := range []float64{q.Real, q.Imag, q.Jmag, q.Kmag, p.Translation.X, p.Translation.Y, p.Translation.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return math.Abs(quat.Abs(q)-1) <= MatrixValidationTolerance
}

// ApproxEqual reports whether two poses agree within tol on every element
// of their homogeneous matrices.
func (p Pose) ApproxEqual(q Pose, tol float64) bool {
	a, b := p.Matrix(), q.Matrix()
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

// String formats the pose as translation and axis-angle.
func (p Pose) String() string {
	return fmt.Sprintf("Pose{t=(%.4g, %.4g, %.4g) angle=%.4g}",
		p.Translation.X, p.Translation.Y, p.Translation.Z, p.Angle())
}

// rotationFromMatrix uses Shepperd's method so the largest diagonal term
// drives the extraction.
func rotationFromMatrix(m [16]float64) r3.Rotation {
	r00, r01, r02 := m[0], m[1], m[2]
	r10, r11, r12 := m[4], m[5], m[6]
	r20, r21, r22 := m[8], m[9], m[10]

	var q quat.Number
	trace := r00 + r11 + r22
	switch {
	case trace > 0:
		s := 2 * math.Sqrt(trace+1)
		q = quat.Number{Real: s / 4, Imag: (r21 - r12) / s, Jmag: (r02 - r20) / s, Kmag: (r10 - r01) / s}
	case r00 > r11 && r00 > r22:
		s := 2 * math.Sqrt(1+r00-r11-r22)
		q = quat.Number{Real: (r21 - r12) / s, Imag: s / 4, Jmag: (r01 + r10) / s, Kmag: (r02 + r20) / s}
	case r11 > r22:
		s := 2 * math.Sqrt(1+r11-r00-r22)
		q = quat.Number{Real: (r02 - r20) / s, Imag: (r01 + r10) / s, Jmag: s / 4, Kmag: (r12 + r21) / s}
	default:
		s := 2 * math.Sqrt(1+r22-r00-r11)
		q = quat.Number{Real: (r10 - r01) / s, Imag: (r02 + r20) / s, Jmag: (r12 + r21) / s, Kmag: s / 4}
	}
	return normalise(q)
}

func normalise(q quat.Number) r3.Rotation {
	n := quat.Abs(q)
	if n == 0 {
		return r3.Rotation{Real: 1}
	}
	if n != 1 {
		q = quat.Scale(1/n, q)
	}
	return r3.Rotation(q)
}
