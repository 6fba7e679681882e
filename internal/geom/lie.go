package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// smallAngle is the rotation magnitude below which the SE3 maps fall back
// to their first-order forms.
const smallAngle = 1e-9

// Twist is an element of se3: angular part W (scaled axis) and linear part V.
type Twist struct {
	W r3.Vec
	V r3.Vec
}

// Scale multiplies both parts of the twist by f.
func (t Twist) Scale(f float64) Twist {
	return Twist{W: r3.Scale(f, t.W), V: r3.Scale(f, t.V)}
}

// Exp maps a twist onto SE3.
func Exp(t Twist) Pose {
	theta := r3.Norm(t.W)
	if theta < smallAngle {
		return Translate(t.V)
	}
	rot := r3.NewRotation(theta, t.W)

	axis := r3.Scale(1/theta, t.W)
	vPar := r3.Scale(r3.Dot(t.V, axis), axis)
	vPerp := r3.Sub(t.V, vPar)
	tPrime := r3.Scale(1/theta, r3.Cross(vPerp, axis))
	trans := r3.Add(r3.Sub(rot.Rotate(tPrime), tPrime), vPar)
	return Pose{Rotation: rot, Translation: trans}
}

// Log maps a pose onto se3. It is the inverse of Exp for rotation angles
// in [0, π).
func Log(p Pose) Twist {
	w := scaledAxis(p.Rotation)
	theta := r3.Norm(w)
	t := p.Translation
	if theta < smallAngle {
		return Twist{W: w, V: t}
	}
	axis := r3.Scale(1/theta, w)
	tPar := r3.Scale(r3.Dot(t, axis), axis)
	tPerp := r3.Sub(t, tPar)
	half := r3.Scale(1/(2*math.Tan(theta/2)), r3.Cross(tPerp, axis))
	tPrime := r3.Sub(half, r3.Scale(0.5, tPerp))
	v := r3.Add(r3.Cross(w, tPrime), tPar)
	return Twist{W: w, V: v}
}

// Interpolate walks the geodesic from a towards b; alpha=0 yields a and
// alpha=1 yields b.
func Interpolate(a, b Pose, alpha float64) Pose {
	delta := Log(a.Inverse().Mul(b))
	return a.Mul(Exp(delta.Scale(alpha)))
}

// scaledAxis returns the rotation as axis·angle with angle in [0, π].
func scaledAxis(r r3.Rotation) r3.Vec {
	q := quat.Number(r)
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	v := r3.Vec{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	n := r3.Norm(v)
	if n < smallAngle {
		return r3.Scale(2, v)
	}
	angle := 2 * math.Atan2(n, q.Real)
	return r3.Scale(angle/n, v)
}
