package frame

import (
	"fmt"
	"strings"
)

// Time identifies the instant a coordinate system refers to: a frame index
// or unix nanoseconds, depending on the producer. Instants are compared
// exactly.
type Time int64

// CoordinateSystem is one frame instant: the id and representation are in
// the type, the time is in the value. Two values of the same instantiation
// are the same frame instance iff their times are equal, so == is the
// identity test.
type CoordinateSystem[I ID[V], V any] struct {
	time Time
}

// At returns the coordinate system with id I at time t. Any time is accepted.
func At[I ID[V], V any](t Time) CoordinateSystem[I, V] {
	return CoordinateSystem[I, V]{time: t}
}

// Equal reports whether c and o are the same frame instance.
func (c CoordinateSystem[I, V]) Equal(o CoordinateSystem[I, V]) bool { return c.time == o.time }

// Time returns the instant of the coordinate system.
func (c CoordinateSystem[I, V]) Time() Time { return c.time }

// ID returns the (zero-sized) id value.
func (c CoordinateSystem[I, V]) ID() I {
	var id I
	return id
}

// Point returns coords tagged with this coordinate system.
func (c CoordinateSystem[I, V]) Point(coords V) Point[I, V] {
	return Point[I, V]{coords: coords, time: c.time}
}

// PointFromSlice reads flattened coordinates into this coordinate system.
func (c CoordinateSystem[I, V]) PointFromSlice(vals []float64) (Point[I, V], error) {
	return PointFromSlice[I, V](c.time, vals)
}

func (c CoordinateSystem[I, V]) String() string {
	var id I
	return fmt.Sprintf("%s@%d", id.Name(), c.time)
}

// Point is a coordinate value expressed in coordinate system I at one
// instant. Points are values; nothing mutates them after construction.
type Point[I ID[V], V any] struct {
	coords V
	time   Time
}

// NewPoint tags coords with id I at time t. V is inferred from coords and
// must match I's representation:
//
//	p := frame.NewPoint[frame.LeftCameraR3](0, r3.Vec{Z: 4})
func NewPoint[I ID[V], V any](t Time, coords V) Point[I, V] {
	return Point[I, V]{coords: coords, time: t}
}

// PointFromSlice reads flattened coordinates (see Repr.Dim) for id I.
// It fails with ErrShape when the length does not match, or for SE3 when
// the values are not a rigid transform. An SE3 matrix within
// geom.MatrixValidationTolerance of rigid is snapped to the nearest unit
// quaternion, so Slice returns the corrected matrix rather than vals.
func PointFromSlice[I ID[V], V any](t Time, vals []float64) (Point[I, V], error) {
	var id I
	v, err := id.fromSlice(vals)
	if err != nil {
		return Point[I, V]{}, fmt.Errorf("%s: %w", id.Name(), err)
	}
	return Point[I, V]{coords: v, time: t}, nil
}

// Coords returns the coordinate value.
func (p Point[I, V]) Coords() V { return p.coords }

// Time returns the instant the point was observed at.
func (p Point[I, V]) Time() Time { return p.time }

// System returns the coordinate system instance the point belongs to.
func (p Point[I, V]) System() CoordinateSystem[I, V] {
	return CoordinateSystem[I, V]{time: p.time}
}

// In reports whether the point belongs to the given frame instance.
func (p Point[I, V]) In(c CoordinateSystem[I, V]) bool {
	return p.time == c.time
}

// Slice flattens the coordinates (see Repr.Dim).
func (p Point[I, V]) Slice() []float64 {
	var id I
	return id.toSlice(p.coords)
}

func (p Point[I, V]) String() string {
	vals := p.Slice()
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("%s[%s]", p.System(), strings.Join(parts, " "))
}
