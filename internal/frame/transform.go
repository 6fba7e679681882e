package frame

import (
	"fmt"
)

// Kind classifies a transform by how it depends on time.
type Kind uint8

const (
	// KindStatic transforms hold at every instant; points keep their time.
	KindStatic Kind = iota
	// KindDynamic transforms hold for one source instant and stamp their
	// output with one target instant.
	KindDynamic
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindDynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Timing is the run-time half of a transform's contract.
// Source and Target are meaningful only for KindDynamic.
type Timing struct {
	Kind   Kind
	Source Time
	Target Time
}

// StaticTiming returns the timing of a time-independent transform.
func StaticTiming() Timing { return Timing{Kind: KindStatic} }

// DynamicTiming returns the timing of a transform valid from source to target.
func DynamicTiming(source, target Time) Timing {
	return Timing{Kind: KindDynamic, Source: source, Target: target}
}

// admit checks a point's time against the timing and returns the time the
// output is stamped with.
func (tm Timing) admit(t Time) (Time, error) {
	if tm.Kind == KindStatic {
		return t, nil
	}
	if t != tm.Source {
		return 0, fmt.Errorf("%w: point at t=%d, transform expects t=%d", ErrTimeMismatch, t, tm.Source)
	}
	return tm.Target, nil
}

func (tm Timing) reversed() Timing {
	if tm.Kind == KindStatic {
		return tm
	}
	return DynamicTiming(tm.Target, tm.Source)
}

func (tm Timing) String() string {
	if tm.Kind == KindStatic {
		return "static"
	}
	return fmt.Sprintf("dynamic %d→%d", tm.Source, tm.Target)
}

// Mapping is the numeric payload of a transform. Implementations are
// supplied by calibration code (rigid offsets, intrinsics) and must be pure.
type Mapping[SV, DV any] interface {
	Map(v SV) (DV, error)
}

// Invertible mappings can be run backwards.
type Invertible[SV, DV any] interface {
	Mapping[SV, DV]
	Inverse() Mapping[DV, SV]
}

// MappingFunc adapts a function to Mapping.
type MappingFunc[SV, DV any] func(SV) (DV, error)

// Map calls f(v).
func (f MappingFunc[SV, DV]) Map(v SV) (DV, error) { return f(v) }

// Transform maps points from coordinate system S (coordinates SV) to
// coordinate system D (coordinates DV). It is an immutable value and safe
// for concurrent use.
//
// A transform is static or dynamic (see Timing) and projective when S and D
// have different representations; the two properties are independent.
type Transform[S ID[SV], SV any, D ID[DV], DV any] struct {
	timing Timing
	stage  stage[SV, DV]
}

// NewStatic returns a time-independent transform running m.
func NewStatic[S ID[SV], SV any, D ID[DV], DV any](m Mapping[SV, DV]) Transform[S, SV, D, DV] {
	tm := StaticTiming()
	return Transform[S, SV, D, DV]{timing: tm, stage: leaf[SV, DV]{timing: tm, m: m}}
}

// NewDynamic returns a transform valid only for points at source; its
// output is stamped target.
func NewDynamic[S ID[SV], SV any, D ID[DV], DV any](source, target Time, m Mapping[SV, DV]) Transform[S, SV, D, DV] {
	tm := DynamicTiming(source, target)
	return Transform[S, SV, D, DV]{timing: tm, stage: leaf[SV, DV]{timing: tm, m: m}}
}

// Identity returns the static identity transform of coordinate system I.
func Identity[I ID[V], V any]() Transform[I, V, I, V] {
	return NewStatic[I, V, I, V](identity[V]{})
}

// Apply maps p into D. Static transforms keep p's time; dynamic transforms
// require p.Time() == Timing().Source and stamp Timing().Target.
func (t Transform[S, SV, D, DV]) Apply(p Point[S, SV]) (Point[D, DV], error) {
	if t.stage == nil {
		return Point[D, DV]{}, errZeroTransform
	}
	coords, tm, err := t.stage.run(p.coords, p.time)
	if err != nil {
		return Point[D, DV]{}, fmt.Errorf("apply %s to %s: %w", t, p.System(), err)
	}
	return Point[D, DV]{coords: coords, time: tm}, nil
}

// Apply is the function form of Transform.Apply.
func Apply[S ID[SV], SV any, D ID[DV], DV any](t Transform[S, SV, D, DV], p Point[S, SV]) (Point[D, DV], error) {
	return t.Apply(p)
}

// At binds a static transform to one instant pair, returning a dynamic
// transform accepting points at source and stamping target.
func (t Transform[S, SV, D, DV]) At(source, target Time) (Transform[S, SV, D, DV], error) {
	if t.stage == nil {
		return Transform[S, SV, D, DV]{}, errZeroTransform
	}
	if t.timing.Kind != KindStatic {
		return Transform[S, SV, D, DV]{}, fmt.Errorf("%w: %s", ErrAlreadyDynamic, t)
	}
	tm := DynamicTiming(source, target)
	return Transform[S, SV, D, DV]{timing: tm, stage: bound[SV, DV]{inner: t.stage, timing: tm}}, nil
}

// Timing returns the transform's time classification.
func (t Transform[S, SV, D, DV]) Timing() Timing { return t.timing }

// IsStatic reports whether the transform holds at every instant.
func (t Transform[S, SV, D, DV]) IsStatic() bool { return t.timing.Kind == KindStatic }

// IsDynamic reports whether the transform is bound to one instant pair.
func (t Transform[S, SV, D, DV]) IsDynamic() bool { return t.timing.Kind == KindDynamic }

// IsProjective reports whether the transform changes representation.
func (t Transform[S, SV, D, DV]) IsProjective() bool {
	var s S
	var d D
	return s.ReprName() != d.ReprName()
}

// Source returns the source coordinate system for a dynamic transform.
// For static transforms the instant is meaningless and zero is used.
func (t Transform[S, SV, D, DV]) Source() CoordinateSystem[S, SV] {
	return At[S, SV](t.timing.Source)
}

// Target returns the target coordinate system for a dynamic transform.
func (t Transform[S, SV, D, DV]) Target() CoordinateSystem[D, DV] {
	return At[D, DV](t.timing.Target)
}

func (t Transform[S, SV, D, DV]) String() string {
	var s S
	var d D
	kind := t.timing.String()
	if t.IsProjective() {
		kind += ", projective"
	}
	return fmt.Sprintf("%s→%s (%s)", s.Name(), d.Name(), kind)
}

// stage is the executable body of a transform: a leaf payload, a bound
// static body, or a composition of two stages.
type stage[SV, DV any] interface {
	run(coords SV, t Time) (DV, Time, error)
	invert() (stage[DV, SV], error)
}

type leaf[SV, DV any] struct {
	timing Timing
	m      Mapping[SV, DV]
}

func (l leaf[SV, DV]) run(coords SV, t Time) (DV, Time, error) {
	var zero DV
	out, err := l.timing.admit(t)
	if err != nil {
		return zero, 0, err
	}
	if l.m == nil {
		return zero, 0, errZeroTransform
	}
	v, err := l.m.Map(coords)
	if err != nil {
		return zero, 0, err
	}
	return v, out, nil
}

func (l leaf[SV, DV]) invert() (stage[DV, SV], error) {
	inv, ok := l.m.(Invertible[SV, DV])
	if !ok {
		return nil, fmt.Errorf("%w: payload %T", ErrNotInvertible, l.m)
	}
	return leaf[DV, SV]{timing: l.timing.reversed(), m: inv.Inverse()}, nil
}

// bound wraps a static body with a dynamic timing (see Transform.At).
type bound[SV, DV any] struct {
	inner  stage[SV, DV]
	timing Timing
}

func (b bound[SV, DV]) run(coords SV, t Time) (DV, Time, error) {
	var zero DV
	out, err := b.timing.admit(t)
	if err != nil {
		return zero, 0, err
	}
	v, _, err := b.inner.run(coords, t)
	if err != nil {
		return zero, 0, err
	}
	return v, out, nil
}

func (b bound[SV, DV]) invert() (stage[DV, SV], error) {
	inner, err := b.inner.invert()
	if err != nil {
		return nil, err
	}
	return bound[DV, SV]{inner: inner, timing: b.timing.reversed()}, nil
}

type identity[V any] struct{}

func (identity[V]) Map(v V) (V, error)      { return v, nil }
func (identity[V]) Inverse() Mapping[V, V] { return identity[V]{} }
