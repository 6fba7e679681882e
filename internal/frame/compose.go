package frame

import "fmt"

// Compose chains first (A→B) and second (B→C) into one transform A→C.
// The shared system B must agree in both id and representation, which the
// type parameters enforce.
//
// Timing of the result:
//
//	static  ∘ static  = static
//	static  ∘ dynamic = the dynamic part's timing (either order)
//	dynamic ∘ dynamic = first.Source → second.Target, provided
//	                    first.Target == second.Source
//
// A dynamic pair whose intermediate instants disagree fails with
// ErrCompositionTimeMismatch and yields no transform. Applying the result
// runs first and then second, so it agrees with applying them in sequence
// in coordinates, time and error.
func Compose[A ID[AV], AV any, B ID[BV], BV any, C ID[CV], CV any](
	first Transform[A, AV, B, BV],
	second Transform[B, BV, C, CV],
) (Transform[A, AV, C, CV], error) {
	if first.stage == nil || second.stage == nil {
		return Transform[A, AV, C, CV]{}, errZeroTransform
	}
	tm, err := composeTiming(first.timing, second.timing)
	if err != nil {
		return Transform[A, AV, C, CV]{}, fmt.Errorf("compose %s with %s: %w", first, second, err)
	}
	return Transform[A, AV, C, CV]{
		timing: tm,
		stage:  composite[AV, BV, CV]{first: first.stage, second: second.stage},
	}, nil
}

// Compose3 chains three transforms left to right.
func Compose3[A ID[AV], AV any, B ID[BV], BV any, C ID[CV], CV any, D ID[DV], DV any](
	x Transform[A, AV, B, BV],
	y Transform[B, BV, C, CV],
	z Transform[C, CV, D, DV],
) (Transform[A, AV, D, DV], error) {
	xy, err := Compose(x, y)
	if err != nil {
		return Transform[A, AV, D, DV]{}, err
	}
	return Compose(xy, z)
}

// Invert returns the transform mapping D back to S. Dynamic timings swap
// their instants. Every payload in the chain must be Invertible;
// projections are not.
func Invert[S ID[SV], SV any, D ID[DV], DV any](t Transform[S, SV, D, DV]) (Transform[D, DV, S, SV], error) {
	if t.stage == nil {
		return Transform[D, DV, S, SV]{}, errZeroTransform
	}
	inv, err := t.stage.invert()
	if err != nil {
		return Transform[D, DV, S, SV]{}, fmt.Errorf("invert %s: %w", t, err)
	}
	return Transform[D, DV, S, SV]{timing: t.timing.reversed(), stage: inv}, nil
}

func composeTiming(first, second Timing) (Timing, error) {
	switch {
	case first.Kind == KindStatic && second.Kind == KindStatic:
		return StaticTiming(), nil
	case first.Kind == KindStatic:
		return second, nil
	case second.Kind == KindStatic:
		return first, nil
	}
	if first.Target != second.Source {
		return Timing{}, fmt.Errorf("%w: first ends at t=%d, second starts at t=%d",
			ErrCompositionTimeMismatch, first.Target, second.Source)
	}
	return DynamicTiming(first.Source, second.Target), nil
}

// composite runs first then second. Each part checks its own timing.
type composite[SV, MV, DV any] struct {
	first  stage[SV, MV]
	second stage[MV, DV]
}

func (c composite[SV, MV, DV]) run(coords SV, t Time) (DV, Time, error) {
	var zero DV
	mid, mt, err := c.first.run(coords, t)
	if err != nil {
		return zero, 0, err
	}
	return c.second.run(mid, mt)
}

func (c composite[SV, MV, DV]) invert() (stage[DV, SV], error) {
	second, err := c.second.invert()
	if err != nil {
		return nil, err
	}
	first, err := c.first.invert()
	if err != nil {
		return nil, err
	}
	return composite[DV, MV, SV]{first: second, second: first}, nil
}
