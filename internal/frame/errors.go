package frame

import (
	"errors"

	"github.com/banshee-data/coordframe/internal/geom"
)

var (
	// ErrTimeMismatch is returned when a dynamic transform is applied to a
	// point observed at a different instant than the transform's source.
	ErrTimeMismatch = errors.New("time mismatch")

	// ErrCompositionTimeMismatch is returned when two dynamic transforms are
	// composed and the first does not end at the instant the second starts.
	ErrCompositionTimeMismatch = errors.New("composition time mismatch")

	// ErrDegenerateProjection is returned by projective transforms when the
	// projection is undefined for the input.
	ErrDegenerateProjection = geom.ErrDegenerateProjection

	// ErrShape is returned when flattened coordinates do not match the
	// representation they are read into.
	ErrShape = errors.New("coordinate shape mismatch")

	// ErrNotInvertible is returned by Invert when a part has no inverse.
	ErrNotInvertible = errors.New("transform not invertible")

	// ErrAlreadyDynamic is returned by At on a transform that is already
	// bound to an instant pair.
	ErrAlreadyDynamic = errors.New("transform already bound to a time")

	errZeroTransform = errors.New("zero Transform")
)
