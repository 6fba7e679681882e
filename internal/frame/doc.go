// Package frame owns the typed coordinate-system model used across the
// perception pipeline.
//
// Every value that carries coordinates is tagged on two axes:
//
//   - which frame it lives in (a CoordinateSystem id such as LeftCameraSE3)
//     together with the representation of its coordinates (SE3 pose, R3
//     point, R2 pixel). Both are type parameters, so handing a right-camera
//     point to a left-camera transform does not compile.
//   - when it was observed (a Time). Instants are not enumerable, so they are
//     checked at run time whenever a dynamic Transform consumes a Point.
//
// Key types: CoordinateSystem, Point, Transform, Timing.
// Key operations: Transform.Apply, Compose, Invert, Transform.At.
//
// Adding a frame means adding an id type to ids.go that embeds exactly one
// representation tag. There is no run-time registration.
package frame
