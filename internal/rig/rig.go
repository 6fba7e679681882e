// Package rig turns a stereo calibration into typed frame transforms.
package rig

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/coordframe/internal/config"
	"github.com/banshee-data/coordframe/internal/frame"
	"github.com/banshee-data/coordframe/internal/geom"
	"github.com/banshee-data/coordframe/internal/monitoring"
)

// ErrPoorQuality is returned by Build when an extrinsic is graded poor and
// the calibration does not allow it.
var ErrPoorQuality = errors.New("extrinsic quality too poor")

type (
	leftSE3    = frame.LeftCameraSE3
	rightSE3   = frame.RightCameraSE3
	leftR3     = frame.LeftCameraR3
	rightR3    = frame.RightCameraR3
	leftImage  = frame.LeftCameraImagePlane
	rightImage = frame.RightCameraImagePlane
)

// Rig holds the static transforms of one calibrated stereo rig.
type Rig struct {
	ID string

	LeftToRight      frame.Transform[leftSE3, geom.Pose, rightSE3, geom.Pose]
	RightToLeft      frame.Transform[rightSE3, geom.Pose, leftSE3, geom.Pose]
	LeftPointToRight frame.Transform[leftR3, r3.Vec, rightR3, r3.Vec]

	LeftProject       frame.Transform[leftSE3, geom.Pose, leftImage, r2.Vec]
	RightProject      frame.Transform[rightSE3, geom.Pose, rightImage, r2.Vec]
	LeftPointProject  frame.Transform[leftR3, r3.Vec, leftImage, r2.Vec]
	RightPointProject frame.Transform[rightR3, r3.Vec, rightImage, r2.Vec]

	// RigToLeft is only set when the calibration carries rig_to_left.
	RigToLeft    frame.Transform[frame.RigSE3, geom.Pose, leftSE3, geom.Pose]
	HasRigToLeft bool

	LeftCamera  geom.Intrinsics
	RightCamera geom.Intrinsics
	LeftSize    [2]int
	RightSize   [2]int
}

// Build validates cfg and assembles the rig's transforms. Each extrinsic's
// quality is logged; poor extrinsics fail with ErrPoorQuality unless
// allow_poor_quality is set.
func Build(cfg *config.Calibration) (*Rig, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil calibration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid calibration: %w", err)
	}

	leftToRight, err := extrinsic(cfg, "left_to_right", cfg.LeftToRight)
	if err != nil {
		return nil, err
	}
	leftK, err := cfg.Left.Intrinsics()
	if err != nil {
		return nil, fmt.Errorf("left camera: %w", err)
	}
	rightK, err := cfg.Right.Intrinsics()
	if err != nil {
		return nil, fmt.Errorf("right camera: %w", err)
	}

	r := &Rig{
		ID:                cfg.GetRigID(),
		LeftToRight:       frame.NewRigid[leftSE3, rightSE3](leftToRight),
		RightToLeft:       frame.NewRigid[rightSE3, leftSE3](leftToRight.Inverse()),
		LeftPointToRight:  frame.NewRigidPoints[leftR3, rightR3](leftToRight),
		LeftProject:       frame.NewProjective[leftSE3, leftImage](leftK),
		RightProject:      frame.NewProjective[rightSE3, rightImage](rightK),
		LeftPointProject:  frame.NewPointProjective[leftR3, leftImage](leftK),
		RightPointProject: frame.NewPointProjective[rightR3, rightImage](rightK),
		LeftCamera:        leftK,
		RightCamera:       rightK,
		LeftSize:          [2]int{cfg.Left.GetWidth(), cfg.Left.GetHeight()},
		RightSize:         [2]int{cfg.Right.GetWidth(), cfg.Right.GetHeight()},
	}

	if cfg.RigToLeft != nil {
		rigToLeft, err := extrinsic(cfg, "rig_to_left", cfg.RigToLeft)
		if err != nil {
			return nil, err
		}
		r.RigToLeft = frame.NewRigid[frame.RigSE3, leftSE3](rigToLeft)
		r.HasRigToLeft = true
	}
	return r, nil
}

func extrinsic(cfg *config.Calibration, name string, e *config.Extrinsic) (geom.Pose, error) {
	v := config.ValidateExtrinsic(e)
	monitoring.Logf("[rig %s] %s quality: %s", cfg.GetRigID(), name, v.Quality)
	for _, issue := range v.Issues {
		monitoring.Logf("[rig %s] %s: %s", cfg.GetRigID(), name, issue)
	}
	if !config.IsUsable(v, cfg.GetAllowPoorQuality()) {
		return geom.Pose{}, fmt.Errorf("%s: %w: %s", name, ErrPoorQuality, v.Quality)
	}
	return e.Pose()
}

// InImage reports whether px lies inside an image of the given size.
func InImage(px r2.Vec, size [2]int) bool {
	return px.X >= 0 && px.Y >= 0 && px.X < float64(size[0]) && px.Y < float64(size[1])
}

// Triangulate recovers a left-camera point from a rectified stereo match:
// the same landmark seen at leftPx and rightPx on one image row. It uses
// the baseline of LeftToRight and the left camera's intrinsics. The point
// is stamped t.
func (r *Rig) Triangulate(t frame.Time, leftPx, rightPx r2.Vec) (frame.Point[leftR3, r3.Vec], error) {
	disparity := leftPx.X - rightPx.X
	if disparity <= 0 {
		return frame.Point[leftR3, r3.Vec]{}, fmt.Errorf("%w: disparity %g must be positive", frame.ErrDegenerateProjection, disparity)
	}
	baseline, err := r.baseline()
	if err != nil {
		return frame.Point[leftR3, r3.Vec]{}, err
	}
	depth := r.LeftCamera.Fx * baseline / disparity
	return frame.NewPoint[leftR3](t, r.LeftCamera.Unproject(leftPx, depth)), nil
}

// baseline returns the distance between the camera centres.
func (r *Rig) baseline() (float64, error) {
	origin, err := r.RightToLeft.Apply(frame.NewPoint[rightSE3](0, geom.Identity()))
	if err != nil {
		return 0, err
	}
	return r3.Norm(origin.Coords().Translation), nil
}
