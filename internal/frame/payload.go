package frame

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/coordframe/internal/geom"
)

// Concrete payloads for the stereo rig. Calibration code supplies the
// numbers; these constructors fix the representation so only the ids need
// spelling at call sites:
//
//	leftToRight := frame.NewRigid[frame.LeftCameraSE3, frame.RightCameraSE3](pose)

// NewRigid returns a static rigid transform between two SE3 frames.
// pose is read as D←S.
func NewRigid[S ID[geom.Pose], D ID[geom.Pose]](pose geom.Pose) Transform[S, geom.Pose, D, geom.Pose] {
	return NewStatic[S, geom.Pose, D, geom.Pose](RigidPose{Pose: pose})
}

// NewDynamicRigid returns a rigid transform valid from source to target,
// e.g. the motion of one camera between two frames.
func NewDynamicRigid[S ID[geom.Pose], D ID[geom.Pose]](source, target Time, pose geom.Pose) Transform[S, geom.Pose, D, geom.Pose] {
	return NewDynamic[S, geom.Pose, D, geom.Pose](source, target, RigidPose{Pose: pose})
}

// NewRigidPoints returns a static rigid transform between two R3 frames.
func NewRigidPoints[S ID[r3.Vec], D ID[r3.Vec]](pose geom.Pose) Transform[S, r3.Vec, D, r3.Vec] {
	return NewStatic[S, r3.Vec, D, r3.Vec](RigidPoint{Pose: pose})
}

// NewProjective returns a static projection from an SE3 camera frame onto
// its image plane. The pose's translation is projected.
func NewProjective[S ID[geom.Pose], D ID[r2.Vec]](k geom.Intrinsics) Transform[S, geom.Pose, D, r2.Vec] {
	return NewStatic[S, geom.Pose, D, r2.Vec](PoseProjection{K: k})
}

// NewPointProjective returns a static projection from an R3 camera frame
// onto its image plane.
func NewPointProjective[S ID[r3.Vec], D ID[r2.Vec]](k geom.Intrinsics) Transform[S, r3.Vec, D, r2.Vec] {
	return NewStatic[S, r3.Vec, D, r2.Vec](PointProjection{K: k})
}

// NewPosition returns the static transform that keeps only a pose's
// translation, moving from an SE3 frame to the R3 frame of the same sensor.
func NewPosition[S ID[geom.Pose], D ID[r3.Vec]]() Transform[S, geom.Pose, D, r3.Vec] {
	return NewStatic[S, geom.Pose, D, r3.Vec](MappingFunc[geom.Pose, r3.Vec](func(p geom.Pose) (r3.Vec, error) {
		return p.Translation, nil
	}))
}

// RigidPose left-multiplies poses by Pose.
type RigidPose struct{ Pose geom.Pose }

// Map returns Pose∘p.
func (r RigidPose) Map(p geom.Pose) (geom.Pose, error) { return r.Pose.Mul(p), nil }

// Inverse returns the rigid payload of Pose⁻¹.
func (r RigidPose) Inverse() Mapping[geom.Pose, geom.Pose] {
	return RigidPose{Pose: r.Pose.Inverse()}
}

// RigidPoint moves points by Pose.
type RigidPoint struct{ Pose geom.Pose }

// Map returns Pose applied to v.
func (r RigidPoint) Map(v r3.Vec) (r3.Vec, error) { return r.Pose.Apply(v), nil }

// Inverse returns the rigid payload of Pose⁻¹.
func (r RigidPoint) Inverse() Mapping[r3.Vec, r3.Vec] {
	return RigidPoint{Pose: r.Pose.Inverse()}
}

// PoseProjection projects the position of a camera-frame pose.
type PoseProjection struct{ K geom.Intrinsics }

// Map projects p.Translation; it fails with ErrDegenerateProjection for
// positions on or behind the focal plane.
func (pp PoseProjection) Map(p geom.Pose) (r2.Vec, error) { return pp.K.Project(p.Translation) }

// PointProjection projects camera-frame points.
type PointProjection struct{ K geom.Intrinsics }

// Map projects v; it fails with ErrDegenerateProjection for points on or
// behind the focal plane.
func (pp PointProjection) Map(v r3.Vec) (r2.Vec, error) { return pp.K.Project(v) }
