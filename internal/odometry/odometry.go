// Package odometry derives dynamic frame transforms from recorded camera
// poses. Stored poses are world←camera; the motion of a camera between two
// instants is therefore pose(to)⁻¹ · pose(from).
package odometry

import (
	"context"
	"fmt"

	"github.com/banshee-data/coordframe/internal/frame"
	"github.com/banshee-data/coordframe/internal/geom"
	"github.com/banshee-data/coordframe/internal/monitoring"
	"github.com/banshee-data/coordframe/internal/posestore"
)

// Source reads pose samples. *posestore.Store implements it.
type Source interface {
	Bracket(ctx context.Context, frameID string, t frame.Time) (before, after *posestore.Sample, err error)
}

// Recorder stores pose samples. *posestore.Store implements it.
type Recorder interface {
	Insert(ctx context.Context, sample *posestore.Sample) error
}

type world = frame.WorldSE3

// PoseAt returns the world pose of frame I at t. A sample recorded at t is
// used as is; an instant strictly between two samples is interpolated.
func PoseAt[I frame.ID[geom.Pose]](ctx context.Context, src Source, t frame.Time) (frame.Point[world, geom.Pose], error) {
	var id I
	before, after, err := src.Bracket(ctx, id.Name(), t)
	if err != nil {
		return frame.Point[world, geom.Pose]{}, fmt.Errorf("pose of %s at t=%d: %w", id.Name(), t, err)
	}
	if before.Time == t {
		return frame.NewPoint[world](t, before.Pose), nil
	}
	monitoring.Logf("[odometry] interpolating %s at t=%d between t=%d and t=%d", id.Name(), t, before.Time, after.Time)
	return frame.NewPoint[world](t, Interpolated(before, after, t)), nil
}

// Interpolated returns the pose at t on the geodesic between two samples.
// t is expected to lie within [before.Time, after.Time].
func Interpolated(before, after *posestore.Sample, t frame.Time) geom.Pose {
	if after.Time == before.Time {
		return before.Pose
	}
	alpha := float64(t-before.Time) / float64(after.Time-before.Time)
	return geom.Interpolate(before.Pose, after.Pose, alpha)
}

// ToWorld returns the transform from frame I at t into the world frame at t.
func ToWorld[I frame.ID[geom.Pose]](ctx context.Context, src Source, t frame.Time) (frame.Transform[I, geom.Pose, world, geom.Pose], error) {
	p, err := PoseAt[I](ctx, src, t)
	if err != nil {
		return frame.Transform[I, geom.Pose, world, geom.Pose]{}, err
	}
	return frame.NewDynamicRigid[I, world](t, t, p.Coords()), nil
}

// Motion returns the dynamic transform carrying frame I from instant from
// to instant to. It accepts only points at from and stamps them to.
func Motion[I frame.ID[geom.Pose]](ctx context.Context, src Source, from, to frame.Time) (frame.Transform[I, geom.Pose, I, geom.Pose], error) {
	start, err := PoseAt[I](ctx, src, from)
	if err != nil {
		return frame.Transform[I, geom.Pose, I, geom.Pose]{}, err
	}
	end, err := PoseAt[I](ctx, src, to)
	if err != nil {
		return frame.Transform[I, geom.Pose, I, geom.Pose]{}, err
	}
	delta := end.Coords().Inverse().Mul(start.Coords())
	return frame.NewDynamicRigid[I, I](from, to, delta), nil
}

// Record stores the world pose of frame I.
func Record[I frame.ID[geom.Pose]](ctx context.Context, rec Recorder, pose frame.Point[world, geom.Pose], source string) (*posestore.Sample, error) {
	var id I
	sample := &posestore.Sample{
		FrameID: id.Name(),
		Time:    pose.Time(),
		Pose:    pose.Coords(),
		Source:  source,
	}
	if err := rec.Insert(ctx, sample); err != nil {
		return nil, fmt.Errorf("record %s at t=%d: %w", id.Name(), pose.Time(), err)
	}
	return sample, nil
}
