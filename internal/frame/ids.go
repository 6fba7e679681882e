package frame

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/coordframe/internal/geom"
)

// ID is satisfied by coordinate-system id types. An id embeds exactly one
// representation tag, which fixes V for the lifetime of the program.
type ID[V any] interface {
	comparable
	Repr[V]
	// Name returns the id's registry name, e.g. "LeftCameraSE3".
	Name() string
}

// Stereo rig frames. To add a sensor, add a type here embedding its
// representation tag, give it a Name and list it in registry below.

// LeftCameraSE3 is the left camera's optical frame, poses.
type LeftCameraSE3 struct{ SE3 }

// RightCameraSE3 is the right camera's optical frame, poses.
type RightCameraSE3 struct{ SE3 }

// LeftCameraR3 is the left camera's optical frame, landmark points.
type LeftCameraR3 struct{ R3 }

// RightCameraR3 is the right camera's optical frame, landmark points.
type RightCameraR3 struct{ R3 }

// LeftCameraImagePlane holds left image pixels.
type LeftCameraImagePlane struct{ R2 }

// RightCameraImagePlane holds right image pixels.
type RightCameraImagePlane struct{ R2 }

// RigSE3 is the vehicle body frame the cameras are mounted on.
type RigSE3 struct{ SE3 }

// WorldSE3 is the odometry origin.
type WorldSE3 struct{ SE3 }

func (LeftCameraSE3) Name() string         { return "LeftCameraSE3" }
func (RightCameraSE3) Name() string        { return "RightCameraSE3" }
func (LeftCameraR3) Name() string          { return "LeftCameraR3" }
func (RightCameraR3) Name() string         { return "RightCameraR3" }
func (LeftCameraImagePlane) Name() string  { return "LeftCameraImagePlane" }
func (RightCameraImagePlane) Name() string { return "RightCameraImagePlane" }
func (RigSE3) Name() string                { return "RigSE3" }
func (WorldSE3) Name() string              { return "WorldSE3" }

// Entry describes one registered id.
type Entry struct {
	Name string `json:"name"`
	Repr string `json:"repr"`
	Dim  int    `json:"dim"`
}

func entry[I ID[V], V any]() Entry {
	var id I
	return Entry{Name: id.Name(), Repr: id.ReprName(), Dim: id.Dim()}
}

// registry is read-only after init.
var registry = []Entry{
	entry[LeftCameraSE3, geom.Pose](),
	entry[RightCameraSE3, geom.Pose](),
	entry[LeftCameraR3, r3.Vec](),
	entry[RightCameraR3, r3.Vec](),
	entry[LeftCameraImagePlane, r2.Vec](),
	entry[RightCameraImagePlane, r2.Vec](),
	entry[RigSE3, geom.Pose](),
	entry[WorldSE3, geom.Pose](),
}

// IDs lists every registered coordinate-system id.
func IDs() []Entry {
	out := make([]Entry, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a registered id by name.
func Lookup(name string) (Entry, bool) {
	for _, e := range registry {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
