package frame

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/coordframe/internal/geom"
)

func TestCoordinateSystem_Identity(t *testing.T) {
	a := At[LeftCameraR3, r3.Vec](4)
	b := At[LeftCameraR3, r3.Vec](4)
	c := At[LeftCameraR3, r3.Vec](5)

	assert.Equal(t, a, b)
	assert.True(t, a == b)
	assert.False(t, a == c)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, c.Equal(At[LeftCameraR3, r3.Vec](5)))
	assert.Equal(t, Time(4), a.Time())
	assert.Equal(t, "LeftCameraR3", a.ID().Name())
	assert.Equal(t, "LeftCameraR3@4", a.String())
}

func TestPoint_Construction(t *testing.T) {
	cs := At[RightCameraImagePlane, r2.Vec](12)
	p := cs.Point(r2.Vec{X: 1, Y: 2})

	assert.Equal(t, NewPoint[RightCameraImagePlane](12, r2.Vec{X: 1, Y: 2}), p)
	assert.Equal(t, cs, p.System())
	assert.True(t, p.In(cs))
	assert.False(t, p.In(At[RightCameraImagePlane, r2.Vec](13)))
	assert.Equal(t, []float64{1, 2}, p.Slice())
	assert.Equal(t, "RightCameraImagePlane@12[1 2]", p.String())
}

func TestPointFromSlice(t *testing.T) {
	tests := []struct {
		name    string
		vals    []float64
		wantErr bool
	}{
		{"exact", []float64{1, 2, 3}, false},
		{"short", []float64{1, 2}, true},
		{"long", []float64{1, 2, 3, 4}, true},
		{"empty", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := PointFromSlice[LeftCameraR3, r3.Vec](3, tt.vals)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrShape)
				assert.Contains(t, err.Error(), "LeftCameraR3")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: 3}, p.Coords())
			assert.Equal(t, Time(3), p.Time())
		})
	}
}

func TestPointFromSlice_SE3(t *testing.T) {
	pose := geom.NewPose(0.3, r3.Vec{Z: 1}, r3.Vec{X: 1, Y: -2, Z: 0.5})
	m := pose.Matrix()

	p, err := At[RigSE3, geom.Pose](0).PointFromSlice(m[:])
	require.NoError(t, err)
	if diff := cmp.Diff(m[:], p.Slice(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("matrix round trip (-want +got):\n%s", diff)
	}

	bad := m
	bad[0] = 5
	_, err = PointFromSlice[RigSE3, geom.Pose](0, bad[:])
	assert.ErrorIs(t, err, ErrShape)

	_, err = PointFromSlice[RigSE3, geom.Pose](0, m[:12])
	assert.ErrorIs(t, err, ErrShape)
}

func TestPointFromSlice_SE3SnapsNearRigid(t *testing.T) {
	m := geom.Translate(r3.Vec{X: 2}).Matrix()
	m[0] = 1.004
	m[15] = 1.0005

	p, err := PointFromSlice[RigSE3, geom.Pose](0, m[:])
	require.NoError(t, err)

	got := p.Slice()
	assert.InDelta(t, 1.0, got[0], 1e-12)
	assert.InDelta(t, 1.0, got[15], 1e-12)
	assert.InDelta(t, 2.0, got[3], 1e-12)
	assert.True(t, p.Coords().Valid())
}

func TestRegistry(t *testing.T) {
	ids := IDs()
	require.Len(t, ids, 8)

	seen := make(map[string]bool)
	for _, e := range ids {
		assert.False(t, seen[e.Name], "duplicate id %q", e.Name)
		seen[e.Name] = true

		got, ok := Lookup(e.Name)
		require.True(t, ok)
		assert.Equal(t, e, got)
	}

	e, ok := Lookup("LeftCameraImagePlane")
	require.True(t, ok)
	assert.Equal(t, Entry{Name: "LeftCameraImagePlane", Repr: "R2", Dim: 2}, e)

	_, ok = Lookup("ThermalCamera")
	assert.False(t, ok)

	// IDs returns a copy.
	ids[0].Name = "mutated"
	_, ok = Lookup("mutated")
	assert.False(t, ok)
}

func TestIDsAreZeroSized(t *testing.T) {
	// Ids carry no state, so every value of an id type is the same id.
	assert.Equal(t, LeftCameraSE3{}, LeftCameraSE3{})
	assert.Equal(t, "SE3", RigSE3{}.ReprName())
	assert.Equal(t, 16, WorldSE3{}.Dim())
	assert.Equal(t, 3, RightCameraR3{}.Dim())
}
