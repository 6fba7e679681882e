package trajplot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/coordframe/internal/frame"
	"github.com/banshee-data/coordframe/internal/fsutil"
	"github.com/banshee-data/coordframe/internal/geom"
	"github.com/banshee-data/coordframe/internal/posestore"
)

func straightTrack(name string, n int) Track {
	tr := Track{Name: name}
	for i := 0; i < n; i++ {
		tr.Samples = append(tr.Samples, &posestore.Sample{
			FrameID: name,
			Time:    frame.Time(i),
			Pose:    geom.Translate(r3.Vec{X: 0.1 * float64(i), Z: float64(i)}),
		})
	}
	return tr
}

func TestNew(t *testing.T) {
	p, err := New("rig", straightTrack("RightCameraSE3", 5), straightTrack("LeftCameraSE3", 0))
	require.NoError(t, err)
	assert.Equal(t, "rig", p.Title.Text)
	assert.InDelta(t, 0, p.Y.Min, 1e-9)
	assert.InDelta(t, 4, p.Y.Max, 1e-9)
}

func TestNew_Empty(t *testing.T) {
	_, err := New("empty")
	assert.Error(t, err)

	_, err = New("empty", Track{Name: "RigSE3"})
	assert.Error(t, err)
}

func TestRender_PNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "png", "rig", straightTrack("RigSE3", 3)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")), "output is not a PNG")
}

func TestRender_BadFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, "bmp9", "rig", straightTrack("RigSE3", 3))
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "traj.svg")
	require.NoError(t, Save(path, "rig", straightTrack("RigSE3", 3)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, Save(filepath.Join(dir, "traj"), "rig", straightTrack("RigSE3", 3)))
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, "Rig trajectories", straightTrack("RightCameraSE3", 4)))
	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "RightCameraSE3")

	buf.Reset()
	assert.Error(t, RenderHTML(&buf, "empty", Track{Name: "RigSE3"}))
}

func TestSave_HTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traj.html")
	require.NoError(t, Save(path, "rig", straightTrack("RigSE3", 3)))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "RigSE3")
}

func TestSaveFS(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	require.NoError(t, SaveFS(fsys, "plots/traj.png", "rig", straightTrack("RigSE3", 3)))
	data, err := fsys.ReadFile("plots/traj.png")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	err = SaveFS(fsys, "plots/empty.png", "rig", Track{Name: "RigSE3"})
	require.Error(t, err)
	_, err = fsys.Stat("plots/empty.png")
	assert.Error(t, err, "failed renders leave no file")
}
