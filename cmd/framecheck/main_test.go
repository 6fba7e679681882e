package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/coordframe/internal/monitoring"
)

const calibYAML = `rig_id: bench
left:
  k: [700, 0, 640, 0, 700, 360, 0, 0, 1]
right:
  k: [700, 0, 640, 0, 700, 360, 0, 0, 1]
left_to_right:
  t: [1, 0, 0, -0.12, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1]
  rmse: 0.08
`

func writeCalib(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rig.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the CLI and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	original := monitoring.Logf
	t.Cleanup(func() {
		monitoring.UseZap(nil)
		monitoring.Logf = original
	})

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func identityMatrix(z float64) string {
	return fmt.Sprintf("1,0,0,0, 0,1,0,0, 0,0,1,%g, 0,0,0,1", z)
}

func TestValidate(t *testing.T) {
	out, _, err := run(t, "validate", writeCalib(t, calibYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "rig bench")
	assert.Contains(t, out, "left_to_right  good (residual 0.05-0.15m)")
	assert.Contains(t, out, "usable")
}

func TestValidate_JSONPoor(t *testing.T) {
	poor := strings.Replace(calibYAML, "rmse: 0.08", "rmse: 0.9", 1)
	out, _, err := run(t, "--format", "json", "validate", writeCalib(t, poor))
	require.Error(t, err)

	var report validateReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Usable)
	require.Len(t, report.Extrinsics, 1)
	assert.Equal(t, "poor", report.Extrinsics[0].Quality)
	assert.Contains(t, report.Error, "too poor")
}

func TestValidate_Verbose(t *testing.T) {
	_, stderr, err := run(t, "-v", "validate", writeCalib(t, calibYAML))
	require.NoError(t, err)
	assert.Contains(t, stderr, "left_to_right quality")
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := run(t, "--format", "xml", "ids")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestProject(t *testing.T) {
	calib := writeCalib(t, calibYAML)

	out, _, err := run(t, "project", calib, "--camera", "left", "--x", "0.5", "--z", "2", "--time", "4")
	require.NoError(t, err)
	assert.Equal(t, "LeftCameraImagePlane@4 (815.00, 360.00)\n", out)

	out, _, err = run(t, "--format", "json", "project", calib, "--camera", "right", "--x", "0.12", "--z", "2")
	require.NoError(t, err)
	var px pixelReport
	require.NoError(t, json.Unmarshal([]byte(out), &px))
	assert.Equal(t, "RightCameraImagePlane@0", px.Frame)
	assert.InDelta(t, 640, px.U, 1e-9)
	assert.True(t, px.InImage)

	_, _, err = run(t, "project", calib, "--z", "-1")
	assert.Error(t, err)

	_, _, err = run(t, "project", calib, "--camera", "middle")
	assert.Error(t, err)
}

func TestRecordChainPlot(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "poses.db")
	calib := writeCalib(t, calibYAML)

	for _, step := range []struct {
		time string
		z    float64
	}{{"0", 0}, {"7", 1}} {
		out, _, err := run(t, "record", db, "--frame", "RightCameraSE3", "--time", step.time, "--matrix", identityMatrix(step.z))
		require.NoError(t, err)
		assert.Contains(t, out, "recorded RightCameraSE3@"+step.time)
	}

	_, _, err := run(t, "record", db, "--time", "7", "--matrix", identityMatrix(2))
	assert.Error(t, err, "duplicate instant")

	out, _, err := run(t, "chain", calib, db, "--from", "0", "--to", "7", "--x", "0.12", "--z", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "LeftCameraSE3→RightCameraImagePlane (dynamic 0→7, projective)")
	assert.Contains(t, out, "RightCameraImagePlane@7 (640.00, 360.00)")

	_, _, err = run(t, "chain", calib, db, "--from", "0", "--to", "9")
	assert.Error(t, err)

	out, _, err = run(t, "plot", db, "--dir", dir, "--out", "traj.png")
	require.NoError(t, err)
	assert.Contains(t, out, "RightCameraSE3: 2 samples")
	info, err := os.Stat(filepath.Join(dir, "traj.png"))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	_, _, err = run(t, "plot", db, "--dir", dir, "--title", "Rig run 7", "--out", "")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "Rig_run_7.png"))
	require.NoError(t, err)

	out, _, err = run(t, "plot", db, "--dir", dir, "--out", "traj.html")
	require.NoError(t, err)
	assert.Contains(t, out, "traj.html")

	_, _, err = run(t, "plot", db, "--dir", dir, "--out", "../escape.png")
	assert.ErrorContains(t, err, "--out")
}

func TestRecord_BadInput(t *testing.T) {
	db := filepath.Join(t.TempDir(), "poses.db")

	_, _, err := run(t, "record", db, "--frame", "LeftCameraR3", "--matrix", identityMatrix(0))
	assert.ErrorContains(t, err, "unknown SE3 frame")

	_, _, err = run(t, "record", db, "--matrix", "1,0,0")
	assert.ErrorContains(t, err, "--matrix")

	_, _, err = run(t, "record", db, "--matrix", "1,0,x")
	assert.Error(t, err)
}

func TestIDs(t *testing.T) {
	out, _, err := run(t, "ids")
	require.NoError(t, err)
	assert.Contains(t, out, "LeftCameraImagePlane")
	assert.Equal(t, 8, strings.Count(out, "\n"))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "ids", []byte(out))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("FRAMECHECK_FORMAT", "json")
	out, _, err := run(t, "ids")
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Len(t, entries, 8)

	// Flags still win.
	out, _, err = run(t, "ids", "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, 8, strings.Count(out, "\n"))
}

func TestEnvInvalid(t *testing.T) {
	t.Setenv("FRAMECHECK_VERBOSE", "sometimes")
	_, _, err := run(t, "ids")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "framecheck dev"))
}

func TestParseFloats(t *testing.T) {
	got, err := parseFloats(" 1, 2.5 ,,-3 ")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, -3}, got)
}
