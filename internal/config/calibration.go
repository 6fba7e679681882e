package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/banshee-data/coordframe/internal/fsutil"
	"github.com/banshee-data/coordframe/internal/geom"
	"github.com/banshee-data/coordframe/internal/units"
)

// Calibration describes a stereo rig: two pinhole cameras, the rigid offset
// between them and optionally where the left camera sits on the vehicle.
// The same schema is read from JSON and YAML.
type Calibration struct {
	RigID *string `json:"rig_id,omitempty" yaml:"rig_id,omitempty"`

	Left  *Camera `json:"left" yaml:"left"`
	Right *Camera `json:"right" yaml:"right"`

	// LeftToRight maps left-camera coordinates into the right camera.
	LeftToRight *Extrinsic `json:"left_to_right" yaml:"left_to_right"`
	// RigToLeft maps rig-body coordinates into the left camera (optional).
	RigToLeft *Extrinsic `json:"rig_to_left,omitempty" yaml:"rig_to_left,omitempty"`

	// AllowPoorQuality accepts extrinsics whose RMSE is above the fair threshold.
	AllowPoorQuality *bool `json:"allow_poor_quality,omitempty" yaml:"allow_poor_quality,omitempty"`
}

// Camera holds one camera's intrinsics and image size.
type Camera struct {
	// K is the row-major 3x3 camera matrix.
	K      []float64 `json:"k" yaml:"k"`
	Width  *int      `json:"width,omitempty" yaml:"width,omitempty"`
	Height *int      `json:"height,omitempty" yaml:"height,omitempty"`
}

// Extrinsic is a rigid transform with the residual of the calibration that
// produced it.
type Extrinsic struct {
	// T is the row-major 4x4 homogeneous transform.
	T []float64 `json:"t" yaml:"t"`
	// RMSE is the calibration residual; omitted or 0 means unknown.
	RMSE *float64 `json:"rmse,omitempty" yaml:"rmse,omitempty"`
	// Units applies to the translation column of T and to RMSE.
	Units *string `json:"units,omitempty" yaml:"units,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// maxFileSize caps calibration files at 1MB.
const maxFileSize = 1 * 1024 * 1024

// LoadCalibration loads a Calibration from a .json, .yaml or .yml file.
// A file without a rig_id is given a fresh UUID so stored samples can be
// traced back to it. The result is validated.
func LoadCalibration(path string) (*Calibration, error) {
	return LoadCalibrationFS(fsutil.OSFileSystem{}, path)
}

// LoadCalibrationFS is LoadCalibration reading from fsys.
func LoadCalibrationFS(fsys fsutil.FileSystem, path string) (*Calibration, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("calibration file must have .json, .yaml or .yml extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat calibration file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("calibration file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read calibration file: %w", err)
	}

	if ext == ".json" {
		return ParseCalibrationJSON(data)
	}
	return ParseCalibrationYAML(data)
}

// ParseCalibrationJSON decodes and validates a JSON calibration. Unknown
// fields are rejected.
func ParseCalibrationJSON(data []byte) (*Calibration, error) {
	cfg := &Calibration{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse calibration JSON: %w", err)
	}
	return finish(cfg)
}

// ParseCalibrationYAML decodes and validates a YAML calibration. Unknown
// fields are rejected.
func ParseCalibrationYAML(data []byte) (*Calibration, error) {
	cfg := &Calibration{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse calibration YAML: %w", err)
	}
	return finish(cfg)
}

func finish(cfg *Calibration) (*Calibration, error) {
	if cfg.RigID == nil || *cfg.RigID == "" {
		cfg.RigID = ptrString(uuid.New().String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid calibration: %w", err)
	}
	return cfg, nil
}

// Validate checks that both cameras and the left-to-right extrinsic are
// present and well formed.
func (c *Calibration) Validate() error {
	if c.Left == nil {
		return fmt.Errorf("left camera is required")
	}
	if c.Right == nil {
		return fmt.Errorf("right camera is required")
	}
	if _, err := c.Left.Intrinsics(); err != nil {
		return fmt.Errorf("left camera: %w", err)
	}
	if _, err := c.Right.Intrinsics(); err != nil {
		return fmt.Errorf("right camera: %w", err)
	}
	if c.LeftToRight == nil {
		return fmt.Errorf("left_to_right extrinsic is required")
	}
	if _, err := c.LeftToRight.Pose(); err != nil {
		return fmt.Errorf("left_to_right: %w", err)
	}
	if c.RigToLeft != nil {
		if _, err := c.RigToLeft.Pose(); err != nil {
			return fmt.Errorf("rig_to_left: %w", err)
		}
	}
	for name, cam := range map[string]*Camera{"left": c.Left, "right": c.Right} {
		if cam.Width != nil && *cam.Width <= 0 {
			return fmt.Errorf("%s camera width must be positive, got %d", name, *cam.Width)
		}
		if cam.Height != nil && *cam.Height <= 0 {
			return fmt.Errorf("%s camera height must be positive, got %d", name, *cam.Height)
		}
	}
	return nil
}

// GetRigID returns the rig id, empty before LoadCalibration assigned one.
func (c *Calibration) GetRigID() string {
	if c.RigID == nil {
		return ""
	}
	return *c.RigID
}

// GetAllowPoorQuality returns the allow_poor_quality value or the default.
func (c *Calibration) GetAllowPoorQuality() bool {
	if c.AllowPoorQuality == nil {
		return false // default: poor extrinsics are rejected
	}
	return *c.AllowPoorQuality
}

// Intrinsics converts K into a validated pinhole model.
func (c *Camera) Intrinsics() (geom.Intrinsics, error) {
	if len(c.K) != 9 {
		return geom.Intrinsics{}, fmt.Errorf("k must have 9 values, got %d", len(c.K))
	}
	var m [9]float64
	copy(m[:], c.K)
	return geom.IntrinsicsFromMatrix(m)
}

// GetWidth returns the image width in pixels or the default.
func (c *Camera) GetWidth() int {
	if c.Width == nil {
		return 1280
	}
	return *c.Width
}

// GetHeight returns the image height in pixels or the default.
func (c *Camera) GetHeight() int {
	if c.Height == nil {
		return 720
	}
	return *c.Height
}

// GetUnits returns the length unit or the default.
func (e *Extrinsic) GetUnits() string {
	if e.Units == nil {
		return units.Metres
	}
	return *e.Units
}

// Pose converts T into a rigid pose with its translation in metres.
func (e *Extrinsic) Pose() (geom.Pose, error) {
	if len(e.T) != 16 {
		return geom.Pose{}, fmt.Errorf("t must have 16 values, got %d", len(e.T))
	}
	var m [16]float64
	copy(m[:], e.T)
	for _, i := range []int{3, 7, 11} {
		v, err := units.ToMetres(m[i], e.GetUnits())
		if err != nil {
			return geom.Pose{}, err
		}
		m[i] = v
	}
	return geom.PoseFromMatrix(m)
}

// GetRMSE returns the calibration residual in metres, 0 when unknown.
func (e *Extrinsic) GetRMSE() float64 {
	if e.RMSE == nil {
		return 0
	}
	v, err := units.ToMetres(*e.RMSE, e.GetUnits())
	if err != nil {
		return 0
	}
	return v
}
