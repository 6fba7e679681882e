// Package trajplot renders recorded camera trajectories as a top-down
// X/Z plot, one line per frame id.
package trajplot

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/coordframe/internal/fsutil"
	"github.com/banshee-data/coordframe/internal/posestore"
)

// Default image size.
const (
	Width  = 8 * vg.Inch
	Height = 8 * vg.Inch
)

// Track is the trajectory of one frame id.
type Track struct {
	Name    string
	Samples []*posestore.Sample
}

// New builds the plot. Samples are drawn in the order given; posestore
// Range already returns them oldest first.
func New(title string, tracks ...Track) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Z (m)"
	p.Add(plotter.NewGrid())

	drawn := 0
	for i, tr := range tracks {
		if len(tr.Samples) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(tr.Samples))
		for j, s := range tr.Samples {
			pts[j].X = s.Pose.Translation.X
			pts[j].Y = s.Pose.Translation.Z
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("track %s: %w", tr.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		points.Color = plotutil.Color(i)
		points.Radius = vg.Points(2)
		p.Add(line, points)
		p.Legend.Add(fmt.Sprintf("%s (%d)", tr.Name, len(tr.Samples)), line, points)
		drawn++
	}
	if drawn == 0 {
		return nil, fmt.Errorf("no samples to plot")
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// Render writes the plot to w in the given format ("png", "svg", "pdf", ...).
func Render(w io.Writer, format, title string, tracks ...Track) error {
	p, err := New(title, tracks...)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(Width, Height, format)
	if err != nil {
		return fmt.Errorf("create %s writer: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	return nil
}

// Save writes the plot to path; the extension selects the format. ".html"
// writes an interactive chart (see RenderHTML).
func Save(path, title string, tracks ...Track) error {
	return SaveFS(fsutil.OSFileSystem{}, path, title, tracks...)
}

// SaveFS is Save writing through fsys. Nothing is created when rendering
// fails.
func SaveFS(fsys fsutil.FileSystem, path, title string, tracks ...Track) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	var buf bytes.Buffer
	switch ext {
	case "":
		return fmt.Errorf("output path %q has no extension", path)
	case "html":
		if err := RenderHTML(&buf, title, tracks...); err != nil {
			return err
		}
	default:
		if err := Render(&buf, ext, title, tracks...); err != nil {
			return err
		}
	}

	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := buf.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
