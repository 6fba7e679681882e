package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/coordframe/internal/config"
	"github.com/banshee-data/coordframe/internal/frame"
	"github.com/banshee-data/coordframe/internal/rig"
)

type pixelReport struct {
	Frame   string     `json:"frame"`
	Time    frame.Time `json:"time"`
	U       float64    `json:"u"`
	V       float64    `json:"v"`
	InImage bool       `json:"in_image"`
}

func newProjectCommand(opts *rootOptions) *cobra.Command {
	var (
		camera  string
		x, y, z float64
		t       int64
	)
	cmd := &cobra.Command{
		Use:   "project <calibration>",
		Short: "Project a left-camera point onto either image plane",
		Long: `Project a 3-D point given in the left camera's optical frame onto the
left or right image plane. Points for the right camera pass through the
rig's left-to-right extrinsic first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRig(args[0])
			if err != nil {
				return err
			}
			p := frame.NewPoint[frame.LeftCameraR3](frame.Time(t), r3.Vec{X: x, Y: y, Z: z})

			var report pixelReport
			switch camera {
			case "left":
				px, err := r.LeftPointProject.Apply(p)
				if err != nil {
					return err
				}
				report = newPixelReport(px.System().String(), px.Time(), px.Coords(), r.LeftSize)
			case "right":
				toImage, err := frame.Compose(r.LeftPointToRight, r.RightPointProject)
				if err != nil {
					return err
				}
				px, err := toImage.Apply(p)
				if err != nil {
					return err
				}
				report = newPixelReport(px.System().String(), px.Time(), px.Coords(), r.RightSize)
			default:
				return fmt.Errorf("--camera must be left or right, got %q", camera)
			}

			return emit(cmd.OutOrStdout(), opts, report, func(w io.Writer) {
				writePixel(w, report)
			})
		},
	}
	cmd.Flags().StringVar(&camera, "camera", "left", "image plane to project onto (left|right)")
	cmd.Flags().Float64Var(&x, "x", 0, "point X in the left camera frame (m)")
	cmd.Flags().Float64Var(&y, "y", 0, "point Y in the left camera frame (m)")
	cmd.Flags().Float64Var(&z, "z", 1, "point Z in the left camera frame (m)")
	cmd.Flags().Int64Var(&t, "time", 0, "frame instant of the point")
	return cmd
}

func loadRig(path string) (*rig.Rig, error) {
	cfg, err := config.LoadCalibration(path)
	if err != nil {
		return nil, err
	}
	return rig.Build(cfg)
}

func newPixelReport(system string, t frame.Time, px r2.Vec, size [2]int) pixelReport {
	return pixelReport{Frame: system, Time: t, U: px.X, V: px.Y, InImage: rig.InImage(px, size)}
}

func writePixel(w io.Writer, p pixelReport) {
	fmt.Fprintf(w, "%s (%.2f, %.2f)", p.Frame, p.U, p.V)
	if !p.InImage {
		fmt.Fprint(w, " outside image")
	}
	fmt.Fprintln(w)
}
