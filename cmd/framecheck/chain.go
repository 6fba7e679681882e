package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/coordframe/internal/frame"
	"github.com/banshee-data/coordframe/internal/geom"
	"github.com/banshee-data/coordframe/internal/odometry"
	"github.com/banshee-data/coordframe/internal/posestore"
)

type chainReport struct {
	Transform string      `json:"transform"`
	Pixel     pixelReport `json:"pixel"`
}

func newChainCommand(opts *rootOptions) *cobra.Command {
	var (
		from, to int64
		x, y, z  float64
	)
	cmd := &cobra.Command{
		Use:   "chain <calibration> <db>",
		Short: "Carry a left-camera point at one instant to the right image at another",
		Long: `Chain the rig's static left-to-right extrinsic, the right camera's
recorded motion between --from and --to, and the right camera's projection.
The point is given in the left camera frame at --from; the pixel is stamped
--to.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRig(args[0])
			if err != nil {
				return err
			}
			store, err := posestore.Open(args[1])
			if err != nil {
				return err
			}
			defer store.Close()

			motion, err := odometry.Motion[frame.RightCameraSE3](cmd.Context(), store, frame.Time(from), frame.Time(to))
			if err != nil {
				return err
			}
			chain, err := frame.Compose3(r.LeftToRight, motion, r.RightProject)
			if err != nil {
				return err
			}

			p := frame.NewPoint[frame.LeftCameraSE3](frame.Time(from), geom.Translate(r3.Vec{X: x, Y: y, Z: z}))
			px, err := chain.Apply(p)
			if err != nil {
				return err
			}
			report := chainReport{
				Transform: chain.String(),
				Pixel:     newPixelReport(px.System().String(), px.Time(), px.Coords(), r.RightSize),
			}
			return emit(cmd.OutOrStdout(), opts, report, func(w io.Writer) {
				fmt.Fprintln(w, report.Transform)
				writePixel(w, report.Pixel)
			})
		},
	}
	cmd.Flags().Int64Var(&from, "from", 0, "instant the point was observed at")
	cmd.Flags().Int64Var(&to, "to", 0, "instant to carry the point to")
	cmd.Flags().Float64Var(&x, "x", 0, "point X in the left camera frame (m)")
	cmd.Flags().Float64Var(&y, "y", 0, "point Y in the left camera frame (m)")
	cmd.Flags().Float64Var(&z, "z", 1, "point Z in the left camera frame (m)")
	return cmd
}
