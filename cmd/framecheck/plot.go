package main

import (
	"fmt"
	"io"
	"math"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/banshee-data/coordframe/internal/frame"
	"github.com/banshee-data/coordframe/internal/posestore"
	"github.com/banshee-data/coordframe/internal/security"
	"github.com/banshee-data/coordframe/internal/trajplot"
)

type plotReport struct {
	Out    string         `json:"out"`
	Tracks map[string]int `json:"tracks"`
}

func newPlotCommand(opts *rootOptions) *cobra.Command {
	var (
		frames   []string
		from, to int64
		out      string
		dir      string
		title    string
	)
	cmd := &cobra.Command{
		Use:   "plot <db>",
		Short: "Plot recorded trajectories top-down",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = security.SanitizeFilename(title) + ".png"
			}
			if !filepath.IsAbs(out) {
				out = filepath.Join(dir, out)
			}
			if err := security.ValidatePathWithinDirectory(out, dir); err != nil {
				return fmt.Errorf("--out: %w", err)
			}

			store, err := posestore.Open(args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			if len(frames) == 0 {
				if frames, err = store.Frames(ctx); err != nil {
					return err
				}
			}

			report := plotReport{Out: out, Tracks: make(map[string]int)}
			tracks := make([]trajplot.Track, 0, len(frames))
			for _, id := range frames {
				samples, err := store.Range(ctx, id, frame.Time(from), frame.Time(to))
				if err != nil {
					return err
				}
				tracks = append(tracks, trajplot.Track{Name: id, Samples: samples})
				report.Tracks[id] = len(samples)
			}
			if err := trajplot.Save(out, title, tracks...); err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts, report, func(w io.Writer) {
				for _, id := range frames {
					fmt.Fprintf(w, "%s: %d samples\n", id, report.Tracks[id])
				}
				fmt.Fprintf(w, "wrote %s\n", out)
			})
		},
	}
	cmd.Flags().StringSliceVar(&frames, "frame", nil, "frame ids to plot (default: all recorded)")
	cmd.Flags().Int64Var(&from, "from", math.MinInt64, "first instant")
	cmd.Flags().Int64Var(&to, "to", math.MaxInt64, "last instant")
	cmd.Flags().StringVar(&out, "out", opts.Env.PlotOut, "output file inside --dir; the extension selects the format (default: <title>.png)")
	cmd.Flags().StringVar(&dir, "dir", ".", "directory plots are written to")
	cmd.Flags().StringVar(&title, "title", "Camera trajectories", "plot title")
	return cmd
}
