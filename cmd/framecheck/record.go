package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banshee-data/coordframe/internal/frame"
	"github.com/banshee-data/coordframe/internal/geom"
	"github.com/banshee-data/coordframe/internal/odometry"
	"github.com/banshee-data/coordframe/internal/posestore"
)

type recordFunc func(context.Context, odometry.Recorder, frame.Point[frame.WorldSE3, geom.Pose], string) (*posestore.Sample, error)

// recorders covers every registered SE3 frame.
var recorders = map[string]recordFunc{
	frame.LeftCameraSE3{}.Name():  odometry.Record[frame.LeftCameraSE3],
	frame.RightCameraSE3{}.Name(): odometry.Record[frame.RightCameraSE3],
	frame.RigSE3{}.Name():         odometry.Record[frame.RigSE3],
	frame.WorldSE3{}.Name():       odometry.Record[frame.WorldSE3],
}

type sampleReport struct {
	SampleID string     `json:"sample_id"`
	Frame    string     `json:"frame"`
	Time     frame.Time `json:"time"`
	Pose     string     `json:"pose"`
}

func newRecordCommand(opts *rootOptions) *cobra.Command {
	var (
		frameID string
		t       int64
		matrix  string
		source  string
	)
	cmd := &cobra.Command{
		Use:   "record <db>",
		Short: "Record the world pose of an SE3 frame at one instant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, ok := recorders[frameID]
			if !ok {
				return fmt.Errorf("unknown SE3 frame %q", frameID)
			}
			vals, err := parseFloats(matrix)
			if err != nil {
				return err
			}
			pose, err := frame.PointFromSlice[frame.WorldSE3, geom.Pose](frame.Time(t), vals)
			if err != nil {
				return fmt.Errorf("--matrix: %w", err)
			}

			store, err := posestore.Open(args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			sample, err := rec(cmd.Context(), store, pose, source)
			if err != nil {
				return err
			}
			report := sampleReport{SampleID: sample.SampleID, Frame: sample.FrameID, Time: sample.Time, Pose: sample.Pose.String()}
			return emit(cmd.OutOrStdout(), opts, report, func(w io.Writer) {
				fmt.Fprintf(w, "recorded %s@%d %s (%s)\n", report.Frame, report.Time, report.Pose, report.SampleID)
			})
		},
	}
	cmd.Flags().StringVar(&frameID, "frame", frame.RightCameraSE3{}.Name(), "SE3 frame id")
	cmd.Flags().Int64Var(&t, "time", 0, "frame instant")
	cmd.Flags().StringVar(&matrix, "matrix", "", "row-major 4x4 world-from-frame matrix, 16 comma-separated values")
	cmd.Flags().StringVar(&source, "source", opts.Env.Source, "free-form sample source")
	_ = cmd.MarkFlagRequired("matrix")
	return cmd
}

func parseFloats(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}
