package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/banshee-data/coordframe/internal/config"
	"github.com/banshee-data/coordframe/internal/rig"
)

type extrinsicReport struct {
	Name    string   `json:"name"`
	Quality string   `json:"quality"`
	Issues  []string `json:"issues,omitempty"`
}

type validateReport struct {
	RigID      string            `json:"rig_id"`
	Usable     bool              `json:"usable"`
	Extrinsics []extrinsicReport `json:"extrinsics"`
	Error      string            `json:"error,omitempty"`
}

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <calibration>",
		Short: "Load a calibration and grade its extrinsics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadCalibration(args[0])
			if err != nil {
				return err
			}

			report := validateReport{RigID: cfg.GetRigID()}
			for _, e := range []struct {
				name string
				ext  *config.Extrinsic
			}{
				{"left_to_right", cfg.LeftToRight},
				{"rig_to_left", cfg.RigToLeft},
			} {
				if e.ext == nil {
					continue
				}
				v := config.ValidateExtrinsic(e.ext)
				report.Extrinsics = append(report.Extrinsics, extrinsicReport{
					Name:    e.name,
					Quality: string(v.Quality),
					Issues:  v.Issues,
				})
			}

			_, buildErr := rig.Build(cfg)
			report.Usable = buildErr == nil
			if buildErr != nil {
				report.Error = buildErr.Error()
			}

			if err := emit(cmd.OutOrStdout(), opts, report, func(w io.Writer) {
				fmt.Fprintf(w, "rig %s\n", report.RigID)
				for _, e := range report.Extrinsics {
					fmt.Fprintf(w, "  %-14s %s\n", e.Name, config.PoseQuality(e.Quality))
					for _, issue := range e.Issues {
						fmt.Fprintf(w, "    - %s\n", issue)
					}
				}
				if report.Usable {
					fmt.Fprintln(w, "usable")
				} else {
					fmt.Fprintf(w, "not usable: %s\n", report.Error)
				}
			}); err != nil {
				return err
			}
			return buildErr
		},
	}
}
