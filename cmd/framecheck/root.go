package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/banshee-data/coordframe/internal/config"
	"github.com/banshee-data/coordframe/internal/monitoring"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Env supplies flag defaults.
	Env config.Env
}

var validFormats = []string{"text", "json"}

func newRootCommand() *cobra.Command {
	env, envErr := config.LoadEnv()
	opts := &rootOptions{Env: env}

	cmd := &cobra.Command{
		Use:   "framecheck",
		Short: "Check stereo rig calibrations and pose logs",
		Long: `framecheck loads stereo rig calibrations, records camera poses and
pushes points through the rig's typed frame transforms.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return envErr
			}
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			monitoring.UseZap(newLogger(cmd.ErrOrStderr(), opts.Verbose))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = monitoring.Zap().Sync()
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", env.Verbose, "log diagnostics to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", env.Format, "output format (json|text)")

	cmd.AddCommand(newValidateCommand(opts))
	cmd.AddCommand(newProjectCommand(opts))
	cmd.AddCommand(newRecordCommand(opts))
	cmd.AddCommand(newChainCommand(opts))
	cmd.AddCommand(newPlotCommand(opts))
	cmd.AddCommand(newIDsCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// newLogger writes human-readable logs to w: info and above when verbose,
// warnings otherwise.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.InfoLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

func isValidFormat(format string) bool {
	for _, f := range validFormats {
		if f == format {
			return true
		}
	}
	return false
}

// emit writes v as indented JSON, or calls text for the text format.
func emit(w io.Writer, opts *rootOptions, v any, text func(io.Writer)) error {
	if opts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
