package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env carries process-wide defaults read from the environment. Command-line
// flags override every field.
type Env struct {
	Verbose bool   `env:"FRAMECHECK_VERBOSE"`
	Format  string `env:"FRAMECHECK_FORMAT"   envDefault:"text"`
	Source  string `env:"FRAMECHECK_SOURCE"   envDefault:"cli"`
	PlotOut string `env:"FRAMECHECK_PLOT_OUT"`
}

// DefaultEnv returns the values used when nothing is set.
func DefaultEnv() Env {
	return Env{Format: "text", Source: "cli"}
}

// LoadEnv parses Env from the environment. On error the defaults are
// returned alongside it.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return DefaultEnv(), fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}
