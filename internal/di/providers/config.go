// Package providers contains dependency injection providers for the termalign server.
package providers

import (
	"io"
	"os"

	"github.com/samber/do/v2"

	"github.com/termalign/termalign-server/internal/config"
	"github.com/termalign/termalign-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	args := do.MustInvoke[Args](i)
	return config.LoadConfig(args)
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	return newLogger(do.MustInvoke[*config.Config](i), os.Stdout), nil
}

// ProvideStderrLogger provides a logger that keeps stdout free, for
// commands that speak a protocol on it.
func ProvideStderrLogger(i do.Injector) (*logger.Logger, error) {
	return newLogger(do.MustInvoke[*config.Config](i), os.Stderr), nil
}

func newLogger(cfg *config.Config, w io.Writer) *logger.Logger {
	log := logger.New(logger.Config{
		Writer:      w,
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.IsDevelopment(),
		Environment: cfg.App.Environment,
	})

	catalogue := cfg.Catalogue.Path
	if catalogue == "" {
		catalogue = "embedded"
	}
	log.Info("Starting termalign server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"catalogue", catalogue,
		"analysis_delay", cfg.Analysis.SimulatedDelay,
	)

	return log
}
