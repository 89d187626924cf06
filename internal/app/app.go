package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/factorgrid/internal/config"
	"github.com/vk/factorgrid/internal/ctxlog"
	"github.com/vk/factorgrid/internal/rules"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModelPath  string
	OutputPath string
	LogFormat  string
	LogLevel   string
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
// The artifact is written to outW; logs go to errW so that the two streams
// never interleave.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *rules.Registry
	model    *config.Model
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW, errW io.Writer, appConfig *Config, loader config.Loader, modules ...rules.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load the model declaration into the format-agnostic model first.
	model, err := loader.Load(ctx, appConfig.ModelPath)
	if err != nil {
		// A failure to load the model is a fatal startup error.
		panic(fmt.Errorf("failed to load model: %w", err))
	}
	logger.Debug("Model loaded and translated into unified form.")

	// Create and populate the registry with node kinds and update rules.
	reg := rules.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All modules registered.", "count", len(modules), "rules", reg.RuleCount())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		model:    model,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *rules.Registry {
	return a.registry
}

// Model returns the loaded model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
