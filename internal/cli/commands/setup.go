package commands

import (
	"log/slog"
	"path/filepath"

	"github.com/leapstack-labs/iconsprite/internal/cli/config"
	"github.com/leapstack-labs/iconsprite/internal/cli/output"
	"github.com/leapstack-labs/iconsprite/internal/icons"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer for cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// NewCollector builds a collector from the loaded configuration.
func (c *CommandContext) NewCollector(force bool) *icons.Collector {
	return icons.New(icons.Config{
		InputDir:     c.Cfg.InputDir,
		SpritePath:   c.Cfg.SpritePath,
		ManifestPath: c.Cfg.ManifestPath,
		Include:      c.Cfg.Include,
		Exclude:      c.Cfg.Exclude,
		TypeName:     c.Cfg.TypeName,
		Concurrency:  c.Cfg.Concurrency,
		Force:        force,
		Formatter:    icons.NewExecFormatter(c.Cfg.Format.Command, c.Cfg.ProjectRoot),
		StrictFormat: c.Cfg.Format.Strict,
		Logger:       c.Logger,
	})
}

// Rel shortens path for display relative to the project root.
func (c *CommandContext) Rel(path string) string {
	if c.Cfg.ProjectRoot == "" {
		return path
	}
	rel, err := filepath.Rel(c.Cfg.ProjectRoot, path)
	if err != nil || filepath.IsAbs(rel) {
		return path
	}
	return filepath.ToSlash(rel)
}
