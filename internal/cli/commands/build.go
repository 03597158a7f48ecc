package commands

import (
	"fmt"

	"github.com/leapstack-labs/iconsprite/internal/cli/output"
	"github.com/leapstack-labs/iconsprite/internal/icons"
	"github.com/spf13/cobra"
)

// BuildOptions holds options for the build command.
type BuildOptions struct {
	Force bool
}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	opts := &BuildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the icon sprite and type manifest",
		Long: `Scan the input directory for SVG icons, merge them into a single sprite
and write a TypeScript union type listing every icon name.

Outputs are only rewritten when their content changes. When both outputs
already mention every icon the run stops early; use --force to render anyway.`,
		Example: `  # Build with iconsprite.yaml or defaults
  iconsprite build

  # Build from a different icon directory
  iconsprite build --input-dir assets/icons

  # Ignore the up-to-date check
  iconsprite build --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunBuild(cmd, *opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Regenerate even when outputs are up to date")

	return cmd
}

// RunBuild runs the collector once and reports the result.
func RunBuild(cmd *cobra.Command, opts BuildOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	cfg := cmdCtx.Cfg

	res, err := cmdCtx.NewCollector(opts.Force).Run(cmd.Context())
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.BuildOutput{
			Icons:           res.Icons,
			SpritePath:      cfg.SpritePath,
			ManifestPath:    cfg.ManifestPath,
			SpriteChanged:   res.SpriteChanged,
			ManifestChanged: res.ManifestChanged,
			UpToDate:        res.UpToDate,
		})
	}

	reportResult(cmdCtx, res)
	return nil
}

// reportResult prints the outcome of a collector run.
func reportResult(cmdCtx *CommandContext, res icons.Result) {
	r := cmdCtx.Renderer
	verbose := cmdCtx.Cfg.Verbose

	switch {
	case res.Changed():
		r.Success(fmt.Sprintf("Generated %d icons", res.Icons))
	case res.UpToDate && verbose:
		r.Muted(fmt.Sprintf("Icons are up to date (%d icons)", res.Icons))
	case verbose:
		r.Muted(fmt.Sprintf("Outputs unchanged (%d icons)", res.Icons))
	}

	if verbose && !res.UpToDate {
		status, detail := changeStatus(res.SpriteChanged)
		r.StatusLine(cmdCtx.Rel(cmdCtx.Cfg.SpritePath), status, detail)
		status, detail = changeStatus(res.ManifestChanged)
		r.StatusLine(cmdCtx.Rel(cmdCtx.Cfg.ManifestPath), status, detail)
	}
}

func changeStatus(changed bool) (status, detail string) {
	if changed {
		return "success", "written"
	}
	return "skipped", "unchanged"
}
