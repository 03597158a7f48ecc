package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/iconsprite/internal/cli/output"
	"github.com/leapstack-labs/iconsprite/internal/icons"
	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the generated sprite and manifest are current",
		Long: `Render the sprite and manifest in memory and compare them byte-for-byte
with the files on disk. Nothing is written.

Exits non-zero when either output is missing or out of date, which makes it
suitable as a CI guard.`,
		Example: `  # Fail the pipeline when generated icons are stale
  iconsprite check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd)
		},
	}

	return cmd
}

func runCheck(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	cfg := cmdCtx.Cfg

	status, err := cmdCtx.NewCollector(false).Check(cmd.Context())
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(output.CheckOutput{
			Icons:         status.Icons,
			SpriteStale:   status.SpriteStale,
			ManifestStale: status.ManifestStale,
			Stale:         status.Stale(),
		}); err != nil {
			return err
		}
	} else {
		s, d := staleStatus(status.SpriteStale)
		r.StatusLine(cmdCtx.Rel(cfg.SpritePath), s, d)
		s, d = staleStatus(status.ManifestStale)
		r.StatusLine(cmdCtx.Rel(cfg.ManifestPath), s, d)
	}

	if !status.Stale() {
		if r.EffectiveMode() != output.ModeJSON {
			r.Success(fmt.Sprintf("%d icons up to date", status.Icons))
		}
		return nil
	}

	var stale []string
	if status.SpriteStale {
		stale = append(stale, cmdCtx.Rel(cfg.SpritePath))
	}
	if status.ManifestStale {
		stale = append(stale, cmdCtx.Rel(cfg.ManifestPath))
	}
	return fmt.Errorf("%w: %s (run iconsprite build)", icons.ErrStale, strings.Join(stale, ", "))
}

func staleStatus(stale bool) (status, detail string) {
	if stale {
		return "error", "out of date"
	}
	return "success", "current"
}
