package commands

import (
	"fmt"

	"github.com/leapstack-labs/iconsprite/internal/cli/output"
	"github.com/leapstack-labs/iconsprite/internal/icons"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered icons and their names",
		Long: `List every icon found in the input directory with the name it gets in
the sprite and the type manifest.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown table (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List icons (auto-detect output format)
  iconsprite list

  # List icons as JSON
  iconsprite list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	found, err := cmdCtx.NewCollector(false).Discover()
	if err != nil {
		return fmt.Errorf("failed to discover icons: %w", err)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listJSON(cmdCtx, found)
	default:
		listTable(cmdCtx, found)
		return nil
	}
}

// listTable outputs icons as a text or markdown table.
func listTable(cmdCtx *CommandContext, found []icons.Icon) {
	r := cmdCtx.Renderer

	r.Header(1, fmt.Sprintf("Icons (%d total)", len(found)))
	r.Println("")
	if len(found) == 0 {
		r.Muted("No icons found in " + cmdCtx.Rel(cmdCtx.Cfg.InputDir))
		return
	}

	rows := make([][]string, len(found))
	for i, icon := range found {
		rows[i] = []string{icon.Name, icon.Path}
	}
	r.Table([]string{"Name", "File"}, rows)
}

// listJSON outputs icons in JSON format.
func listJSON(cmdCtx *CommandContext, found []icons.Icon) error {
	out := output.ListOutput{
		InputDir: cmdCtx.Cfg.InputDir,
		Total:    len(found),
		Icons:    make([]output.IconInfo, 0, len(found)),
	}
	for _, icon := range found {
		out.Icons = append(out.Icons, output.IconInfo{Name: icon.Name, File: icon.Path})
	}
	return cmdCtx.Renderer.JSON(out)
}
