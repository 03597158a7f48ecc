package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/iconsprite/internal/cli/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const configHeader = `# iconsprite configuration.
# Paths are relative to this file. Environment variables (ICONSPRITE_*) and
# command-line flags override these values.
#
# To format generated files, set a command; {file} is replaced by the path:
#   format:
#     command: ["prettier", "--write", "{file}", "--ignore-unknown"]
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create an iconsprite.yaml with default settings",
		Long: `Initialize a project with an iconsprite.yaml holding the default settings
and an empty input directory for SVG icons.`,
		Example: `  # Initialize in current directory
  iconsprite init

  # Initialize in another directory
  iconsprite init packages/ui

  # Force overwrite existing config
  iconsprite init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	r := NewCommandContext(cmd).Renderer

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	defaults := config.Default()
	content, err := marshalConfig(defaults)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, content, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	r.StatusLine(filepath.ToSlash(configPath), "success", "")

	inputDir := filepath.Join(dir, filepath.FromSlash(defaults.InputDir))
	if err := os.MkdirAll(inputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create input directory: %w", err)
	}
	r.StatusLine(filepath.ToSlash(inputDir)+"/", "success", "")

	r.Println("")
	r.Success("iconsprite project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Add SVG icons to " + defaults.InputDir + "/")
	r.Println("  2. Run 'iconsprite build' to generate the sprite and manifest")
	r.Println("  3. Run 'iconsprite preview' to browse the icons")

	return nil
}

// marshalConfig renders cfg as a commented YAML document.
func marshalConfig(cfg *config.Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(configHeader)
	buf.WriteString("\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}
