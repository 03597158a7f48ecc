// Package config provides configuration management for the iconsprite CLI.
//
// Values are layered with koanf: built-in defaults, iconsprite.yaml,
// ICONSPRITE_* environment variables, then explicitly set flags.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	InputDir     string   `koanf:"input_dir" yaml:"input_dir"`
	SpritePath   string   `koanf:"sprite_path" yaml:"sprite_path"`
	ManifestPath string   `koanf:"manifest_path" yaml:"manifest_path"`
	Include      []string `koanf:"include" yaml:"include,omitempty"`
	Exclude      []string `koanf:"exclude" yaml:"exclude,omitempty"`
	TypeName     string   `koanf:"type_name" yaml:"type_name"`
	Concurrency  int      `koanf:"concurrency" yaml:"concurrency,omitempty"`

	Verbose      bool   `koanf:"verbose" yaml:"-"`
	OutputFormat string `koanf:"output" yaml:"-"`

	Format  FormatConfig  `koanf:"format" yaml:"format"`
	Preview PreviewConfig `koanf:"preview" yaml:"preview"`
	Watch   WatchConfig   `koanf:"watch" yaml:"watch"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-" yaml:"-"`
}

// FormatConfig controls the post-write formatter.
type FormatConfig struct {
	// Command is run once per written file. "{file}" is replaced with the
	// path; without it the path is appended.
	Command Command `koanf:"command" yaml:"command,omitempty"`
	Strict  bool     `koanf:"strict" yaml:"strict"`
}

// Command is an argv. In config it may also be written as one string.
type Command []string

// PreviewConfig holds configuration for the preview server.
type PreviewConfig struct {
	Port int `koanf:"port" yaml:"port"`
}

// WatchConfig holds configuration for watch mode.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce" yaml:"debounce"`
}

// Default configuration values.
const (
	DefaultInputDir     = "svg-icons"
	DefaultSpritePath   = "public/icons/sprite.svg"
	DefaultManifestPath = "components/icon/icon-names.ts"
	DefaultTypeName     = "IconName"
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultPreviewPort  = 4178
	DefaultDebounce     = 100 * time.Millisecond
)

// ConfigFileNames are the file names searched for, in order.
var ConfigFileNames = []string{"iconsprite.yaml", "iconsprite.yml"}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		InputDir:     DefaultInputDir,
		SpritePath:   DefaultSpritePath,
		ManifestPath: DefaultManifestPath,
		TypeName:     DefaultTypeName,
		OutputFormat: DefaultOutput,
		Format:       FormatConfig{Strict: true},
		Preview:      PreviewConfig{Port: DefaultPreviewPort},
		Watch:        WatchConfig{Debounce: DefaultDebounce},
	}
}
