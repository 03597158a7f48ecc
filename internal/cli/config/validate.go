package config

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var typeNamePattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

var outputModes = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if c.InputDir == "" {
		errs = append(errs, errors.New("input_dir is required"))
	}
	if c.SpritePath == "" {
		errs = append(errs, errors.New("sprite_path is required"))
	}
	if c.ManifestPath == "" {
		errs = append(errs, errors.New("manifest_path is required"))
	}
	if c.SpritePath != "" && c.SpritePath == c.ManifestPath {
		errs = append(errs, errors.New("sprite_path and manifest_path must differ"))
	}
	if !typeNamePattern.MatchString(c.TypeName) {
		errs = append(errs, fmt.Errorf("type_name %q is not a valid TypeScript identifier", c.TypeName))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency))
	}
	if c.OutputFormat != "" && !slices.Contains(outputModes, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output %q must be one of %s", c.OutputFormat, strings.Join(outputModes, ", ")))
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		errs = append(errs, fmt.Errorf("preview.port %d is out of range", c.Preview.Port))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce))
	}
	return errors.Join(errs...)
}
