package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/leapstack-labs/iconsprite/internal/cli/config"
)

// ConfigField is one documented configuration key.
type ConfigField struct {
	Key     string
	Type    string
	Default string
	Env     string
}

// descriptions holds the prose for each key. Keys missing here are
// reported as an error so new fields cannot ship undocumented.
var descriptions = map[string]string{
	"input_dir":      "Directory scanned for SVG icons",
	"sprite_path":    "Where the sprite is written",
	"manifest_path":  "Where the TypeScript icon names are written",
	"include":        "Glob patterns selecting icon files, relative to input_dir (default `**/*.svg`)",
	"exclude":        "Glob patterns removing files from the include set",
	"type_name":      "Name of the exported TypeScript union type",
	"concurrency":    "Icons parsed in parallel (0 uses every CPU)",
	"verbose":        "Print per-file status and debug logs",
	"output":         "Output format: auto, text, markdown or json",
	"format.command": "Formatter run on each written file; `{file}` is replaced by its path",
	"format.strict":  "Fail the build when the formatter fails instead of warning",
	"preview.port":   "Port of the preview gallery",
	"watch.debounce": "Quiet period after a change before rebuilding",
}

// configFields lists every key of config.Config with its default.
func configFields() []ConfigField {
	var fields []ConfigField
	collectFields(reflect.ValueOf(*config.Default()), "", &fields)
	return fields
}

func collectFields(v reflect.Value, prefix string, fields *[]ConfigField) {
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("koanf")
		if tag == "" || tag == "-" {
			continue
		}
		key := prefix + tag

		if f.Type.Kind() == reflect.Struct && f.Type.String() != "time.Duration" {
			collectFields(v.Field(i), key+".", fields)
			continue
		}

		*fields = append(*fields, ConfigField{
			Key:     key,
			Type:    typeName(f.Type),
			Default: defaultValue(v.Field(i)),
			Env:     config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__")),
		})
	}
}

func typeName(t reflect.Type) string {
	switch {
	case t.String() == "time.Duration":
		return "duration"
	case t.Kind() == reflect.Slice:
		return "list"
	default:
		return t.Kind().String()
	}
}

func defaultValue(v reflect.Value) string {
	if v.IsZero() {
		return ""
	}
	if v.Kind() == reflect.Slice {
		items := make([]string, v.Len())
		for i := range items {
			items[i] = fmt.Sprint(v.Index(i).Interface())
		}
		return strings.Join(items, ", ")
	}
	return fmt.Sprint(v.Interface())
}

// generateConfigDocs writes configuration.md into outDir.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	page, err := configPage(configFields())
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "configuration.md"), page, 0o600); err != nil {
		return fmt.Errorf("failed to write configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")
	return nil
}

// configPage renders the configuration reference.
func configPage(fields []ConfigField) ([]byte, error) {
	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "iconsprite configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("iconsprite reads %s from the project root, searching upward from the "+
		"working directory. Relative paths are resolved against the directory holding the file.",
		InlineCode(config.ConfigFileNames[0])))

	w.Header(2, "Precedence")
	w.BulletList([]string{
		"Built-in defaults",
		InlineCode(config.ConfigFileNames[0]),
		"Environment variables prefixed with " + InlineCode(config.EnvPrefix) + " (nested keys use `__`)",
		"Command-line flags",
	})

	w.Header(2, "Keys")
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		desc, ok := descriptions[f.Key]
		if !ok {
			return nil, fmt.Errorf("no description for config key %q", f.Key)
		}
		def := "-"
		if f.Default != "" {
			def = InlineCode(f.Default)
		}
		rows = append(rows, []string{InlineCode(f.Key), f.Type, def, InlineCode(f.Env), cleanDescription(desc)})
	}
	w.Table([]string{"Key", "Type", "Default", "Environment", "Description"}, rows)

	w.Header(2, "Example")
	w.CodeBlock("yaml", `input_dir: svg-icons
sprite_path: public/icons/sprite.svg
manifest_path: components/icon/icon-names.ts
exclude: ["legacy/**"]
format:
  command: ["prettier", "--write", "{file}", "--ignore-unknown"]
  strict: false`)

	return w.Bytes(), nil
}
