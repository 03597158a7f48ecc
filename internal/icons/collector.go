package icons

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ErrStale is returned by callers that require the artifacts to be current.
var ErrStale = errors.New("generated icon artifacts are out of date")

// Config describes one collector run. Paths are used as given; callers
// resolve them against a project root.
type Config struct {
	InputDir     string
	SpritePath   string
	ManifestPath string

	// Include and Exclude are doublestar patterns relative to InputDir.
	// Include defaults to DefaultInclude.
	Include []string
	Exclude []string

	// TypeName names the exported union type. Defaults to DefaultTypeName.
	TypeName string

	// Concurrency bounds how many icons are parsed at once. Zero means
	// runtime.NumCPU().
	Concurrency int

	// Force skips the up-to-date check and always renders both artifacts.
	Force bool

	// Formatter runs after each write. Nil means NopFormatter.
	Formatter Formatter
	// StrictFormat turns formatter failures into run failures. When false
	// they are logged and ignored.
	StrictFormat bool

	Logger *slog.Logger
}

// Result summarizes a collector run.
type Result struct {
	Icons           int
	SpriteChanged   bool
	ManifestChanged bool
	// UpToDate is set when the existing artifacts already covered every
	// icon and nothing was rendered.
	UpToDate bool
}

// Changed reports whether either artifact was written.
func (r Result) Changed() bool {
	return r.SpriteChanged || r.ManifestChanged
}

// Artifacts holds the rendered output files.
type Artifacts struct {
	Sprite   []byte
	Manifest []byte
}

// Status compares freshly rendered artifacts with what is on disk.
type Status struct {
	Icons         int
	SpriteStale   bool
	ManifestStale bool
}

// Stale reports whether either artifact differs from its rendering.
func (s Status) Stale() bool {
	return s.SpriteStale || s.ManifestStale
}

// Collector generates the sprite and manifest for one input directory.
type Collector struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Collector, filling in defaults for unset fields.
func New(cfg Config) *Collector {
	if len(cfg.Include) == 0 {
		cfg.Include = []string{DefaultInclude}
	}
	if cfg.TypeName == "" {
		cfg.TypeName = DefaultTypeName
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	if cfg.Formatter == nil {
		cfg.Formatter = NopFormatter
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collector{cfg: cfg, logger: logger}
}

// Config returns the effective configuration.
func (c *Collector) Config() Config {
	return c.cfg
}

// Discover lists the current icons sorted by name.
func (c *Collector) Discover() ([]Icon, error) {
	files, err := Discover(c.cfg.InputDir, c.cfg.Include, c.cfg.Exclude)
	if err != nil {
		return nil, err
	}
	return Icons(files)
}

// Matches reports whether path, a file below InputDir, is an icon input.
func (c *Collector) Matches(path string) bool {
	rel, err := filepath.Rel(c.cfg.InputDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return Match(filepath.ToSlash(rel), c.cfg.Include, c.cfg.Exclude)
}

// Run brings both artifacts in line with the input directory. When the
// existing files already mention every icon it returns without rendering.
// Both artifacts are rendered and validated before either is written, so
// a bad input file leaves the outputs untouched.
func (c *Collector) Run(ctx context.Context) (Result, error) {
	icons, err := c.Discover()
	if err != nil {
		return Result{}, err
	}
	res := Result{Icons: len(icons)}
	names := Names(icons)

	if !c.cfg.Force {
		upToDate, err := c.upToDate(names)
		if err != nil {
			return res, err
		}
		if upToDate {
			c.logger.Debug("icons are up to date", "icons", len(icons))
			res.UpToDate = true
			return res, nil
		}
	}

	c.logger.Debug("generating sprite", "input", c.cfg.InputDir, "icons", len(icons))

	out, err := c.Render(ctx, icons)
	if err != nil {
		return res, err
	}
	for _, icon := range icons {
		c.logger.Debug("processed icon", "name", icon.Name, "file", icon.Path)
	}

	if res.SpriteChanged, err = c.write(ctx, c.cfg.SpritePath, out.Sprite); err != nil {
		return res, err
	}
	c.logger.Debug("sprite saved", "path", c.cfg.SpritePath, "changed", res.SpriteChanged)

	if res.ManifestChanged, err = c.write(ctx, c.cfg.ManifestPath, out.Manifest); err != nil {
		return res, err
	}
	c.logger.Debug("manifest saved", "path", c.cfg.ManifestPath, "changed", res.ManifestChanged)

	return res, nil
}

// Check renders both artifacts and compares them byte-for-byte with the
// files on disk. The outputs themselves are never written; when a
// formatter is configured it runs on a scratch copy so the comparison sees
// formatted bytes.
func (c *Collector) Check(ctx context.Context) (Status, error) {
	icons, err := c.Discover()
	if err != nil {
		return Status{}, err
	}
	out, err := c.Render(ctx, icons)
	if err != nil {
		return Status{}, err
	}
	if out.Sprite, err = c.formatted(ctx, c.cfg.SpritePath, out.Sprite); err != nil {
		return Status{}, err
	}
	if out.Manifest, err = c.formatted(ctx, c.cfg.ManifestPath, out.Manifest); err != nil {
		return Status{}, err
	}

	sprite, err := ReadExisting(c.cfg.SpritePath)
	if err != nil {
		return Status{}, err
	}
	manifest, err := ReadExisting(c.cfg.ManifestPath)
	if err != nil {
		return Status{}, err
	}

	return Status{
		Icons:         len(icons),
		SpriteStale:   string(sprite) != string(out.Sprite),
		ManifestStale: string(manifest) != string(out.Manifest),
	}, nil
}

// Render builds both artifacts for icons. Files are parsed concurrently;
// the first failure cancels the rest.
func (c *Collector) Render(ctx context.Context, icons []Icon) (Artifacts, error) {
	symbols := make([]Symbol, len(icons))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)
	for i, icon := range icons {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sym, err := c.symbol(icon)
			if err != nil {
				return err
			}
			symbols[i] = sym
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Artifacts{}, err
	}

	manifest := RenderManifest(c.cfg.TypeName, Names(icons))
	if err := ValidateManifest(filepath.Base(c.cfg.ManifestPath), manifest); err != nil {
		return Artifacts{}, err
	}

	return Artifacts{
		Sprite:   RenderSprite(symbols),
		Manifest: manifest,
	}, nil
}

func (c *Collector) symbol(icon Icon) (Symbol, error) {
	markup, err := os.ReadFile(filepath.Join(c.cfg.InputDir, filepath.FromSlash(icon.Path)))
	if err != nil {
		return Symbol{}, fmt.Errorf("read icon: %w", err)
	}
	frag, err := ToSymbol(icon.Name, markup)
	if err != nil {
		return Symbol{}, fmt.Errorf("icon %s: %w", icon.Path, err)
	}
	return Symbol{Name: icon.Name, Markup: frag}, nil
}

func (c *Collector) upToDate(names []string) (bool, error) {
	sprite, err := ReadExisting(c.cfg.SpritePath)
	if err != nil {
		return false, err
	}
	manifest, err := ReadExisting(c.cfg.ManifestPath)
	if err != nil {
		return false, err
	}
	return SpriteUpToDate(string(sprite), names) && ManifestUpToDate(string(manifest), names), nil
}

// write persists content and runs the formatter when the file changed.
func (c *Collector) write(ctx context.Context, path string, content []byte) (bool, error) {
	changed, err := WriteIfChanged(path, content)
	if err != nil || !changed {
		return changed, err
	}
	if err := c.cfg.Formatter.Format(ctx, path); err != nil {
		if c.cfg.StrictFormat {
			return true, err
		}
		c.logger.Warn("formatter failed", "path", path, "error", err)
	}
	return true, nil
}

// formatted returns content as the formatter would leave it at path. The
// scratch file lives next to path so project formatter config applies.
func (c *Collector) formatted(ctx context.Context, path string, content []byte) ([]byte, error) {
	if isNop(c.cfg.Formatter) {
		return content, nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	scratch, err := os.MkdirTemp(dir, ".iconsprite-check-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	tmp := filepath.Join(scratch, filepath.Base(path))
	if err := os.WriteFile(tmp, content, 0o600); err != nil {
		return nil, fmt.Errorf("write scratch copy: %w", err)
	}
	if err := c.cfg.Formatter.Format(ctx, tmp); err != nil {
		if c.cfg.StrictFormat {
			return nil, err
		}
		c.logger.Warn("formatter failed", "path", tmp, "error", err)
	}
	data, err := os.ReadFile(tmp)
	if err != nil {
		return nil, fmt.Errorf("read scratch copy: %w", err)
	}
	return data, nil
}
