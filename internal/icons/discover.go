package icons

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude matches every SVG file below the input directory.
const DefaultInclude = "**/*.svg"

// ErrDuplicateName is returned when two input files map to the same icon name.
var ErrDuplicateName = errors.New("duplicate icon name")

// ErrEmptyName is returned for a file whose name is only an extension,
// such as ".svg".
var ErrEmptyName = errors.New("empty icon name")

// Icon is a single discovered input file.
type Icon struct {
	Name string // identifier, e.g. "arrow/left"
	Path string // slash-separated path relative to the input directory
}

// Name derives the icon identifier from a relative file path by stripping
// its extension: "arrow/left.svg" becomes "arrow/left".
func Name(rel string) string {
	return strings.TrimSuffix(rel, path.Ext(rel))
}

// Discover lists the files under dir that match at least one include
// pattern and no exclude pattern. Patterns use doublestar syntax and are
// matched against slash-separated relative paths. The result is sorted by
// path.
func Discover(dir string, include, exclude []string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path %s is not a directory", dir)
	}

	if len(include) == 0 {
		include = []string{DefaultInclude}
	}

	fsys := os.DirFS(dir)
	seen := make(map[string]struct{})
	var files []string

	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern,
			doublestar.WithFilesOnly(),
			doublestar.WithFailOnIOErrors(),
		)
		if err != nil {
			return nil, fmt.Errorf("glob %q in %s: %w", pattern, dir, err)
		}
		for _, rel := range matches {
			if _, ok := seen[rel]; ok {
				continue
			}
			excluded, err := matchesAny(exclude, rel)
			if err != nil {
				return nil, err
			}
			if excluded {
				continue
			}
			seen[rel] = struct{}{}
			files = append(files, rel)
		}
	}

	sort.Strings(files)
	return files, nil
}

// Icons converts discovered relative paths into icons, rejecting paths that
// collapse onto the same identifier.
func Icons(files []string) ([]Icon, error) {
	icons := make([]Icon, 0, len(files))
	owners := make(map[string]string, len(files))
	for _, rel := range files {
		name := Name(rel)
		if name == "" || strings.HasSuffix(name, "/") {
			return nil, fmt.Errorf("%w: %s has no name before its extension", ErrEmptyName, rel)
		}
		if prev, ok := owners[name]; ok {
			return nil, fmt.Errorf("%w %q: %s and %s", ErrDuplicateName, name, prev, rel)
		}
		owners[name] = rel
		icons = append(icons, Icon{Name: name, Path: rel})
	}
	sort.Slice(icons, func(i, j int) bool { return icons[i].Name < icons[j].Name })
	return icons, nil
}

// Names returns the identifiers of icons in order.
func Names(icons []Icon) []string {
	names := make([]string, len(icons))
	for i, icon := range icons {
		names[i] = icon.Name
	}
	return names
}

// Match reports whether the relative path rel would be discovered with the
// given patterns. Invalid patterns never match.
func Match(rel string, include, exclude []string) bool {
	if len(include) == 0 {
		include = []string{DefaultInclude}
	}
	included, err := matchesAny(include, rel)
	if err != nil || !included {
		return false
	}
	excluded, err := matchesAny(exclude, rel)
	return err == nil && !excluded
}

func matchesAny(patterns []string, rel string) (bool, error) {
	for _, pattern := range patterns {
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
