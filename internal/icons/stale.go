package icons

import (
	"strings"

	"golang.org/x/net/html"
)

// SpriteMarker is the substring a sprite contains for each icon it defines.
func SpriteMarker(name string) string {
	return `id="` + html.EscapeString(name) + `"`
}

// ManifestMarker is the substring a manifest contains for each icon it
// lists.
func ManifestMarker(name string) string {
	return StringLiteral(name)
}

// SpriteUpToDate reports whether an existing sprite mentions every name.
// An empty sprite is never up to date.
func SpriteUpToDate(content string, names []string) bool {
	return containsAll(content, names, SpriteMarker)
}

// ManifestUpToDate reports whether an existing manifest lists every name.
// An empty manifest is never up to date.
func ManifestUpToDate(content string, names []string) bool {
	return containsAll(content, names, ManifestMarker)
}

// containsAll is a cheap cache check: it only looks for the presence of
// each marker, so content listing extra icons still counts as current.
func containsAll(content string, names []string, marker func(string) string) bool {
	if content == "" {
		return false
	}
	for _, name := range names {
		if !strings.Contains(content, marker(name)) {
			return false
		}
	}
	return true
}
