package icons

import (
	"sort"
	"strings"
)

// GeneratedNotice is embedded as a comment at the top of both artifacts.
const GeneratedNotice = "This file is generated by iconsprite. DO NOT EDIT."

const (
	xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`
	spriteOpen     = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="0" height="0">`
	spriteClose    = `</svg>`
)

// RenderSprite wraps the symbols, sorted by name, in a single hidden <svg>
// container. The symbols sit inside <defs> since they are only rendered
// through <use> references.
func RenderSprite(symbols []Symbol) []byte {
	sorted := make([]Symbol, len(symbols))
	copy(sorted, symbols)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	lines := make([]string, 0, len(sorted)+7)
	lines = append(lines,
		xmlDeclaration,
		"<!-- "+GeneratedNotice+" -->",
		spriteOpen,
	)
	if len(sorted) == 0 {
		lines = append(lines, "<defs></defs>")
	} else {
		lines = append(lines, "<defs>")
		for _, s := range sorted {
			lines = append(lines, s.Markup)
		}
		lines = append(lines, "</defs>")
	}
	lines = append(lines, spriteClose, "")

	return []byte(strings.Join(lines, "\n"))
}
