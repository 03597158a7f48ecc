package icons

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoSVG is returned when an input file has no <svg> element.
var ErrNoSVG = errors.New("no SVG element found")

// inheritFill lets instances take their color from the <use> site.
const inheritFill = "inherit"

// strippedAttrs are dropped from the root element so a symbol inherits
// sizing and namespaces from the document that references it.
var strippedAttrs = map[string]bool{
	"xmlns":       true,
	"xmlns:xlink": true,
	"version":     true,
	"width":       true,
	"height":      true,
}

// Symbol is the rendered <symbol> fragment for one icon.
type Symbol struct {
	Name   string
	Markup string
}

// ToSymbol parses SVG markup, finds the root <svg> element and rewrites it
// into a <symbol> whose id is name. The fill is forced to "inherit" and
// namespace, version and size attributes are removed. Child content is
// kept as is.
func ToSymbol(name string, markup []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse markup: %w", err)
	}

	svg := findSVG(doc)
	if svg == nil {
		return "", ErrNoSVG
	}

	svg.Data = "symbol"
	svg.DataAtom = 0

	attrs := make([]html.Attribute, 0, len(svg.Attr)+2)
	for _, a := range svg.Attr {
		if strippedAttrs[qualifiedName(a)] {
			continue
		}
		attrs = append(attrs, a)
	}
	attrs = setAttr(attrs, "id", name)
	attrs = setAttr(attrs, "fill", inheritFill)
	svg.Attr = attrs

	var sb strings.Builder
	if err := html.Render(&sb, svg); err != nil {
		return "", fmt.Errorf("render symbol: %w", err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// SpriteSymbols returns the ids of every <symbol> in a sprite document, in
// document order.
func SpriteSymbols(sprite []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(sprite))
	if err != nil {
		return nil, fmt.Errorf("parse sprite: %w", err)
	}

	var ids []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "symbol" {
			if id, ok := getAttr(n, "id"); ok {
				ids = append(ids, id)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return ids, nil
}

// findSVG returns the first <svg> element in document order.
func findSVG(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && (n.DataAtom == atom.Svg || n.Data == "svg") {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findSVG(c); found != nil {
			return found
		}
	}
	return nil
}

// qualifiedName rejoins a namespaced attribute, e.g. xmlns:xlink, which
// the parser splits into Namespace and Key.
func qualifiedName(a html.Attribute) string {
	if a.Namespace != "" {
		return a.Namespace + ":" + a.Key
	}
	return a.Key
}

// setAttr replaces the value of key in place, or appends it.
func setAttr(attrs []html.Attribute, key, val string) []html.Attribute {
	for i := range attrs {
		if attrs[i].Namespace == "" && attrs[i].Key == key {
			attrs[i].Val = val
			return attrs
		}
	}
	return append(attrs, html.Attribute{Key: key, Val: val})
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
