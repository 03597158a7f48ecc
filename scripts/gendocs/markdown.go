package main

import (
	"bytes"
	"io"
	"strings"

	"github.com/leapstack-labs/iconsprite/internal/cli/output"
)

// MarkdownWriter accumulates a markdown page. Headers and tables go
// through the CLI renderer in markdown mode so generated pages match what
// the commands print when piped.
type MarkdownWriter struct {
	buf bytes.Buffer
	r   *output.Renderer
}

// NewMarkdownWriter returns an empty page.
func NewMarkdownWriter() *MarkdownWriter {
	w := &MarkdownWriter{}
	w.r = output.NewRendererWithTTY(&w.buf, io.Discard, false, output.ModeMarkdown)
	return w
}

// Frontmatter writes a YAML frontmatter block for the docs site.
func (w *MarkdownWriter) Frontmatter(title, description string) {
	w.r.Println("---")
	w.r.Println("title: " + title)
	w.r.Println("description: " + description)
	w.r.Println("---")
	w.r.Println("")
}

// GeneratedMarker notes that the page must not be edited by hand.
func (w *MarkdownWriter) GeneratedMarker() {
	w.r.Println("<!-- Generated by scripts/gendocs. DO NOT EDIT. -->")
	w.r.Println("")
}

// Header writes a header followed by a blank line.
func (w *MarkdownWriter) Header(level int, text string) {
	w.r.Header(level, text)
	w.r.Println("")
}

// Paragraph writes text followed by a blank line.
func (w *MarkdownWriter) Paragraph(text string) {
	w.r.Println(strings.TrimSpace(text))
	w.r.Println("")
}

// CodeBlock writes a fenced code block.
func (w *MarkdownWriter) CodeBlock(lang, code string) {
	w.r.Println(output.FormatCodeBlock(lang, code))
	w.r.Println("")
}

// BulletList writes one list item per entry.
func (w *MarkdownWriter) BulletList(items []string) {
	for _, item := range items {
		w.r.Println("- " + item)
	}
	w.r.Println("")
}

// Table writes a pipe table.
func (w *MarkdownWriter) Table(header []string, rows [][]string) {
	w.r.Table(header, rows)
	w.r.Println("")
}

// Bytes returns the page with a single trailing newline.
func (w *MarkdownWriter) Bytes() []byte {
	return append(bytes.TrimRight(w.buf.Bytes(), "\n"), '\n')
}

// InlineCode wraps s in backticks.
func InlineCode(s string) string {
	return "`" + s + "`"
}

// cleanDescription collapses whitespace so text fits a single table cell.
func cleanDescription(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
