package icons

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// DefaultTypeName is the name of the exported union type.
const DefaultTypeName = "IconName"

// ErrInvalidManifest is returned when the rendered manifest is not valid
// TypeScript.
var ErrInvalidManifest = errors.New("invalid type manifest")

// RenderManifest renders a TypeScript module exporting a union of string
// literals, one per name, in the order given. An empty name list renders
// the type as never.
func RenderManifest(typeName string, names []string) []byte {
	if typeName == "" {
		typeName = DefaultTypeName
	}

	var sb strings.Builder
	sb.WriteString("// " + GeneratedNotice + "\n\n")

	if len(names) == 0 {
		fmt.Fprintf(&sb, "export type %s = never;\n", typeName)
		return []byte(sb.String())
	}

	fmt.Fprintf(&sb, "export type %s =\n", typeName)
	for i, name := range names {
		sb.WriteString("\t| ")
		sb.WriteString(StringLiteral(name))
		if i == len(names)-1 {
			sb.WriteByte(';')
		}
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

// ValidateManifest parses src as TypeScript and reports any syntax errors.
func ValidateManifest(filename string, src []byte) error {
	result := api.Transform(string(src), api.TransformOptions{
		Loader:     api.LoaderTS,
		Sourcefile: filename,
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) == 0 {
		return nil
	}

	var msg strings.Builder
	for _, e := range result.Errors {
		if e.Location != nil {
			fmt.Fprintf(&msg, "\n%s:%d:%d: %s", e.Location.File, e.Location.Line, e.Location.Column, e.Text)
		} else {
			fmt.Fprintf(&msg, "\n%s", e.Text)
		}
	}
	return fmt.Errorf("%w:%s", ErrInvalidManifest, msg.String())
}

// StringLiteral quotes s as a JSON string, which is also a valid
// TypeScript string literal with the same value. HTML characters are
// left unescaped.
func StringLiteral(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // encoding a string cannot fail
	return strings.TrimSuffix(buf.String(), "\n")
}
