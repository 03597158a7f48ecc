package icons

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSymbol(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		markup string
		want   string
	}{
		{
			name:   "strips size and namespace",
			id:     "check",
			markup: checkSVG,
			want:   `<symbol id="check" fill="inherit"><path d="M1 1"></path></symbol>`,
		},
		{
			name:   "keeps viewBox casing",
			id:     "arrow/left",
			markup: arrowSVG,
			want:   `<symbol viewBox="0 0 16 16" id="arrow/left" fill="inherit"><path d="M10 2L4 8l6 6"></path></symbol>`,
		},
		{
			name:   "replaces existing id and fill in place",
			id:     "star",
			markup: `<svg id="old" fill="currentColor" viewBox="0 0 24 24"><circle r="4"/></svg>`,
			want:   `<symbol id="star" fill="inherit" viewBox="0 0 24 24"><circle r="4"></circle></symbol>`,
		},
		{
			name:   "ignores xml prolog",
			id:     "dot",
			markup: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<svg width=\"8\" height=\"8\"><circle r=\"1\"/></svg>\n",
			want:   `<symbol id="dot" fill="inherit"><circle r="1"></circle></symbol>`,
		},
		{
			name:   "preserves camel case elements",
			id:     "fade",
			markup: `<svg><defs><linearGradient id="g"/></defs><rect fill="url(#g)"/></svg>`,
			want:   `<symbol id="fade" fill="inherit"><defs><linearGradient id="g"></linearGradient></defs><rect fill="url(#g)"></rect></symbol>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToSymbol(tt.id, []byte(tt.markup))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToSymbol_NoSVG(t *testing.T) {
	for _, markup := range []string{"", "just text", `<div><span>nope</span></div>`} {
		_, err := ToSymbol("broken", []byte(markup))
		require.ErrorIs(t, err, ErrNoSVG)
		assert.Contains(t, err.Error(), "no SVG element found")
	}
}

func TestSpriteSymbols(t *testing.T) {
	sprite := RenderSprite([]Symbol{
		{Name: "check", Markup: `<symbol id="check" fill="inherit"><path d="M1 1"></path></symbol>`},
		{Name: "arrow/left", Markup: `<symbol id="arrow/left" fill="inherit"></symbol>`},
	})

	ids, err := SpriteSymbols(sprite)
	require.NoError(t, err)
	assert.Equal(t, []string{"arrow/left", "check"}, ids)
}
