package fonts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStyle_WeightKeywords(t *testing.T) {
	for _, kw := range weightKeywords {
		t.Run(kw.name, func(t *testing.T) {
			weight, style, err := ParseStyle(kw.name)
			require.NoError(t, err)
			assert.Equal(t, kw.weight, weight)
			assert.Equal(t, StyleNormal, style)
		})
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		raw    string
		weight int
		style  Style
	}{
		{"", 400, StyleNormal},
		{"   ", 400, StyleNormal},
		{"Regular", 400, StyleNormal},
		{"Bold", 700, StyleNormal},
		{"SemiBold", 600, StyleNormal},
		{"DemiBold", 600, StyleNormal},
		{"ExtraBold", 800, StyleNormal},
		{"UltraBold", 800, StyleNormal},
		{"ExtraLight", 200, StyleNormal},
		{"UltraLight", 200, StyleNormal},
		{"Light", 300, StyleNormal},
		{"Medium", 500, StyleNormal},
		{"Black", 900, StyleNormal},
		{"Heavy", 900, StyleNormal},
		{"Thin", 100, StyleNormal},
		{"Italic", 400, StyleItalic},
		{"Bold Italic", 700, StyleItalic},
		{"BoldItalic", 700, StyleItalic},
		{"Light Italic", 300, StyleItalic},
		{"SemiBold Italic", 600, StyleItalic},
		{"Regular Italic", 400, StyleItalic},
		{"  italic", 400, StyleItalic},
		{"BOLD ITALIC", 700, StyleItalic},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			weight, style, err := ParseStyle(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.weight, weight)
			assert.Equal(t, tt.style, style)
		})
	}
}

func TestParseStyle_Unparseable(t *testing.T) {
	for _, raw := range []string{
		"boldxyz",
		"Oblique",
		"Book",
		"Condensed Bold",
		"Extra Bold",
		"italic bold",
		"Bold Italic Italic",
		"Bold Oblique",
		"Italic Narrow",
	} {
		t.Run(raw, func(t *testing.T) {
			_, _, err := ParseStyle(raw)
			assert.ErrorIs(t, err, ErrUnparseable)
		})
	}
}

func TestParseStyle_SingleKeywordConsumed(t *testing.T) {
	weight, _, err := ParseStyle("extrabold")
	require.NoError(t, err)
	assert.Equal(t, 800, weight)

	// only one keyword is consumed, second one is residue
	_, _, err = ParseStyle("bold bold")
	assert.ErrorIs(t, err, ErrUnparseable)

	_, _, err = ParseStyle("light regular")
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestStyle_IsValid(t *testing.T) {
	assert.True(t, StyleNormal.IsValid())
	assert.True(t, StyleItalic.IsValid())
	assert.False(t, Style("oblique").IsValid())
	assert.False(t, Style("").IsValid())
}
