package rules

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"

	"fontswap/fonts"
)

func decodeJSON(t *testing.T, text string) any {
	t.Helper()
	var obj any
	require.NoError(t, json.Unmarshal([]byte(text), &obj))
	return obj
}

func TestValidate(t *testing.T) {
	obj := decodeJSON(t, `{"rules": [
		{"source": "Segoe UI", "target": "Arial", "enable": true},
		{"source": "Consolas", "target": "Cascadia Code", "enable": false,
		 "locals": [{"fullName": "Cascadia Code Bold", "weight": 700, "style": "normal"}]}
	]}`)

	rs, err := Validate(obj)
	require.NoError(t, err)
	assert.Equal(t, RuleSet{Rules: []Rule{
		LegacyRule{Source: "Segoe UI", Target: "Arial", Enable: true},
		LegacyRule{Source: "Consolas", Target: "Cascadia Code", Enable: false},
	}}, rs)
}

func TestValidate_EmptyRules(t *testing.T) {
	rs, err := Validate(decodeJSON(t, `{"rules": []}`))
	require.NoError(t, err)
	assert.Empty(t, rs.Rules)
}

func TestValidate_InvalidShape(t *testing.T) {
	tests := []struct {
		name string
		text string
		path string
	}{
		{"not an object", `[1, 2]`, "$"},
		{"null", `null`, "$"},
		{"no rules", `{"items": []}`, "rules"},
		{"rules not array", `{"rules": {"source": "A"}}`, "rules"},
		{"rule not object", `{"rules": ["A"]}`, "rules[0]"},
		{"missing target and enable", `{"rules": [{"source": "A"}]}`, "rules[0].enable"},
		{"missing source", `{"rules": [{"target": "A", "enable": true}]}`, "rules[0].source"},
		{"enable is string", `{"rules": [{"source": "A", "target": "B", "enable": "true"}]}`, "rules[0].enable"},
		{"target is number", `{"rules": [{"source": "A", "target": 1, "enable": true}]}`, "rules[0].target"},
		{"second rule broken", `{"rules": [
			{"source": "A", "target": "B", "enable": true},
			{"source": "C", "enable": true}]}`, "rules[1].target"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := Validate(decodeJSON(t, tt.text))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidShape)
			assert.Empty(t, rs.Rules)

			var se *ShapeError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.path, se.Path)
			assert.Contains(t, err.Error(), tt.path)
		})
	}
}

func TestMigrate(t *testing.T) {
	obj := decodeJSON(t, `{"rules": [
		{"source": "Segoe UI", "target": "Arial", "enable": true},
		{"source": "Consolas", "target": "Cascadia Code", "enable": true,
		 "locals": [
			{"fullName": "Cascadia Code Regular", "weight": 400, "style": "normal"},
			{"fullName": "Cascadia Code Bold Italic", "weight": 700, "style": "italic"}]},
		{"source": "Courier", "target": "Iosevka", "enable": false, "locals": "garbage"},
		{"source": "Tahoma", "target": "Inter", "enable": true,
		 "locals": [{"fullName": "Inter", "weight": 4000, "style": "normal"}]},
		{"source": "Verdana", "target": "Inter", "enable": true,
		 "locals": [{"fullName": "Inter", "weight": 400, "style": "oblique"}]}
	]}`)

	rs, err := Migrate(obj)
	require.NoError(t, err)
	assert.Equal(t, []Rule{
		LegacyRule{Source: "Segoe UI", Target: "Arial", Enable: true},
		ResolvedRule{Source: "Consolas", Target: "Cascadia Code", Enable: true, Locals: []fonts.Variant{
			{FullName: "Cascadia Code Regular", Weight: 400, Style: fonts.StyleNormal},
			{FullName: "Cascadia Code Bold Italic", Weight: 700, Style: fonts.StyleItalic},
		}},
		LegacyRule{Source: "Courier", Target: "Iosevka", Enable: false},
		LegacyRule{Source: "Tahoma", Target: "Inter", Enable: true},
		LegacyRule{Source: "Verdana", Target: "Inter", Enable: true},
	}, rs.Rules)
}

func TestMigrate_EmptyLocalsKeepShape(t *testing.T) {
	rs, err := Migrate(decodeJSON(t, `{"rules": [{"source": "A", "target": "B", "enable": true, "locals": []}]}`))
	require.NoError(t, err)
	assert.Equal(t, []Rule{ResolvedRule{Source: "A", Target: "B", Enable: true, Locals: []fonts.Variant{}}}, rs.Rules)
}

func TestMigrate_InvalidShape(t *testing.T) {
	_, err := Migrate(decodeJSON(t, `{"rules": [{"source": "A"}]}`))
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestMigrate_YAML(t *testing.T) {
	var obj any
	require.NoError(t, yaml.Unmarshal([]byte(`
rules:
  - source: Consolas
    target: Cascadia Code
    enable: true
    locals:
      - fullName: Cascadia Code Bold
        weight: 700
        style: normal
`), &obj))

	rs, err := Migrate(obj)
	require.NoError(t, err)
	assert.Equal(t, []Rule{ResolvedRule{Source: "Consolas", Target: "Cascadia Code", Enable: true, Locals: []fonts.Variant{
		{FullName: "Cascadia Code Bold", Weight: 700, Style: fonts.StyleNormal},
	}}}, rs.Rules)
}
