package manage

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"

	"fontswap/config"
	"fontswap/rules"
)

// Values is a struct that holds variables we make available for export name
// template expansion.
type Values struct {
	Context string
	Rules   int
	Enabled int
	Date    string
}

func newValues(rs rules.RuleSet, now time.Time) Values {
	v := Values{
		Context: string(config.NameTemplateFieldName),
		Rules:   len(rs.Rules),
		Date:    now.Format("2006-01-02"),
	}
	for _, r := range rs.Rules {
		if r.Mapping().Enable {
			v.Enabled++
		}
	}
	return v
}

// ExportFileName expands export name template. Result is a bare file name:
// transliterated when requested, stripped of characters file system would not
// accept and always having an extension.
func ExportFileName(field string, transliterate bool, values Values) (string, error) {
	tmpl, err := template.New(string(config.NameTemplateFieldName)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", config.NameTemplateFieldName, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand template field %s: %w", config.NameTemplateFieldName, err)
	}

	name := strings.TrimSpace(buf.String())
	if name == "" {
		return rules.DefaultExportName, nil
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if transliterate {
		base = slug.Make(base)
	}
	if ext == "" {
		ext = filepath.Ext(rules.DefaultExportName)
	}
	return config.CleanFileName(base) + ext, nil
}
