package css

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"fontswap/common"
	"fontswap/rules"
)

// escapeString escapes s for use inside CSS double quotes. Besides quote and
// backslash, "<" and control characters are written as hex escapes so the
// text can never close enclosing <style> element.
func escapeString(s string) string {
	if !strings.ContainsFunc(s, needsEscape) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '"':
			b.WriteString(`\"`)
		case needsEscape(r):
			b.WriteString(`\` + strconv.FormatInt(int64(r), 16) + " ")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsEscape(r rune) bool {
	return r == '\\' || r == '"' || r == '<' || r < 0x20 || r == 0x7f
}

// FontFace represents an @font-face declaration.
type FontFace struct {
	Family string // font-family value, unquoted
	Src    string // src value as written, e.g. local("Arial Bold")
	Style  string // font-style: normal, italic
	Weight string // font-weight: 400, 700
}

// Local returns src value referencing locally installed face by its full name.
func Local(fullName string) string {
	return `local("` + escapeString(fullName) + `")`
}

var localPattern = regexp.MustCompile(`^local\(\s*(?:"((?:[^"\\]|\\.)*)"|'((?:[^'\\]|\\.)*)'|([^)"']*))\s*\)$`)

// LocalName returns full name of the face referenced by src when it is a
// single local() reference.
func (ff FontFace) LocalName() (string, bool) {
	m := localPattern.FindStringSubmatch(strings.TrimSpace(ff.Src))
	if m == nil {
		return "", false
	}
	switch {
	case m[1] != "":
		return unescape(m[1]), true
	case m[2] != "":
		return unescape(m[2]), true
	default:
		return strings.TrimSpace(m[3]), m[3] != ""
	}
}

// Stylesheet is a list of @font-face declarations in source order.
type Stylesheet struct {
	FontFaces []FontFace
	Warnings  []string // everything parser skipped
}

// FromDeclarations converts compiled overrides into stylesheet.
func FromDeclarations(decls []rules.Declaration) *Stylesheet {
	sheet := &Stylesheet{FontFaces: make([]FontFace, 0, len(decls))}
	for _, d := range decls {
		sheet.FontFaces = append(sheet.FontFaces, FontFace{
			Family: d.Family,
			Src:    Local(d.SourceName),
			Style:  string(d.Style),
			Weight: strconv.Itoa(d.Weight),
		})
	}
	return sheet
}

// WriteTo writes the stylesheet to w with every declaration spread over
// several lines, implementing io.WriterTo.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i := range s.FontFaces {
		if i > 0 {
			n, err := io.WriteString(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
		n, err := writeFontFace(w, &s.FontFaces[i], false)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteCompact writes one declaration per line without any optional
// whitespace.
func (s *Stylesheet) WriteCompact(w io.Writer) (int64, error) {
	var total int64
	for i := range s.FontFaces {
		n, err := writeFontFace(w, &s.FontFaces[i], true)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Render returns CSS text of the stylesheet in requested layout.
func (s *Stylesheet) Render(layout common.CSSLayout) string {
	var sb strings.Builder
	switch layout {
	case common.CSSLayoutPretty:
		s.WriteTo(&sb) //nolint:errcheck
	default:
		s.WriteCompact(&sb) //nolint:errcheck
	}
	return sb.String()
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	return s.Render(common.CSSLayoutPretty)
}

// writeFontFace writes an @font-face block to w, properties in stable order.
func writeFontFace(w io.Writer, ff *FontFace, compact bool) (int, error) {
	open, decl, closing := "@font-face {\n", "  %s: %s;\n", "}\n"
	if compact {
		open, decl, closing = "@font-face{", "%s:%s;", "}\n"
	}

	var total int
	n, err := io.WriteString(w, open)
	total += n
	if err != nil {
		return total, err
	}

	props := [...]struct{ name, value string }{
		{"font-family", quoted(ff.Family)},
		{"src", ff.Src},
		{"font-weight", ff.Weight},
		{"font-style", ff.Style},
	}
	for _, p := range props {
		if p.value == "" {
			continue
		}
		n, err = fmt.Fprintf(w, decl, p.name, p.value)
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err = io.WriteString(w, closing)
	total += n
	return total, err
}

func quoted(s string) string {
	if s == "" {
		return ""
	}
	return `"` + escapeString(s) + `"`
}
