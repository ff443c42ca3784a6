// Package fonts turns raw records of installed font faces into the weight and
// style metadata needed to address them from @font-face declarations.
package fonts

// DefaultWeight is used when style string does not name a weight.
const DefaultWeight = 400

// FontVariant is a single record of installed fonts catalog.
type FontVariant struct {
	Family   string `json:"family" yaml:"family"`
	FullName string `json:"fullName" yaml:"fullName"`
	Style    string `json:"style" yaml:"style"` // free text, e.g. "Bold Italic"
}

// Style is font-style value of a resolved variant.
type Style string

const (
	StyleNormal Style = "normal"
	StyleItalic Style = "italic"
)

// IsValid reports whether s is one of known font styles.
func (s Style) IsValid() bool {
	return s == StyleNormal || s == StyleItalic
}

// Variant is a catalog record annotated with parsed weight and style.
type Variant struct {
	FullName string `json:"fullName"`
	Weight   int    `json:"weight"`
	Style    Style  `json:"style"`
}
