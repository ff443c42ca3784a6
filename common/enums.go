// Enums shared between configuration and packages producing output, kept
// separate so that css and inject do not have to import config.
package common

//go:generate go tool go-enum --marshal --names --values --nocase

// Layout of generated CSS text.
// ENUM(compact, pretty)
type CSSLayout string

// Kind of markup document stylesheet is injected into.
// ENUM(html, xhtml)
type DocumentType string

// Ext returns default file extension for the document type.
func (d DocumentType) Ext() string {
	switch d {
	case DocumentTypeXhtml:
		return ".xhtml"
	case DocumentTypeHtml:
		return ".html"
	default:
		// this should never happen
		panic("unsupported document type requested")
	}
}
