package manage

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"fontswap/css"
	"fontswap/fonts"
	"fontswap/rules"
)

func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// renderRules writes rule set as a table. Positions are 1-based, the same
// ones rule editing commands accept.
func renderRules(w io.Writer, rs rules.RuleSet) {
	t := newTable(w, table.Row{"#", "Source", "Target", "Enabled", "Faces"})
	for i, r := range rs.Rules {
		m := r.Mapping()
		faces := "-"
		if r, ok := r.(rules.ResolvedRule); ok {
			faces = strconv.Itoa(len(r.Locals))
		}
		t.AppendRow(table.Row{i + 1, m.Source, m.Target, yesNo(m.Enable), faces})
	}
	t.Render()
}

func renderVariants(w io.Writer, locals []fonts.Variant) {
	t := newTable(w, table.Row{"Full name", "Weight", "Style"})
	for _, v := range locals {
		t.AppendRow(table.Row{v.FullName, v.Weight, v.Style})
	}
	t.Render()
}

func renderFontFaces(w io.Writer, faces []css.FontFace) {
	t := newTable(w, table.Row{"Family", "Local face", "Weight", "Style"})
	for _, ff := range faces {
		local, ok := ff.LocalName()
		if !ok {
			local = ff.Src
		}
		t.AppendRow(table.Row{ff.Family, local, ff.Weight, ff.Style})
	}
	t.Render()
}
