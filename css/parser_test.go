package css_test

import (
	"testing"

	"go.uber.org/zap"

	"fontswap/css"
)

func TestParser_FontFaceOnly(t *testing.T) {
	src := `
body { font-family: "Segoe UI"; }
@media print { p { color: black; } }
@font-face {
  font-family: "Segoe UI";
  src: local("Arial Bold");
  font-weight: 700;
  font-style: normal;
  font-display: swap;
}
@import url("x.css");
@font-face{font-family:Consolas;src:local('Cascadia Code Italic');font-style:ITALIC}
`
	p := css.NewParser(zap.NewNop())
	sheet := p.Parse([]byte(src), "test")

	if len(sheet.FontFaces) != 2 {
		t.Fatalf("expected 2 font faces, got %d", len(sheet.FontFaces))
	}

	first := sheet.FontFaces[0]
	if first.Family != "Segoe UI" {
		t.Errorf("family = %q", first.Family)
	}
	if first.Src != `local("Arial Bold")` {
		t.Errorf("src = %q", first.Src)
	}
	if first.Weight != "700" || first.Style != "normal" {
		t.Errorf("weight/style = %q/%q", first.Weight, first.Style)
	}

	second := sheet.FontFaces[1]
	if second.Family != "Consolas" {
		t.Errorf("family = %q", second.Family)
	}
	if second.Style != "italic" {
		t.Errorf("style = %q, expected lowercased", second.Style)
	}
	if name, ok := second.LocalName(); !ok || name != "Cascadia Code Italic" {
		t.Errorf("LocalName() = %q, %v", name, ok)
	}

	if len(sheet.Warnings) < 3 {
		t.Errorf("expected ruleset, @media and @import to be reported, got %v", sheet.Warnings)
	}
}

func TestParser_Empty(t *testing.T) {
	sheet := css.NewParser(nil).Parse(nil)
	if len(sheet.FontFaces) != 0 || len(sheet.Warnings) != 0 {
		t.Errorf("expected empty stylesheet, got %+v", sheet)
	}
}

func TestParser_FontFaceWithoutFamily(t *testing.T) {
	sheet := css.NewParser(zap.NewNop()).Parse([]byte(`@font-face { src: local("X"); }`))
	if len(sheet.FontFaces) != 0 {
		t.Fatalf("expected face without family to be dropped, got %+v", sheet.FontFaces)
	}
	if len(sheet.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", sheet.Warnings)
	}
}

func TestParser_Escapes(t *testing.T) {
	sheet := css.NewParser(zap.NewNop()).Parse([]byte(`@font-face{font-family:"A\"B\\C";src:local("x\3c y")}`))
	if len(sheet.FontFaces) != 1 {
		t.Fatalf("expected 1 font face, got %d", len(sheet.FontFaces))
	}
	ff := sheet.FontFaces[0]
	if ff.Family != `A"B\C` {
		t.Errorf("family = %q", ff.Family)
	}
	if name, _ := ff.LocalName(); name != "x<y" {
		t.Errorf("LocalName() = %q", name)
	}
}
