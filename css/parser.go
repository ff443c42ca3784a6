package css

import (
	"bytes"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser extracts @font-face declarations from CSS text.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet. Everything except @font-face is
// skipped and noted in Warnings.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		FontFaces: make([]FontFace, 0),
		Warnings:  make([]string, 0),
	}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			// End of input or error
			if parser.Err() != nil && parser.Err().Error() != "EOF" {
				p.log.Debug("CSS parse error", zap.Error(parser.Err()))
			}
			return sheet

		case css.BeginAtRuleGrammar:
			atRule := strings.ToLower(string(data))
			if atRule == "@font-face" {
				ff := p.parseFontFace(parser)
				if ff.Family == "" {
					sheet.Warnings = append(sheet.Warnings, "@font-face without font-family")
					continue
				}
				sheet.FontFaces = append(sheet.FontFaces, ff)
				continue
			}
			sheet.Warnings = append(sheet.Warnings, "skipped "+atRule+" block")
			p.skipBlock(parser)

		case css.AtRuleGrammar:
			sheet.Warnings = append(sheet.Warnings, "skipped "+strings.ToLower(string(data)))

		case css.BeginRulesetGrammar:
			sheet.Warnings = append(sheet.Warnings, "skipped ruleset "+strings.TrimSpace(joinTokens(data, parser.Values())))
			p.skipBlock(parser)
		}
	}
}

// skipBlock skips tokens until the matching end of a block.
func (p *Parser) skipBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// parseFontFace parses body of an @font-face block.
func (p *Parser) parseFontFace(parser *css.Parser) FontFace {
	ff := FontFace{}

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return ff

		case css.DeclarationGrammar:
			values := parser.Values()
			if len(values) == 0 {
				continue
			}
			value := strings.TrimSpace(joinTokens(nil, values))

			switch strings.ToLower(string(data)) {
			case "font-family":
				ff.Family = unquote(value)
			case "src":
				ff.Src = value
			case "font-style":
				ff.Style = strings.ToLower(value)
			case "font-weight":
				ff.Weight = strings.ToLower(value)
			default:
				p.log.Debug("Ignoring @font-face descriptor", zap.ByteString("name", data))
			}
		}
	}
}

// joinTokens concatenates token data collapsing whitespace runs into single
// space.
func joinTokens(head []byte, tokens []css.Token) string {
	var sb strings.Builder
	sb.Write(head)
	space := false
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			space = true
			continue
		}
		if space && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		space = false
		sb.Write(t.Data)
	}
	return sb.String()
}

// unquote removes surrounding quotes from a string and resolves escapes
// inside. Unquoted values (family names written as identifiers) are returned
// as is.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return unescape(s[1 : len(s)-1])
	}
	return s
}

// unescape resolves CSS escapes: \XXXXXX hex sequences (optionally followed by
// single whitespace) and backslash followed by any other character.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			b.WriteByte(s[i])
			continue
		}
		i++
		j := i
		for j < len(s) && j-i < 6 && isHex(s[j]) {
			j++
		}
		if j == i {
			b.WriteByte(s[i])
			continue
		}
		code, _ := strconv.ParseUint(s[i:j], 16, 32)
		b.WriteRune(rune(code))
		if j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n') {
			j++
		}
		i = j - 1
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
