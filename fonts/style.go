package fonts

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnparseable is returned by ParseStyle when style string has tokens it
// does not recognize.
var ErrUnparseable = errors.New("unparseable font style")

type weightKeyword struct {
	name   string
	weight int
}

// weightKeywords is scanned in order and the first keyword which prefixes
// style string wins. Order is part of the contract, do not sort.
var weightKeywords = [...]weightKeyword{
	{"thin", 100},
	{"extralight", 200},
	{"ultralight", 200},
	{"light", 300},
	{"normal", 400},
	{"regular", 400},
	{"medium", 500},
	{"semibold", 600},
	{"demibold", 600},
	{"bold", 700},
	{"extrabold", 800},
	{"ultrabold", 800},
	{"black", 900},
	{"heavy", 900},
}

const italicSuffix = "italic"

// ParseStyle converts free text style of a font face (as reported by font
// catalog) into numeric weight and font style. Weight keyword is only
// recognized at the start of the string and "italic" only at the end, anything
// else left over makes the whole string unparseable.
func ParseStyle(raw string) (int, Style, error) {
	s := strings.ToLower(raw)

	weight := DefaultWeight
	for _, kw := range weightKeywords {
		if rest, ok := strings.CutPrefix(s, kw.name); ok {
			weight, s = kw.weight, rest
			break
		}
	}

	style := StyleNormal
	if rest, ok := strings.CutSuffix(s, italicSuffix); ok {
		style, s = StyleItalic, rest
	}

	if strings.TrimSpace(s) != "" {
		return 0, "", fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}
	return weight, style, nil
}
