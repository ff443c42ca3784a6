package rules

import (
	"fmt"

	"fontswap/fonts"
)

// Declaration is a single font-face override: requests for Family with given
// Weight and Style are served by locally installed face SourceName.
type Declaration struct {
	Family     string
	SourceName string
	Weight     int
	Style      fonts.Style
}

// Compile produces override declarations for enabled rules in rule order and
// then locals order. Legacy rules produce single declaration naming target
// family directly.
func Compile(rules []Rule) []Declaration {
	decls := make([]Declaration, 0, len(rules))
	for _, r := range rules {
		switch r := r.(type) {
		case ResolvedRule:
			if !r.Enable {
				continue
			}
			for _, local := range r.Locals {
				decls = append(decls, Declaration{
					Family:     r.Source,
					SourceName: local.FullName,
					Weight:     local.Weight,
					Style:      local.Style,
				})
			}
		case LegacyRule:
			if !r.Enable {
				continue
			}
			decls = append(decls, Declaration{
				Family:     r.Source,
				SourceName: r.Target,
				Weight:     fonts.DefaultWeight,
				Style:      fonts.StyleNormal,
			})
		default:
			panic(unexpected(r))
		}
	}
	return decls
}

func unexpected(r Rule) string {
	return fmt.Sprintf("unexpected rule type %T", r)
}
