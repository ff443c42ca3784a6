package rules

import (
	"fmt"

	"go.uber.org/multierr"

	"fontswap/fonts"
)

// ResolveRule finds installed faces for rule target.
func ResolveRule(r Rule, catalog []fonts.FontVariant) (ResolvedRule, error) {
	m := r.Mapping()
	locals, err := fonts.Resolve(m.Target, catalog)
	if err != nil {
		return ResolvedRule{}, err
	}
	return ResolvedRule{Source: m.Source, Target: m.Target, Enable: m.Enable, Locals: locals}, nil
}

// Resolve resolves every rule of the set against catalog. Failure of one rule
// does not affect others: rule which could not be resolved is returned
// unchanged and its error (mentioning rule position) is combined into
// returned error.
func Resolve(rs RuleSet, catalog []fonts.FontVariant) (RuleSet, error) {
	var errs error
	out := RuleSet{Rules: make([]Rule, 0, len(rs.Rules))}
	for i, r := range rs.Rules {
		resolved, err := ResolveRule(r, catalog)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("rule %d: %w", i+1, err))
			out.Rules = append(out.Rules, r)
			continue
		}
		out.Rules = append(out.Rules, resolved)
	}
	return out, errs
}
