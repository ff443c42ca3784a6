package rules

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNoSuchRule is returned when rule position is outside of the set.
var ErrNoSuchRule = errors.New("no such rule")

// position checks 1-based rule position as presented to user and converts it
// to slice index.
func (rs RuleSet) position(n int) (int, error) {
	if n < 1 || n > len(rs.Rules) {
		return 0, fmt.Errorf("%w: %d (have %d)", ErrNoSuchRule, n, len(rs.Rules))
	}
	return n - 1, nil
}

// Append returns copy of the set with r added at the end.
func (rs RuleSet) Append(r Rule) RuleSet {
	return RuleSet{Rules: append(slices.Clone(rs.Rules), r)}
}

// Remove returns copy of the set without rule at 1-based position n.
func (rs RuleSet) Remove(n int) (RuleSet, error) {
	i, err := rs.position(n)
	if err != nil {
		return rs, err
	}
	return RuleSet{Rules: slices.Delete(slices.Clone(rs.Rules), i, i+1)}, nil
}

// SetEnable returns copy of the set with rule at 1-based position n enabled
// or disabled. Rule keeps its shape.
func (rs RuleSet) SetEnable(n int, enable bool) (RuleSet, error) {
	i, err := rs.position(n)
	if err != nil {
		return rs, err
	}
	out := RuleSet{Rules: slices.Clone(rs.Rules)}
	out.Rules[i] = WithEnable(out.Rules[i], enable)
	return out, nil
}
