// Package rules holds font substitution rules: their persisted and exchanged
// shapes, validation of externally supplied data and compilation of enabled
// rules into @font-face override declarations.
package rules

import (
	"encoding/json"

	"fontswap/fonts"
)

// Mapping is the part shared by every rule shape.
type Mapping struct {
	Source string // family requested by document
	Target string // installed family to render with
	Enable bool
}

// Rule is either LegacyRule or ResolvedRule. Rules are always handled by
// value, pointers are not valid Rule implementations for Compile.
type Rule interface {
	Mapping() Mapping
	isRule()
}

// LegacyRule is the shape saved before variant resolution existed, it
// carries no locals and compiles into single substitution of target family
// name.
type LegacyRule struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Enable bool   `json:"enable"`
}

func (r LegacyRule) Mapping() Mapping {
	return Mapping{Source: r.Source, Target: r.Target, Enable: r.Enable}
}

func (LegacyRule) isRule() {}

// ResolvedRule carries faces of target family found at the time rule was
// last saved. Locals may be stale relative to installed fonts.
type ResolvedRule struct {
	Source string          `json:"source"`
	Target string          `json:"target"`
	Enable bool            `json:"enable"`
	Locals []fonts.Variant `json:"locals"`
}

func (r ResolvedRule) Mapping() Mapping {
	return Mapping{Source: r.Source, Target: r.Target, Enable: r.Enable}
}

func (ResolvedRule) isRule() {}

// MarshalJSON always writes locals as an array so that rule keeps its shape
// when read back.
func (r ResolvedRule) MarshalJSON() ([]byte, error) {
	type plain ResolvedRule
	if r.Locals == nil {
		r.Locals = []fonts.Variant{}
	}
	return json.Marshal(plain(r))
}

// NewRule creates legacy rule from its mapping.
func NewRule(m Mapping) LegacyRule {
	return LegacyRule{Source: m.Source, Target: m.Target, Enable: m.Enable}
}

// Strip drops resolved locals from any rule.
func Strip(r Rule) LegacyRule {
	return NewRule(r.Mapping())
}

// WithEnable returns copy of r with enable flag set as requested, preserving
// rule shape.
func WithEnable(r Rule, enable bool) Rule {
	switch r := r.(type) {
	case ResolvedRule:
		r.Enable = enable
		return r
	case LegacyRule:
		r.Enable = enable
		return r
	default:
		panic(unexpected(r))
	}
}

// RuleSet is the unit of persistence, import and export. Order of rules is
// display order, duplicates are allowed.
type RuleSet struct {
	Rules []Rule
}

type wireRuleSet struct {
	Rules []Rule `json:"rules"`
}

// MarshalJSON writes {"rules": [...]}, each rule in its own shape.
func (rs RuleSet) MarshalJSON() ([]byte, error) {
	w := wireRuleSet{Rules: rs.Rules}
	if w.Rules == nil {
		w.Rules = []Rule{}
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads rule set previously written by MarshalJSON, accepting
// both legacy and resolved shapes (see Migrate).
func (rs *RuleSet) UnmarshalJSON(data []byte) error {
	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	migrated, err := Migrate(obj)
	if err != nil {
		return err
	}
	*rs = migrated
	return nil
}

// Stripped returns copy of the set with all rules in legacy shape.
func (rs RuleSet) Stripped() RuleSet {
	out := RuleSet{Rules: make([]Rule, 0, len(rs.Rules))}
	for _, r := range rs.Rules {
		out.Rules = append(out.Rules, Strip(r))
	}
	return out
}

// Defaults returns rule set used when nothing has been stored yet.
func Defaults() RuleSet {
	return RuleSet{Rules: []Rule{
		LegacyRule{Source: "Segoe UI", Target: "Arial", Enable: false},
		LegacyRule{Source: "Consolas", Target: "Cascadia Code", Enable: false},
	}}
}
