package rules

import (
	"errors"
	"fmt"

	"fontswap/fonts"
)

// ErrInvalidShape is matched by errors.Is for any *ShapeError.
var ErrInvalidShape = errors.New("invalid rule set shape")

// ShapeError describes the first place where rule data does not have
// expected structure.
type ShapeError struct {
	Path   string // e.g. "rules[2].target"
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidShape, e.Path, e.Reason)
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrInvalidShape
}

// Validate checks structure of externally supplied rule data (decoded JSON or
// YAML) and converts it into rule set. Every rule must have boolean "enable"
// and string "source" and "target", any violation rejects the whole set.
// Locals carried by the data are not trusted and dropped, all resulting rules
// are legacy rules to be resolved again on this machine.
func Validate(obj any) (RuleSet, error) {
	return decodeRuleSet(obj, false)
}

// Migrate is Validate for the program's own persisted settings, which may be
// written by any version. Rules with well formed locals keep them, rules
// without locals or with locals in unexpected shape become legacy rules.
func Migrate(obj any) (RuleSet, error) {
	return decodeRuleSet(obj, true)
}

func decodeRuleSet(obj any, keepLocals bool) (RuleSet, error) {
	root, ok := obj.(map[string]any)
	if !ok {
		return RuleSet{}, &ShapeError{Path: "$", Reason: "expected object, got " + jsonKind(obj)}
	}
	raw, ok := root["rules"]
	if !ok {
		return RuleSet{}, &ShapeError{Path: "rules", Reason: "missing"}
	}
	items, ok := raw.([]any)
	if !ok {
		return RuleSet{}, &ShapeError{Path: "rules", Reason: "expected array, got " + jsonKind(raw)}
	}

	rs := RuleSet{Rules: make([]Rule, 0, len(items))}
	for i, item := range items {
		path := fmt.Sprintf("rules[%d]", i)
		r, ok := item.(map[string]any)
		if !ok {
			return RuleSet{}, &ShapeError{Path: path, Reason: "expected object, got " + jsonKind(item)}
		}

		var (
			legacy LegacyRule
			err    error
		)
		if legacy.Enable, err = field[bool](r, path, "enable"); err != nil {
			return RuleSet{}, err
		}
		if legacy.Source, err = field[string](r, path, "source"); err != nil {
			return RuleSet{}, err
		}
		if legacy.Target, err = field[string](r, path, "target"); err != nil {
			return RuleSet{}, err
		}

		if keepLocals {
			if locals, ok := decodeLocals(r["locals"]); ok {
				rs.Rules = append(rs.Rules, ResolvedRule{
					Source: legacy.Source,
					Target: legacy.Target,
					Enable: legacy.Enable,
					Locals: locals,
				})
				continue
			}
		}
		rs.Rules = append(rs.Rules, legacy)
	}
	return rs, nil
}

func field[T bool | string](obj map[string]any, path, name string) (T, error) {
	var zero T
	raw, ok := obj[name]
	if !ok {
		return zero, &ShapeError{Path: path + "." + name, Reason: "missing"}
	}
	v, ok := raw.(T)
	if !ok {
		return zero, &ShapeError{Path: path + "." + name, Reason: fmt.Sprintf("expected %s, got %s", jsonKind(zero), jsonKind(raw))}
	}
	return v, nil
}

// decodeLocals accepts only complete and sane variant lists, anything else
// means rule has to be resolved again.
func decodeLocals(raw any) ([]fonts.Variant, bool) {
	items, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	locals := make([]fonts.Variant, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		name, ok := obj["fullName"].(string)
		if !ok {
			return nil, false
		}
		weight, ok := integer(obj["weight"])
		if !ok || weight < 1 || weight > 1000 {
			return nil, false
		}
		style, ok := obj["style"].(string)
		if !ok || !fonts.Style(style).IsValid() {
			return nil, false
		}
		locals = append(locals, fonts.Variant{FullName: name, Weight: weight, Style: fonts.Style(style)})
	}
	return locals, true
}

// integer handles numbers produced by both encoding/json and yaml decoders.
func integer(raw any) (int, bool) {
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	default:
		return 0, false
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, int, int64, uint64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
