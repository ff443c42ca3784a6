package fonts

import (
	"errors"
	"fmt"
)

// ErrTargetNotFound is matched by errors.Is for any *TargetNotFoundError.
var ErrTargetNotFound = errors.New("target font family not found")

// TargetNotFoundError reports font family which has no installed faces.
type TargetNotFoundError struct {
	Family string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target font family %q not found", e.Family)
}

func (e *TargetNotFoundError) Is(target error) bool {
	return target == ErrTargetNotFound
}

// Resolve returns all faces of family target present in catalog, in catalog
// order. Family name comparison is exact. Faces with style strings ParseStyle
// does not understand are skipped. When catalog has no faces of the family at
// all *TargetNotFoundError is returned, so empty result is only possible when
// every face was skipped.
func Resolve(target string, catalog []FontVariant) ([]Variant, error) {
	var (
		found  bool
		locals = make([]Variant, 0, 4)
	)
	for _, fv := range catalog {
		if fv.Family != target {
			continue
		}
		found = true

		weight, style, err := ParseStyle(fv.Style)
		if err != nil {
			continue
		}
		locals = append(locals, Variant{FullName: fv.FullName, Weight: weight, Style: style})
	}
	if !found {
		return nil, &TargetNotFoundError{Family: target}
	}
	return locals, nil
}

// Families returns distinct family names in order of first appearance.
func Families(catalog []FontVariant) []string {
	seen := make(map[string]struct{}, len(catalog))
	families := make([]string, 0, len(catalog))
	for _, fv := range catalog {
		if _, ok := seen[fv.Family]; ok {
			continue
		}
		seen[fv.Family] = struct{}{}
		families = append(families, fv.Family)
	}
	return families
}
