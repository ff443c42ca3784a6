package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	yaml "gopkg.in/yaml.v3"

	"fontswap/config"
	"fontswap/fonts"
)

// ErrAccessDenied is returned by Query when enumerating installed fonts is
// not permitted.
var ErrAccessDenied = errors.New("access to installed fonts is denied")

// LoadSnapshot reads previously captured catalog: list of {family, fullName,
// style} records in JSON or YAML.
func LoadSnapshot(path string) ([]fonts.FontVariant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read catalog snapshot: %w", err)
	}
	if data, _, err = transform.Bytes(unicode.UTF8BOM.NewDecoder(), data); err != nil {
		return nil, fmt.Errorf("unable to decode catalog snapshot: %w", err)
	}

	var list []fonts.FontVariant
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("unable to parse catalog snapshot (%s): %w", path, err)
	}
	for i, fv := range list {
		if fv.Family == "" {
			return nil, fmt.Errorf("catalog snapshot (%s): record %d has no family", path, i)
		}
	}
	return list, nil
}

// Query returns catalog of installed fonts as configured: snapshot records
// first, then faces found in sources. When neither snapshot nor sources are
// configured system font directories are scanned. Identical records are
// listed once.
func Query(ctx context.Context, cfg *config.CatalogConfig, extra []string, log *zap.Logger) ([]fonts.FontVariant, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Granted() {
		return nil, ErrAccessDenied
	}

	var list []fonts.FontVariant
	if cfg.Snapshot != "" {
		snapshot, err := LoadSnapshot(cfg.Snapshot)
		if err != nil {
			return nil, err
		}
		log.Debug("Catalog snapshot loaded", zap.String("path", cfg.Snapshot), zap.Int("faces", len(snapshot)))
		list = append(list, snapshot...)
	}

	sources := append(append([]string{}, cfg.Sources...), extra...)
	if len(sources) == 0 && cfg.Snapshot == "" {
		sources = config.FontDirs()
		log.Debug("Scanning system font directories", zap.Strings("dirs", sources))
	}

	scanned, err := Scan(ctx, sources, log)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("Some font sources could not be scanned", zap.Error(err))
	}
	list = append(list, scanned...)

	return dedup(list), nil
}

func dedup(list []fonts.FontVariant) []fonts.FontVariant {
	seen := make(map[fonts.FontVariant]struct{}, len(list))
	out := make([]fonts.FontVariant, 0, len(list))
	for _, fv := range list {
		if _, ok := seen[fv]; ok {
			continue
		}
		seen[fv] = struct{}{}
		out = append(out, fv)
	}
	return out
}
