// Package catalog builds list of installed font faces, the input variant
// resolution works with.
package catalog

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/image/font/sfnt"

	"fontswap/archive"
	"fontswap/fonts"
)

// MaxFontSize limits size of a single font file scanner is willing to load.
const MaxFontSize = 64 << 20

var (
	collectionMagic = []byte("ttcf")
	fontExtensions  = []string{".ttf", ".otf", ".ttc", ".otc"}
)

// Scanner reads name records of font files found in files, directories and
// zip archives.
type Scanner struct {
	log *zap.Logger
}

func NewScanner(log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{log: log.Named("catalog")}
}

// Scan is a shortcut for NewScanner(log).Scan(ctx, paths).
func Scan(ctx context.Context, paths []string, log *zap.Logger) ([]fonts.FontVariant, error) {
	return NewScanner(log).Scan(ctx, paths)
}

// Scan returns faces found under paths in walk order. Files which are not
// fonts, or fonts which cannot be parsed, are skipped. Error accumulates
// problems with paths themselves, faces found in other paths are returned
// regardless.
func (s *Scanner) Scan(ctx context.Context, paths []string) ([]fonts.FontVariant, error) {
	var (
		result []fonts.FontVariant
		errs   error
	)
	for _, root := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		found, err := s.scanPath(ctx, root)
		result = append(result, found...)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return result, err
			}
			errs = multierr.Append(errs, fmt.Errorf("unable to scan %s: %w", root, err))
		}
	}
	return result, errs
}

func (s *Scanner) scanPath(ctx context.Context, root string) ([]fonts.FontVariant, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return s.scanFile(ctx, root)
	}

	var result []fonts.FontVariant
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.log.Debug("Skipping inaccessible path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		found, err := s.scanFile(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Debug("Skipping file", zap.String("path", path), zap.Error(err))
			return nil
		}
		result = append(result, found...)
		return nil
	})
	return result, err
}

// scanFile detects file type by its header and either reads font names or
// walks zip archive.
func (s *Scanner) scanFile(ctx context.Context, path string) ([]fonts.FontVariant, error) {
	head, err := readHead(path)
	if err != nil {
		return nil, err
	}

	switch {
	case isFont(head):
		data, err := readLimited(path)
		if err != nil {
			return nil, err
		}
		return s.parse(path, data)
	case filetype.Is(head, "zip"):
		return s.scanArchive(ctx, path)
	default:
		return nil, nil
	}
}

func (s *Scanner) scanArchive(ctx context.Context, path string) ([]fonts.FontVariant, error) {
	var result []fonts.FontVariant
	err := archive.Walk(ctx, path, archive.Ext(fontExtensions...), func(arc string, f *zip.File) error {
		data, err := archive.ReadFile(f, MaxFontSize)
		if err != nil {
			s.log.Debug("Skipping archive member", zap.String("archive", arc), zap.String("name", f.Name), zap.Error(err))
			return nil
		}
		if !isFont(data) {
			return nil
		}
		found, err := s.parse(arc+"/"+f.Name, data)
		if err != nil {
			s.log.Debug("Skipping archive member", zap.String("archive", arc), zap.String("name", f.Name), zap.Error(err))
			return nil
		}
		result = append(result, found...)
		return nil
	})
	return result, err
}

// parse reads faces from single font or font collection.
func (s *Scanner) parse(name string, data []byte) ([]fonts.FontVariant, error) {
	var faces []*sfnt.Font
	if bytes.HasPrefix(data, collectionMagic) {
		c, err := sfnt.ParseCollection(data)
		if err != nil {
			return nil, err
		}
		for i := range c.NumFonts() {
			f, err := c.Font(i)
			if err != nil {
				return nil, fmt.Errorf("collection face %d: %w", i, err)
			}
			faces = append(faces, f)
		}
	} else {
		f, err := sfnt.Parse(data)
		if err != nil {
			return nil, err
		}
		faces = append(faces, f)
	}

	var (
		buf    sfnt.Buffer
		result = make([]fonts.FontVariant, 0, len(faces))
	)
	for _, f := range faces {
		fv, err := variantOf(f, &buf)
		if err != nil {
			return nil, err
		}
		s.log.Debug("Font face found", zap.String("file", name), zap.String("family", fv.Family), zap.String("style", fv.Style))
		result = append(result, fv)
	}
	return result, nil
}

// variantOf reads family, full name and style from name table, preferring
// typographic names which are not limited to four styles per family.
func variantOf(f *sfnt.Font, buf *sfnt.Buffer) (fonts.FontVariant, error) {
	family, err := name(f, buf, sfnt.NameIDTypographicFamily, sfnt.NameIDFamily)
	if err != nil {
		return fonts.FontVariant{}, fmt.Errorf("family name: %w", err)
	}
	style, err := name(f, buf, sfnt.NameIDTypographicSubfamily, sfnt.NameIDSubfamily)
	if err != nil && !errors.Is(err, sfnt.ErrNotFound) {
		return fonts.FontVariant{}, fmt.Errorf("style name: %w", err)
	}
	full, err := name(f, buf, sfnt.NameIDFull)
	if err != nil {
		if !errors.Is(err, sfnt.ErrNotFound) {
			return fonts.FontVariant{}, fmt.Errorf("full name: %w", err)
		}
		full = strings.TrimSpace(family + " " + style)
	}
	return fonts.FontVariant{Family: family, FullName: full, Style: style}, nil
}

// name returns first non empty name record among ids.
func name(f *sfnt.Font, buf *sfnt.Buffer, ids ...sfnt.NameID) (string, error) {
	for _, id := range ids {
		v, err := f.Name(buf, id)
		if err != nil {
			if errors.Is(err, sfnt.ErrNotFound) {
				continue
			}
			return "", err
		}
		if v = strings.TrimSpace(v); v != "" {
			return v, nil
		}
	}
	return "", sfnt.ErrNotFound
}

func isFont(head []byte) bool {
	return filetype.Is(head, "ttf") || filetype.Is(head, "otf") || bytes.HasPrefix(head, collectionMagic)
}

// readHead returns first bytes of the file, enough for type detection.
func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return head[:n], nil
}

func readLimited(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFontSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxFontSize {
		return nil, fmt.Errorf("font file is too large")
	}
	return data, nil
}
