package fonts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cascadiaCatalog() []FontVariant {
	return []FontVariant{
		{Family: "Arial", FullName: "Arial", Style: "Regular"},
		{Family: "Cascadia Code", FullName: "Cascadia Code Regular", Style: "Regular"},
		{Family: "Cascadia Code", FullName: "Cascadia Code Bold", Style: "Bold"},
		{Family: "Arial", FullName: "Arial Bold", Style: "Bold"},
		{Family: "Cascadia Code", FullName: "Cascadia Code Italic", Style: "Italic"},
		{Family: "Cascadia Code", FullName: "Cascadia Code Bold Italic", Style: "Bold Italic"},
	}
}

func TestResolve(t *testing.T) {
	locals, err := Resolve("Cascadia Code", cascadiaCatalog())
	require.NoError(t, err)
	require.Len(t, locals, 4)

	assert.Equal(t, []Variant{
		{FullName: "Cascadia Code Regular", Weight: 400, Style: StyleNormal},
		{FullName: "Cascadia Code Bold", Weight: 700, Style: StyleNormal},
		{FullName: "Cascadia Code Italic", Weight: 400, Style: StyleItalic},
		{FullName: "Cascadia Code Bold Italic", Weight: 700, Style: StyleItalic},
	}, locals)
}

func TestResolve_TargetNotFound(t *testing.T) {
	_, err := Resolve("Fira Code", cascadiaCatalog())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTargetNotFound)

	var tnf *TargetNotFoundError
	require.True(t, errors.As(err, &tnf))
	assert.Equal(t, "Fira Code", tnf.Family)
	assert.Contains(t, err.Error(), "Fira Code")
}

func TestResolve_CaseSensitive(t *testing.T) {
	_, err := Resolve("cascadia code", cascadiaCatalog())
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestResolve_EmptyCatalog(t *testing.T) {
	_, err := Resolve("Arial", nil)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestResolve_SkipsUnparseable(t *testing.T) {
	catalog := []FontVariant{
		{Family: "Iosevka", FullName: "Iosevka Oblique", Style: "Oblique"},
		{Family: "Iosevka", FullName: "Iosevka Bold", Style: "Bold"},
		{Family: "Iosevka", FullName: "Iosevka Extended", Style: "Extended"},
	}
	locals, err := Resolve("Iosevka", catalog)
	require.NoError(t, err)
	assert.Equal(t, []Variant{{FullName: "Iosevka Bold", Weight: 700, Style: StyleNormal}}, locals)
}

func TestResolve_AllUnparseable(t *testing.T) {
	catalog := []FontVariant{{Family: "Odd", FullName: "Odd Wide", Style: "Wide"}}
	locals, err := Resolve("Odd", catalog)
	require.NoError(t, err)
	assert.Empty(t, locals)
}

func TestFamilies(t *testing.T) {
	assert.Equal(t, []string{"Arial", "Cascadia Code"}, Families(cascadiaCatalog()))
	assert.Empty(t, Families(nil))
}
