package units

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mathUtilsSource = `
unit MathUtils;
interface
function Square(x: integer): integer;
implementation
function Square(x: integer): integer;
begin
  Square := x * x
end;
end.`

func writeUnit(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestDefaultSearchPaths(t *testing.T) {
	paths := DefaultSearchPaths()
	assert.Equal(t, []string{".", "./units", "..", "../units"}, paths)

	r := NewRegistry(nil)
	assert.Equal(t, paths, r.SearchPaths())
}

func TestLoadFindsAndParsesUnit(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "mathutils.pas", mathUtilsSource)

	r := NewRegistry([]string{dir})
	unit, err := r.Load("MathUtils")
	require.NoError(t, err)
	assert.Equal(t, "MathUtils", unit.Name)
	assert.Equal(t, "MathUtils", unit.AST.Name.Value)
	require.Len(t, unit.AST.InterfaceDecls, 1)
	require.Len(t, unit.AST.ImplDecls, 1)
}

func TestLoadIsCaseInsensitiveOnStem(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "MATHUTILS.PAS", mathUtilsSource)

	r := NewRegistry([]string{dir})
	_, err := r.Load("mathutils")
	require.NoError(t, err)
}

func TestLoadTriesAlternateExtensions(t *testing.T) {
	for _, ext := range []string{".pas", ".pp", ".p"} {
		t.Run(ext, func(t *testing.T) {
			dir := t.TempDir()
			writeUnit(t, dir, "mathutils"+ext, mathUtilsSource)

			r := NewRegistry([]string{dir})
			_, err := r.Load("MathUtils")
			require.NoError(t, err)
		})
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeUnit(t, dir, "mathutils.pas", mathUtilsSource)

	r := NewRegistry([]string{dir})
	first, err := r.Load("MathUtils")
	require.NoError(t, err)

	// Remove the file: the second load must come from the cache.
	require.NoError(t, os.Remove(path))
	second, err := r.Load("mathutils")
	require.NoError(t, err)
	assert.Same(t, first, second)

	cached, ok := r.Get("MATHUTILS")
	require.True(t, ok)
	assert.Same(t, first, cached)
}

func TestLoadSearchesPathsInOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeUnit(t, second, "mathutils.pas", mathUtilsSource)

	r := NewRegistry([]string{first, second})
	unit, err := r.Load("MathUtils")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(second, "mathutils.pas"), unit.Path)
}

func TestLoadNotFound(t *testing.T) {
	r := NewRegistry([]string{t.TempDir()})
	_, err := r.Load("NoSuchUnit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found on search path")
}

func TestLoadPromotesParseErrors(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "broken.pas", "unit Broken; interface var x integer; implementation end.")

	r := NewRegistry([]string{dir})
	_, err := r.Load("Broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse error")

	// A failed load is not cached.
	_, ok := r.Get("Broken")
	assert.False(t, ok)
}
