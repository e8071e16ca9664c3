// Package units locates, parses and caches unit sources referenced from
// uses clauses.
package units

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/internal/lexer"
	"github.com/tpascal/go-tpc/internal/parser"
	"github.com/tpascal/go-tpc/pkg/ident"
)

// extensions are the candidate unit file extensions, tried in order.
var extensions = []string{".pas", ".pp", ".p"}

// Unit is a parsed unit plus the path it was loaded from.
type Unit struct {
	AST  *ast.Unit
	Name string
	Path string
}

// Registry finds and caches units. Duplicate loads are idempotent.
type Registry struct {
	cache       *ident.Map[*Unit]
	searchPaths []string
}

// DefaultSearchPaths returns the fixed lookup list: the current directory,
// ./units, the parent directory, and ../units.
func DefaultSearchPaths() []string {
	return []string{".", "./units", "..", "../units"}
}

// NewRegistry creates a registry over the given search paths. A nil or empty
// list falls back to DefaultSearchPaths.
func NewRegistry(searchPaths []string) *Registry {
	if len(searchPaths) == 0 {
		searchPaths = DefaultSearchPaths()
	}
	return &Registry{
		searchPaths: searchPaths,
		cache:       ident.NewMap[*Unit](),
	}
}

// SearchPaths returns the registry's search path list.
func (r *Registry) SearchPaths() []string {
	return r.searchPaths
}

// Get returns a previously loaded unit.
func (r *Registry) Get(name string) (*Unit, bool) {
	return r.cache.Get(name)
}

// Load finds name on the search path, parses it, and caches the result.
// A second Load of the same name returns the cached unit.
func (r *Registry) Load(name string) (*Unit, error) {
	if unit, ok := r.cache.Get(name); ok {
		return unit, nil
	}

	path, err := r.find(name)
	if err != nil {
		return nil, err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unit '%s': %w", name, err)
	}

	p := parser.New(lexer.New(string(source)))
	unitAST := p.ParseUnit()
	if p.HasErrors() {
		first := p.Errors()[0]
		return nil, fmt.Errorf("unit '%s' (%s): %d parse error(s), first: %s",
			name, path, len(p.Errors()), first.Error())
	}

	unit := &Unit{Name: name, Path: path, AST: unitAST}
	r.cache.Set(name, unit)
	return unit, nil
}

// find searches every directory and extension for a file whose stem matches
// name case-insensitively.
func (r *Registry) find(name string) (string, error) {
	for _, dir := range r.searchPaths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			base := entry.Name()
			ext := strings.ToLower(filepath.Ext(base))
			stem := strings.TrimSuffix(base, filepath.Ext(base))
			if !ident.Equal(stem, name) {
				continue
			}
			for _, candidate := range extensions {
				if ext == candidate {
					return filepath.Join(dir, base), nil
				}
			}
		}
	}
	return "", fmt.Errorf("unit '%s' not found on search path %v", name, r.searchPaths)
}
