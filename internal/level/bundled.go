package level

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no level matches an id or name.
var ErrNotFound = errors.New("level not found")

// bundledFS embeds the levels shipped with the binary.
//
//go:embed bundled/*.json
var bundledFS embed.FS

// Load reads and unmarshals a JSON file from fsys.
func Load[T any](fsys fs.FS, filename string) (T, error) {
	var result T

	content, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return result, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON from %s: %w", filename, err)
	}

	return result, nil
}

// LoadBundled returns every embedded level, sorted by name.
func LoadBundled() ([]*Level, error) {
	names, err := fs.Glob(bundledFS, "bundled/*.json")
	if err != nil {
		return nil, err
	}
	levels := make([]*Level, 0, len(names))
	for _, name := range names {
		l, err := Load[Level](bundledFS, name)
		if err != nil {
			return nil, err
		}
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(name), err)
		}
		levels = append(levels, &l)
	}
	sortByName(levels)
	return levels, nil
}

// MustLoadBundled is LoadBundled that panics on error. The embedded levels
// must always parse.
func MustLoadBundled() []*Level {
	levels, err := LoadBundled()
	if err != nil {
		panic(err)
	}
	return levels
}

func sortByName(levels []*Level) {
	slices.SortFunc(levels, func(a, b *Level) int {
		return strings.Compare(strings.ToLower(a.LevelName), strings.ToLower(b.LevelName))
	})
}

// Registry holds loaded levels and provides lookup by id or name.
type Registry struct {
	byID map[uuid.UUID]*Level
	all  []*Level
}

// NewRegistry creates a registry from loaded levels. Later levels with a
// duplicate id replace earlier ones.
func NewRegistry(levels ...[]*Level) *Registry {
	r := &Registry{byID: make(map[uuid.UUID]*Level)}
	for _, set := range levels {
		for _, l := range set {
			if _, ok := r.byID[l.ID]; ok {
				i := slices.IndexFunc(r.all, func(x *Level) bool { return x.ID == l.ID })
				r.all[i] = l
			} else {
				r.all = append(r.all, l)
			}
			r.byID[l.ID] = l
		}
	}
	sortByName(r.all)
	return r
}

// GetByID returns the level with the given id, or nil if not found.
func (r *Registry) GetByID(id uuid.UUID) *Level {
	return r.byID[id]
}

// GetByName returns the first level whose name matches case-insensitively.
func (r *Registry) GetByName(name string) *Level {
	for _, l := range r.all {
		if strings.EqualFold(l.LevelName, name) {
			return l
		}
	}
	return nil
}

// Find resolves a level by id, then by name.
func (r *Registry) Find(idOrName string) (*Level, error) {
	if id, err := uuid.Parse(idOrName); err == nil {
		if l := r.GetByID(id); l != nil {
			return l, nil
		}
	}
	if l := r.GetByName(idOrName); l != nil {
		return l, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, idOrName)
}

// All returns every level sorted by name.
func (r *Registry) All() []*Level {
	return slices.Clone(r.all)
}

// Count returns the number of levels in the registry.
func (r *Registry) Count() int {
	return len(r.all)
}
