package genre

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed genres.yaml
var defaultGenres []byte

// Genre is a catalog genre identifier and its display name.
type Genre struct {
	ID   int    `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Catalog is an immutable id -> name mapping.
type Catalog struct {
	byID   map[int]string
	sorted []Genre
}

type document struct {
	Genres []Genre `yaml:"genres"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultGenres)
	if err != nil {
		panic(fmt.Sprintf("genre: embedded catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from path, or returns the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genres file: %w", err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse genres file %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML document with a top-level "genres" list.
func Parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if len(doc.Genres) == 0 {
		return nil, errors.New("no genres defined")
	}

	c := &Catalog{byID: make(map[int]string, len(doc.Genres))}
	for _, g := range doc.Genres {
		name := strings.TrimSpace(g.Name)
		if g.ID <= 0 || name == "" {
			return nil, fmt.Errorf("invalid genre entry %+v", g)
		}
		if _, dup := c.byID[g.ID]; dup {
			return nil, fmt.Errorf("duplicate genre id %d", g.ID)
		}
		c.byID[g.ID] = name
		c.sorted = append(c.sorted, Genre{ID: g.ID, Name: name})
	}
	sort.Slice(c.sorted, func(i, j int) bool { return c.sorted[i].Name < c.sorted[j].Name })
	return c, nil
}

// Has reports whether id is a known genre.
func (c *Catalog) Has(id int) bool {
	_, ok := c.byID[id]
	return ok
}

// Name returns the display name for id.
func (c *Catalog) Name(id int) (string, bool) {
	name, ok := c.byID[id]
	return name, ok
}

// All returns every genre sorted by name.
func (c *Catalog) All() []Genre {
	out := make([]Genre, len(c.sorted))
	copy(out, c.sorted)
	return out
}
