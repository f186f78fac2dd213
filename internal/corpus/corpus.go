// Package corpus loads the group catalog and its category table from YAML.
package corpus

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/groupmatch/internal/domain/group"
	"github.com/kailas-cloud/groupmatch/internal/domain/search/category"
)

//go:embed groups.yaml
var embedded []byte

// Catalog is the immutable search input: groups plus the category table.
type Catalog struct {
	Groups     group.Corpus
	Categories category.Table
}

type fileGroup struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Cadence     string   `yaml:"cadence"`
}

type file struct {
	Categories map[string][]string `yaml:"categories"`
	Groups     []fileGroup         `yaml:"groups"`
}

// Default returns the embedded catalog.
func Default() (Catalog, error) {
	return Parse(embedded)
}

// LoadFile reads a catalog from path. An empty path returns the embedded catalog.
func LoadFile(path string) (Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Catalog{}, fmt.Errorf("read corpus %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a catalog. Unknown fields are rejected. Without a categories section
// the built-in table is used.
func Parse(data []byte) (Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Catalog{}, fmt.Errorf("parse corpus: %w", err)
	}

	groups := make([]group.Group, 0, len(f.Groups))
	for i, g := range f.Groups {
		gr, err := group.New(g.ID, g.Name, g.Description, g.Tags, g.Cadence)
		if err != nil {
			return Catalog{}, fmt.Errorf("group #%d: %w", i, err)
		}
		groups = append(groups, gr)
	}
	corpus, err := group.NewCorpus(groups)
	if err != nil {
		return Catalog{}, fmt.Errorf("corpus: %w", err)
	}

	table := category.Default()
	if len(f.Categories) > 0 {
		if table, err = category.NewTable(f.Categories); err != nil {
			return Catalog{}, fmt.Errorf("categories: %w", err)
		}
	}

	return Catalog{Groups: corpus, Categories: table}, nil
}
