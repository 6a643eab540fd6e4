package seed

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yml
var defaultCategories []byte

// CategoryFixture is one category entry of a fixture file.
type CategoryFixture struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type fixtureFile struct {
	Categories []CategoryFixture `yaml:"categories"`
}

// DecodeCategories reads a fixture document. Titles are trimmed and entries
// without a title or with a comma in the title are rejected.
func DecodeCategories(r io.Reader) ([]CategoryFixture, error) {
	var f fixtureFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode category fixtures: %w", err)
	}

	seen := make(map[string]bool, len(f.Categories))
	out := make([]CategoryFixture, 0, len(f.Categories))
	for i, c := range f.Categories {
		c.Title = strings.TrimSpace(c.Title)
		c.Description = strings.TrimSpace(c.Description)
		switch {
		case c.Title == "":
			return nil, fmt.Errorf("category %d: title is required", i)
		case strings.Contains(c.Title, ","):
			return nil, fmt.Errorf("category %q: title cannot contain a comma", c.Title)
		}
		key := strings.ToLower(c.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out, nil
}

// LoadCategories reads fixtures from path, or the built-in set when path
// is empty.
func LoadCategories(path string) ([]CategoryFixture, error) {
	if path == "" {
		return DecodeCategories(strings.NewReader(string(defaultCategories)))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open category fixtures: %w", err)
	}
	defer func() { _ = f.Close() }()
	return DecodeCategories(f)
}
