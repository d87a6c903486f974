package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return ParseYAML(defaultYAML)
})

// Default returns the built-in Health / Financial / Relationships catalog.
func Default() (*Catalog, error) {
	return loadDefault()
}

// MustDefault is like Default but panics if the embedded catalog is invalid.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

type fileCatalog struct {
	Pillars []filePillar `yaml:"pillars"`
}

type filePillar struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Categories []fileCategory `yaml:"categories"`
}

type fileCategory struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Questions []fileQuestion `yaml:"questions"`
}

type fileQuestion struct {
	ID      string       `yaml:"id"`
	Text    string       `yaml:"text"`
	Options []fileOption `yaml:"options,omitempty"`
}

// fileOption accepts either a bare number or a {value, label} mapping.
type fileOption Option

func (o *fileOption) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v int
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("line %d: option %q is not an integer", node.Line, node.Value)
		}
		*o = fileOption{Value: v}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Value *int   `yaml:"value"`
			Label string `yaml:"label"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if raw.Value == nil {
			return fmt.Errorf("line %d: option is missing a value", node.Line)
		}
		*o = fileOption{Value: *raw.Value, Label: raw.Label}
		return nil
	default:
		return fmt.Errorf("line %d: option must be a number or a {value, label} mapping", node.Line)
	}
}

// ParseYAML decodes a catalog document and validates it with New.
func ParseYAML(data []byte) (*Catalog, error) {
	var doc fileCatalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidCatalog, err)
	}

	pillars := make([]Pillar, len(doc.Pillars))
	for pi, p := range doc.Pillars {
		pillars[pi] = Pillar{ID: strings.TrimSpace(p.ID), Name: p.Name, Categories: make([]Category, len(p.Categories))}
		for ci, c := range p.Categories {
			cat := Category{ID: strings.TrimSpace(c.ID), Name: c.Name, Questions: make([]Question, len(c.Questions))}
			for qi, q := range c.Questions {
				question := Question{ID: strings.TrimSpace(q.ID), Text: q.Text}
				for _, o := range q.Options {
					question.Options = append(question.Options, Option(o))
				}
				cat.Questions[qi] = question
			}
			pillars[pi].Categories[ci] = cat
		}
	}

	return New(pillars)
}

// LoadYAML reads a catalog file from disk.
func LoadYAML(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load returns the catalog at path, or the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	return LoadYAML(path)
}
