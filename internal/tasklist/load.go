package tasklist

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

//go:embed catalogs.yaml
var embeddedCatalogs []byte

type catalogFile struct {
	Selectors []Selector         `yaml:"selectors"`
	Catalogs  map[string]Catalog `yaml:"catalogs"`
}

// Load parses a YAML catalog definition, binds computed fields against fns and adds the procedural
// builders. A builder and a declarative catalog may not share a name.
func Load(data []byte, fns Functions, builders map[string]Source) (*Engine, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse task list catalogs: %w", err)
	}

	sources := make(map[string]Source, len(file.Catalogs)+len(builders))
	for name, catalog := range file.Catalogs {
		for i := range catalog {
			if err := catalog[i].bind(fns); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrUnknownCatalog.Code, appErrors.ErrUnknownCatalog.Status,
					fmt.Sprintf("catalog %s entry %d", name, i))
			}
		}
		sources[name] = catalog
	}
	for name, builder := range builders {
		if _, exists := sources[name]; exists {
			return nil, appErrors.Clone(appErrors.ErrUnknownCatalog, fmt.Sprintf("catalog %q is defined twice", name))
		}
		sources[name] = builder
	}
	return NewEngine(file.Selectors, sources)
}

// DefaultBuilders returns the procedural catalog sources.
func DefaultBuilders() map[string]Source {
	return map[string]Source{CatalogDM: BuilderFunc(dmTasks)}
}

// Default builds the engine from the embedded catalogs.
func Default() (*Engine, error) {
	return Load(embeddedCatalogs, DefaultFunctions(), DefaultBuilders())
}

// LoadFile builds the engine from a catalog file on disk, falling back to the embedded catalogs when
// path is empty.
func LoadFile(path string) (*Engine, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task list catalogs: %w", err)
	}
	return Load(data, DefaultFunctions(), DefaultBuilders())
}
