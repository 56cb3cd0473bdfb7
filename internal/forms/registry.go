package forms

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

//go:embed forms.yaml
var embeddedForms []byte

// Form is the field map for one licence form. Its answers are stored at licence[Section][Name].
type Form struct {
	Section                      string  `yaml:"-"`
	Name                         string  `yaml:"-"`
	Fields                       []Field `yaml:"fields"`
	ModificationRequiresApproval bool    `yaml:"modificationRequiresApproval"`
	NoModify                     bool    `yaml:"noModify"`
	MissingMessage               string  `yaml:"missingMessage"`
	// Validate rejects invalid answers when the form is saved.
	Validate                     bool    `yaml:"validate"`
}

// FlatInput reports whether the form writes each field to its own licence position rather than
// storing its answers under licence[Section][Name].
func (f *Form) FlatInput() bool {
	for _, field := range f.Fields {
		if len(field.LicencePosition) > 0 {
			return true
		}
	}
	return false
}

// ModificationOptions returns the stage rule flags for edits through this form.
func (f *Form) ModificationOptions() workflow.ModificationOptions {
	return workflow.ModificationOptions{RequiresApproval: f.ModificationRequiresApproval, NoModify: f.NoModify}
}

// Registry holds every form keyed by section and form name. It is read-only after loading.
type Registry struct {
	sections map[string]map[string]*Form
}

// LoadRegistry parses a YAML map of section -> form -> definition.
func LoadRegistry(data []byte) (*Registry, error) {
	var raw map[string]map[string]*Form
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse forms: %w", err)
	}
	for section, forms := range raw {
		for name, form := range forms {
			if form == nil {
				return nil, fmt.Errorf("form %s.%s has no definition", section, name)
			}
			form.Section = section
			form.Name = name
		}
	}
	return &Registry{sections: raw}, nil
}

// DefaultRegistry loads the embedded forms.
func DefaultRegistry() (*Registry, error) {
	return LoadRegistry(embeddedForms)
}

// LoadRegistryFile loads forms from disk, falling back to the embedded forms when path is empty.
func LoadRegistryFile(path string) (*Registry, error) {
	if path == "" {
		return DefaultRegistry()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read forms: %w", err)
	}
	return LoadRegistry(data)
}

// Form returns the form definition for section and name.
func (r *Registry) Form(section, name string) (*Form, error) {
	if form, ok := r.sections[section][name]; ok {
		return form, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnknownForm, fmt.Sprintf("unknown form %s/%s", section, name))
}

// Sections lists the configured section names in order.
func (r *Registry) Sections() []string {
	out := make([]string, 0, len(r.sections))
	for section := range r.sections {
		out = append(out, section)
	}
	sort.Strings(out)
	return out
}
