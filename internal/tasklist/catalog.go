package tasklist

import (
	"strings"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
)

// Context is what computed fields are evaluated against.
type Context struct {
	ApprovedVersion        string
	Version                string
	ApprovedVersionDetails *models.ApprovedVersion
	Decisions              workflow.Decisions
	Tasks                  workflow.Tasks
}

// Entry is one candidate task in a catalog. Named tasks (Task set) are rendered by the caller;
// otherwise Title, Label and Action are decorated against the context.
type Entry struct {
	Task    string      `yaml:"task"`
	Title   Value       `yaml:"title"`
	Label   Value       `yaml:"label"`
	Action  *ActionSpec `yaml:"action"`
	Filters []string    `yaml:"filters"`
}

// Matches reports whether every filter passes: a bare name must be in the set, a "!" prefixed name
// must not be.
func (e Entry) Matches(filters FilterSet) bool {
	for _, filter := range e.Filters {
		if name, negated := strings.CutPrefix(filter, "!"); negated {
			if filters.Has(name) {
				return false
			}
			continue
		}
		if !filters.Has(filter) {
			return false
		}
	}
	return true
}

func (e *Entry) bind(fns Functions) error {
	for _, field := range []*Value{&e.Title, &e.Label} {
		if err := field.bind(fns); err != nil {
			return err
		}
	}
	if e.Action != nil {
		return e.Action.bind(fns)
	}
	return nil
}

// Task is a rendered task-list entry.
type Task struct {
	Task   string  `json:"task,omitempty"`
	Title  string  `json:"title,omitempty"`
	Label  string  `json:"label,omitempty"`
	Action *Action `json:"action,omitempty"`
}

func (e Entry) decorate(ctx Context) Task {
	return Task{
		Task:   e.Task,
		Title:  e.Title.Resolve(ctx),
		Label:  e.Label.Resolve(ctx),
		Action: e.Action.Resolve(ctx),
	}
}

// Source produces the entries of one catalog for a licence.
type Source interface {
	Entries(ctx Context, filters FilterSet) []Entry
}

// Catalog is a declarative, ordered filter table.
type Catalog []Entry

// Entries keeps matching entries in declaration order.
func (c Catalog) Entries(_ Context, filters FilterSet) []Entry {
	out := make([]Entry, 0, len(c))
	for _, entry := range c {
		if entry.Matches(filters) {
			out = append(out, entry)
		}
	}
	return out
}

// BuilderFunc is a procedural catalog source.
type BuilderFunc func(ctx Context, filters FilterSet) []Entry

// Entries calls the builder.
func (f BuilderFunc) Entries(ctx Context, filters FilterSet) []Entry {
	return f(ctx, filters)
}

// Selector picks a catalog by role and stage. An empty Stages list matches any stage.
type Selector struct {
	Catalog string          `yaml:"catalog"`
	Role    models.UserRole `yaml:"role"`
	Stages  []models.Stage  `yaml:"stages"`
}

func (s Selector) matches(role models.UserRole, stage models.Stage) bool {
	if s.Role != role {
		return false
	}
	if len(s.Stages) == 0 {
		return true
	}
	for _, candidate := range s.Stages {
		if candidate == stage {
			return true
		}
	}
	return false
}
