// Package tasklist turns a classified licence into the ordered, decorated task list each role sees.
package tasklist

import (
	"fmt"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

// Catalog names with special selection rules.
const (
	CatalogVary       = "vary"
	CatalogNoTaskList = "noTaskList"
	CatalogDM         = "dmTasks"
)

// TaskList is the rendered task list and the catalog it came from.
type TaskList struct {
	Catalog string `json:"catalog"`
	Tasks   []Task `json:"tasks"`
}

// Engine selects catalogs and renders task lists. It is immutable once built.
type Engine struct {
	selectors []Selector
	sources   map[string]Source
}

// NewEngine validates that every selector and the vary/noTaskList fallbacks resolve to a source.
func NewEngine(selectors []Selector, sources map[string]Source) (*Engine, error) {
	for _, required := range []string{CatalogVary, CatalogNoTaskList} {
		if _, ok := sources[required]; !ok {
			return nil, appErrors.Clone(appErrors.ErrUnknownCatalog, fmt.Sprintf("missing required catalog %q", required))
		}
	}
	for _, selector := range selectors {
		if _, ok := sources[selector.Catalog]; !ok {
			return nil, appErrors.Clone(appErrors.ErrUnknownCatalog, fmt.Sprintf("selector for role %s names unknown catalog %q", selector.Role, selector.Catalog))
		}
	}
	copied := make(map[string]Source, len(sources))
	for name, source := range sources {
		copied[name] = source
	}
	return &Engine{selectors: append([]Selector(nil), selectors...), sources: copied}, nil
}

// Select returns the catalog name for a role and stage. Post-release cases always use the vary
// catalog; when nothing matches the no-task-list catalog is used.
func (e *Engine) Select(role models.UserRole, stage models.Stage, postRelease bool) string {
	if postRelease {
		return CatalogVary
	}
	for _, selector := range e.selectors {
		if selector.matches(role, stage) {
			return selector.Catalog
		}
	}
	return CatalogNoTaskList
}

// Build renders the task list for a role. It never fails: an entry whose filters cannot hold for the
// role and stage simply does not render.
func (e *Engine) Build(role models.UserRole, postRelease bool, status workflow.LicenceStatus, version workflow.VersionInfo, allowedTransition string) TaskList {
	name := e.Select(role, status.Stage, postRelease)
	source := e.sources[name]

	ctx := Context{
		ApprovedVersion:        version.ApprovedVersion,
		Version:                version.Version,
		ApprovedVersionDetails: version.ApprovedVersionDetails,
		Tasks:                  status.Tasks,
	}
	if status.Decisions != nil {
		ctx.Decisions = *status.Decisions
	}

	entries := source.Entries(ctx, Filters(status, version, allowedTransition))
	tasks := make([]Task, 0, len(entries))
	for _, entry := range entries {
		tasks = append(tasks, entry.decorate(ctx))
	}
	return TaskList{Catalog: name, Tasks: tasks}
}
