package tasklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

func TestEntryMatchesNegation(t *testing.T) {
	entry := Entry{Filters: []string{"!optedOut"}}
	assert.True(t, entry.Matches(NewFilterSet()))
	assert.True(t, entry.Matches(NewFilterSet("eligible")))
	assert.False(t, entry.Matches(NewFilterSet("optedOut")))
}

func TestEntryMatchesAll(t *testing.T) {
	entry := Entry{Filters: []string{"eligible", "caToRo", "!bassReferralNeeded"}}
	assert.True(t, entry.Matches(NewFilterSet("eligible", "caToRo", "caToRo")))
	assert.False(t, entry.Matches(NewFilterSet("eligible")))
	assert.False(t, entry.Matches(NewFilterSet("eligible", "caToRo", "bassReferralNeeded")))
	assert.True(t, Entry{}.Matches(NewFilterSet()))
}

func TestCatalogPreservesOrder(t *testing.T) {
	catalog := Catalog{
		{Task: "c", Filters: []string{"x"}},
		{Task: "a"},
		{Task: "skipped", Filters: []string{"!x"}},
		{Task: "b", Filters: []string{"x"}},
	}
	entries := catalog.Entries(Context{}, NewFilterSet("x"))
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Task)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}

func TestFiltersIncludeAllowedTransition(t *testing.T) {
	status := workflow.Classify(nil, models.StageEligibility)
	set := Filters(status, workflow.VersionInfo{}, "caToRo")
	assert.True(t, set.Has("caToRo"))
	assert.True(t, set.Has(FilterOptOutUnstarted))
	assert.False(t, set.Has(FilterEligible))
	assert.False(t, set.Has(""))

	assert.False(t, Filters(status, workflow.VersionInfo{}, "").Has(""))
}

func TestFiltersVersion(t *testing.T) {
	status := workflow.Classify(nil, models.StageUnstarted)
	set := Filters(status, workflow.VersionInfo{ApprovedVersionDetails: &models.ApprovedVersion{}, IsNewVersion: true}, "")
	assert.Equal(t, []string{FilterIsNewVersion, FilterLicenceUnstarted, FilterLicenceVersionExists, FilterOptOutUnstarted}, set.Names())
}

func TestSwappedCatalogsAndComputedValues(t *testing.T) {
	sources := map[string]Source{
		"custom": Catalog{
			{Title: Literal("Static"), Label: Computed(func(ctx Context) string { return "v" + ctx.Version })},
			{Title: Literal("Hidden"), Filters: []string{"eligible"}},
			{Title: Literal("Nested"), Action: &ActionSpec{Type: Literal("link"), Href: Computed(func(ctx Context) string { return "/x/" + ctx.ApprovedVersion })}},
			{Title: Literal("Whole"), Action: ComputedAction(func(ctx Context) *Action { return &Action{Type: "btn", Text: ctx.Version} })},
		},
		CatalogVary:       Catalog{},
		CatalogNoTaskList: Catalog{},
	}
	engine, err := NewEngine([]Selector{{Catalog: "custom", Role: models.RoleCA}}, sources)
	require.NoError(t, err)

	list := engine.Build(models.RoleCA, false, workflow.Classify(nil, models.StageDecided), workflow.VersionInfo{Version: "2.0", ApprovedVersion: "1.0"}, "")
	require.Len(t, list.Tasks, 3)
	assert.Equal(t, "v2.0", list.Tasks[0].Label)
	assert.Equal(t, "/x/1.0", list.Tasks[1].Action.Href)
	assert.Equal(t, &Action{Type: "btn", Text: "2.0"}, list.Tasks[2].Action)
}

func TestBuilderSource(t *testing.T) {
	sources := map[string]Source{
		"builder": BuilderFunc(func(ctx Context, filters FilterSet) []Entry {
			if filters.Has("caToRo") {
				return []Entry{{Task: "send"}}
			}
			return []Entry{{Task: "wait"}}
		}),
		CatalogVary:       Catalog{},
		CatalogNoTaskList: Catalog{},
	}
	engine, err := NewEngine([]Selector{{Catalog: "builder", Role: models.RoleCA}}, sources)
	require.NoError(t, err)
	list := engine.Build(models.RoleCA, false, workflow.Classify(nil, models.StageEligibility), workflow.VersionInfo{}, "caToRo")
	assert.Equal(t, "send", list.Tasks[0].Task)
}

func TestNewEngineRejectsUnknownCatalog(t *testing.T) {
	_, err := NewEngine([]Selector{{Catalog: "missing", Role: models.RoleCA}}, map[string]Source{
		CatalogVary:       Catalog{},
		CatalogNoTaskList: Catalog{},
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsConfiguration(err))

	_, err = NewEngine(nil, map[string]Source{CatalogVary: Catalog{}})
	assert.True(t, appErrors.IsConfiguration(err))
}
