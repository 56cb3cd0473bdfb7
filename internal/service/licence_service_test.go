package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/forms"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/document"
	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

type licenceFixture struct {
	store    *licenceStoreStub
	audit    *auditStub
	notifier *notifierStub
	cache    *cacheRepoStub
	svc      *LicenceService
}

func newLicenceFixture(t *testing.T) *licenceFixture {
	t.Helper()
	f := &licenceFixture{
		store:    newLicenceStoreStub(),
		audit:    &auditStub{},
		notifier: &notifierStub{},
		cache:    newCacheRepoStub(),
	}
	metrics := NewMetricsService()
	f.svc = NewLicenceService(f.store, newFormValidator(t), nil,
		WithLicenceAudit(f.audit),
		WithLicenceCache(NewCacheService(f.cache, metrics, 0, nil, true)),
		WithLicenceMetrics(metrics),
		WithHandoverNotifier(f.notifier),
	)
	return f
}

func TestLicenceServiceGetMissingReturnsNil(t *testing.T) {
	f := newLicenceFixture(t)

	record, err := f.svc.Get(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestLicenceServiceGetCombinesApprovedVersion(t *testing.T) {
	f := newLicenceFixture(t)
	f.store.put(1, models.StageDecided, `{}`)
	f.store.approved[1] = &models.ApprovedVersion{BookingID: 1, Version: 1, VaryVersion: 0, Template: "hdc_ap"}

	record, err := f.svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "1.0", record.Version)
	assert.Equal(t, "1.0", record.ApprovedVersion)
}

func TestLicenceServiceCreate(t *testing.T) {
	f := newLicenceFixture(t)

	record, err := f.svc.Create(context.Background(), caActor, 1, models.Licence(`{"eligibility":{}}`), "")
	require.NoError(t, err)
	assert.Equal(t, models.StageEligibility, record.Stage)
	assert.Equal(t, "1.0", record.Version)
	assert.Equal(t, []string{models.AuditActionCreateLicence}, f.audit.actions())

	_, err = f.svc.Create(context.Background(), caActor, 1, nil, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLicenceServiceCreateVaryStartsVaryVersion(t *testing.T) {
	f := newLicenceFixture(t)

	record, err := f.svc.Create(context.Background(), caActor, 2, nil, models.StageVary)
	require.NoError(t, err)
	assert.Equal(t, "1.1", record.Version)

	_, err = f.svc.Create(context.Background(), caActor, 3, nil, "SOMEWHERE")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLicenceServiceUpdateStoresAnswers(t *testing.T) {
	f := newLicenceFixture(t)
	f.store.put(1, models.StageEligibility, `{}`)

	result, err := f.svc.Update(context.Background(), caActor, UpdateRequest{
		BookingID: 1, Section: "eligibility", Form: "excluded",
		Input: map[string]interface{}{"decision": "No", "reason": []interface{}{"ignored"}},
	})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, models.StageEligibility, result.Stage)
	assert.Equal(t, "No", document.Str(f.store.rows[1].Licence, "eligibility", "excluded", "decision"))
	assert.False(t, document.Has(f.store.rows[1].Licence, "eligibility", "excluded", "reason"))
	assert.Equal(t, []string{models.AuditActionUpdateSection}, f.audit.actions())
	assert.Equal(t, []string{caseListPattern}, f.cache.invalidated)
}

func TestLicenceServiceUpdateUnchangedIsNoop(t *testing.T) {
	f := newLicenceFixture(t)
	f.store.put(1, models.StageDecided, `{"eligibility":{"excluded":{"decision":"No"}}}`)

	result, err := f.svc.Update(context.Background(), caActor, UpdateRequest{
		BookingID: 1, Section: "eligibility", Form: "excluded", Input: map[string]interface{}{"decision": "No"},
	})
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, models.StageDecided, result.Stage)
	assert.Zero(t, f.store.updates)
	assert.Empty(t, f.store.stages)
	assert.Empty(t, f.audit.logs)
}

func TestLicenceServiceUpdateMovesDecidedLicence(t *testing.T) {
	cases := []struct {
		name    string
		section string
		form    string
		input   map[string]interface{}
		want    models.Stage
	}{
		{"plain edit", "eligibility", "excluded", map[string]interface{}{"decision": "Yes", "reason": []interface{}{"sexOffender"}}, models.StageModified},
		{"edit needing approval", "curfew", "curfewHours", map[string]interface{}{"daySpecificInputs": "No", "allFrom": "19:00", "allUntil": "07:00"}, models.StageModifiedApproval},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newLicenceFixture(t)
			f.store.put(1, models.StageDecided, `{}`)

			result, err := f.svc.Update(context.Background(), caActor, UpdateRequest{BookingID: 1, Section: tc.section, Form: tc.form, Input: tc.input})
			require.NoError(t, err)
			require.Empty(t, result.Errors)
			assert.Equal(t, tc.want, result.Stage)
			assert.Equal(t, []models.Stage{tc.want}, f.store.stages)
		})
	}
}

func TestLicenceServiceUpdateTemplateNeverModifies(t *testing.T) {
	f := newLicenceFixture(t)
	f.store.put(1, models.StageDecided, `{}`)

	result, saved, err := f.svc.UpdateLicenceTemplate(context.Background(), caActor, 1, map[string]interface{}{"decision": "hdc_ap"}, false)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, models.StageDecided, result.Stage)
	assert.Empty(t, f.store.stages)
	assert.Equal(t, []string{"hdc_ap"}, f.store.savedTemplates)

	_, saved, err = f.svc.UpdateLicenceTemplate(context.Background(), caActor, 1, map[string]interface{}{"decision": "hdc_ap"}, false)
	require.NoError(t, err)
	assert.False(t, saved, "same template and version must not save again")

	_, saved, err = f.svc.UpdateLicenceTemplate(context.Background(), caActor, 1, map[string]interface{}{"decision": "hdc_yn"}, false)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, []string{"hdc_ap", "hdc_yn"}, f.store.savedTemplates)
}

func TestLicenceServiceUpdateValidatesOnSave(t *testing.T) {
	f := newLicenceFixture(t)
	f.store.put(1, models.StageProcessingRO, `{}`)

	result, err := f.svc.Update(context.Background(), caActor, UpdateRequest{
		BookingID: 1, Section: "curfew", Form: "curfewHours",
		Input: map[string]interface{}{"daySpecificInputs": "No", "allFrom": "25:99"},
	})
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Contains(t, result.Errors, "allFrom")
	assert.Contains(t, result.Errors, "allUntil")
	assert.Zero(t, f.store.updates)
}

func TestLicenceServiceUpdateErrors(t *testing.T) {
	f := newLicenceFixture(t)

	_, err := f.svc.Update(context.Background(), caActor, UpdateRequest{BookingID: 1, Section: "nope", Form: "nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownForm.Code, appErrors.FromError(err).Code)

	_, err = f.svc.Update(context.Background(), caActor, UpdateRequest{BookingID: 1, Section: "eligibility", Form: "excluded"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	f.store.put(1, models.StageEligibility, `{}`)
	f.store.updateErr = errors.New("connection reset")
	_, err = f.svc.Update(context.Background(), caActor, UpdateRequest{
		BookingID: 1, Section: "eligibility", Form: "excluded", Input: map[string]interface{}{"decision": "No"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestLicenceServiceMarkForHandover(t *testing.T) {
	f := newLicenceFixture(t)
	f.store.put(1, models.StageEligibility, `{}`)

	result, err := f.svc.MarkForHandover(context.Background(), caActor, 1, workflow.TransitionCaToRo)
	require.NoError(t, err)
	assert.Equal(t, models.StageEligibility, result.From)
	assert.Equal(t, models.StageProcessingRO, result.To)
	assert.Equal(t, models.StageProcessingRO, f.store.rows[1].Stage)
	assert.Equal(t, []string{models.AuditActionSend}, f.audit.actions())
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, models.RoleRO, f.notifier.events[0].Transition.Receiver)
	assert.Equal(t, "ca.user", f.notifier.events[0].Sender)
	assert.EqualValues(t, 1, f.svc.metrics.Snapshot().Handovers)
}

func TestLicenceServiceMarkForHandoverNotifyFailureIsNotFatal(t *testing.T) {
	f := newLicenceFixture(t)
	f.store.put(1, models.StageProcessingRO, `{}`)
	f.notifier.err = errors.New("queue full")

	_, err := f.svc.MarkForHandover(context.Background(), Actor{Username: "ro", Role: models.RoleRO}, 1, workflow.TransitionRoToCa)
	require.NoError(t, err)
	assert.Equal(t, models.StageProcessingCA, f.store.rows[1].Stage)
}

func TestLicenceServiceMarkForHandoverRejects(t *testing.T) {
	f := newLicenceFixture(t)
	f.store.put(1, models.StageEligibility, `{}`)

	_, err := f.svc.MarkForHandover(context.Background(), caActor, 1, "caToNowhere")
	require.Error(t, err)
	assert.True(t, appErrors.IsConfiguration(err))

	_, err = f.svc.MarkForHandover(context.Background(), Actor{Username: "ro", Role: models.RoleRO}, 1, workflow.TransitionCaToRo)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = f.svc.MarkForHandover(context.Background(), caActor, 99, workflow.TransitionCaToRo)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, f.store.stages)
	assert.Empty(t, f.notifier.events)
}

func TestLicenceServiceRemoveDecision(t *testing.T) {
	f := newLicenceFixture(t)
	f.store.put(1, models.StageDecided, `{"approval":{"release":{"decision":"Yes"}},"curfew":{}}`)

	updated, err := f.svc.RemoveDecision(context.Background(), caActor, 1)
	require.NoError(t, err)
	assert.False(t, document.Has(updated, "approval"))
	assert.True(t, document.Get(f.store.rows[1].Licence, "curfew").Exists())
}

func TestLicenceServiceChangesSinceApproval(t *testing.T) {
	f := newLicenceFixture(t)
	f.store.put(1, models.StageModified, `{"curfew":{"firstNight":{"firstNightFrom":"16:00"}}}`)

	_, err := f.svc.ChangesSinceApproval(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	f.store.approved[1] = &models.ApprovedVersion{Version: 1, Licence: models.Licence(`{"curfew":{"firstNight":{"firstNightFrom":"15:00"}}}`)}
	diff, err := f.svc.ChangesSinceApproval(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, diff, "approved v1.0")
	assert.Contains(t, diff, `-      "firstNightFrom": "15:00"`)
	assert.Contains(t, diff, `+      "firstNightFrom": "16:00"`)
}

func TestLicenceServiceValidateGroup(t *testing.T) {
	f := newLicenceFixture(t)
	f.store.put(1, models.StageEligibility, `{}`)

	errs, group, err := f.svc.ValidateGroup(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, forms.GroupEligibility, group)
	assert.Contains(t, errs, "proposedAddress")

	_, _, err = f.svc.ValidateGroup(context.Background(), 1, "NO_SUCH_GROUP")
	require.Error(t, err)
	assert.True(t, appErrors.IsConfiguration(err))
}

func TestLicenceServiceValidateForm(t *testing.T) {
	f := newLicenceFixture(t)

	errs, err := f.svc.ValidateForm("eligibility", "excluded", map[string]interface{}{"decision": "Yes"})
	require.NoError(t, err)
	assert.Equal(t, "Select one or more reasons", errs["reason"])
}

func TestLicenceServiceReset(t *testing.T) {
	f := newLicenceFixture(t)
	f.store.put(1, models.StageEligibility, `{}`)

	require.NoError(t, f.svc.Reset(context.Background(), Actor{Username: "admin", Role: models.RoleAdmin}))
	assert.True(t, f.store.deleted)
	assert.Equal(t, []string{models.AuditActionReset}, f.audit.actions())

	f.store.deleteErr = errors.New("boom")
	err := f.svc.Reset(context.Background(), Actor{Username: "admin", Role: models.RoleAdmin})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestLicenceServiceAuditFailureIsNotFatal(t *testing.T) {
	f := newLicenceFixture(t)
	f.audit.err = errors.New("audit table locked")

	_, err := f.svc.Create(context.Background(), caActor, 5, nil, "")
	require.NoError(t, err)
}
