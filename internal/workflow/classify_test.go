package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
)

func TestClassifyEmptyLicence(t *testing.T) {
	for _, licence := range []models.Licence{nil, models.Licence(`{}`), models.Licence(`not json`), models.Licence(`[]`)} {
		status := Classify(licence, models.StageEligibility)
		require.NotNil(t, status.Decisions)
		assert.False(t, status.Decisions.Eligible)
		for topic, state := range status.Tasks {
			assert.Equal(t, Unstarted, state, topic)
		}
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	licence := models.Licence(`{"eligibility":{"excluded":{"decision":"No"},"crdTime":{"decision":"No"},"suitability":{"decision":"No"}},"proposedAddress":{"optOut":{"decision":"No"}}}`)
	before := string(licence)
	first := Classify(licence, models.StageEligibility)
	second := Classify(licence, models.StageEligibility)
	assert.Equal(t, first, second)
	assert.Equal(t, before, string(licence))
}

func TestClassifyExcludedShortCircuits(t *testing.T) {
	licence := models.Licence(`{"eligibility":{"excluded":{"decision":"Yes"},"suitability":{"decision":"Yes"}}}`)
	status := Classify(licence, models.StageEligibility)
	assert.True(t, status.Decisions.Excluded)
	assert.False(t, status.Decisions.Eligible)
	assert.Equal(t, Done, status.Tasks[TaskEligibility])
	assert.Equal(t, Started, status.Tasks[TaskSuitability])
}

func TestClassifyEligibility(t *testing.T) {
	cases := []struct {
		name        string
		licence     string
		eligibility TaskState
		eligible    bool
		check       func(t *testing.T, d *Decisions)
	}{
		{
			name:        "all answered no",
			licence:     `{"eligibility":{"excluded":{"decision":"No"},"crdTime":{"decision":"No"},"suitability":{"decision":"No"}}}`,
			eligibility: Done,
			eligible:    true,
		},
		{
			name:        "partially answered",
			licence:     `{"eligibility":{"excluded":{"decision":"No"}}}`,
			eligibility: Started,
			eligible:    false,
		},
		{
			name:        "insufficient time awaiting dm",
			licence:     `{"eligibility":{"excluded":{"decision":"No"},"crdTime":{"decision":"Yes"},"suitability":{"decision":"No"}}}`,
			eligibility: Started,
			eligible:    false,
			check: func(t *testing.T, d *Decisions) {
				assert.True(t, d.InsufficientTime)
				assert.False(t, d.InsufficientTimeStop)
			},
		},
		{
			name:        "insufficient time continue",
			licence:     `{"eligibility":{"excluded":{"decision":"No"},"crdTime":{"decision":"Yes","dmApproval":"Yes"},"suitability":{"decision":"No"}}}`,
			eligibility: Done,
			eligible:    true,
			check: func(t *testing.T, d *Decisions) {
				assert.True(t, d.InsufficientTimeContinue)
			},
		},
		{
			name:        "insufficient time stop",
			licence:     `{"eligibility":{"crdTime":{"decision":"Yes","dmApproval":"No"}}}`,
			eligibility: Done,
			eligible:    false,
			check: func(t *testing.T, d *Decisions) {
				assert.True(t, d.InsufficientTimeStop)
			},
		},
		{
			name:        "unsuitable without exceptional circumstances",
			licence:     `{"eligibility":{"excluded":{"decision":"No"},"suitability":{"decision":"Yes"},"exceptionalCircumstances":{"decision":"No"}}}`,
			eligibility: Done,
			eligible:    false,
			check: func(t *testing.T, d *Decisions) {
				assert.True(t, d.UnsuitableResult)
			},
		},
		{
			name:        "unsuitable with exceptional circumstances",
			licence:     `{"eligibility":{"excluded":{"decision":"No"},"crdTime":{"decision":"No"},"suitability":{"decision":"Yes"},"exceptionalCircumstances":{"decision":"Yes"}}}`,
			eligibility: Done,
			eligible:    true,
			check: func(t *testing.T, d *Decisions) {
				assert.True(t, d.ExceptionalCircumstances)
				assert.False(t, d.UnsuitableResult)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status := Classify(models.Licence(tc.licence), models.StageEligibility)
			assert.Equal(t, tc.eligibility, status.Tasks[TaskEligibility])
			assert.Equal(t, tc.eligible, status.Decisions.Eligible)
			if tc.check != nil {
				tc.check(t, status.Decisions)
			}
		})
	}
}

func TestClassifyConditionalRequirement(t *testing.T) {
	started := Classify(models.Licence(`{"risk":{"riskManagement":{"planningActions":"No","awaitingInformation":"No","proposedAddressSuitable":"No"}}}`), models.StageProcessingRO)
	assert.Equal(t, Started, started.Tasks[TaskRiskManagement])
	assert.True(t, started.Decisions.AddressUnsuitable)
	assert.True(t, started.Decisions.CurfewAddressRejected)

	done := Classify(models.Licence(`{"risk":{"riskManagement":{"planningActions":"No","awaitingInformation":"No","proposedAddressSuitable":"Yes"}}}`), models.StageProcessingRO)
	assert.Equal(t, Done, done.Tasks[TaskRiskManagement])
}

func TestClassifyCurfewHours(t *testing.T) {
	allDays := Classify(models.Licence(`{"curfew":{"curfewHours":{"daySpecificInputs":"No","allFrom":"19:00","allUntil":"07:00"}}}`), models.StageProcessingRO)
	assert.Equal(t, Done, allDays.Tasks[TaskCurfewHours])

	perDay := Classify(models.Licence(`{"curfew":{"curfewHours":{"daySpecificInputs":"Yes","mondayFrom":"19:00"}}}`), models.StageProcessingRO)
	assert.Equal(t, Started, perDay.Tasks[TaskCurfewHours])
}

func TestClassifyCurfewAddressReview(t *testing.T) {
	status := Classify(models.Licence(`{
		"curfew":{"curfewAddressReview":{"consent":"Yes","electricity":"Yes","homeVisitConducted":"No"}},
		"risk":{"riskManagement":{"planningActions":"No","awaitingInformation":"No","proposedAddressSuitable":"Yes"}}
	}`), models.StageProcessingRO)
	assert.Equal(t, Done, status.Tasks[TaskCurfewAddressReview])
	assert.True(t, status.Decisions.CurfewAddressApproved)
	assert.False(t, status.Decisions.CurfewAddressRejected)

	failed := Classify(models.Licence(`{"curfew":{"curfewAddressReview":{"consent":"No"}}}`), models.StageProcessingRO)
	assert.Equal(t, Done, failed.Tasks[TaskCurfewAddressReview])
	assert.True(t, failed.Decisions.AddressReviewFailed)
	assert.True(t, failed.Decisions.CurfewAddressRejected)
}

func TestClassifyBass(t *testing.T) {
	base := `"proposedAddress":{"addressProposed":{"decision":"No"}},"bassReferral":{"bassRequest":{"bassRequested":"Yes","specificArea":"No"},"bassAreaCheck":{"bassAreaSuitable":"Yes"}`

	t.Run("checks done", func(t *testing.T) {
		status := Classify(models.Licence(`{`+base+`}}`), models.StageProcessingCA)
		assert.True(t, status.Decisions.BassReferralNeeded)
		assert.True(t, status.Decisions.BassChecksDone)
		assert.False(t, status.Decisions.BassOfferMade)
	})

	t.Run("offer made", func(t *testing.T) {
		status := Classify(models.Licence(`{`+base+`,"bassOffer":{"bassAccepted":"Yes","addressLine1":"1 Street","addressTown":"Town","postCode":"AB1 2CD"}}}`), models.StageProcessingCA)
		assert.True(t, status.Decisions.BassOfferMade)
	})

	t.Run("offer unavailable excludes", func(t *testing.T) {
		status := Classify(models.Licence(`{`+base+`,"bassOffer":{"bassAccepted":"Unavailable"}}}`), models.StageProcessingCA)
		assert.Equal(t, Done, status.Tasks[TaskBassOffer])
		assert.True(t, status.Decisions.BassExcluded)
		assert.False(t, status.Decisions.BassChecksDone)
		assert.False(t, status.Decisions.BassOfferMade)
	})

	t.Run("withdrawn", func(t *testing.T) {
		status := Classify(models.Licence(`{
			"proposedAddress":{"addressProposed":{"decision":"No"}},
			"bassReferral":{"bassRequest":{"bassRequested":"Yes"}},
			"bassRejections":[{"bassRequest":{"bassRequested":"Yes"},"withdrawal":"offer"}]
		}`), models.StageProcessingCA)
		assert.True(t, status.Decisions.BassWithdrawn)
		assert.Equal(t, "offer", status.Decisions.BassWithdrawalReason)
		assert.False(t, status.Decisions.BassChecksDone)
	})

	t.Run("not needed when address proposed", func(t *testing.T) {
		status := Classify(models.Licence(`{"proposedAddress":{"addressProposed":{"decision":"Yes"}},"bassReferral":{"bassRequest":{"bassRequested":"Yes"}}}`), models.StageEligibility)
		assert.False(t, status.Decisions.BassReferralNeeded)
	})
}

func TestClassifyFinalChecksAndApproval(t *testing.T) {
	status := Classify(models.Licence(`{
		"finalChecks":{"seriousOffence":{"decision":"No"},"onRemand":{"decision":"No"},"confiscationOrder":{"decision":"No"},"postpone":{"decision":"Yes"}},
		"approval":{"release":{"decision":"No"}}
	}`), models.StageDecided)
	assert.Equal(t, Done, status.Tasks[TaskFinalChecks])
	assert.True(t, status.Decisions.FinalChecksPass)
	assert.True(t, status.Decisions.Postponed)
	assert.Equal(t, Started, status.Tasks[TaskApproval])
	assert.True(t, status.Decisions.DmRefused)
	assert.True(t, status.Decisions.Refused)
}

func TestClassifyLicenceConditions(t *testing.T) {
	status := Classify(models.Licence(`{"licenceConditions":{"standard":{"additionalConditionsRequired":"Yes"},"additional":{"NOCONTACTPRISONER":{}},"bespoke":[{"id":"a","text":"x"}]}}`), models.StageProcessingRO)
	assert.Equal(t, Done, status.Tasks[TaskLicenceConditions])
	assert.Equal(t, 1, status.Decisions.AdditionalConditions)
	assert.Equal(t, 1, status.Decisions.BespokeConditions)

	pending := Classify(models.Licence(`{"licenceConditions":{"standard":{"additionalConditionsRequired":"Yes"}}}`), models.StageProcessingRO)
	assert.Equal(t, Started, pending.Tasks[TaskLicenceConditions])
}

func TestVersionInfoFor(t *testing.T) {
	assert.True(t, VersionInfoFor(nil).IsNewVersion)

	record := models.NewLicenceRecord(&models.LicenceRow{BookingID: 1, Version: 2, VaryVersion: 0}, &models.ApprovedVersion{Version: 1, VaryVersion: 0, Template: "hdc_ap"})
	info := VersionInfoFor(record)
	assert.True(t, info.IsNewVersion)
	assert.Equal(t, "1.0", info.ApprovedVersion)
	assert.Equal(t, "hdc_ap", info.LastTemplate)

	same := models.NewLicenceRecord(&models.LicenceRow{BookingID: 1, Version: 1, VaryVersion: 0}, &models.ApprovedVersion{Version: 1})
	assert.False(t, VersionInfoFor(same).IsNewVersion)
}
